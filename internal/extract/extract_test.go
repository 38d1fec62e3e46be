package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/taxonomy"
)

var fixedNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	tax, err := taxonomy.Default()
	require.NoError(t, err)

	return New(tax, WithClock(func() time.Time { return fixedNow }))
}

func TestSkills(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	tests := []struct {
		name string
		text string
		want map[string][]string
	}{
		{
			name: "ascii tokens respect word edges",
			text: "Python and Docker, google docs",
			want: map[string][]string{
				"programming":  {"python"},
				"cloud_devops": {"docker"},
			},
		},
		{
			name: "taxonomy order",
			text: "Go and Python",
			want: map[string][]string{
				"programming": {"python", "go"},
			},
		},
		{
			name: "thai variant",
			text: "เขียนไพธอนได้คล่อง",
			want: map[string][]string{
				"programming": {"python"},
			},
		},
		{
			name: "nothing",
			text: "",
			want: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.Skills(tt.text)
			assert.Equal(t, tt.want, got)
			for category, tokens := range got {
				assert.NotEmpty(t, tokens, category)
			}
		})
	}
}

func TestContainsToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, token string
		want        bool
	}{
		{"google", "go", false},
		{"go developer", "go", true},
		{"(go)", "go", true},
		{"node.js dev", "node.js", true},
		{"เขียนไพธอนได้", "ไพธอน", true},
		{"c++ dev", "c++", true},
		{"abc++", "c++", false},
		{"go go", "go", true},
		{"gogo go", "go", true},
		{"", "go", false},
		{"go", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsToken(tt.text, tt.token), "%q in %q", tt.token, tt.text)
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	tests := []struct {
		name, start, end, want string
	}{
		{"buddhist era until present", "มกราคม 2563", "ปัจจุบัน", "6 ปี 9 เดือน"},
		{"gregorian years", "มีนาคม 2020", "มีนาคม 2021", "1 ปี"},
		{"abbreviated months", "ม.ค. 2565", "มิ.ย. 2565", "5 เดือน"},
		{"english present", "ตุลาคม 2569", "Present", "0 เดือน"},
		{"reversed range", "มกราคม 2565", "มกราคม 2563", profile.DurationUnknown},
		{"implausible year", "มกราคม 1800", "ปัจจุบัน", profile.DurationUnknown},
		{"garbage", "sometime", "later", profile.DurationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, e.Duration(tt.start, tt.end))
		})
	}
}

func TestWorkExperience(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	text := "ประวัติการทำงาน\n" +
		"มกราคม 2563 - ปัจจุบัน ตำแหน่ง: Software Engineer เงินเดือน 45,000\n" +
		"มีนาคม 2565 - มกราคม 2563 ตำแหน่ง: Tester"

	got := e.WorkExperience(text)
	require.Len(t, got, 1)
	assert.Equal(t, profile.WorkEntry{
		Position:  "Software Engineer",
		StartDate: "มกราคม 2563",
		EndDate:   "ปัจจุบัน",
		Duration:  "6 ปี 9 เดือน",
		Salary:    45000,
	}, got[0])
}

func TestSalaryExpectation(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	tests := []struct {
		name string
		text string
		want *profile.SalaryRange
	}{
		{"thai range", "เงินเดือนที่ต้องการ 30,000 - 40,000 บาท", &profile.SalaryRange{Min: 30000, Max: 40000}},
		{"single value", "เงินเดือนที่ต้องการ: 28,000 บาท", &profile.SalaryRange{Min: 28000, Max: 28000}},
		{"below the floor", "เงินเดือนที่ต้องการ 500 บาท", nil},
		{"no salary", "ไม่มีข้อมูล", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, e.SalaryExpectation(tt.text))
		})
	}
}

func TestExpectedSalary(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	got := e.ExpectedSalary("เงินเดือนที่ต้องการ 25,000 - 35,000 บาท")
	require.NotNil(t, got)
	assert.Equal(t, profile.ExpectedSalary{
		Min:       25000,
		Max:       35000,
		RangeText: "25,000 - 35,000 บาท",
		Period:    profile.PeriodMonthly,
	}, *got)

	hourly := e.ExpectedSalary("Expected salary: 150 per hour")
	require.NotNil(t, hourly)
	assert.Equal(t, profile.PeriodHourly, hourly.Period)
	assert.Equal(t, 150, hourly.Min)

	assert.Nil(t, e.ExpectedSalary("Expected salary: 5,000"))
}

func TestEducation(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	t.Run("gpa and honor", func(t *testing.T) {
		t.Parallel()

		got := e.Education("ปริญญาตรี สาขาวิศวกรรมคอมพิวเตอร์ เกรดเฉลี่ย 3.52 เกียรตินิยมอันดับ 2")
		require.Len(t, got, 1)
		assert.Equal(t, profile.DegreeBachelor, got[0].Degree)
		assert.Equal(t, "วิศวกรรมคอมพิวเตอร์", got[0].Field)
		require.NotNil(t, got[0].GPA)
		assert.InDelta(t, 3.52, *got[0].GPA, 1e-9)
		assert.Equal(t, "เกียรตินิยมอันดับ 2", got[0].Honor)
	})

	t.Run("gpa out of bounds is dropped", func(t *testing.T) {
		t.Parallel()

		got := e.Education("ปริญญาโท สาขาวิทยาการคอมพิวเตอร์ GPA 4.50")
		require.Len(t, got, 1)
		assert.Equal(t, "วิทยาการคอมพิวเตอร์", got[0].Field)
		assert.Nil(t, got[0].GPA)
	})

	t.Run("highest degree first", func(t *testing.T) {
		t.Parallel()

		got := e.Education("ปริญญาตรี สาขาบัญชีบัณฑิต\nปริญญาโท สาขาบริหารธุรกิจ")
		require.Len(t, got, 2)
		assert.Equal(t, profile.DegreeMaster, got[0].Degree)
		assert.Equal(t, "บริหารธุรกิจ", got[0].Field)
		assert.Equal(t, profile.DegreeBachelor, got[1].Degree)
	})
}

func TestCleanField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"วิศวกรรมคอมพิวเตอร์ เกรดเฉลี่ย 3.20", "วิศวกรรมคอมพิวเตอร์"},
		{"การตลาด 2560 - 2564", "การตลาด"},
		{"บัญชี ตำแหน่ง: พนักงานบัญชี เงินเดือน 20,000", "บัญชี"},
		{"  Computer   Science  ", "Computer Science"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanField(tt.in), tt.in)
	}
}

func TestContactAndPersonal(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	text := "ชื่อ สมชาย นามสกุล ใจดี\n" +
		"อายุ 28 ปี เพศ ชาย สถานภาพ โสด\n" +
		"อีเมล: somchai@example.com\n" +
		"โทร: 081-234-5678\n" +
		"ที่อยู่: 99/1 ถนนพหลโยธิน จังหวัดเชียงใหม่ 50200"

	c := e.Contact(text)
	assert.Equal(t, "สมชาย ใจดี", c.Name)
	assert.Equal(t, "somchai@example.com", c.Email)
	assert.Equal(t, []string{"0812345678"}, c.Phones)
	assert.Equal(t, "99/1 ถนนพหลโยธิน จังหวัดเชียงใหม่ 50200", c.Address)
	assert.Equal(t, "เชียงใหม่", c.Province)
	assert.Equal(t, "50200", c.Zip)

	p := e.Personal(text)
	assert.Equal(t, profile.Personal{Age: 28, Gender: "ชาย", MaritalStatus: "โสด"}, p)

	assert.Zero(t, e.Personal("อายุ 95 ปี").Age)
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	t.Run("table with test score", func(t *testing.T) {
		t.Parallel()

		text := "ความสามารถทางภาษา\nไทย ดีมาก ดีมาก ดีมาก\nอังกฤษ ดี พอใช้ ดี\nTOEIC 820"
		got := e.Languages(text)
		require.Len(t, got, 2)

		assert.Equal(t, profile.LanguageThai, got[0].Language)
		assert.Equal(t, profile.LevelFluent, got[0].Level)
		assert.Nil(t, got[0].TestScore)

		assert.Equal(t, profile.LanguageEnglish, got[1].Language)
		assert.Equal(t, "พอใช้", got[1].Reading)
		assert.Equal(t, profile.LevelFluent, got[1].Level)
		assert.Equal(t, &profile.TestScore{Test: profile.TestTOEIC, Score: 820}, got[1].TestScore)
	})

	t.Run("keyword level without test", func(t *testing.T) {
		t.Parallel()

		got := e.Languages("ความสามารถทางภาษา\nอังกฤษ ดี พอใช้ ดี")
		require.Len(t, got, 1)
		assert.Equal(t, profile.LevelIntermediate, got[0].Level)
	})

	t.Run("test score alone", func(t *testing.T) {
		t.Parallel()

		got := e.Languages("IELTS 6.5")
		require.Len(t, got, 1)
		assert.Equal(t, profile.LanguageEnglish, got[0].Language)
		assert.Equal(t, profile.LevelIntermediate, got[0].Level)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, e.Languages("no languages here"))
	})
}

func TestSections(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	t.Run("responsibilities", func(t *testing.T) {
		t.Parallel()

		text := "หน้าที่รับผิดชอบ: 1. พัฒนาระบบ backend ด้วย Python 2. ดูแลฐานข้อมูล PostgreSQL ของบริษัท 3. สั้น\nตำแหน่ง: Developer"
		assert.Equal(t, []string{
			"พัฒนาระบบ backend ด้วย Python",
			"ดูแลฐานข้อมูล PostgreSQL ของบริษัท",
		}, e.Responsibilities(text))
	})

	t.Run("certifications", func(t *testing.T) {
		t.Parallel()

		text := "ประวัติการฝึกอบรม: หลักสูตร Docker for Developers 2566, หลักสูตร Agile Scrum Master, หลักสูตร Agile Scrum Master"
		assert.Equal(t, []profile.Certification{
			{Name: "Docker for Developers", Year: "2566"},
			{Name: "Agile Scrum Master"},
		}, e.Certifications(text))
	})

	t.Run("driving", func(t *testing.T) {
		t.Parallel()

		text := "ความสามารถในการขับขี่: รถยนต์ และ รถจักรยานยนต์\nมีรถยนต์เป็นของตัวเอง"
		assert.Equal(t, profile.DrivingSkills{
			CanDrive:    []string{"รถจักรยานยนต์", "รถยนต์"},
			OwnsVehicle: []string{"รถยนต์"},
		}, e.Driving(text))
	})

	t.Run("special abilities", func(t *testing.T) {
		t.Parallel()

		text := "ความสามารถพิเศษ: - ถ่ายภาพและตัดต่อวิดีโอ\n- พิมพ์ดีดไทย 40 คำต่อนาที\n\nอื่นๆ"
		assert.Equal(t, []string{
			"ถ่ายภาพและตัดต่อวิดีโอ",
			"พิมพ์ดีดไทย 40 คำต่อนาที",
		}, e.SpecialAbilities(text))
	})
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"thai suffix after space", "https://example.com/path สวัสดี", "https://example.com/path/", true},
		{"thai suffix glued", "https://example.com/pathสวัสดี", "https://example.com/path/", true},
		{"file keeps no slash", "https://example.com/files/resume.pdf", "https://example.com/files/resume.pdf", true},
		{"trailing punctuation", "https://github.com/somchai).", "https://github.com/somchai/", true},
		{"bare host", "https://example.com", "https://example.com/", true},
		{"query kept", "https://example.com/search?q=go", "https://example.com/search?q=go", true},
		{"not http", "ftp://example.com/file", "", false},
		{"no tld", "https://localhost/x", "", false},
		{"too long", "https://example.com/" + strings.Repeat("a", 600), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := SanitizeURL(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinks(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	text := "Portfolio: https://github.com/somchai และ https://www.linkedin.com/in/somchai/ อีกครั้ง https://github.com/somchai"

	assert.Equal(t, []string{
		"https://github.com/somchai/",
		"https://www.linkedin.com/in/somchai/",
	}, e.Links(text))

	assert.Equal(t, []profile.Link{
		{URL: "https://github.com/somchai/", Type: "github", Domain: "github.com"},
		{URL: "https://www.linkedin.com/in/somchai/", Type: "linkedin", Domain: "linkedin.com"},
	}, e.LinkDetails(text))

	assert.Equal(t, "website", ClassifyLink("https://somchai.dev/").Type)
	assert.Equal(t, "education", ClassifyLink("https://www.cmu.ac.th/").Type)
}

func TestPreferences(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	t.Run("desired position", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Python Developer Backend", e.DesiredPosition("ตำแหน่งที่สนใจ: Python Developer (Backend)"))
		assert.Empty(t, e.DesiredPosition("ตำแหน่งที่สนใจ: IT"))
	})

	t.Run("job types", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"งานประจำ (Full-time)", "ฟรีแลนซ์ (Freelance)"}, e.JobTypes("ต้องการงานประจำ หรือ freelance"))
		assert.Equal(t, []string{profile.JobTypeUnspecified}, e.JobTypes(""))
	})

	t.Run("location", func(t *testing.T) {
		t.Parallel()

		got := e.PreferredLocation("สถานที่ทำงานที่ต้องการ: กรุงเทพ เขตบางรัก หรือ นนทบุรี\nยินดี work from home")
		assert.Equal(t, []string{"กรุงเทพ", "นนทบุรี"}, got.Provinces)
		assert.Equal(t, []string{"บางรัก"}, got.Areas)
		assert.Equal(t, []string{profile.PreferenceRemote}, got.Preferences)
	})

	t.Run("start immediately", func(t *testing.T) {
		t.Parallel()

		got := e.StartDate("สามารถเริ่มงานได้: ทันที")
		require.NotNil(t, got)
		assert.Equal(t, AvailableNow, got.Availability)
		assert.Equal(t, "16/10/2026", got.Date)
	})

	t.Run("start after notice", func(t *testing.T) {
		t.Parallel()

		got := e.StartDate("สามารถเริ่มงานได้ภายใน 2 สัปดาห์")
		require.NotNil(t, got)
		assert.Equal(t, "2 สัปดาห์", got.Availability)
		assert.Equal(t, "30/10/2026", got.EstimatedDate)
	})

	t.Run("no start date", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, e.StartDate("ไม่มี"))
	})
}

func TestGuardRecoversPanic(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)

	got := guard(zap.New(core), "skills", func() map[string][]string {
		panic("boom")
	})

	assert.Nil(t, got)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "extractor failed", entry.Message)
	assert.Equal(t, "skills", entry.ContextMap()["field"])
	assert.Equal(t, "boom", entry.ContextMap()["panic"])
}
