package records

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/taxonomy"
)

const pythonJob = "ต้องการ python developer เงินเดือน 30,000 บาท ประสบการณ์ 3 ปี กรุงเทพ"

const thaiCSV = "\ufeffลำดับ,เรซูเม่ ID,คะแนน,อายุ,ตำแหน่งที่สมัคร,จังหวัด,เงินเดือน,ระดับการศึกษา,สาขา,มหาวิทยาลัย,ตำแหน่งที่เคยทำ,อัปเดตล่าสุด,ลิงก์โปรไฟล์\n" +
	"1,8946035,85%,28,\"Python Developer ,  Programmer\",กรุงเทพมหานคร,\"25,000 - 35,000\",ปริญญาตรี,วิทยาการคอมพิวเตอร์,จุฬาลงกรณ์มหาวิทยาลัย,\"Software Engineer, Tester\",16 ต.ค. 2569,\"https://www3.jobthai.com/resume/0,8946035.html\"\n" +
	"2,-,40%,35,Accountant,เชียงใหม่,ตามตกลง,ปวส,บัญชี,-,-,1 ต.ค. 2569,-\n"

const listingHTML = `<html><body><table>
<tr id="trBody_8946035"><td>
<span id="text-no1">1.</span>
<span id="resumeRankingPercent1"> 85% </span>
<span id="text-age1">28</span>
<span id="positionValue1">Python Developer ,   Programmer</span>
<span id="addressValue1">กรุงเทพมหานคร</span>
<span id="salaryValue1">25,000 - 35,000</span>
<span id="grad1LevelValue1">ปริญญาตรี</span>
<a href="/resume/0, 8946035.html">ดูโปรไฟล์</a>
</td></tr>
<tr id="headerRow"><td>ignored</td></tr>
</table></body></html>`

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()

	tax, err := taxonomy.Default()
	require.NoError(t, err)

	ext := extract.New(tax)
	engine, err := scoring.New(ext, scoring.DefaultConfig(), nil)
	require.NoError(t, err)

	return NewScorer(ext, engine, nil)
}

func TestReadCSVAndDecode(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(strings.NewReader(thaiCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	recs, skipped, err := FromRows(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "8946035", rec.ID)
	assert.Equal(t, "Python Developer, Programmer", rec.Position)
	assert.Equal(t, "กรุงเทพมหานคร", rec.Province)
	assert.Equal(t, "25,000 - 35,000", rec.Salary)
	assert.Equal(t, "ปริญญาตรี", rec.Degree)
	assert.Equal(t, "Software Engineer, Tester", rec.Experience)
	assert.Equal(t, "https://www3.jobthai.com/resume/0,8946035.html", rec.ProfileURL)
}

func TestCleanValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "25,000 - 35,000", want: "25,000 - 35,000"},
		{in: "Python Developer ,  Programmer", want: "Python Developer, Programmer"},
		{in: "Go,Python", want: "Go, Python"},
		{in: "1, 2", want: "1, 2"},
		{in: "  ", want: ""},
		{in: Placeholder, want: Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanValue(tt.in))
		})
	}
}

func TestCSVSalaryScoresAsMatch(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(strings.NewReader(thaiCSV))
	require.NoError(t, err)

	recs, _, err := FromRows(rows, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	salary, known := ParseSalary(recs[0].Salary)
	require.True(t, known)
	assert.Equal(t, profile.SalaryRange{Min: 25000, Max: 35000}, salary)

	m, err := newTestScorer(t).Score(recs[0], pythonJob)
	require.NoError(t, err)
	assert.Equal(t, StatusMatch, m.Details.Salary.Status)
	assert.Equal(t, 20.0, m.Breakdown.Salary)
}

func TestReadCSVWithoutRows(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("id,position\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Resume ID", "Desired_Position", "จังหวัด"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"42", "Tester", "ภูเก็ต"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := ReadXLSX(buf)
	require.NoError(t, err)

	recs, skipped, err := FromRows(rows, nil)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, []Record{{ID: "42", Position: "Tester", Province: "ภูเก็ต"}}, recs)
}

func TestReadJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "array", data: `[{"id": 123, "age": 30, "position": "Tester"}]`},
		{name: "wrapped", data: `{"records": [{"id": "123", "age": "30", "position": "Tester"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rows, err := ReadJSON(strings.NewReader(tt.data))
			require.NoError(t, err)

			recs, skipped, err := FromRows(rows, nil)
			require.NoError(t, err)
			assert.Zero(t, skipped)
			assert.Equal(t, []Record{{ID: "123", Age: "30", Position: "Tester"}}, recs)
		})
	}

	_, err := ReadJSON(strings.NewReader(`[]`))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestParseListing(t *testing.T) {
	t.Parallel()

	rows, err := ParseListing(strings.NewReader(listingHTML))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "8946035", row["id"])
	assert.Equal(t, "1", row["order"])
	assert.Equal(t, "85%", row["score"])
	assert.Equal(t, "Python Developer, Programmer", row["position"])
	assert.Equal(t, Placeholder, row["field"])
	assert.Equal(t, "https://www3.jobthai.com/resume/0,8946035.html", row["profile_url"])

	_, err = ParseListing(strings.NewReader("<html><body><p>empty</p></body></html>"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		row   map[string]any
		field string
	}{
		{name: "valid", row: map[string]any{"id": "1", "profile_url": "https://example.com/r/1"}},
		{name: "numeric id", row: map[string]any{"id": 7}},
		{name: "missing id", row: map[string]any{"position": "Tester"}, field: "(root)"},
		{name: "placeholder id", row: map[string]any{"id": "-"}, field: "id"},
		{name: "bad url", row: map[string]any{"id": "1", "profile_url": "not a link"}, field: "profile_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.row)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Errors)
			fields := make([]string, 0, len(ve.Errors))
			for _, e := range ve.Errors {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "resumes.csv")
	require.NoError(t, os.WriteFile(path, []byte(thaiCSV), 0o644))

	recs, skipped, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, skipped)

	_, _, err = Load(filepath.Join(dir, "resumes.txt"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw   string
		want  profile.SalaryRange
		known bool
	}{
		{raw: "15,000 - 20,000", want: profile.SalaryRange{Min: 15000, Max: 20000}, known: true},
		{raw: "25000", want: profile.SalaryRange{Min: 25000, Max: 25000}, known: true},
		{raw: "30,000 ขึ้นไป", want: profile.SalaryRange{Min: 30000, Max: math.MaxInt32}, known: true},
		{raw: "ตามตกลง", known: false},
		{raw: Placeholder, known: false},
		{raw: "", known: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseSalary(tt.raw)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScorerStrongRecord(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)

	rec := Record{
		ID:         "8946035",
		Position:   "Python Developer, Programmer",
		Province:   "กรุงเทพมหานคร",
		Salary:     "25,000 - 35,000",
		Degree:     "ปริญญาตรี",
		Field:      "วิทยาการคอมพิวเตอร์",
		Experience: "Software Engineer, Tester",
	}

	m, err := s.Score(rec, pythonJob)
	require.NoError(t, err)

	assert.Equal(t, Breakdown{Skills: 30, Position: 20, Salary: 20, Education: 9, Location: 15, Experience: 5}, m.Breakdown)
	assert.InDelta(t, 99, m.TotalScore, 0.001)
	assert.Equal(t, recommend.TierInterviewNow, m.Tier)
	assert.Equal(t, []string{"python"}, m.Details.MatchedSkills)
	assert.Equal(t, []string{"it_tech"}, m.Details.MatchedPositions)
	assert.Equal(t, StatusMatch, m.Details.Salary.Status)
	assert.Equal(t, 30000, m.Details.Salary.Expected)
	assert.True(t, m.Details.Education.FieldRelevant)
	assert.Equal(t, string(profile.DegreeBachelor), m.Details.Education.Level)
	assert.Equal(t, StatusMatch, m.Details.Location.Status)
	assert.Equal(t, StatusRelevant, m.Details.Experience.Status)
}

func TestScorerSparseRecord(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)

	m, err := s.Score(Record{ID: "1"}, pythonJob)
	require.NoError(t, err)

	assert.Equal(t, Breakdown{Salary: 10, Location: 7.5}, m.Breakdown)
	assert.InDelta(t, 17.5, m.TotalScore, 0.001)
	assert.Equal(t, recommend.TierNotRecommended, m.Tier)
	assert.Equal(t, []string{"python"}, m.Details.MissingSkills)
	assert.Equal(t, StatusUnspecified, m.Details.Salary.Status)
	assert.Equal(t, StatusUnspecified, m.Details.Location.Status)
	assert.Equal(t, StatusNone, m.Details.Experience.Status)
}

func TestScorerSalaryStatus(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)
	job, err := s.Prepare(pythonJob)
	require.NoError(t, err)

	tests := []struct {
		salary string
		status string
	}{
		{salary: "40,000 - 50,000", status: StatusAboveBudget},
		{salary: "15,000 - 20,000", status: StatusBelowOffer},
		{salary: "ตามตกลง", status: StatusUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.salary, func(t *testing.T) {
			t.Parallel()
			m := s.ScoreJob(Record{ID: "1", Salary: tt.salary}, job)
			assert.Equal(t, tt.status, m.Details.Salary.Status)
		})
	}
}

func TestScorerEmptyJob(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)

	_, err := s.Score(Record{ID: "1"}, "  ")
	assert.ErrorIs(t, err, scoring.ErrEmptyJobDescription)
}
