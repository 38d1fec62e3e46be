package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

const (
	maxResponsibilities = 5
	maxCertifications   = 8
	maxSpecialAbilities = 5
)

var (
	leadingLabel = regexp.MustCompile(`^[:\s]+`)

	responsibilityItems = regexp.MustCompile(`\d+\.|\n-|\n•`)

	certSections = []*regexp.Regexp{
		regexp.MustCompile(`ประวัติการฝึกอบรม[^\n]{0,500}`),
		regexp.MustCompile(`ประกาศนียบัตร[^\n]{0,500}`),
		regexp.MustCompile(`หลักสูตรที่ผ่าน[^\n]{0,500}`),
		regexp.MustCompile(`(?i)training[^\n]{0,500}`),
		regexp.MustCompile(`(?i)certification[^\n]{0,500}`),
	}
	certHeaders = regexp.MustCompile(`(?i)^(?:ประวัติการฝึกอบรม|หลักสูตรที่ผ่าน|training|certifications?)[:\s]*`)
	certItems   = regexp.MustCompile(`\n+|,\s*|\s+\d+\.\s+|\s+[-•*]\s+`)
	certNames   = []*regexp.Regexp{
		regexp.MustCompile(`หลักสูตร\s*([^\n,]{5,100})`),
		regexp.MustCompile(`ประกาศนียบัตร\s*([^\n,]{5,100})`),
		regexp.MustCompile(`(?i)certificat\w*\s*([^\n,]{5,100})`),
		regexp.MustCompile(`(?i)training\s*in\s*([^\n,]{5,100})`),
	}
	certYear = regexp.MustCompile(`(20\d{2}|25\d{2})`)

	languageRows = []struct {
		language string
		re       *regexp.Regexp
	}{
		{profile.LanguageThai, regexp.MustCompile(`ไทย[:\s]*(\S+)\s+(\S+)\s+(\S+)`)},
		{profile.LanguageEnglish, regexp.MustCompile(`อังกฤษ[:\s]*(\S+)\s+(\S+)\s+(\S+)`)},
		{"จีน", regexp.MustCompile(`จีน[:\s]*(\S+)\s+(\S+)\s+(\S+)`)},
		{"ญี่ปุ่น", regexp.MustCompile(`ญี่ปุ่น[:\s]*(\S+)\s+(\S+)\s+(\S+)`)},
		{"เกาหลี", regexp.MustCompile(`เกาหลี[:\s]*(\S+)\s+(\S+)\s+(\S+)`)},
	}
	testScores = []struct {
		test string
		re   *regexp.Regexp
	}{
		{profile.TestTOEIC, regexp.MustCompile(`(?i)TOEIC[:\s]*(\d+)`)},
		{profile.TestIELTS, regexp.MustCompile(`(?i)IELTS[:\s]*(\d+\.?\d*)`)},
		{profile.TestCUTEP, regexp.MustCompile(`(?i)CU-TEP[:\s]*(\d+)`)},
		{profile.TestTOEFL, regexp.MustCompile(`(?i)TOEFL[:\s]*(\d+)`)},
	}

	drivingLabels = []*regexp.Regexp{
		regexp.MustCompile(`ความสามารถในการขับขี่[:\s]*([^\n]+)`),
		regexp.MustCompile(`สามารถขับ[:\s]*([^\n]+)`),
		regexp.MustCompile(`ขับขี่ได้[:\s]*([^\n]+)`),
	}
	ownVehicleLabels = []*regexp.Regexp{
		regexp.MustCompile(`มี[:\s]*(รถ[^\n]+?)เป็นของตัวเอง`),
		regexp.MustCompile(`มี(รถ[^\n]+?)ส่วนตัว`),
	}

	specialHeader  = regexp.MustCompile(`ความสามารถพิเศษ(?:อื่น\s*ๆ)?[:\s]*`)
	projectHeader  = regexp.MustCompile(`โครงการ\s*ผลงาน\s*เกียรติประวัติ[:\s]*`)
	lineItemPrefix = regexp.MustCompile(`^(?:[-•*]|\d+\.)\s*`)
)

// sectionAfter returns the text that follows the first header match, up to
// the earliest of the stop markers.
func sectionAfter(text string, header *regexp.Regexp, stops ...string) (string, bool) {
	loc := header.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	for _, stop := range stops {
		if idx := strings.Index(rest, stop); idx >= 0 {
			rest = rest[:idx]
		}
	}
	return rest, true
}

// Responsibilities returns up to five duty descriptions.
func (e *Extractor) Responsibilities(text string) []string {
	return guard(e.logger, "responsibilities", func() []string {
		out := []string{}
		idx := strings.Index(text, "หน้าที่รับผิดชอบ")
		if idx < 0 {
			return out
		}

		section := leadingLabel.ReplaceAllString(text[idx+len("หน้าที่รับผิดชอบ"):], "")
		for _, stop := range []string{"ตำแหน่ง", "ชื่อบริษัท"} {
			if cut := strings.Index(section, stop); cut >= 0 {
				section = section[:cut]
			}
		}

		for _, item := range responsibilityItems.Split(section, -1) {
			item = strings.TrimSpace(item)
			if textnorm.RuneLen(item) <= 10 {
				continue
			}
			out = profile.AppendUnique(out, cutRunes(item, 200))
			if len(out) == maxResponsibilities {
				break
			}
		}
		return out
	})
}

// Certifications returns up to eight trainings or certificates, unique by
// name. Without a training section only explicitly named courses count.
func (e *Extractor) Certifications(text string) []profile.Certification {
	return guard(e.logger, "certifications", func() []profile.Certification {
		return e.certifications(text)
	})
}

func (e *Extractor) certifications(text string) []profile.Certification {
	var parts []string
	for _, re := range certSections {
		parts = append(parts, re.FindAllString(text, -1)...)
	}

	inSection := len(parts) > 0
	source := strings.Join(parts, "\n")
	if !inSection {
		source = text
	}

	certs := []profile.Certification{}
	for _, item := range certItems.Split(source, -1) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name := ""
		for _, re := range certNames {
			if m := re.FindStringSubmatch(item); m != nil {
				name = strings.TrimSpace(m[1])
				break
			}
		}
		if name == "" && inSection {
			candidate := strings.TrimSpace(certHeaders.ReplaceAllString(item, ""))
			if n := textnorm.RuneLen(candidate); n > 10 && n < 100 {
				name = candidate
			}
		}
		if name == "" {
			continue
		}

		if loc := certYear.FindStringIndex(name); loc != nil && loc[0] > 0 {
			name = strings.TrimSpace(name[:loc[0]])
		}
		name = textnorm.Truncate(textnorm.SingleLine(name), 80)
		if hasCertification(certs, name) {
			continue
		}

		cert := profile.Certification{Name: name}
		if m := certYear.FindString(item); m != "" {
			cert.Year = m
		}
		certs = append(certs, cert)

		if len(certs) == maxCertifications {
			break
		}
	}

	return certs
}

func hasCertification(certs []profile.Certification, name string) bool {
	for _, c := range certs {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Languages reads the language table and standardized test scores. The
// English entry is created from a test score even without a language table.
func (e *Extractor) Languages(text string) []profile.LanguageSkill {
	return guard(e.logger, "language_skills", func() []profile.LanguageSkill {
		return e.languages(text)
	})
}

func (e *Extractor) languages(text string) []profile.LanguageSkill {
	langs := []profile.LanguageSkill{}

	test := findTestScore(text)

	headerAt := strings.Index(text, "ความสามารถทางภาษา")
	if headerAt >= 0 {
		section := text[headerAt+len("ความสามารถทางภาษา"):]
		if cut := strings.Index(section, "ความสามารถ"); cut >= 0 {
			section = section[:cut]
		}

		for _, row := range languageRows {
			m := row.re.FindStringSubmatch(section)
			if m == nil {
				continue
			}
			skill := profile.LanguageSkill{
				Language: row.language,
				Speaking: m[1],
				Reading:  m[2],
				Writing:  m[3],
			}
			if row.language == profile.LanguageEnglish {
				skill.TestScore = test
			}
			skill.Level = e.languageLevel(skill)
			langs = append(langs, skill)
		}
	}

	if test != nil && !hasLanguage(langs, profile.LanguageEnglish) {
		skill := profile.LanguageSkill{Language: profile.LanguageEnglish, TestScore: test}
		skill.Level = e.languageLevel(skill)
		langs = append(langs, skill)
	}

	return langs
}

func findTestScore(text string) *profile.TestScore {
	for _, t := range testScores {
		m := t.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		score, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &profile.TestScore{Test: t.test, Score: score}
	}
	return nil
}

// languageLevel is the strongest of the three skill words, raised by the
// test band when that is higher.
func (e *Extractor) languageLevel(skill profile.LanguageSkill) string {
	level := ""
	for _, word := range []string{skill.Speaking, skill.Reading, skill.Writing} {
		level = profile.HigherLevel(level, e.tax.ProficiencyOf(word))
	}
	return profile.HigherLevel(level, skill.TestScore.Band())
}

func hasLanguage(langs []profile.LanguageSkill, language string) bool {
	for _, l := range langs {
		if l.Language == language {
			return true
		}
	}
	return false
}

// Driving lists vehicles the candidate can drive and owns.
func (e *Extractor) Driving(text string) profile.DrivingSkills {
	return guard(e.logger, "driving_skills", func() profile.DrivingSkills {
		skills := profile.DrivingSkills{CanDrive: []string{}, OwnsVehicle: []string{}}

		for _, re := range drivingLabels {
			if m := re.FindStringSubmatch(text); m != nil {
				skills.CanDrive = vehicles(m[1])
				break
			}
		}
		for _, re := range ownVehicleLabels {
			if m := re.FindStringSubmatch(text); m != nil {
				skills.OwnsVehicle = vehicles(m[1])
				break
			}
		}

		return skills
	})
}

func vehicles(text string) []string {
	out := []string{}
	if containsAny(text, "รถจักรยานยนต์", "มอเตอร์ไซค์") {
		out = append(out, "รถจักรยานยนต์")
	}
	if strings.Contains(text, "รถยนต์") {
		out = append(out, "รถยนต์")
	}
	if strings.Contains(text, "รถกระบะ") {
		out = append(out, "รถกระบะ")
	}
	return out
}

// SpecialAbilities returns up to five extra abilities and project notes.
func (e *Extractor) SpecialAbilities(text string) []string {
	return guard(e.logger, "special_abilities", func() []string {
		out := []string{}

		if section, ok := sectionAfter(text, specialHeader, "\n\n"); ok {
			for _, line := range strings.Split(section, "\n") {
				item := strings.TrimSpace(lineItemPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
				if n := textnorm.RuneLen(item); n > 5 && n < 200 {
					out = profile.AppendUnique(out, item)
				}
			}
		}

		if section, ok := sectionAfter(text, projectHeader, "\n\n"); ok {
			section = strings.TrimSpace(section)
			if textnorm.RuneLen(section) > 10 {
				out = profile.AppendUnique(out, "โครงการและผลงาน: "+cutRunes(section, 200))
			}
		}

		if len(out) > maxSpecialAbilities {
			out = out[:maxSpecialAbilities]
		}
		return out
	})
}
