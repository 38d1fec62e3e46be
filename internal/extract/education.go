package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

type degreePattern struct {
	degree profile.Degree
	re     *regexp.Regexp
}

// Highest degree first, so the first entry of a profile is the highest one.
var degreePatterns = []degreePattern{
	{profile.DegreeDoctorate, regexp.MustCompile(`ปริญญาเอก.*?(?:สาขา|คณะ)\s*([^\n,]{5,80})`)},
	{profile.DegreeDoctorate, regexp.MustCompile(`(?i)(?:ph\.?\s?d\.?|doctor of philosophy)\s+(?:in|of)\s+([^\n,]{5,80})`)},
	{profile.DegreeMaster, regexp.MustCompile(`ปริญญาโท.*?(?:สาขา|คณะ)\s*([^\n,]{5,80})`)},
	{profile.DegreeMaster, regexp.MustCompile(`(?i)master(?:'s)?(?: degree)?\s+(?:in|of)\s+([^\n,]{5,80})`)},
	{profile.DegreeBachelor, regexp.MustCompile(`ปริญญาตรี.*?(?:สาขา|คณะ)\s*([^\n,]{5,80})`)},
	{profile.DegreeBachelor, regexp.MustCompile(`(?i)bachelor(?:'s)?(?: degree)?\s+(?:in|of)\s+([^\n,]{5,80})`)},
	{profile.DegreeHigherVocational, regexp.MustCompile(`ปวส\.?.*?(?:สาขา|แผนก)\s*([^\n,]{5,80})`)},
	{profile.DegreeVocational, regexp.MustCompile(`ปวช\.?.*?(?:สาขา|แผนก)\s*([^\n,]{5,80})`)},
	{profile.DegreeSecondary, regexp.MustCompile(`ม\.\s*[0-9].*?(?:สาย|แผนก)\s*([^\n,]{5,80})`)},
}

var (
	gpaRules = rules(pickGPA,
		`เกรดเฉลี่ย[:\s]*(\d+\.\d+)`,
		`(?i)GPA[:\s]*(\d+\.\d+)`,
	)
	honorPattern        = regexp.MustCompile(`เกียรตินิยม.*?อันดับ\s*(\d+)`)
	englishHonorPattern = regexp.MustCompile(`(?i)\b(first|second)[- ]class honou?rs\b`)

	fieldYear = regexp.MustCompile(`(?:19|20|25)\d{2}`)
	spaces    = regexp.MustCompile(`\s+`)
)

// fieldStopMarkers end a field of study: whatever follows belongs to the next
// résumé section.
var fieldStopMarkers = []string{
	"เกรดเฉลี่ย", "GPA", "ประวัติการทำงาน", "ตำแหน่ง", "เงินเดือน",
	"หน้าที่รับผิดชอบ", "ระดับ", "ชื่อบริษัท", "ที่อยู่", "ติดต่อ",
	"นักศึกษาฝึกงาน", "เจ้าหน้าที่", "Microsoft Office", "Create Testcase",
	"Manual Test", "Scenario", "Log Issue", "สรรหาบุคลากร", "อบรมปฐมนิเทศ",
	"บันทึกประวัติ", "ดูแล", "จัดทำKPI", "สวัสดิการ", "ลงทะเบียน", "ทำบัตร",
	"บิลน้ำมัน",
}

func pickGPA(m match) (float64, bool) {
	gpa, err := strconv.ParseFloat(m.Group(1), 64)
	if err != nil || gpa < 0 || gpa > MaxGPA {
		return 0, false
	}
	return gpa, true
}

// CleanField strips trailing text that belongs to other sections and caps the
// result at 50 characters.
func CleanField(field string) string {
	for _, marker := range fieldStopMarkers {
		if idx := strings.Index(field, marker); idx >= 0 {
			field = field[:idx]
		}
	}
	if loc := fieldYear.FindStringIndex(field); loc != nil {
		field = field[:loc[0]]
	}

	field = strings.TrimSpace(spaces.ReplaceAllString(field, " "))
	field = strings.TrimRight(field, " -–(")

	return textnorm.Truncate(field, 50)
}

// Education extracts degrees, highest first.
func (e *Extractor) Education(text string) []profile.EducationEntry {
	return guard(e.logger, "education", func() []profile.EducationEntry {
		return e.education(text)
	})
}

func (e *Extractor) education(text string) []profile.EducationEntry {
	entries := []profile.EducationEntry{}

	for _, dp := range degreePatterns {
		for _, loc := range dp.re.FindAllStringSubmatchIndex(text, -1) {
			field := CleanField(text[loc[2]:loc[3]])
			if textnorm.RuneLen(field) <= 3 {
				continue
			}

			entry := profile.EducationEntry{Degree: dp.degree, Field: field}

			context := window(text, loc[0], loc[1], 100)
			if gpa, ok := gpaRules.first(context); ok {
				entry.GPA = &gpa
			}
			if m := honorPattern.FindStringSubmatch(context); m != nil {
				entry.Honor = "เกียรตินิยมอันดับ " + m[1]
			} else if m := englishHonorPattern.FindStringSubmatch(context); m != nil {
				rank := "1"
				if strings.EqualFold(m[1], "second") {
					rank = "2"
				}
				entry.Honor = "เกียรตินิยมอันดับ " + rank
			}

			if !hasEducation(entries, entry) {
				entries = append(entries, entry)
			}
		}
	}

	return entries
}

func hasEducation(entries []profile.EducationEntry, entry profile.EducationEntry) bool {
	for _, existing := range entries {
		if existing.Degree == entry.Degree && existing.Field == entry.Field {
			return true
		}
	}
	return false
}
