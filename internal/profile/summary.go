package profile

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spigell/resume-matcher/internal/textnorm"
)

var (
	summarySkillCategories = []string{"programming", "web", "database", "tools"}
	summaryJobTypeMarkers  = []string{"ประจำ", "Part-time", "Contract", "Internship"}
)

// FormatAmount renders an integer with thousands separators.
func FormatAmount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// String renders the range as "30,000" or "25,000-35,000".
func (r SalaryRange) String() string {
	if r.Max == 0 || r.Max == r.Min {
		return FormatAmount(r.Min)
	}
	return FormatAmount(r.Min) + "-" + FormatAmount(r.Max)
}

// BuildSummary renders the short recruiter summary, one fact per line.
func BuildSummary(p *Profile) string {
	if p == nil {
		return ""
	}

	var lines []string

	if p.Personal != (Personal{}) {
		gender, age := "N/A", "N/A"
		if p.Personal.Gender != "" {
			gender = p.Personal.Gender
		}
		if p.Personal.Age > 0 {
			age = fmt.Sprint(p.Personal.Age)
		}
		lines = append(lines, fmt.Sprintf("👤 %s, อายุ %s ปี", gender, age))
	}

	if p.DesiredPosition != "" {
		lines = append(lines, "🎯 ตำแหน่งที่ต้องการ: "+textnorm.Truncate(p.DesiredPosition, 40))
	}

	if edu, ok := p.HighestEducation(); ok {
		line := fmt.Sprintf("🎓 %s %s", edu.Degree, textnorm.Truncate(edu.Field, 30))
		if edu.GPA != nil {
			line += fmt.Sprintf(" (GPA %.2f)", *edu.GPA)
		}
		lines = append(lines, line)
	}

	if p.TotalExperience != "" && p.TotalExperience != NoExperience {
		lines = append(lines, "💼 ประสบการณ์: "+p.TotalExperience)
	}

	if len(p.WorkExperience) > 0 && p.WorkExperience[0].Position != PositionUnknown {
		lines = append(lines, "📌 ตำแหน่งล่าสุด: "+textnorm.Truncate(p.WorkExperience[0].Position, 30))
	}

	if skills := summarySkills(p.Skills); len(skills) > 0 {
		lines = append(lines, "💡 ทักษะ: "+strings.Join(skills, ", "))
	}

	switch {
	case p.ExpectedSalary != nil:
		lines = append(lines, "💰 เงินเดือน: "+p.ExpectedSalary.RangeText)
	case p.SalaryExpectation != nil:
		lines = append(lines, "💰 เงินเดือน: "+p.SalaryExpectation.String()+" บาท")
	}

	if provinces := p.PreferredLocation.Provinces; len(provinces) > 0 {
		if len(provinces) > 2 {
			provinces = provinces[:2]
		}
		if slices.Contains(provinces, "กรุงเทพ") && slices.Contains(provinces, "กรุงเทพมหานคร") {
			provinces = []string{"กรุงเทพ"}
		}
		lines = append(lines, "📍 สถานที่: "+strings.Join(provinces, ", "))
	}

	for _, jt := range p.PreferredJobType {
		if containsAny(jt, summaryJobTypeMarkers) {
			lines = append(lines, "⏰ ประเภท: "+jt)
			break
		}
	}

	return strings.Join(lines, "\n")
}

func summarySkills(skills map[string][]string) []string {
	var top []string
	for _, category := range summarySkillCategories {
		tokens := skills[category]
		if len(tokens) > 2 {
			tokens = tokens[:2]
		}
		top = append(top, tokens...)
	}

	if len(top) < 3 {
		tokens := skills["thai_skills"]
		if len(tokens) > 2 {
			tokens = tokens[:2]
		}
		top = append(top, tokens...)
	}

	if len(top) > 4 {
		top = top[:4]
	}

	var unique []string
	for _, s := range top {
		unique = AppendUnique(unique, s)
	}
	return unique
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
