package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

const thaiMonthNames = `มกราคม|กุมภาพันธ์|มีนาคม|เมษายน|พฤษภาคม|มิถุนายน|กรกฎาคม|สิงหาคม|กันยายน|ตุลาคม|พฤศจิกายน|ธันวาคม`

var (
	positionPunct = regexp.MustCompile(`[:()\[\]{}]`)

	desiredPositionRules = rules(pickPosition,
		`ตำแหน่งที่สนใจ[:\s]*([^\n\r]+)`,
		`ตำแหน่งที่ต้องการสมัคร[:\s]*([^\n\r]+)`,
		`ตำแหน่งงานที่สมัคร[:\s]*([^\n\r]+)`,
		`สมัครตำแหน่ง[:\s]*([^\n\r]+)`,
		`ตำแหน่งที่สมัคร[:\s]*([^\n\r]+)`,
		`(?i)desired position[:\s]*([^\n\r]+)`,
		`(?i)position applied[:\s]*([^\n\r]+)`,
		`(?i)applying for[:\s]*([^\n\r]+)`,
	)

	expectedSalaryRules = rules(pickExpectedSalary,
		`เงินเดือนที่ต้องการ[:\s]*([0-9,]+)\s*(?:-\s*([0-9,]+))?\s*บาท`,
		`เงินเดือนที่คาดหวัง[:\s]*([0-9,]+)\s*(?:-\s*([0-9,]+))?\s*บาท`,
		`ค่าจ้างที่คาดหวัง[:\s]*([0-9,]+)\s*(?:-\s*([0-9,]+))?\s*บาท`,
		`(?i)expected salary[:\s]*([0-9,]+)\s*(?:-\s*([0-9,]+))?`,
		`(?i)salary expectation[:\s]*([0-9,]+)\s*(?:-\s*([0-9,]+))?`,
		`(?i)desired salary[:\s]*([0-9,]+)\s*(?:-\s*([0-9,]+))?`,
	)

	locationLabels = []*regexp.Regexp{
		regexp.MustCompile(`สถานที่ทำงานที่ต้องการ[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`จังหวัดที่ต้องการทำงาน[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`สถานที่ที่สามารถทำงานได้[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`พื้นที่ที่ต้องการ[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`(?i)preferred location[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`(?i)work location[:\s]*([^\n\r]+)`),
	}
	areaPattern = regexp.MustCompile(`(?:เขต|อำเภอ|อ\.)\s*([^\s,]+)`)

	startDateLabels = []*regexp.Regexp{
		regexp.MustCompile(`สามารถเริ่มงานได้[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`วันที่สามารถเริ่มงาน[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`เริ่มงานได้[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`(?i)available (?:to start|from)[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`(?i)start date[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`(?i)can start[:\s]*([^\n\r]+)`),
	}
	explicitDates = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`),
		regexp.MustCompile(`(\d{1,2})\s+(` + thaiMonthNames + `)\s+(\d{4})`),
	}
	noticePeriod = regexp.MustCompile(`(?i)(\d+)\s*(สัปดาห์|เดือน|weeks?|months?)`)
)

// Start availability labels.
const (
	AvailableNow       = "ทันที"
	AvailableByCompany = "ตามที่บริษัทกำหนด"
	AvailableOnDate    = "วันที่ระบุ"
)

func pickPosition(m match) (string, bool) {
	position := positionPunct.ReplaceAllString(m.Group(1), "")
	position = strings.TrimSpace(position)
	n := textnorm.RuneLen(position)
	if n <= 3 || n >= 100 {
		return "", false
	}
	return position, true
}

func pickExpectedSalary(m match) (*profile.ExpectedSalary, bool) {
	minSalary, ok := parseAmount(m.Group(1))
	if !ok || minSalary <= 0 {
		return nil, false
	}

	info := &profile.ExpectedSalary{
		Min:       minSalary,
		RangeText: profile.FormatAmount(minSalary) + " บาท",
		Period:    profile.PeriodMonthly,
	}

	if maxSalary, ok := parseAmount(m.Group(2)); ok && maxSalary >= minSalary {
		info.Max = maxSalary
		info.RangeText = fmt.Sprintf("%s - %s บาท", profile.FormatAmount(minSalary), profile.FormatAmount(maxSalary))
	}

	context := textnorm.Lower(window(m.text, m.Start(), m.End(), 50))
	if containsAny(context, "ต่อชั่วโมง", "per hour", "/hour", "/hr") {
		info.Period = profile.PeriodHourly
	}

	if info.Period == profile.PeriodMonthly && !plausibleSalary(info.Min) {
		return nil, false
	}

	return info, true
}

// DesiredPosition returns the position the candidate applies for, or "".
func (e *Extractor) DesiredPosition(text string) string {
	return guard(e.logger, "desired_position", func() string {
		position, _ := desiredPositionRules.first(text)
		return position
	})
}

// ExpectedSalary returns the stated salary expectation with its period.
func (e *Extractor) ExpectedSalary(text string) *profile.ExpectedSalary {
	return guard(e.logger, "expected_salary", func() *profile.ExpectedSalary {
		info, _ := expectedSalaryRules.first(text)
		return info
	})
}

// PreferredLocation collects preferred provinces, areas and free-text places.
func (e *Extractor) PreferredLocation(text string) profile.Location {
	return guard(e.logger, "preferred_location", func() profile.Location {
		return e.preferredLocation(text)
	})
}

func (e *Extractor) preferredLocation(text string) profile.Location {
	loc := profile.Location{
		Provinces:         []string{},
		Areas:             []string{},
		SpecificLocations: []string{},
		Preferences:       []string{},
	}

	for _, re := range locationLabels {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			place := strings.TrimSpace(m[1])
			for _, province := range e.tax.Provinces {
				if strings.Contains(place, province) {
					loc.Provinces = profile.AppendUnique(loc.Provinces, province)
				}
			}
			for _, area := range areaPattern.FindAllStringSubmatch(place, -1) {
				loc.Areas = profile.AppendUnique(loc.Areas, area[1])
			}
			loc.SpecificLocations = profile.AppendUnique(loc.SpecificLocations, place)
		}
	}

	lower := textnorm.Lower(text)
	if strings.Contains(text, "ทำงานที่บ้าน") || containsAny(lower, "work from home", "remote") {
		loc.Preferences = append(loc.Preferences, profile.PreferenceRemote)
	}
	if strings.Contains(text, "ทำงานในต่างประเทศ") || strings.Contains(lower, "work abroad") {
		loc.Preferences = append(loc.Preferences, profile.PreferenceAbroad)
	}
	if strings.Contains(text, "ย้ายได้") || strings.Contains(lower, "relocate") {
		loc.Preferences = append(loc.Preferences, profile.PreferenceRelocate)
	}

	if len(loc.Provinces) == 0 {
		loc.Provinces = e.provincesInWorkContext(text)
	}

	return loc
}

// provincesInWorkContext finds provinces mentioned within 30 runes of a
// work-related word.
func (e *Extractor) provincesInWorkContext(text string) []string {
	found := []string{}
	for _, province := range e.tax.Provinces {
		offset := 0
		for {
			idx := strings.Index(text[offset:], province)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(province)
			context := window(text, start, end, 30)
			if containsAny(context, "ทำงาน", "ปฏิบัติงาน", "สนใจ", "ต้องการ") {
				found = profile.AppendUnique(found, province)
				break
			}
			offset = end
		}
	}
	return found
}

// JobTypes resolves job-type labels. It never returns an empty list.
func (e *Extractor) JobTypes(text string) []string {
	types := guard(e.logger, "preferred_job_type", func() []string {
		lower := textnorm.Lower(text)
		var found []string
		for _, family := range e.tax.JobTypes {
			for _, keyword := range family.Keywords {
				if strings.Contains(lower, textnorm.Lower(keyword)) {
					found = profile.AppendUnique(found, e.tax.JobTypeLabel(family.Name))
					break
				}
			}
		}
		return found
	})

	if len(types) == 0 {
		return []string{profile.JobTypeUnspecified}
	}
	return types
}

// StartDate reads when the candidate can start.
func (e *Extractor) StartDate(text string) *profile.StartDate {
	return guard(e.logger, "available_start_date", func() *profile.StartDate {
		return e.startDate(text)
	})
}

func (e *Extractor) startDate(text string) *profile.StartDate {
	var raw string
	for _, re := range startDateLabels {
		if m := re.FindStringSubmatch(text); m != nil {
			raw = strings.TrimSpace(m[1])
			break
		}
	}
	if raw == "" {
		return nil
	}

	info := &profile.StartDate{RawText: raw}
	lower := textnorm.Lower(raw)
	now := e.now()

	switch {
	case strings.Contains(raw, "ทันที") || strings.Contains(lower, "immediate"):
		info.Availability = AvailableNow
		info.Date = now.Format("02/01/2006")
		return info
	case strings.Contains(raw, "ตามที่บริษัทกำหนด") || strings.Contains(lower, "as per company"):
		info.Availability = AvailableByCompany
		return info
	}

	for _, re := range explicitDates {
		if m := re.FindString(raw); m != "" {
			info.Date = m
			info.Availability = AvailableOnDate
			return info
		}
	}

	if m := noticePeriod.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		unit := textnorm.Lower(m[2])
		var days int
		if strings.Contains(unit, "สัปดาห์") || strings.HasPrefix(unit, "week") {
			days = n * 7
			info.Availability = fmt.Sprintf("%d สัปดาห์", n)
		} else {
			days = n * 30
			info.Availability = fmt.Sprintf("%d เดือน", n)
		}
		info.EstimatedDate = now.Add(time.Duration(days) * 24 * time.Hour).Format("02/01/2006")
	}

	return info
}
