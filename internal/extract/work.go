package extract

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

// BuddhistEraOffset is the difference between Thai and Gregorian years.
const BuddhistEraOffset = 543

// Years above this value are read as Buddhist Era.
const buddhistEraThreshold = 2400

const minPlausibleYear = 1950

var thaiMonths = map[string]int{
	"มกราคม": 1, "กุมภาพันธ์": 2, "มีนาคม": 3, "เมษายน": 4,
	"พฤษภาคม": 5, "มิถุนายน": 6, "กรกฎาคม": 7, "สิงหาคม": 8,
	"กันยายน": 9, "ตุลาคม": 10, "พฤศจิกายน": 11, "ธันวาคม": 12,
	"ม.ค.": 1, "ก.พ.": 2, "มี.ค.": 3, "เม.ย.": 4,
	"พ.ค.": 5, "มิ.ย.": 6, "ก.ค.": 7, "ส.ค.": 8,
	"ก.ย.": 9, "ต.ค.": 10, "พ.ย.": 11, "ธ.ค.": 12,
}

const (
	monthAlternation = thaiMonthNames + `|ม\.ค\.|ก\.พ\.|มี\.ค\.|เม\.ย\.|พ\.ค\.|มิ\.ย\.|ก\.ค\.|ส\.ค\.|ก\.ย\.|ต\.ค\.|พ\.ย\.|ธ\.ค\.`
	presentMarkers   = `ปัจจุบัน|[Pp]resent|[Cc]urrent`
)

var (
	dateRange = regexp.MustCompile(
		`((?:` + monthAlternation + `)\s*\d{4})\s*[-–]\s*((?:` + monthAlternation + `|` + presentMarkers + `)\s*\d{0,4})`,
	)
	monthYear  = regexp.MustCompile(`(` + monthAlternation + `)\s*(\d{4})`)
	present    = regexp.MustCompile(presentMarkers)
	positionAt = regexp.MustCompile(`(?:` + monthAlternation + `|` + presentMarkers + `|เงินเดือน|ค่าจ้าง)`)

	workPositionRules = rules(pickWorkPosition,
		`(?i)ตำแหน่ง[:\s]*([^\n,]{3,50})`,
		`(?i)position[:\s]*([^\n,]{3,50})`,
		`(?i)หน้าที่[:\s]*([^\n,]{3,50})`,
		`(?i)เป็น[:\s]*([^\n,]{3,50})`,
		`(?i)ทำงานเป็น[:\s]*([^\n,]{3,50})`,
	)
	workSalaryRules = rules(pickSalary,
		`เงินเดือน[:\s]*([0-9,]+)`,
		`(?i)salary[:\s]*([0-9,]+)`,
		`ค่าจ้าง[:\s]*([0-9,]+)`,
	)

	salaryRangeRules = rules(pickSalaryRange,
		`เงินเดือนที่ต้องการ[:\s]*([0-9,]+)[\s-]*([0-9,]*)\s*บาท`,
		`ค่าจ้างที่คาดหวัง[:\s]*([0-9,]+)[\s-]*([0-9,]*)\s*บาท`,
		`เงินเดือนเบื้องต้น[:\s]*([0-9,]+)[\s-]*([0-9,]*)\s*บาท`,
		`เงินเดือน[:\s]*ที่ต้องการ[:\s]*([0-9,]+)[\s-]*([0-9,]*)\s*บาท`,
		`(?i)expected salary[:\s]*([0-9,]+)[\s-]*([0-9,]*)\s*บาท`,
		`(?i)salary expectation[:\s]*([0-9,]+)[\s-]*([0-9,]*)\s*บาท`,
		`เงินเดือนที่ต้องการ[:\s]*([0-9,]+)`,
		`ค่าจ้างที่คาดหวัง[:\s]*([0-9,]+)`,
		`(?i)expected salary[:\s]*([0-9,]+)`,
		`(?i)salary[:\s]*([0-9,]+)[\s-]*([0-9,]*)\s*บาท`,
		`([0-9,]+)[\s-]*ถึง[\s-]*([0-9,]+)\s*บาท`,
		`([0-9,]+)[\s-]*-\s*([0-9,]+)\s*บาท`,
	)
	salaryContextRules = rules(pickSalaryRange,
		`เงินเดือน\D{0,50}?([0-9,]{4,})`,
		`(?i)salary\D{0,50}?([0-9,]{4,})`,
		`ประมาณ\D{0,30}?([0-9,]{4,})\s*บาท`,
		`อยู่ที่\D{0,30}?([0-9,]{4,})\s*บาท`,
	)
)

func pickWorkPosition(m match) (string, bool) {
	position := m.Group(1)
	if loc := positionAt.FindStringIndex(position); loc != nil {
		position = position[:loc[0]]
	}
	position = strings.Trim(strings.TrimSpace(position), ":-–|")
	position = strings.TrimSpace(position)
	if textnorm.RuneLen(position) <= 2 {
		return "", false
	}
	return position, true
}

func pickSalary(m match) (int, bool) {
	n, ok := parseAmount(m.Group(1))
	if !ok || !plausibleSalary(n) {
		return 0, false
	}
	return n, true
}

func pickSalaryRange(m match) (*profile.SalaryRange, bool) {
	lo, ok := parseAmount(m.Group(1))
	if !ok || !plausibleSalary(lo) {
		return nil, false
	}

	hi, ok := parseAmount(m.Group(2))
	if !ok {
		return &profile.SalaryRange{Min: lo, Max: lo}, true
	}
	if !plausibleSalary(hi) || hi < lo {
		return nil, false
	}

	return &profile.SalaryRange{Min: lo, Max: hi}, true
}

// yearMonth is a Gregorian month index used for duration arithmetic.
type yearMonth struct {
	year, month int
}

func (ym yearMonth) index() int {
	return ym.year*12 + ym.month - 1
}

// toGregorian shifts Buddhist Era years. Four-digit years above 2400 are
// assumed to be BE; documents mixing eras around that threshold are not
// disambiguated.
func toGregorian(year int) int {
	if year > buddhistEraThreshold {
		return year - BuddhistEraOffset
	}
	return year
}

func (e *Extractor) parseMonthYear(s string) (yearMonth, bool) {
	m := monthYear.FindStringSubmatch(s)
	if m == nil {
		return yearMonth{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return yearMonth{}, false
	}
	return yearMonth{year: toGregorian(year), month: thaiMonths[m[1]]}, true
}

func (e *Extractor) plausibleYear(year int) bool {
	return year >= minPlausibleYear && year <= e.now().Year()+5
}

// dateSpan resolves a start/end label pair. The present marker maps to the
// current month. Reversed or implausible ranges are rejected.
func (e *Extractor) dateSpan(start, end string) (yearMonth, yearMonth, bool) {
	from, ok := e.parseMonthYear(start)
	if !ok || !e.plausibleYear(from.year) {
		return yearMonth{}, yearMonth{}, false
	}

	var to yearMonth
	if present.MatchString(end) {
		now := e.now()
		to = yearMonth{year: now.Year(), month: int(now.Month())}
	} else {
		to, ok = e.parseMonthYear(end)
		if !ok || !e.plausibleYear(to.year) {
			return yearMonth{}, yearMonth{}, false
		}
	}

	if from.index() > to.index() {
		return yearMonth{}, yearMonth{}, false
	}

	return from, to, true
}

// Duration renders the span between two date labels, or DurationUnknown.
func (e *Extractor) Duration(start, end string) string {
	from, to, ok := e.dateSpan(start, end)
	if !ok {
		return profile.DurationUnknown
	}
	return profile.FormatMonths(to.index() - from.index())
}

// WorkExperience extracts dated work entries. Entries whose range is
// reversed or unparseable are skipped.
func (e *Extractor) WorkExperience(text string) []profile.WorkEntry {
	return guard(e.logger, "work_experience", func() []profile.WorkEntry {
		return e.workExperience(text)
	})
}

func (e *Extractor) workExperience(text string) []profile.WorkEntry {
	entries := []profile.WorkEntry{}

	for _, loc := range dateRange.FindAllStringSubmatchIndex(text, -1) {
		start := strings.TrimSpace(text[loc[2]:loc[3]])
		end := strings.TrimSpace(text[loc[4]:loc[5]])

		from, to, ok := e.dateSpan(start, end)
		if !ok {
			e.logger.Debug("skipping work entry with invalid range",
				zap.String("start", start), zap.String("end", end))
			continue
		}

		context := window(text, loc[0], loc[1], 150)

		position, ok := workPositionRules.first(context)
		if !ok {
			position = profile.PositionUnknown
		}
		salary, _ := workSalaryRules.first(context)

		entry := profile.WorkEntry{
			Position:  position,
			StartDate: start,
			EndDate:   end,
			Duration:  profile.FormatMonths(to.index() - from.index()),
			Salary:    salary,
		}

		if !hasWork(entries, entry) {
			entries = append(entries, entry)
		}
	}

	return entries
}

func hasWork(entries []profile.WorkEntry, entry profile.WorkEntry) bool {
	for _, existing := range entries {
		if existing.StartDate == entry.StartDate && existing.EndDate == entry.EndDate && existing.Position == entry.Position {
			return true
		}
	}
	return false
}

// SalaryExpectation returns the expected monthly salary as a range. It falls
// back to salary mentions in context and finally to the latest job's salary.
func (e *Extractor) SalaryExpectation(text string) *profile.SalaryRange {
	return guard(e.logger, "salary_expectation", func() *profile.SalaryRange {
		if r, ok := salaryRangeRules.first(text); ok {
			return r
		}
		if r, ok := salaryContextRules.first(text); ok {
			return r
		}
		if work := e.workExperience(text); len(work) > 0 && work[0].Salary > 0 {
			return &profile.SalaryRange{Min: work[0].Salary, Max: work[0].Salary}
		}
		return nil
	})
}
