package profile

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	yearsPart  = regexp.MustCompile(`(\d+)\s*ปี`)
	monthsPart = regexp.MustCompile(`(\d+)\s*เดือน`)
)

// FormatMonths renders a month count as "X ปี Y เดือน".
func FormatMonths(total int) string {
	if total < 0 {
		return DurationUnknown
	}

	years, months := total/12, total%12
	switch {
	case years > 0 && months > 0:
		return fmt.Sprintf("%d ปี %d เดือน", years, months)
	case years > 0:
		return fmt.Sprintf("%d ปี", years)
	default:
		return fmt.Sprintf("%d เดือน", months)
	}
}

// ParseDuration reads the year and month parts of a duration label.
// Labels without numbers, such as DurationUnknown, yield zeros.
func ParseDuration(text string) (years, months int) {
	if m := yearsPart.FindStringSubmatch(text); m != nil {
		years, _ = strconv.Atoi(m[1])
	}
	if m := monthsPart.FindStringSubmatch(text); m != nil {
		months, _ = strconv.Atoi(m[1])
	}
	return years, months
}

// TotalExperience sums the durations of all work entries.
func TotalExperience(entries []WorkEntry) string {
	total := 0
	for _, e := range entries {
		y, m := ParseDuration(e.Duration)
		total += y*12 + m
	}
	if total == 0 {
		return NoExperience
	}
	return FormatMonths(total)
}
