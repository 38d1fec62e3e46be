package scoring

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/taxonomy"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

// Sub-score ceilings and fixed values.
const (
	maxExperience   = 30
	maxSalary       = 20
	salaryUnknown   = 10
	maxLocation     = 15
	locationNeutral = 7.5
	locationLenient = 9
)

// Salary plausibility bounds for job descriptions.
const (
	minJobSalary = 9000
	maxJobSalary = 500000
)

var (
	jobSalaryRange = regexp.MustCompile(`([0-9][0-9,]{3,})\s*(?:-|–|ถึง)\s*([0-9][0-9,]{3,})\s*บาท`)
	jobSalaryRules = []*regexp.Regexp{
		regexp.MustCompile(`เงินเดือน\D{0,20}?([0-9][0-9,]{3,})`),
		regexp.MustCompile(`(?i)salary\D{0,20}?([0-9][0-9,]{3,})`),
		regexp.MustCompile(`([0-9][0-9,]{3,})\s*บาท`),
	}

	remoteMarkers = []string{"remote", "work from home", "wfh", "ทำงานที่บ้าน", "ทำงานระยะไกล"}
)

// JobRequirements are the facts read from a job description.
type JobRequirements struct {
	Skills         map[string][]string `json:"skills"`
	Salary         int                 `json:"salary,omitempty"`
	Provinces      []string            `json:"provinces"`
	Remote         bool                `json:"remote"`
	EnglishLevel   string              `json:"english_level,omitempty"`
	OtherLanguages []string            `json:"other_languages,omitempty"`
}

func parseSalary(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || n < minJobSalary || n > maxJobSalary {
		return 0, false
	}
	return n, true
}

// jobSalary returns the offered monthly salary. A range resolves to its
// midpoint.
func jobSalary(job string) int {
	if m := jobSalaryRange.FindStringSubmatch(job); m != nil {
		lo, okLo := parseSalary(m[1])
		hi, okHi := parseSalary(m[2])
		if okLo && okHi && hi >= lo {
			return (lo + hi) / 2
		}
	}
	for _, re := range jobSalaryRules {
		for _, m := range re.FindAllStringSubmatch(job, -1) {
			if n, ok := parseSalary(m[1]); ok {
				return n
			}
		}
	}
	return 0
}

// jobProvinces lists the canonical provinces a job mentions.
func jobProvinces(tax *taxonomy.Taxonomy, job string) []string {
	found := []string{}
	for _, province := range tax.Provinces {
		if strings.Contains(job, province) {
			found = profile.AppendUnique(found, tax.CanonicalProvince(province))
		}
	}

	lower := textnorm.Lower(job)
	aliases := make([]string, 0, len(tax.ProvinceAliases))
	for alias := range tax.ProvinceAliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		if strings.Contains(lower, strings.ToLower(alias)) {
			found = profile.AppendUnique(found, tax.ProvinceAliases[alias])
		}
	}
	return found
}

// experienceYears counts whole years only; a trailing month part is ignored.
func experienceYears(p *profile.Profile) float64 {
	years, _ := profile.ParseDuration(p.TotalExperience)
	return float64(years)
}

func experienceScore(years float64) float64 {
	return math.Min(years*10, maxExperience)
}

func educationScore(p *profile.Profile) float64 {
	edu, ok := p.HighestEducation()
	if !ok {
		return 0
	}

	var score float64
	switch edu.Degree {
	case profile.DegreeDoctorate:
		score = 25
	case profile.DegreeMaster, profile.DegreeHigherVocational:
		score = 20
	default:
		score = 15
	}
	if edu.GPA != nil && *edu.GPA >= 3.5 {
		score += 5
	}
	if edu.Honor != "" {
		score += 10
	}
	return score
}

// candidateSalary prefers the monthly expectation range and falls back to
// the expected-salary details when they are monthly.
func candidateSalary(p *profile.Profile) (profile.SalaryRange, bool) {
	if p.SalaryExpectation != nil && p.SalaryExpectation.Min > 0 {
		r := *p.SalaryExpectation
		if r.Max < r.Min {
			r.Max = r.Min
		}
		return r, true
	}
	if es := p.ExpectedSalary; es != nil && es.Period == profile.PeriodMonthly && es.Min > 0 {
		r := profile.SalaryRange{Min: es.Min, Max: es.Max}
		if r.Max < r.Min {
			r.Max = r.Min
		}
		return r, true
	}
	return profile.SalaryRange{}, false
}

// SalaryScore compares the offered salary with the candidate range. Either
// side unknown scores 10; containment scores 20; otherwise the score drops
// with the gap relative to the offer.
func SalaryScore(offer int, candidate profile.SalaryRange, known bool) float64 {
	if offer <= 0 || !known {
		return salaryUnknown
	}
	if candidate.Contains(offer) {
		return maxSalary
	}
	if float64(candidate.Min) > 1.5*float64(offer) {
		return 2
	}

	gap := candidate.Min - offer
	if offer > candidate.Max {
		gap = offer - candidate.Max
	}
	ratio := float64(gap) / float64(offer)

	switch {
	case ratio <= 0.1:
		return 16
	case ratio <= 0.2:
		return 12
	case ratio <= 0.3:
		return 8
	default:
		return 4
	}
}

// LocationScore rewards a shared province. A job or candidate without any
// location is neutral, and remote work or willingness to relocate softens a
// mismatch.
func LocationScore(tax *taxonomy.Taxonomy, req JobRequirements, p *profile.Profile) float64 {
	if len(req.Provinces) == 0 {
		return locationNeutral
	}

	candidate := p.Provinces()
	if len(candidate) == 0 {
		return locationNeutral
	}

	for _, c := range candidate {
		if slices.Contains(req.Provinces, tax.CanonicalProvince(c)) {
			return maxLocation
		}
	}

	prefs := p.PreferredLocation.Preferences
	if req.Remote || slices.Contains(prefs, profile.PreferenceRemote) || slices.Contains(prefs, profile.PreferenceRelocate) {
		return locationLenient
	}

	return 0
}
