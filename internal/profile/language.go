package profile

import "strings"

// Standardized English tests.
const (
	TestTOEIC = "TOEIC"
	TestIELTS = "IELTS"
	TestTOEFL = "TOEFL"
	TestCUTEP = "CU-TEP"
)

// testCutoffs holds the minimum score for the fluent, intermediate and
// basic bands.
var testCutoffs = map[string][3]float64{
	TestTOEIC: {800, 600, 450},
	TestIELTS: {7.0, 6.0, 5.0},
	TestTOEFL: {100, 80, 60},
	TestCUTEP: {100, 80, 60},
}

var levelRank = map[string]int{
	LevelBasic:        1,
	LevelIntermediate: 2,
	LevelFluent:       3,
}

// Band maps a test result onto a proficiency level, or "" below the basic cutoff.
func (t *TestScore) Band() string {
	if t == nil {
		return ""
	}
	cutoffs, ok := testCutoffs[strings.ToUpper(t.Test)]
	if !ok {
		return ""
	}
	switch {
	case t.Score >= cutoffs[0]:
		return LevelFluent
	case t.Score >= cutoffs[1]:
		return LevelIntermediate
	case t.Score >= cutoffs[2]:
		return LevelBasic
	}
	return ""
}

// LevelRank orders proficiency levels; unknown levels rank 0.
func LevelRank(level string) int {
	return levelRank[level]
}

// HigherLevel returns the stronger of two proficiency levels.
func HigherLevel(a, b string) string {
	if LevelRank(b) > LevelRank(a) {
		return b
	}
	return a
}
