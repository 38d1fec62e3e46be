package scoring

import (
	"math"
	"strings"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/taxonomy"
)

const (
	maxLanguageScore   = 30
	languageNormalizer = 50
)

type languagePoints struct {
	fluent, intermediate, basic float64
	cap                         float64
}

var (
	englishPoints = languagePoints{fluent: 15, intermediate: 10, basic: 5, cap: 50}
	thaiPoints    = languagePoints{fluent: 10, intermediate: 5, cap: 30}
	otherPoints   = languagePoints{fluent: 8, intermediate: 4, cap: 24}
)

// testBonus holds the fluent, intermediate and basic band bonuses per test.
var testBonus = map[string][3]float64{
	profile.TestTOEIC: {20, 15, 10},
	profile.TestIELTS: {25, 15, 10},
	profile.TestTOEFL: {25, 15, 10},
	profile.TestCUTEP: {20, 15, 10},
}

func (lp languagePoints) of(level string) float64 {
	switch level {
	case profile.LevelFluent:
		return lp.fluent
	case profile.LevelIntermediate:
		return lp.intermediate
	case profile.LevelBasic:
		return lp.basic
	}
	return 0
}

func dimensions(l profile.LanguageSkill) []string {
	return []string{l.Speaking, l.Reading, l.Writing}
}

func scoreTest(t *profile.TestScore) float64 {
	if t == nil {
		return 0
	}
	bonus, ok := testBonus[strings.ToUpper(t.Test)]
	if !ok {
		return 0
	}
	switch t.Band() {
	case profile.LevelFluent:
		return bonus[0]
	case profile.LevelIntermediate:
		return bonus[1]
	case profile.LevelBasic:
		return bonus[2]
	}
	return 0
}

// LanguageScore scores declared languages on a 0-30 scale. Each language is
// capped, summed, normalized by 50 per language and rescaled.
func LanguageScore(tax *taxonomy.Taxonomy, langs []profile.LanguageSkill) float64 {
	if len(langs) == 0 {
		return 0
	}

	var total float64
	for _, l := range langs {
		points := otherPoints
		switch l.Language {
		case profile.LanguageEnglish:
			points = englishPoints
		case profile.LanguageThai:
			points = thaiPoints
		}

		var score float64
		for _, word := range dimensions(l) {
			score += points.of(tax.ProficiencyOf(word))
		}
		if l.Language == profile.LanguageEnglish {
			score += scoreTest(l.TestScore)
		}
		total += math.Min(score, points.cap)
	}

	return math.Min(total/(languageNormalizer*float64(len(langs)))*maxLanguageScore, maxLanguageScore)
}

// languageMatchBonus compares the English level a job asks for with the
// candidate's English skills.
func languageMatchBonus(tax *taxonomy.Taxonomy, required string, p *profile.Profile, limit float64) float64 {
	if required == "" {
		return 0
	}
	english, ok := p.English()
	if !ok {
		return 0
	}

	var perDimension, testPoints float64
	var minRank int
	switch required {
	case "high":
		perDimension, testPoints, minRank = 2, 3, profile.LevelRank(profile.LevelFluent)
	case "medium":
		perDimension, testPoints, minRank = 1.5, 2, profile.LevelRank(profile.LevelIntermediate)
	case "basic":
		perDimension, testPoints, minRank = 1, 1, profile.LevelRank(profile.LevelBasic)
	default:
		return 0
	}

	var bonus float64
	for _, word := range dimensions(english) {
		if profile.LevelRank(tax.ProficiencyOf(word)) >= minRank {
			bonus += perDimension
		}
	}
	if profile.LevelRank(english.TestScore.Band()) >= minRank {
		bonus += testPoints
	}

	return math.Min(bonus, limit)
}
