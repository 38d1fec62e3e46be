// Package scoring computes the compatibility between a candidate profile and
// a free-text job description. The score blends skill-set overlap, TF-IDF
// similarity of the skill texts and rule-based sub-scores.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/taxonomy"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

// ErrEmptyJobDescription is returned before any computation when the job
// description has no text.
var ErrEmptyJobDescription = errors.New("job description is empty")

// Component score keys.
const (
	KeySkillMatchRate   = "skill_match_rate"
	KeyExperience       = "experience"
	KeyEducation        = "education"
	KeySalary           = "salary"
	KeyLocation         = "location"
	KeyLanguage         = "language"
	KeyVectorSimilarity = "vector_similarity"
	KeyTotal            = "total"
)

const maxBasicRuleScore = 100

type MatchResult struct {
	TotalScore        float64            `json:"total_score"`
	ComponentScores   map[string]float64 `json:"component_scores"`
	MatchingSkills    []string           `json:"matching_skills"`
	MissingSkills     []string           `json:"missing_skills"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	Tier              recommend.Tier     `json:"tier"`
	Recommendation    string             `json:"recommendation"`
	Explanation       string             `json:"explanation"`
	Bonuses           AppliedBonuses     `json:"bonuses"`
	BasicRuleScore    float64            `json:"basic_rule_score"`
	Job               JobRequirements    `json:"job"`
}

// AppliedBonuses are the bonus points that went into TotalScore.
type AppliedBonuses struct {
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Language   float64 `json:"language"`
	Salary     float64 `json:"salary"`
	Location   float64 `json:"location"`
}

func (b AppliedBonuses) sum() float64 {
	return b.Experience + b.Education + b.Language + b.Salary + b.Location
}

type Engine struct {
	ext    *extract.Extractor
	tax    *taxonomy.Taxonomy
	cfg    Config
	logger *zap.Logger
}

// New validates cfg and builds an engine that reads job skills with the same
// extractor used for résumés.
func New(ext *extract.Extractor, cfg Config, log *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		ext:    ext,
		tax:    ext.Taxonomy(),
		cfg:    cfg,
		logger: logger.WithFields(log, zap.String(logger.FieldComponent, "scoring")),
	}, nil
}

// Taxonomy returns the taxonomy shared with the extractor.
func (e *Engine) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// AnalyzeJob reads skills, salary, provinces and language requirements from
// a job description.
func (e *Engine) AnalyzeJob(job string) JobRequirements {
	norm := textnorm.Normalize(job)
	lower := textnorm.Lower(norm)

	req := JobRequirements{
		Skills:       e.ext.Skills(norm),
		Salary:       jobSalary(norm),
		Provinces:    jobProvinces(e.tax, norm),
		Remote:       containsAnyOf(lower, remoteMarkers),
		EnglishLevel: e.tax.EnglishLevelRequired(lower),
	}
	for _, lang := range e.tax.OtherLanguages {
		if strings.Contains(lower, lang) {
			req.OtherLanguages = append(req.OtherLanguages, lang)
		}
	}
	if req.Skills == nil {
		req.Skills = map[string][]string{}
	}

	return req
}

// Score matches one profile against one job description.
func (e *Engine) Score(p *profile.Profile, job string) (*MatchResult, error) {
	if strings.TrimSpace(job) == "" {
		return nil, ErrEmptyJobDescription
	}
	if p == nil {
		p = &profile.Profile{}
	}

	req := e.AnalyzeJob(job)

	matching, missing := compareSkills(p.Skills, req.Skills)
	rate := ratio(len(matching), len(matching)+len(missing))
	similarity := cosineTFIDF(e.tax, skillBag(e.tax, p.Skills), skillBag(e.tax, req.Skills))

	years := experienceYears(p)
	experience := experienceScore(years)
	education := educationScore(p)
	salaryRange, salaryKnown := candidateSalary(p)
	salary := SalaryScore(req.Salary, salaryRange, salaryKnown)
	location := LocationScore(e.tax, req, p)
	language := LanguageScore(e.tax, p.LanguageSkills)

	basic := math.Min(rate*100*0.6+experience+education, maxBasicRuleScore)
	combined := e.cfg.VectorWeight*similarity*100 + e.cfg.RuleWeight*basic + e.cfg.LanguageWeight*language

	bonuses := e.bonuses(p, req, years, salary, location)
	total := round2(clamp(combined+bonuses.sum(), 0, 100))

	rec := recommend.Recommend(total, similarity, len(matching), len(missing))
	breakdown := categoryBreakdown(p.Skills, req.Skills)

	result := &MatchResult{
		TotalScore: total,
		ComponentScores: map[string]float64{
			KeySkillMatchRate:   round2(rate),
			KeyExperience:       round2(experience),
			KeyEducation:        round2(education),
			KeySalary:           round2(salary),
			KeyLocation:         round2(location),
			KeyLanguage:         round2(language),
			KeyVectorSimilarity: round2(similarity),
			KeyTotal:            total,
		},
		MatchingSkills:    matching,
		MissingSkills:     missing,
		CategoryBreakdown: breakdown,
		Tier:              rec.Tier,
		Recommendation:    rec.Text,
		Bonuses:           bonuses,
		BasicRuleScore:    round2(basic),
		Job:               req,
	}
	result.Explanation = recommend.Explain(rec, recommend.Details{
		Total:             total,
		VectorSimilarity:  similarity,
		Matching:          matching,
		Missing:           missing,
		CategoryBreakdown: breakdown,
		Education:         education,
		Experience:        experience,
		Language:          language,
	})

	e.logger.Debug("profile scored",
		zap.Float64("total", total),
		zap.Float64("vector_similarity", similarity),
		zap.Float64("basic_rule_score", basic),
		zap.String("tier", string(rec.Tier)),
	)

	return result, nil
}

func (e *Engine) bonuses(p *profile.Profile, req JobRequirements, years, salary, location float64) AppliedBonuses {
	var b AppliedBonuses
	cfg := e.cfg.Bonuses

	switch {
	case years >= 5:
		b.Experience = cfg.SeniorExperience
	case years >= 3:
		b.Experience = cfg.MidExperience
	}

	if edu, ok := p.HighestEducation(); ok {
		switch edu.Degree {
		case profile.DegreeDoctorate:
			b.Education = cfg.Doctorate
		case profile.DegreeMaster:
			b.Education = cfg.Master
		}
	}

	b.Language = languageMatchBonus(e.tax, req.EnglishLevel, p, cfg.LanguageMax)

	if salary == maxSalary {
		b.Salary = cfg.Salary
	}
	if location == maxLocation {
		b.Location = cfg.Location
	}

	return b
}

// compareSkills returns the sorted job tokens the profile has and lacks.
func compareSkills(have, want map[string][]string) (matching, missing []string) {
	owned := make(map[string]struct{})
	for _, tokens := range have {
		for _, t := range tokens {
			owned[t] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	matching, missing = []string{}, []string{}
	for _, tokens := range want {
		for _, t := range tokens {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			if _, ok := owned[t]; ok {
				matching = append(matching, t)
			} else {
				missing = append(missing, t)
			}
		}
	}

	slices.Sort(matching)
	slices.Sort(missing)
	return matching, missing
}

// categoryBreakdown reports per shared category the share of job tokens the
// profile covers, in percent.
func categoryBreakdown(have, want map[string][]string) map[string]float64 {
	out := make(map[string]float64)
	for category, jobTokens := range want {
		own, ok := have[category]
		if !ok || len(jobTokens) == 0 {
			continue
		}
		hits := 0
		for _, t := range jobTokens {
			if slices.Contains(own, t) {
				hits++
			}
		}
		out[category] = round2(ratio(hits, len(jobTokens)) * 100)
	}
	return out
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func containsAnyOf(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// String is a short form used in log lines and prompts.
func (r *MatchResult) String() string {
	return fmt.Sprintf("%.1f%% %s", r.TotalScore, r.Tier)
}
