// Package analysis assembles a candidate profile from one résumé text.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

// ErrEmptyDocument is returned when a document has no text after normalization.
var ErrEmptyDocument = errors.New("document is empty")

type Builder struct {
	ext    *extract.Extractor
	logger *zap.Logger
}

func New(ext *extract.Extractor, log *zap.Logger) *Builder {
	return &Builder{
		ext:    ext,
		logger: logger.WithFields(log, zap.String(logger.FieldComponent, "analysis")),
	}
}

// Result is the serializable outcome of one analysis.
type Result struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Profile *profile.Profile `json:"profile,omitempty"`
}

// Build normalizes text once and runs every extractor over it.
func (b *Builder) Build(text string) (*profile.Profile, error) {
	norm := textnorm.Normalize(text)
	if strings.TrimSpace(norm) == "" {
		return nil, ErrEmptyDocument
	}

	p := &profile.Profile{
		Contact:           b.ext.Contact(norm),
		Personal:          b.ext.Personal(norm),
		Education:         b.ext.Education(norm),
		WorkExperience:    b.ext.WorkExperience(norm),
		Skills:            b.ext.Skills(norm),
		Responsibilities:  b.ext.Responsibilities(norm),
		SalaryExpectation: b.ext.SalaryExpectation(norm),
		ExpectedSalary:    b.ext.ExpectedSalary(norm),
		Certifications:    b.ext.Certifications(norm),
		LanguageSkills:    b.ext.Languages(norm),
		DrivingSkills:     b.ext.Driving(norm),
		SpecialAbilities:  b.ext.SpecialAbilities(norm),
		Links:             b.ext.Links(norm),
		LinkDetails:       b.ext.LinkDetails(norm),
		DesiredPosition:   b.ext.DesiredPosition(norm),
		PreferredLocation: b.ext.PreferredLocation(norm),
		PreferredJobType:  b.ext.JobTypes(norm),
		AvailableStart:    b.ext.StartDate(norm),
	}
	if p.Skills == nil {
		p.Skills = map[string][]string{}
	}
	p.TotalExperience = profile.TotalExperience(p.WorkExperience)
	p.Summary = profile.BuildSummary(p)

	b.logger.Debug("profile built",
		zap.String("snippet", logger.TruncateForLog(norm, 60)),
		zap.Int("skill_categories", len(p.Skills)),
		zap.Int("work_entries", len(p.WorkExperience)),
		zap.String("total_experience", p.TotalExperience),
	)

	return p, nil
}

// Analyze wraps Build into a Result so callers can report failures without
// handling errors.
func (b *Builder) Analyze(text string) Result {
	p, err := b.Build(text)
	if err != nil {
		b.logger.Warn("analysis failed", zap.Error(err))
		return Result{Success: false, Error: fmt.Sprintf("analyze document: %s", err)}
	}
	return Result{Success: true, Profile: p}
}
