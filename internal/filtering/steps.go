package filtering

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

// toggle carries the disabled state shared by every filter.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes candidates listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = strings.TrimSpace(cfg.ExcludeFile)
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, c *shortlist.Candidates) (*shortlist.Candidates, Step, error) {
	initial := c.Len()
	if f.path == "" {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	excluded, err := shortlist.ReadExcludedFile(f.path)
	if err != nil {
		return c, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := c.Exclude(excluded.IDs())
	if len(removed) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type minScoreFilter struct {
	toggle
	min float64
}

// NewMinScore creates a filter that removes candidates below the configured total score.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.min = cfg.MinScore
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, c *shortlist.Candidates) (*shortlist.Candidates, Step, error) {
	initial := c.Len()
	if f.min <= 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	dropped := c.Drop(func(cand *shortlist.Candidate) bool {
		return cand.TotalScore < f.min
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding candidates below minimum score",
			zap.Float64("min_score", f.min),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": fmt.Sprintf("%.2f", f.min)},
	}
}

type requiredSkillsFilter struct {
	toggle
	skills []string
}

// NewRequiredSkills creates a filter that keeps only candidates showing every required skill.
func NewRequiredSkills() Filter {
	return &requiredSkillsFilter{}
}

func (f *requiredSkillsFilter) Name() string { return "required_skills" }

func (f *requiredSkillsFilter) Validate(cfg *Config) error {
	f.skills = nil
	for _, skill := range cfg.RequiredSkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			return fmt.Errorf("required skill must not be blank")
		}
		if !slices.Contains(f.skills, skill) {
			f.skills = append(f.skills, skill)
		}
	}
	return nil
}

func (f *requiredSkillsFilter) Apply(_ context.Context, deps Deps, c *shortlist.Candidates) (*shortlist.Candidates, Step, error) {
	initial := c.Len()
	if len(f.skills) == 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	dropped := c.Drop(func(cand *shortlist.Candidate) bool {
		have := cand.Skills()
		for _, skill := range f.skills {
			if !slices.Contains(have, skill) {
				return true
			}
		}
		return false
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding candidates without required skills",
			zap.Strings("required_skills", f.skills),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *requiredSkillsFilter) Status() Status {
	details := map[string]string{}
	if len(f.skills) > 0 {
		details["skills"] = strings.Join(f.skills, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type notRecommendedFilter struct {
	toggle
	drop bool
}

// NewNotRecommended creates a filter that removes candidates in the not-recommended tier.
func NewNotRecommended() Filter {
	return &notRecommendedFilter{}
}

func (f *notRecommendedFilter) Name() string { return "drop_not_recommended" }

func (f *notRecommendedFilter) Validate(cfg *Config) error {
	f.drop = cfg.DropNotRecommended
	return nil
}

func (f *notRecommendedFilter) Apply(_ context.Context, deps Deps, c *shortlist.Candidates) (*shortlist.Candidates, Step, error) {
	initial := c.Len()
	if !f.drop {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	dropped := c.Drop(func(cand *shortlist.Candidate) bool {
		return cand.Tier == recommend.TierNotRecommended
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding not recommended candidates",
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *notRecommendedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
