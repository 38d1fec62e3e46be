// Package filtering trims a ranked shortlist before it is cut to top-N.
package filtering

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

// Filter represents a single filtering step applied to ranked candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, c *shortlist.Candidates) (*shortlist.Candidates, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	MinScore           float64  `mapstructure:"min-score" json:"min_score" validate:"gte=0,lte=100"`
	RequiredSkills     []string `mapstructure:"required-skills" json:"required_skills"`
	ExcludeFile        string   `mapstructure:"exclude-file" json:"exclude_file"`
	DropNotRecommended bool     `mapstructure:"drop-not-recommended" json:"drop_not_recommended"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Default returns every filter in the order they run.
func Default() []Filter {
	return []Filter{
		NewExcludeFile(),
		NewMinScore(),
		NewRequiredSkills(),
		NewNotRecommended(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns what is left.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, c *shortlist.Candidates) (*shortlist.Candidates, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate filters config: %w", err)
	}

	log := logger.WithFields(deps.Logger, zap.String(logger.FieldComponent, "filtering"))
	deps.Logger = log

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			log.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		log.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		c = next
	}

	return c, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
