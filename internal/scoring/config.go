package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds the blend weights and bonus points of the composite score.
type Config struct {
	VectorWeight   float64 `mapstructure:"vector-weight" json:"vector_weight" validate:"gte=0,lte=1"`
	RuleWeight     float64 `mapstructure:"rule-weight" json:"rule_weight" validate:"gte=0,lte=1"`
	LanguageWeight float64 `mapstructure:"language-weight" json:"language_weight" validate:"gte=0,lte=1"`
	Bonuses        Bonuses `mapstructure:"bonuses" json:"bonuses"`
}

// Bonuses are points added on top of the weighted blend.
type Bonuses struct {
	SeniorExperience float64 `mapstructure:"senior-experience" json:"senior_experience" validate:"gte=0,lte=20"`
	MidExperience    float64 `mapstructure:"mid-experience" json:"mid_experience" validate:"gte=0,lte=20"`
	Master           float64 `mapstructure:"master" json:"master" validate:"gte=0,lte=20"`
	Doctorate        float64 `mapstructure:"doctorate" json:"doctorate" validate:"gte=0,lte=20"`
	LanguageMax      float64 `mapstructure:"language-max" json:"language_max" validate:"gte=0,lte=20"`
	Salary           float64 `mapstructure:"salary" json:"salary" validate:"gte=0,lte=20"`
	Location         float64 `mapstructure:"location" json:"location" validate:"gte=0,lte=20"`
}

func DefaultConfig() Config {
	return Config{
		VectorWeight:   0.5,
		RuleWeight:     0.3,
		LanguageWeight: 0.2,
		Bonuses: Bonuses{
			SeniorExperience: 8,
			MidExperience:    5,
			Master:           5,
			Doctorate:        8,
			LanguageMax:      10,
			Salary:           5,
			Location:         5,
		},
	}
}

// Validate checks field bounds and that the blend weights do not exceed 1.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate scoring config: %w", err)
	}

	sum := c.VectorWeight + c.RuleWeight + c.LanguageWeight
	if sum <= 0 || sum > 1+1e-9 {
		return fmt.Errorf("validate scoring config: weights must sum to a value in (0, 1], got %.3f", sum)
	}

	return nil
}
