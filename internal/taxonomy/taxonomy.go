// Package taxonomy holds the static skill taxonomy and the keyword families
// used by extraction and scoring. A Taxonomy is loaded once and read-only
// afterwards, so it is safe to share between goroutines.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultData []byte

// Category is a named group of canonical skill tokens.
type Category struct {
	Name   string   `yaml:"name" validate:"required"`
	Skills []string `yaml:"skills" validate:"required,min=1,dive,required"`
}

// KeywordFamily groups keywords that resolve to the same name.
type KeywordFamily struct {
	Name     string   `yaml:"name" validate:"required"`
	Label    string   `yaml:"label,omitempty"`
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// Skill is one taxonomy entry as seen by the matchers.
type Skill struct {
	Category string
	Token    string
	Variants []string
}

type Taxonomy struct {
	WeightedCategories  []string            `yaml:"weighted_categories"`
	Categories          []Category          `yaml:"categories" validate:"required,min=1,dive"`
	Variants            map[string][]string `yaml:"variants"`
	JobTypes            []KeywordFamily     `yaml:"job_types" validate:"required,min=1,dive"`
	Positions           []KeywordFamily     `yaml:"positions" validate:"dive"`
	EnglishRequirements []KeywordFamily     `yaml:"english_requirements" validate:"dive"`
	OtherLanguages      []string            `yaml:"other_languages"`
	ProficiencyLevels   []KeywordFamily     `yaml:"proficiency" validate:"dive"`
	Provinces           []string            `yaml:"provinces" validate:"required,min=1,dive,required"`
	ProvinceAliases     map[string]string   `yaml:"province_aliases"`
	StopWords           []string            `yaml:"stop_words"`
	StudyFields         map[string][]string `yaml:"study_fields"`

	skills    []Skill
	stopWords map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
	defaultErr  error
)

// Default returns the embedded taxonomy. It is parsed on first use.
func Default() (*Taxonomy, error) {
	defaultOnce.Do(func() {
		defaultTax, defaultErr = Parse(defaultData)
	})
	return defaultTax, defaultErr
}

// Load reads a taxonomy from a YAML file. An empty path yields the default.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}

	return t, nil
}

// Parse decodes and validates taxonomy YAML.
func Parse(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	t.index()

	return &t, nil
}

// Validate checks struct constraints and cross references.
func (t *Taxonomy) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return fmt.Errorf("validate taxonomy: %w", err)
	}

	seen := make(map[string]struct{}, len(t.Categories))
	for _, c := range t.Categories {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("validate taxonomy: duplicate category %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	for _, w := range t.WeightedCategories {
		if _, ok := seen[w]; !ok {
			return fmt.Errorf("validate taxonomy: weighted category %q is not defined", w)
		}
	}

	families := make(map[string]struct{}, len(t.Positions))
	for _, p := range t.Positions {
		families[p.Name] = struct{}{}
	}
	for family := range t.StudyFields {
		if _, ok := families[family]; !ok {
			return fmt.Errorf("validate taxonomy: study fields reference unknown position family %q", family)
		}
	}

	return nil
}

func (t *Taxonomy) index() {
	t.stopWords = make(map[string]struct{}, len(t.StopWords))
	for _, w := range t.StopWords {
		t.stopWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	t.skills = t.skills[:0]
	for _, c := range t.Categories {
		for _, token := range c.Skills {
			token = strings.ToLower(strings.TrimSpace(token))
			t.skills = append(t.skills, Skill{
				Category: c.Name,
				Token:    token,
				Variants: t.Variants[token],
			})
		}
	}
}

// Skills returns every entry in category order.
func (t *Taxonomy) Skills() []Skill {
	return t.skills
}

// CategoryNames lists the categories in declaration order.
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}

// IsWeighted reports whether a category is up-weighted for vector similarity.
func (t *Taxonomy) IsWeighted(category string) bool {
	return slices.Contains(t.WeightedCategories, category)
}

// CanonicalProvince maps aliases onto the province name used for comparison.
func (t *Taxonomy) CanonicalProvince(name string) string {
	name = strings.TrimSpace(name)
	if alias, ok := t.ProvinceAliases[strings.ToLower(name)]; ok {
		return alias
	}
	if alias, ok := t.ProvinceAliases[name]; ok {
		return alias
	}
	return name
}

// JobTypeLabel returns the display label of a job type family.
func (t *Taxonomy) JobTypeLabel(name string) string {
	for _, f := range t.JobTypes {
		if f.Name == name {
			if f.Label != "" {
				return f.Label
			}
			return f.Name
		}
	}
	return name
}

// ProficiencyOf classifies a proficiency word such as "ดีมาก" or "Fluent".
// Families are checked strongest first; "" means no family matched.
func (t *Taxonomy) ProficiencyOf(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	for _, f := range t.ProficiencyLevels {
		for _, k := range f.Keywords {
			if strings.Contains(word, strings.ToLower(k)) {
				return f.Name
			}
		}
	}
	return ""
}

// EnglishLevelRequired returns the first English requirement level whose
// keywords appear in the lower-cased job text, or "".
func (t *Taxonomy) EnglishLevelRequired(lowerJob string) string {
	for _, f := range t.EnglishRequirements {
		for _, k := range f.Keywords {
			if strings.Contains(lowerJob, k) {
				return f.Name
			}
		}
	}
	return ""
}

// IsStopWord reports whether a lower-cased term is ignored by vector similarity.
func (t *Taxonomy) IsStopWord(term string) bool {
	_, ok := t.stopWords[term]
	return ok
}

// Stats counts skills per category.
func (t *Taxonomy) Stats() map[string]int {
	stats := make(map[string]int, len(t.Categories))
	for _, c := range t.Categories {
		stats[c.Name] = len(c.Skills)
	}
	return stats
}
