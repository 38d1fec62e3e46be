package filtering

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

func candidates() *shortlist.Candidates {
	return &shortlist.Candidates{Items: []*shortlist.Candidate{
		{
			ID:         "py",
			TotalScore: 92,
			Tier:       recommend.TierInterviewNow,
			Profile:    &profile.Profile{Skills: map[string][]string{"programming": {"python", "go"}}},
		},
		{ID: "rec", TotalScore: 64, Tier: recommend.TierConsiderTrainable, MatchingSkills: []string{"Python"}},
		{ID: "acc", TotalScore: 12, Tier: recommend.TierNotRecommended},
	}}
}

func TestRunFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{name: "no config", cfg: Config{}, want: []string{"py", "rec", "acc"}},
		{name: "min score", cfg: Config{MinScore: 60}, want: []string{"py", "rec"}},
		{name: "required skills", cfg: Config{RequiredSkills: []string{" Python ", "python"}}, want: []string{"py", "rec"}},
		{name: "two required skills", cfg: Config{RequiredSkills: []string{"python", "go"}}, want: []string{"py"}},
		{name: "not recommended", cfg: Config{DropNotRecommended: true}, want: []string{"py", "rec"}},
		{name: "combined", cfg: Config{MinScore: 70, DropNotRecommended: true}, want: []string{"py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Run(context.Background(), &tt.cfg, Deps{}, Default(), candidates())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.IDs())
		})
	}
}

func TestRunLogsSteps(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	steps := Default()
	DisableByName(steps, "exclude_file", "include-excluded flag is set")

	_, err := Run(context.Background(), &Config{MinScore: 50}, Deps{Logger: zap.New(core)}, steps, candidates())
	require.NoError(t, err)

	disabled := logs.FilterMessage("filter disabled").All()
	require.Len(t, disabled, 1)
	assert.Equal(t, "exclude_file", disabled[0].ContextMap()["name"])

	var minStep map[string]any
	for _, entry := range logs.FilterMessage("filter step").All() {
		if entry.ContextMap()["name"] == "min_score" {
			minStep = entry.ContextMap()
		}
	}
	require.NotNil(t, minStep)
	assert.Equal(t, int64(3), minStep["initial"])
	assert.Equal(t, int64(1), minStep["dropped"])
	assert.Equal(t, int64(2), minStep["left"])
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), &Config{MinScore: 120}, Deps{}, Default(), candidates())
	assert.Error(t, err)

	_, err = Run(context.Background(), &Config{RequiredSkills: []string{" "}}, Deps{}, Default(), candidates())
	assert.ErrorContains(t, err, "required_skills")
}

func TestExcludeFileFilter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")
	contacted := &shortlist.Candidates{Items: []*shortlist.Candidate{{ID: "rec"}}}
	require.NoError(t, contacted.ToExcluded(time.Now()).ToFile(path))

	got, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, Default(), candidates())
	require.NoError(t, err)
	assert.Equal(t, []string{"py", "acc"}, got.IDs())

	steps := Default()
	DisableByName(steps, "exclude_file", "skip")
	got, err = Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, steps, candidates())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := Default()
	DisableByName(steps, "drop_not_recommended", "flag")
	_, err := Run(context.Background(), &Config{MinScore: 40, ExcludeFile: "x.json", RequiredSkills: []string{"Go"}}, Deps{}, steps, &shortlist.Candidates{})
	require.NoError(t, err)

	statuses := Describe(steps)
	require.Len(t, statuses, 4)

	byName := make(map[string]Status, len(statuses))
	for _, s := range statuses {
		byName[s.Name] = s
	}
	assert.Equal(t, "x.json", byName["exclude_file"].Details["path"])
	assert.Equal(t, "40.00", byName["min_score"].Details["min_score"])
	assert.Equal(t, "go", byName["required_skills"].Details["skills"])
	assert.False(t, byName["drop_not_recommended"].Enabled)
	assert.Equal(t, "flag", byName["drop_not_recommended"].Reason)
}
