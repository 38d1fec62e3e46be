package shortlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/records"
)

func sample() *Candidates {
	return &Candidates{Items: []*Candidate{
		{ID: "b", TotalScore: 70, Tier: recommend.TierInterview},
		{ID: "c", TotalScore: 92, Tier: recommend.TierInterviewNow, MatchingSkills: []string{"python"}},
		{ID: "a", TotalScore: 70, Tier: recommend.TierConsiderAssess},
		{ID: "d", TotalScore: 10, Tier: recommend.TierNotRecommended, MissingSkills: []string{"go", "sql"}},
	}}
}

func TestSortAndTop(t *testing.T) {
	t.Parallel()

	c := sample()
	c.Sort()
	assert.Equal(t, []string{"c", "a", "b", "d"}, c.IDs())

	c.Top(2)
	assert.Equal(t, []string{"c", "a"}, c.IDs())

	c.Top(0)
	assert.Equal(t, 2, c.Len())
}

func TestExclude(t *testing.T) {
	t.Parallel()

	c := sample()
	removed := c.Exclude([]string{"a", "zzz", "d"})

	assert.Equal(t, []string{"a", "d"}, removed)
	assert.Equal(t, []string{"b", "c"}, c.IDs())
	assert.Nil(t, c.FindByID("a"))
	assert.NotNil(t, c.FindByID("c"))
}

func TestDrop(t *testing.T) {
	t.Parallel()

	c := sample()
	dropped := c.Drop(func(cand *Candidate) bool { return cand.TotalScore < 71 })

	assert.Equal(t, []string{"b", "a", "d"}, dropped)
	assert.Equal(t, []string{"c"}, c.IDs())
}

func TestReportByTier(t *testing.T) {
	t.Parallel()

	report := sample().ReportByTier()

	require.Len(t, report[recommend.TierInterviewNow], 1)
	entry := report[recommend.TierInterviewNow][0]
	assert.Equal(t, "c", entry["id"])
	assert.Equal(t, "92.00", entry["score"])
	assert.Equal(t, "python", entry["matching"])
	assert.Equal(t, "go, sql", report[recommend.TierNotRecommended][0]["missing"])
}

func TestCandidateSkills(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{Skills: map[string][]string{"programming": {"Python"}}}
	c := &Candidate{Profile: p}
	assert.Equal(t, []string{"python"}, c.Skills())
	assert.Equal(t, []string{"Python"}, p.Skills["programming"])

	rec := FromRecord(&records.Match{
		Record:     records.Record{ID: "42", Province: "ภูเก็ต", ProfileURL: "https://example.com/r/42"},
		TotalScore: 50,
		Details:    records.Details{MatchedSkills: []string{"Excel"}},
	})
	assert.Equal(t, SourceRecord, rec.Source)
	assert.Equal(t, "https://example.com/r/42", rec.URL)
	assert.Equal(t, []string{"excel"}, rec.Skills())
	assert.Equal(t, "ภูเก็ต", rec.location())
}

func TestExcludedFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")

	missing, err := ReadExcludedFile(path)
	require.NoError(t, err)
	assert.Empty(t, missing.Items)

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	excluded := sample().ToExcluded(now)
	excluded.Append(&ExcludedCandidates{Items: []*ExcludedCandidate{{ID: "a"}, {ID: "e"}}})
	assert.Equal(t, []string{"b", "c", "a", "d", "e"}, excluded.IDs())

	require.NoError(t, excluded.ToFile(path))

	shorter := &ExcludedCandidates{Items: []*ExcludedCandidate{{ID: "x", ExcludedAt: now}}}
	require.NoError(t, shorter.ToFile(path))

	loaded, err := ReadExcludedFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, loaded.IDs())
	assert.True(t, loaded.Items[0].ExcludedAt.Equal(now))
}

func TestReadExcludedFileEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	loaded, err := ReadExcludedFile(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestDumpToTmpFile(t *testing.T) {
	t.Parallel()

	path, err := sample().DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back Candidates
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"b", "c", "a", "d"}, back.IDs())
}
