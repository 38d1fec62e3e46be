package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/export"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

func newSession(t *testing.T) (*shortlistSession, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	var out bytes.Buffer
	return &shortlistSession{
		config: &Config{Export: ExportConfig{Dir: dir}},
		logger: zap.NewNop(),
		out:    &out,
		ranked: &shortlist.Candidates{Items: []*shortlist.Candidate{
			{ID: "a.txt", TotalScore: 92, Tier: recommend.TierInterviewNow},
			{ID: "b.txt", TotalScore: 40, Tier: recommend.TierNotRecommended},
		}},
		summary: export.Summary{BatchID: "batch-0001", GeneratedAt: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
	}, &out
}

func TestHandleActionExportAndExit(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t)

	require.NoError(t, s.handleAction(PromptExportXLSX))
	matches, err := filepath.Glob(filepath.Join(s.config.Export.Dir, "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	require.NoError(t, s.handleAction(PromptReportByTier))
	assert.ErrorIs(t, s.handleAction(PromptExit), errExit)
	assert.ErrorContains(t, s.handleAction("unknown"), "invalid action")
}

func TestHandleActionAppendToExcludeFile(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t)
	path := filepath.Join(t.TempDir(), "excluded.json")
	s.config.Filters.ExcludeFile = path

	assert.ErrorIs(t, s.handleAction(PromptAppendToExcludeFile), errExit)
	assert.Zero(t, s.ranked.Len())

	excluded, err := shortlist.ReadExcludedFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, excluded.IDs())
}

func TestRunAutoApprovePrintsReport(t *testing.T) {
	t.Parallel()

	s, out := newSession(t)
	cmd := &cobra.Command{}
	addShortlistFlags(cmd)
	require.NoError(t, cmd.Flags().Set("auto-approve", "true"))

	s.run(cmd)

	assert.Contains(t, out.String(), `"batch_id": "batch-0001"`)
	assert.Contains(t, out.String(), `"id": "a.txt"`)
}
