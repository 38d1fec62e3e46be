package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/records"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

var generated = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func sample() (*shortlist.Candidates, Summary) {
	c := &shortlist.Candidates{Items: []*shortlist.Candidate{
		{
			ID:             "a_python.txt",
			Name:           "สมชาย ใจดี",
			Path:           "in/a_python.txt",
			TotalScore:     92,
			Tier:           recommend.TierInterviewNow,
			Recommendation: "interview",
			MatchingSkills: []string{"python", "docker"},
			Match: &scoring.MatchResult{
				ComponentScores: map[string]float64{scoring.KeyTotal: 92, scoring.KeySalary: 20},
				Explanation:     "คะแนนรวม: 92.0%",
			},
		},
		{
			ID:             "8946035",
			URL:            "https://www3.jobthai.com/resume/0,8946035.html",
			TotalScore:     17.5,
			Tier:           recommend.TierNotRecommended,
			Recommendation: "no",
			MissingSkills:  []string{"python"},
			Record:         &records.Match{Breakdown: records.Breakdown{Salary: 10, Location: 7.5}},
		},
	}}
	s := Summary{
		BatchID:      "0f8e4c1a-1111-2222-3333-444455556666",
		Job:          "python developer",
		TotalScanned: 3,
		TotalMatched: 2,
		Failed:       1,
		GeneratedAt:  generated,
	}
	return c, s
}

func TestWriteExcel(t *testing.T) {
	t.Parallel()

	c, s := sample()

	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, c, s))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, candidatesSheet, detailsSheet}, f.GetSheetList())

	rows, err := f.GetRows(candidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, candidateHeaders, rows[0])
	assert.Equal(t, []string{"1", "a_python.txt", "สมชาย ใจดี", "92", "interview_immediately", "python, docker", "", "in/a_python.txt"}, rows[1])
	assert.Equal(t, "https://www3.jobthai.com/resume/0,8946035.html", rows[2][7])

	ok, link, err := f.GetCellHyperLink(candidatesSheet, "H3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://www3.jobthai.com/resume/0,8946035.html", link)

	summaryRows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Batch ID", s.BatchID}, summaryRows[0])
	assert.Equal(t, []string{"Total Scanned", "3"}, summaryRows[3])
	assert.Contains(t, summaryRows, []string{"interview_immediately", "1"})
	assert.Contains(t, summaryRows, []string{"not_recommended", "1"})

	detailRows, err := f.GetRows(detailsSheet)
	require.NoError(t, err)
	assert.Contains(t, detailRows, []string{"1", "a_python.txt", "explanation", "คะแนนรวม: 92.0%"})
	assert.Contains(t, detailRows, []string{"2", "8946035", "location", "7.5"})
	assert.Contains(t, detailRows, []string{"2", "8946035", "recommendation", "no"})
}

func TestToExcelAddsExtension(t *testing.T) {
	t.Parallel()

	c, s := sample()
	path, err := ToExcel(c, s, filepath.Join(t.TempDir(), "report"))
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.NoError(t, f.Close())
}

func TestFileName(t *testing.T) {
	t.Parallel()

	_, s := sample()
	assert.Equal(t, filepath.Join("out", "resume-match_20261016-093000_0f8e4c1a.xlsx"), FileName("out", s))
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	c, s := sample()

	var buf bytes.Buffer
	require.NoError(t, ToJSON(&buf, c, s))

	var back struct {
		Summary    map[string]any   `json:"summary"`
		TopMatches []map[string]any `json:"top_matches"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, float64(3), back.Summary["total_scanned"])
	require.Len(t, back.TopMatches, 2)
	assert.Equal(t, "a_python.txt", back.TopMatches[0]["id"])

	buf.Reset()
	require.NoError(t, ToJSON(&buf, &shortlist.Candidates{}, s))
	assert.Contains(t, buf.String(), `"top_matches": []`)
}
