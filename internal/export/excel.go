// Package export writes ranked shortlists to xlsx workbooks and JSON.
package export

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Ranked Candidates"
	detailsSheet    = "Details"
)

var candidateHeaders = []string{"Rank", "ID", "Name", "Total Score", "Tier", "Matching Skills", "Missing Skills", "Link"}

// tierFill colors a ranked row by its recommendation tier.
var tierFill = map[recommend.Tier]string{
	recommend.TierInterviewNow:      "C6EFCE",
	recommend.TierInterview:         "C6EFCE",
	recommend.TierConsiderAssess:    "FFEB9C",
	recommend.TierConsiderTrainable: "FFEB9C",
	recommend.TierConsiderCautious:  "FFC7CE",
	recommend.TierNotRecommended:    "FF9999",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

var headerStyleDef = &excelize.Style{
	Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
	Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	Border:    thinBorder,
}

// Summary describes the batch a shortlist came from.
type Summary struct {
	BatchID      string    `json:"batch_id"`
	Job          string    `json:"job"`
	TotalScanned int       `json:"total_scanned"`
	TotalMatched int       `json:"total_matched"`
	Failed       int       `json:"failed"`
	TimedOut     int       `json:"timed_out"`
	ScannedFiles []string  `json:"scanned_files,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// FileName builds a report name that is unique per batch.
func FileName(dir string, s Summary) string {
	id := s.BatchID
	if len(id) > 8 {
		id = id[:8]
	}
	return filepath.Join(dir, fmt.Sprintf("resume-match_%s_%s.xlsx", s.GeneratedAt.Format("20060102-150405"), id))
}

// ToExcel saves the workbook to path, adding the .xlsx extension when
// missing, and returns the final path.
func ToExcel(c *shortlist.Candidates, s Summary, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f, err := workbook(c, s)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

// WriteExcel streams the workbook to w.
func WriteExcel(w io.Writer, c *shortlist.Candidates, s Summary) error {
	f, err := workbook(c, s)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func workbook(c *shortlist.Candidates, s Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{candidatesSheet, detailsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	steps := []struct {
		name string
		fn   func(*excelize.File, *shortlist.Candidates, Summary) error
	}{
		{summarySheet, summary},
		{candidatesSheet, ranked},
		{detailsSheet, details},
	}
	for _, step := range steps {
		if err := step.fn(f, c, s); err != nil {
			f.Close()
			return nil, fmt.Errorf("create %s sheet: %w", strings.ToLower(step.name), err)
		}
	}
	return f, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func summary(f *excelize.File, c *shortlist.Candidates, s Summary) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 60); err != nil {
		return err
	}

	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Batch ID", s.BatchID},
		{"Generated", s.GeneratedAt.Format(time.DateTime)},
		{"Job Description", s.Job},
		{"Total Scanned", s.TotalScanned},
		{"Total Matched", s.TotalMatched},
		{"Failed", s.Failed},
		{"Timed Out", s.TimedOut},
	}

	report := c.ReportByTier()
	for _, tier := range tierOrder {
		rows = append(rows, []any{string(tier), len(report[tier])})
	}

	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, cell(1, i+1), &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(summarySheet, "A1", cell(1, len(rows)), label)
}

var tierOrder = []recommend.Tier{
	recommend.TierInterviewNow,
	recommend.TierInterview,
	recommend.TierConsiderAssess,
	recommend.TierConsiderTrainable,
	recommend.TierConsiderCautious,
	recommend.TierNotRecommended,
}

func ranked(f *excelize.File, c *shortlist.Candidates, _ Summary) error {
	widths := []float64{8, 24, 28, 12, 24, 40, 40, 40}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(candidatesSheet, col, col, w); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(headerStyleDef)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(candidatesSheet, "A1", &candidateHeaders); err != nil {
		return err
	}
	last := cell(len(candidateHeaders), 1)
	if err := f.SetCellStyle(candidatesSheet, "A1", last, header); err != nil {
		return err
	}

	styles := make(map[recommend.Tier]int, len(tierFill))
	for tier, color := range tierFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		styles[tier] = id
	}

	for i, cand := range c.Items {
		row := i + 2
		link := cand.URL
		if link == "" {
			link = cand.Path
		}
		values := []any{
			i + 1,
			cand.ID,
			cand.Name,
			cand.TotalScore,
			string(cand.Tier),
			strings.Join(cand.MatchingSkills, ", "),
			strings.Join(cand.MissingSkills, ", "),
			link,
		}
		if err := f.SetSheetRow(candidatesSheet, cell(1, row), &values); err != nil {
			return err
		}
		if style, ok := styles[cand.Tier]; ok {
			if err := f.SetCellStyle(candidatesSheet, cell(1, row), cell(len(values), row), style); err != nil {
				return err
			}
		}
		if strings.HasPrefix(cand.URL, "http") {
			if err := f.SetCellHyperLink(candidatesSheet, cell(len(values), row), cand.URL, "External"); err != nil {
				return err
			}
		}
	}

	if c.Len() > 0 {
		if err := f.AutoFilter(candidatesSheet, "A1:"+cell(len(candidateHeaders), c.Len()+1), nil); err != nil {
			return err
		}
	}

	return f.SetPanes(candidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func details(f *excelize.File, c *shortlist.Candidates, _ Summary) error {
	if err := f.SetColWidth(detailsSheet, "A", "A", 8); err != nil {
		return err
	}
	if err := f.SetColWidth(detailsSheet, "B", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(detailsSheet, "D", "D", 80); err != nil {
		return err
	}

	header, err := f.NewStyle(headerStyleDef)
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	headers := []string{"Rank", "ID", "Component", "Value"}
	if err := f.SetSheetRow(detailsSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(detailsSheet, "A1", "D1", header); err != nil {
		return err
	}

	row := 2
	for i, cand := range c.Items {
		for _, line := range componentLines(cand) {
			values := []any{i + 1, cand.ID, line[0], line[1]}
			if err := f.SetSheetRow(detailsSheet, cell(1, row), &values); err != nil {
				return err
			}
			if err := f.SetCellStyle(detailsSheet, cell(1, row), cell(4, row), wrap); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

// componentLines lists the per-component scores of a candidate followed by
// its recommendation text.
func componentLines(cand *shortlist.Candidate) [][2]any {
	var lines [][2]any
	switch {
	case cand.Match != nil:
		for _, key := range slices.Sorted(maps.Keys(cand.Match.ComponentScores)) {
			lines = append(lines, [2]any{key, cand.Match.ComponentScores[key]})
		}
		if cand.Match.Explanation != "" {
			lines = append(lines, [2]any{"explanation", cand.Match.Explanation})
		}
	case cand.Record != nil:
		b := cand.Record.Breakdown
		lines = append(lines,
			[2]any{"skills", b.Skills},
			[2]any{"position", b.Position},
			[2]any{"salary", b.Salary},
			[2]any{"education", b.Education},
			[2]any{"location", b.Location},
			[2]any{"experience", b.Experience},
		)
	}
	return append(lines, [2]any{"recommendation", cand.Recommendation})
}
