package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spigell/resume-matcher/internal/shortlist"
)

// Report is the JSON shape of a ranked batch.
type Report struct {
	Summary    Summary                `json:"summary"`
	TopMatches []*shortlist.Candidate `json:"top_matches"`
}

func ToJSON(w io.Writer, c *shortlist.Candidates, s Summary) error {
	items := c.Items
	if items == nil {
		items = []*shortlist.Candidate{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Report{Summary: s, TopMatches: items}); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
