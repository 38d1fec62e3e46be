// Package shortlist holds ranked candidates and the exclude list of
// candidates that were already contacted.
package shortlist

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/records"
	"github.com/spigell/resume-matcher/internal/scoring"
)

// Candidate sources.
const (
	SourceDocument = "document"
	SourceRecord   = "record"
)

type Candidates struct {
	Items []*Candidate `json:"items"`
}

type Candidate struct {
	ID             string               `json:"id"`
	Name           string               `json:"name,omitempty"`
	Source         string               `json:"source"`
	Path           string               `json:"path,omitempty"`
	URL            string               `json:"url,omitempty"`
	TotalScore     float64              `json:"total_score"`
	Tier           recommend.Tier       `json:"tier"`
	Recommendation string               `json:"recommendation"`
	MatchingSkills []string             `json:"matching_skills"`
	MissingSkills  []string             `json:"missing_skills"`
	Match          *scoring.MatchResult `json:"match,omitempty"`
	Profile        *profile.Profile     `json:"profile,omitempty"`
	Record         *records.Match       `json:"record,omitempty"`
}

// FromDocument builds a candidate from a scored plain-text résumé.
func FromDocument(id, path string, p *profile.Profile, m *scoring.MatchResult) *Candidate {
	c := &Candidate{
		ID:             id,
		Source:         SourceDocument,
		Path:           path,
		TotalScore:     m.TotalScore,
		Tier:           m.Tier,
		Recommendation: m.Recommendation,
		MatchingSkills: m.MatchingSkills,
		MissingSkills:  m.MissingSkills,
		Match:          m,
		Profile:        p,
	}
	if p != nil {
		c.Name = p.Contact.Name
	}
	return c
}

// FromRecord builds a candidate from a scored flat record.
func FromRecord(m *records.Match) *Candidate {
	return &Candidate{
		ID:             m.Record.ID,
		Name:           m.Record.Name(),
		Source:         SourceRecord,
		URL:            m.Record.ProfileURL,
		TotalScore:     m.TotalScore,
		Tier:           m.Tier,
		Recommendation: m.Recommendation,
		MatchingSkills: m.Details.MatchedSkills,
		MissingSkills:  m.Details.MissingSkills,
		Record:         m,
	}
}

// Skills returns every skill the candidate showed, lower-cased.
func (c *Candidate) Skills() []string {
	var out []string
	switch {
	case c.Profile != nil:
		for _, skills := range c.Profile.Skills {
			out = append(out, skills...)
		}
	default:
		out = append(out, c.MatchingSkills...)
	}
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// Sort orders candidates by total score descending, ties broken by ID.
func (c *Candidates) Sort() {
	slices.SortStableFunc(c.Items, func(a, b *Candidate) int {
		if n := cmp.Compare(b.TotalScore, a.TotalScore); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Top keeps at most n leading candidates. Non-positive n keeps everything.
func (c *Candidates) Top(n int) {
	if n > 0 && len(c.Items) > n {
		c.Items = c.Items[:n]
	}
}

func (c *Candidates) FindByID(id string) *Candidate {
	for _, cand := range c.Items {
		if cand.ID == id {
			return cand
		}
	}
	return nil
}

// IDs returns candidate IDs in list order.
func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, cand := range c.Items {
		ids = append(ids, cand.ID)
	}
	return ids
}

// Exclude removes candidates whose ID is in targets and returns the removed
// IDs. Order of the remaining candidates is preserved.
func (c *Candidates) Exclude(targets []string) []string {
	return c.Drop(func(cand *Candidate) bool {
		return slices.Contains(targets, cand.ID)
	})
}

// Drop removes every candidate for which fn returns true and returns their IDs.
func (c *Candidates) Drop(fn func(*Candidate) bool) []string {
	var dropped []string
	kept := c.Items[:0]
	for _, cand := range c.Items {
		if fn(cand) {
			dropped = append(dropped, cand.ID)
			continue
		}
		kept = append(kept, cand)
	}
	clear(c.Items[len(kept):])
	c.Items = kept
	return dropped
}

func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByTier groups short candidate descriptions by recommendation tier.
func (c *Candidates) ReportByTier() map[recommend.Tier][]map[string]string {
	report := make(map[recommend.Tier][]map[string]string)
	for _, cand := range c.Items {
		report[cand.Tier] = append(report[cand.Tier], map[string]string{
			"id":       cand.ID,
			"name":     cand.Name,
			"score":    fmt.Sprintf("%.2f", cand.TotalScore),
			"matching": strings.Join(cand.MatchingSkills, ", "),
			"missing":  strings.Join(cand.MissingSkills, ", "),
			"location": cand.location(),
		})
	}
	return report
}

func (c *Candidate) location() string {
	switch {
	case c.Record != nil:
		return c.Record.Record.Province
	case c.Profile != nil:
		return strings.Join(c.Profile.Provinces(), ", ")
	}
	return ""
}
