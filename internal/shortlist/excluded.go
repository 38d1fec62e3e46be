package shortlist

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

type ExcludedCandidates struct {
	Items []*ExcludedCandidate `json:"items"`
}

type ExcludedCandidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	URL        string    `json:"url,omitempty"`
	Score      float64   `json:"score"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// ToExcluded converts the shortlist into exclude-file entries stamped with now.
func (c *Candidates) ToExcluded(now time.Time) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, cand := range c.Items {
		url := cand.URL
		if url == "" {
			url = cand.Path
		}
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			ID:         cand.ID,
			Name:       cand.Name,
			URL:        url,
			Score:      cand.TotalScore,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

// ReadExcludedFile loads an exclude file. A missing or empty file is an
// empty list.
func ReadExcludedFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries whose ID is not in the list yet.
func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	seen := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[item.ID] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedCandidates) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
