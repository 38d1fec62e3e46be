// Package jobtext resolves the job description a batch is matched against.
package jobtext

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/resume-matcher/internal/scoring"
)

// Source describes where the job description comes from.
type Source struct {
	// Inline is a job description passed via configuration or flags.
	Inline string
	// File points to a plain-text or HTML job ad. When set it takes
	// precedence over Inline.
	File string
}

const noiseSelector = "nav, footer, header, script, style, noscript, form, .ad, .ads, .cookie-banner, .popup"

var contentSelectors = []string{
	".job-description",
	"#job-description",
	".job-details",
	"[itemprop='description']",
	"main",
	"article",
}

// Load returns the trimmed job description. Files ending in .html or .htm are
// reduced to their visible text.
func Load(src Source) (string, error) {
	text := src.Inline

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading job description from file %q: %w", file, err)
		}
		text = string(data)

		switch strings.ToLower(filepath.Ext(file)) {
		case ".html", ".htm":
			text, err = FromHTML(bytes.NewReader(data))
			if err != nil {
				return "", err
			}
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		if file != "" {
			return "", fmt.Errorf("job description file %q: %w", file, scoring.ErrEmptyJobDescription)
		}
		return "", scoring.ErrEmptyJobDescription
	}

	return text, nil
}

// FromHTML extracts the description block of a saved job ad, falling back to
// the whole body.
func FromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse job html: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	return cleanLines(content.Text()), nil
}

func cleanLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
