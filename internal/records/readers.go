package records

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// ErrNoRows is returned when a source holds a header but no data.
var ErrNoRows = errors.New("no records found")

// listingBaseURL prefixes relative profile links on saved listing pages.
const listingBaseURL = "https://www3.jobthai.com"

// listingColumns maps the span id fragments of a listing row onto record keys.
var listingColumns = []struct {
	key, fragment string
}{
	{"score", "resumeRankingPercent"},
	{"age", "text-age"},
	{"position", "positionValue"},
	{"updated", "lastUpdateValue"},
	{"province", "addressValue"},
	{"salary", "salaryValue"},
	{"education", "grad1LevelValue"},
	{"field", "grad1FieldValue"},
	{"university", "grad1SchoolValue"},
	{"experience", "workExperienceValue"},
	{"order", "text-no"},
}

var anySpace = regexp.MustCompile(`\s+`)

// ReadCSV reads a header row followed by data rows. A UTF-8 byte order mark
// on the first header is ignored.
func ReadCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return tableRows(rows)
}

// ReadXLSX reads the first sheet of a workbook the same way as ReadCSV.
func ReadXLSX(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return tableRows(rows)
}

func tableRows(rows [][]string) ([]map[string]any, error) {
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	header := rows[0]
	out := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		item := make(map[string]any, len(header))
		for i, name := range header {
			if strings.TrimSpace(name) == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			item[name] = value
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ReadJSON accepts either an array of objects or an object with a "records"
// array.
func ReadJSON(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var list []map[string]any
	if err := json.Unmarshal(data, &list); err != nil {
		var wrapped struct {
			Records []map[string]any `json:"records"`
		}
		if wrapErr := json.Unmarshal(data, &wrapped); wrapErr != nil {
			return nil, fmt.Errorf("decode json records: %w", err)
		}
		list = wrapped.Records
	}
	if len(list) == 0 {
		return nil, ErrNoRows
	}
	return list, nil
}

// ParseListing reads the résumé rows of a saved search-result page. Rows are
// table rows whose id starts with "trBody_"; the suffix is the résumé ID.
func ParseListing(r io.Reader) ([]map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var out []map[string]any
	doc.Find("tr[id^='trBody_']").Each(func(_ int, row *goquery.Selection) {
		rowID, _ := row.Attr("id")
		id := rowID[strings.LastIndex(rowID, "_")+1:]
		if id == "" {
			return
		}

		item := map[string]any{"id": id}
		for _, col := range listingColumns {
			text := Placeholder
			if span := row.Find(fmt.Sprintf("span[id*='%s']", col.fragment)).First(); span.Length() > 0 {
				text = CleanValue(span.Text())
			}
			if col.key == "order" {
				text = strings.ReplaceAll(text, ".", "")
			}
			item[col.key] = text
		}
		item["profile_url"] = profileLink(row)

		out = append(out, item)
	})

	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func profileLink(row *goquery.Selection) string {
	href, ok := row.Find("a[href*='/resume/']").First().Attr("href")
	if !ok {
		return Placeholder
	}
	href = anySpace.ReplaceAllString(href, "")
	if href == "" {
		return Placeholder
	}
	if !strings.HasPrefix(href, "http") {
		href = listingBaseURL + href
	}
	return href
}
