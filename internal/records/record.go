// Package records reads already-scraped flat résumé records and scores them
// against a job description without building a full profile.
package records

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Placeholder is what listing pages print for an empty cell.
const Placeholder = "-"

// Record is one row of a scraped résumé listing.
type Record struct {
	ID         string `mapstructure:"id" json:"id"`
	Order      string `mapstructure:"order" json:"order,omitempty"`
	SiteScore  string `mapstructure:"score" json:"score,omitempty"`
	Age        string `mapstructure:"age" json:"age,omitempty"`
	Position   string `mapstructure:"position" json:"position,omitempty"`
	Province   string `mapstructure:"province" json:"province,omitempty"`
	Salary     string `mapstructure:"salary" json:"salary,omitempty"`
	Degree     string `mapstructure:"education" json:"education,omitempty"`
	Field      string `mapstructure:"field" json:"field,omitempty"`
	University string `mapstructure:"university" json:"university,omitempty"`
	Experience string `mapstructure:"experience" json:"experience,omitempty"`
	Updated    string `mapstructure:"updated" json:"updated,omitempty"`
	ProfileURL string `mapstructure:"profile_url" json:"profile_url,omitempty"`
}

// headerAliases maps listing column headers, Thai or English, onto record keys.
var headerAliases = map[string]string{
	"ลำดับ":           "order",
	"เรซูเม่ id":      "id",
	"คะแนน":           "score",
	"อายุ":            "age",
	"ตำแหน่งที่สมัคร": "position",
	"จังหวัด":         "province",
	"เงินเดือน":       "salary",
	"ระดับการศึกษา":   "education",
	"สาขา":            "field",
	"มหาวิทยาลัย":     "university",
	"ตำแหน่งที่เคยทำ": "experience",
	"อัปเดตล่าสุด":    "updated",
	"ลิงก์โปรไฟล์":    "profile_url",

	"resume_id":        "id",
	"resume id":        "id",
	"desired_position": "position",
	"degree":           "education",
	"past_positions":   "experience",
	"last_update":      "updated",
	"url":              "profile_url",
	"link":             "profile_url",
}

var (
	spaces      = regexp.MustCompile(`\s+`)
	commaSpaces = regexp.MustCompile(`\s*,\s*`)
)

// CanonicalKey maps a column header onto a record key. Unknown headers are
// lower-cased and returned as is.
func CanonicalKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	if alias, ok := headerAliases[key]; ok {
		return alias
	}
	return key
}

// CleanValue collapses whitespace and normalizes comma-separated lists to
// "a, b, c". Thousands separators such as "25,000" are left alone.
func CleanValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == Placeholder {
		return s
	}
	s = spaces.ReplaceAllString(s, " ")

	var b strings.Builder
	last := 0
	for _, m := range commaSpaces.FindAllStringIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		if m[1]-m[0] == 1 && m[0] > 0 && m[1] < len(s) && isDigit(s[m[0]-1]) && isDigit(s[m[1]]) {
			b.WriteByte(',')
		} else {
			b.WriteString(", ")
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Normalize rewrites raw row keys to record keys and cleans string values.
func Normalize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		key := CanonicalKey(k)
		if s, ok := v.(string); ok {
			if key == "profile_url" {
				v = spaces.ReplaceAllString(s, "")
			} else {
				v = CleanValue(s)
			}
		}
		out[key] = v
	}
	return out
}

// Decode turns a normalized row into a Record. Numbers are accepted where
// strings are expected, as JSON exports carry ages and IDs as numbers.
func Decode(row map[string]any) (Record, error) {
	var rec Record
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rec,
	})
	if err != nil {
		return Record{}, fmt.Errorf("create record decoder: %w", err)
	}
	if err := dec.Decode(row); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Name is a display name for the record.
func (r Record) Name() string {
	if r.Position != "" && r.Position != Placeholder {
		return r.ID + " " + r.Position
	}
	return r.ID
}

// has reports whether a field carries a real value.
func has(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != Placeholder
}
