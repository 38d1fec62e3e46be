// Package textnorm cleans résumé and job-description text before any pattern
// matching happens. Every function here is total: bad input degrades to the
// best-effort cleaned string, possibly empty.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	controlChars    = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	zeroWidth       = regexp.MustCompile(`[\x{200B}\x{200C}\x{200D}\x{FEFF}]`)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
	anySpace        = regexp.MustCompile(`\s+`)

	// a Thai consonant or vowel followed by stray spaces and a combining mark
	splitCombining = regexp.MustCompile(`([\x{0E01}-\x{0E4E}])[ \t]+([\x{0E31}\x{0E34}-\x{0E3A}\x{0E47}-\x{0E4E}])`)
)

// thaiRepairs fixes words that PDF text layers commonly break apart.
// Order matters: longer keys are listed before their prefixes.
var thaiRepairs = []struct{ bad, good string }{
	{"คอมพ ิวเตอร ์", "คอมพิวเตอร์"},
	{"คอมพ ิวเตอร์", "คอมพิวเตอร์"},
	{"จ ัดการ", "จัดการ"},
	{"เทคโนโลย ี", "เทคโนโลยี"},
	{"ใช ้", "ใช้"},
	{"เกรดเฉล ีย", "เกรดเฉลี่ย"},
	{"ประว ัติ", "ประวัติ"},
	{"พน ักงาน", "พนักงาน"},
	{"บร ิษัท", "บริษัท"},
	{"การศ ึกษา", "การศึกษา"},
	{"ว ิทยาศาสตร์", "วิทยาศาสตร์"},
	{"ว ิชาการ", "วิชาการ"},
	{"การเง ิน", "การเงิน"},
	{"การบ ัญชี", "การบัญชี"},
	{"เทคน ิก", "เทคนิค"},
	{"ซอฟต ์แวร์", "ซอฟต์แวร์"},
	{"ฮาร์ดแวร ์", "ฮาร์ดแวร์"},
}

// Normalize runs the full cleaning pipeline: control and zero-width removal,
// NFC composition, Thai glyph repair and whitespace collapsing. Line breaks
// are kept because several extractors are line oriented; runs of blank lines
// shrink to a single blank line.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := Clean(raw)
	text = norm.NFC.String(text)
	text = RepairThai(text)

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// Clean strips control characters and zero-width marks only.
func Clean(raw string) string {
	text := controlChars.ReplaceAllString(raw, "")
	return zeroWidth.ReplaceAllString(text, "")
}

// RepairThai applies the fixed repair table and then removes whitespace that
// separates a Thai letter from its combining vowel or tone mark.
func RepairThai(text string) string {
	for _, r := range thaiRepairs {
		text = strings.ReplaceAll(text, r.bad, r.good)
	}
	return splitCombining.ReplaceAllString(text, "$1$2")
}

// Lower lower-cases Latin script for English matching. Thai has no case and is
// returned untouched.
func Lower(text string) string {
	// a Caser keeps state, so each call gets its own
	return cases.Lower(language.Und).String(text)
}

// SingleLine collapses every whitespace run, including newlines, to one space.
func SingleLine(text string) string {
	return strings.TrimSpace(anySpace.ReplaceAllString(text, " "))
}

// IsThai reports whether r belongs to the Thai Unicode block.
func IsThai(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

// HasThai reports whether s contains at least one Thai rune.
func HasThai(s string) bool {
	return strings.IndexFunc(s, IsThai) >= 0
}

// Truncate cuts s to limit runes and appends "..." when something was removed.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// RuneLen is the length of s in characters rather than bytes.
func RuneLen(s string) int {
	return len([]rune(s))
}

// IsWordRune reports whether r can be part of a word token: letters, digits,
// combining marks (needed for Thai) and underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
