package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-matcher/internal/textnorm"
)

// Skills maps taxonomy categories to the canonical tokens found in text.
// A token matches directly or through one of its variants. Categories without
// a hit are left out, and tokens keep taxonomy order.
func (e *Extractor) Skills(text string) map[string][]string {
	return guard(e.logger, "skills", func() map[string][]string {
		return e.skills(text)
	})
}

func (e *Extractor) skills(text string) map[string][]string {
	found := make(map[string][]string)
	lower := textnorm.Lower(text)

	seen := make(map[string]map[string]struct{})
	for _, skill := range e.tax.Skills() {
		if !matchesSkill(lower, skill.Token, skill.Variants) {
			continue
		}

		set, ok := seen[skill.Category]
		if !ok {
			set = make(map[string]struct{})
			seen[skill.Category] = set
		}
		if _, dup := set[skill.Token]; dup {
			continue
		}
		set[skill.Token] = struct{}{}
		found[skill.Category] = append(found[skill.Category], skill.Token)
	}

	return found
}

func matchesSkill(lower, token string, variants []string) bool {
	if ContainsToken(lower, token) {
		return true
	}
	for _, v := range variants {
		if ContainsToken(lower, textnorm.Lower(v)) {
			return true
		}
	}
	return false
}

// ContainsToken reports whether token occurs in text. When the token starts
// or ends with an ASCII letter or digit, the neighbouring character on that
// side must not be one, so "go" does not match inside "google". Thai tokens
// match as plain substrings because Thai is written without spaces.
func ContainsToken(text, token string) bool {
	if token == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(token)
	last, _ := utf8.DecodeLastRuneInString(token)
	checkStart, checkEnd := isASCIIAlnum(first), isASCIIAlnum(last)

	offset := 0
	for offset <= len(text) {
		idx := strings.Index(text[offset:], token)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(token)

		ok := true
		if checkStart && start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:start])
			ok = !isASCIIAlnum(prev)
		}
		if ok && checkEnd && end < len(text) {
			next, _ := utf8.DecodeRuneInString(text[end:])
			ok = !isASCIIAlnum(next)
		}
		if ok {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}

	return false
}

func isASCIIAlnum(r rune) bool {
	return r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}
