package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-matcher/internal/profile"
)

const (
	minURLLength = 8
	maxURLLength = 500
)

var (
	urlCandidate  = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
	urlShape      = regexp.MustCompile(`^https?://[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?::\d+)?(?:/\S*)?$`)
	fileExtension = regexp.MustCompile(`\.[a-zA-Z0-9]{2,4}$`)
	repeatedSlash = regexp.MustCompile(`/{2,}`)
)

// linkKinds is checked in order; the first marker found in host+path wins.
var linkKinds = []struct {
	kind    string
	markers []string
}{
	{"github", []string{"github.com", "github.io"}},
	{"linkedin", []string{"linkedin.com"}},
	{"behance", []string{"behance.net"}},
	{"dribbble", []string{"dribbble.com"}},
	{"facebook", []string{"facebook.com", "fb.com"}},
	{"instagram", []string{"instagram.com"}},
	{"twitter", []string{"twitter.com"}},
	{"youtube", []string{"youtube.com", "youtu.be"}},
	{"medium", []string{"medium.com"}},
	{"stackoverflow", []string{"stackoverflow.com"}},
	{"portfolio", []string{"portfolio", "wixsite.com", "about.me"}},
	{"education", []string{".ac.th", ".edu"}},
	{"blog", []string{"blog", "wordpress.com", "blogspot."}},
}

const linkWebsite = "website"

// SanitizeURL cleans a raw URL candidate. Trailing prose in another script
// and trailing punctuation are cut, the path gets a trailing slash unless it
// names a file, and the result must have a strict scheme://host[/path] shape.
func SanitizeURL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	for i, r := range s {
		if r >= utf8.RuneSelf || r < 0x20 {
			s = s[:i]
			break
		}
	}
	s = strings.TrimRight(strings.TrimSpace(s), ".,;:!?)]}'\"")

	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}

	path := repeatedSlash.ReplaceAllString(u.EscapedPath(), "/")
	switch {
	case path == "":
		path = "/"
	case u.RawQuery == "" && !strings.HasSuffix(path, "/") && !fileExtension.MatchString(path):
		path += "/"
	}

	clean := u.Scheme + "://" + u.Host + path
	if u.RawQuery != "" {
		clean += "?" + u.RawQuery
	}

	if len(clean) < minURLLength || len(clean) > maxURLLength || !urlShape.MatchString(clean) {
		return "", false
	}
	return clean, true
}

// Links returns the unique sanitized URLs in document order.
func (e *Extractor) Links(text string) []string {
	return guard(e.logger, "links", func() []string {
		return e.links(text)
	})
}

func (e *Extractor) links(text string) []string {
	out := []string{}
	for _, raw := range urlCandidate.FindAllString(text, -1) {
		if clean, ok := SanitizeURL(raw); ok {
			out = profile.AppendUnique(out, clean)
		}
	}
	return out
}

// LinkDetails classifies every link by site.
func (e *Extractor) LinkDetails(text string) []profile.Link {
	return guard(e.logger, "link_details", func() []profile.Link {
		links := e.links(text)
		details := make([]profile.Link, 0, len(links))
		for _, l := range links {
			details = append(details, ClassifyLink(l))
		}
		return details
	})
}

// ClassifyLink names the kind of site a sanitized URL points to.
func ClassifyLink(link string) profile.Link {
	detail := profile.Link{URL: link, Type: linkWebsite}

	u, err := url.Parse(link)
	if err != nil {
		return detail
	}
	detail.Domain = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	target := detail.Domain + strings.ToLower(u.Path)
	for _, k := range linkKinds {
		if containsAny(target, k.markers...) {
			detail.Type = k.kind
			break
		}
	}

	return detail
}
