package extract

import "regexp"

// match is one regexp hit with its submatch offsets.
type match struct {
	text string
	loc  []int
}

// Group returns submatch i, or "" when it did not participate.
func (m match) Group(i int) string {
	if 2*i+1 >= len(m.loc) || m.loc[2*i] < 0 {
		return ""
	}
	return m.text[m.loc[2*i]:m.loc[2*i+1]]
}

func (m match) Start() int { return m.loc[0] }
func (m match) End() int   { return m.loc[1] }

// rule pairs a pattern with the function that validates and converts a hit.
type rule[T any] struct {
	re   *regexp.Regexp
	pick func(m match) (T, bool)
}

// cascade is an ordered rule list. Order is the tie-break: Thai labels come
// before English ones and specific shapes before generic fallbacks.
type cascade[T any] []rule[T]

// first walks the rules in order and, inside a rule, the hits in text
// order. The first hit the rule accepts wins.
func (c cascade[T]) first(text string) (T, bool) {
	for _, r := range c {
		for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
			if v, ok := r.pick(match{text: text, loc: loc}); ok {
				return v, true
			}
		}
	}

	var zero T
	return zero, false
}

// rules builds a cascade that shares one pick function.
func rules[T any](pick func(m match) (T, bool), patterns ...string) cascade[T] {
	c := make(cascade[T], 0, len(patterns))
	for _, p := range patterns {
		c = append(c, rule[T]{re: regexp.MustCompile(p), pick: pick})
	}
	return c
}
