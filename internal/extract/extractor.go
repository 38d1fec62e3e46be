// Package extract turns normalized résumé text into profile fields. Each
// exported method covers one field and is total: an internal failure is
// logged and the field comes back absent.
package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/taxonomy"
)

// Plausibility bounds.
const (
	MinSalary = 9000
	MaxSalary = 500000
	MinAge    = 15
	MaxAge    = 80
	MaxGPA    = 4.0
)

type Extractor struct {
	tax    *taxonomy.Taxonomy
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Extractor)

// WithClock sets the clock used for "present" dates and start estimates.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger.WithFields(l, zap.String(logger.FieldComponent, "extract"))
	}
}

func New(tax *taxonomy.Taxonomy, opts ...Option) *Extractor {
	e := &Extractor{
		tax:    tax,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Taxonomy returns the taxonomy the extractor was built with.
func (e *Extractor) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// guard runs fn and turns a panic into the zero value of T.
func guard[T any](log *zap.Logger, field string, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("extractor failed",
				zap.String("field", field),
				zap.String("panic", fmt.Sprint(r)),
			)
			var zero T
			out = zero
		}
	}()

	return fn()
}

// window returns text[start:end] widened by radius runes on each side.
func window(text string, start, end, radius int) string {
	lo := start
	for i := 0; i < radius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}

	hi := end
	for i := 0; i < radius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}

	return text[lo:hi]
}

// cutRunes keeps at most limit runes without adding an ellipsis.
func cutRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// parseAmount reads "30,000" style numbers.
func parseAmount(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func plausibleSalary(n int) bool {
	return n >= MinSalary && n <= MaxSalary
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
