package scoring

import (
	"math"
	"slices"
	"strings"

	"github.com/spigell/resume-matcher/internal/taxonomy"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

const maxFeatures = 1000

// skillBag joins the skill tokens of a profile or job. Tokens of weighted
// categories are written twice.
func skillBag(tax *taxonomy.Taxonomy, skills map[string][]string) string {
	var parts []string
	for _, category := range tax.CategoryNames() {
		tokens := skills[category]
		if len(tokens) == 0 {
			continue
		}
		parts = append(parts, tokens...)
		if tax.IsWeighted(category) {
			parts = append(parts, tokens...)
		}
	}
	return strings.Join(parts, " ")
}

// terms splits text into lower-cased words of two or more word runes, drops
// stop words and emits unigrams followed by bigrams.
func terms(tax *taxonomy.Taxonomy, text string) []string {
	var words []string
	for _, w := range strings.FieldsFunc(textnorm.Lower(text), func(r rune) bool { return !textnorm.IsWordRune(r) }) {
		if textnorm.RuneLen(w) < 2 || tax.IsStopWord(w) {
			continue
		}
		words = append(words, w)
	}

	out := make([]string, 0, 2*len(words))
	out = append(out, words...)
	for i := 0; i+1 < len(words); i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

// cosineTFIDF builds smooth-idf TF-IDF vectors for a two-document corpus and
// returns their cosine similarity clamped to [0, 1]. An empty side yields 0.
func cosineTFIDF(tax *taxonomy.Taxonomy, a, b string) float64 {
	docs := [][]string{terms(tax, a), terms(tax, b)}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	counts := make([]map[string]int, len(docs))
	total := make(map[string]int)
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range doc {
			counts[i][term]++
			total[term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	vocab := make([]string, 0, len(total))
	for term := range total {
		vocab = append(vocab, term)
	}
	slices.SortFunc(vocab, func(x, y string) int {
		if total[x] != total[y] {
			return total[y] - total[x]
		}
		return strings.Compare(x, y)
	})
	if len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}

	n := float64(len(docs))
	vectors := make([][]float64, len(docs))
	for i := range docs {
		vec := make([]float64, len(vocab))
		var norm float64
		for j, term := range vocab {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			vec[j] = float64(counts[i][term]) * idf
			norm += vec[j] * vec[j]
		}
		if norm == 0 {
			return 0
		}
		norm = math.Sqrt(norm)
		for j := range vec {
			vec[j] /= norm
		}
		vectors[i] = vec
	}

	var dot float64
	for j := range vocab {
		dot += vectors[0][j] * vectors[1][j]
	}

	return clamp(dot, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
