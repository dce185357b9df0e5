// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"sort"
	"strings"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// themeStopwords are tokens too common to label a theme.
var themeStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "here": true, "i": true, "in": true,
	"is": true, "it": true, "its": true, "my": true, "of": true, "on": true,
	"or": true, "our": true, "so": true, "that": true, "the": true,
	"their": true, "there": true, "they": true, "this": true, "to": true,
	"up": true, "was": true, "we": true, "were": true, "while": true,
	"with": true, "you": true, "your": true,
}

const themeSampleSize = 3

// themeLabel derives a short cluster label from the texts nearest the
// centroid: the most frequent non-stopword tokens across the closest
// members, ties broken alphabetically so the label is deterministic.
func themeLabel(centroid []float64, members []types.DataPoint) string {
	if len(members) == 0 {
		return ""
	}

	nearest := make([]types.DataPoint, len(members))
	copy(nearest, members)
	sort.Slice(nearest, func(i, j int) bool {
		di := squaredDistance(nearest[i].Embedding, centroid)
		dj := squaredDistance(nearest[j].Embedding, centroid)
		if di != dj {
			return di < dj
		}
		return nearest[i].ID < nearest[j].ID
	})
	if len(nearest) > themeSampleSize {
		nearest = nearest[:themeSampleSize]
	}

	counts := make(map[string]int)
	for _, m := range nearest {
		for _, tok := range tokenize(m.Text) {
			counts[tok]++
		}
	}
	if len(counts) == 0 {
		return "general"
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, " ")
}

// tokenize lowercases text and strips punctuation and stopwords.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || themeStopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}
