// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eq

import (
	"sort"
	"strings"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// Layer weights (R1.1): baseline 50%, emotion lexicon 35%, keyword
// density 15%.
const (
	weightBaseline = 0.50
	weightLexicon  = 0.35
	weightDensity  = 0.15
)

// Sample is one text with the confidence of its contributing source.
// Lexicon matches in high-confidence text count for more (R2.3).
type Sample struct {
	Text       string
	Confidence float64
}

// Score computes the three-layer emotional-intensity score for the given
// classification code over the samples. The result is always clamped to
// [0,100]; empty input yields the baseline-only score, never an error.
func Score(code string, samples []Sample) types.EQProfile {
	profile := Profile(code)

	nonEmpty := samples[:0:0]
	for _, s := range samples {
		if strings.TrimSpace(s.Text) != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}

	result := types.EQProfile{
		Classification: profile.Code,
		Baseline:       profile.ToneBaseline,
		Layers:         types.EQLayers{Baseline: profile.ToneBaseline},
	}

	if len(nonEmpty) == 0 {
		result.Score = clamp(profile.ToneBaseline)
		return result
	}

	lexScore, signals := lexiconScore(nonEmpty)
	densScore := densityScore(profile, nonEmpty)

	result.Layers.Lexicon = lexScore
	result.Layers.Density = densScore
	result.Signals = signals
	result.Score = clamp(weightBaseline*profile.ToneBaseline +
		weightLexicon*lexScore +
		weightDensity*densScore)
	return result
}

// ScoreText is the single-sample convenience used by connection scoring.
func ScoreText(code, text string, confidence float64) types.EQProfile {
	return Score(code, []Sample{{Text: text, Confidence: confidence}})
}

// lexiconScore matches emotion-lexicon terms across the samples, weighting
// each occurrence by the sample's source confidence, and maps the weighted
// rate per hundred words onto [0,100].
func lexiconScore(samples []Sample) (float64, map[string]int) {
	signals := make(map[string]int)
	weighted := 0.0
	words := 0

	categories := make([]string, 0, len(emotionLexicon))
	for cat := range emotionLexicon {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, s := range samples {
		tokens := fields(s.Text)
		words += len(tokens)
		conf := s.Confidence
		if conf <= 0 {
			conf = 0.5
		}
		for _, cat := range categories {
			for _, term := range emotionLexicon[cat] {
				for _, tok := range tokens {
					if tok == term {
						signals[cat]++
						weighted += conf
					}
				}
			}
		}
	}
	if words == 0 {
		return 0, nil
	}

	// 8 weighted matches per 100 words saturates the layer.
	rate := weighted / float64(words) * 100
	score := rate / 8 * 100
	if score > 100 {
		score = 100
	}
	if len(signals) == 0 {
		signals = nil
	}
	return score, signals
}

// densityScore measures how much of the text overlaps the industry's
// curated trigger vocabulary and power words.
func densityScore(profile types.IndustryProfile, samples []Sample) float64 {
	vocab := make(map[string]bool, len(profile.TriggerVocab)+len(profile.PowerWords))
	for _, w := range profile.TriggerVocab {
		vocab[strings.ToLower(w)] = true
	}
	for _, w := range profile.PowerWords {
		vocab[strings.ToLower(w)] = true
	}

	matches, words := 0, 0
	for _, s := range samples {
		for _, tok := range fields(s.Text) {
			words++
			if vocab[tok] {
				matches++
			}
		}
	}
	if words == 0 {
		return 0
	}

	// 5 vocabulary hits per 100 words saturates the layer.
	score := float64(matches) / float64(words) * 100 / 5 * 100
	if score > 100 {
		score = 100
	}
	return score
}

// fields lowercases and splits text on non-alphanumeric runes.
func fields(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
