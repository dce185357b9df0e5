// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eq

import (
	"strings"
	"testing"
)

func TestEmptyInputReturnsBaselineOnly(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
	}{
		{"nil samples", nil},
		{"empty slice", []Sample{}},
		{"blank text", []Sample{{Text: "   "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Score("restaurant", tt.samples)
			if p.Score != Profile("restaurant").ToneBaseline {
				t.Errorf("Score = %f, want baseline %f", p.Score, Profile("restaurant").ToneBaseline)
			}
			if p.Layers.Lexicon != 0 || p.Layers.Density != 0 {
				t.Error("empty input produced non-zero lexicon/density layers")
			}
		})
	}
}

func TestUnknownCodeFallsBack(t *testing.T) {
	p := Score("submarine-manufacturing", nil)
	if p.Classification != "generic" {
		t.Errorf("Classification = %q, want generic fallback", p.Classification)
	}
	if p.Baseline != defaultProfile.ToneBaseline {
		t.Errorf("Baseline = %f, want %f", p.Baseline, defaultProfile.ToneBaseline)
	}
}

func TestScoreAlwaysClamped(t *testing.T) {
	loaded := strings.Repeat("amazing love crave dream best limited now trusted proven ", 40)
	tests := []struct {
		name string
		code string
		text string
	}{
		{"emotionally saturated", "fitness", loaded},
		{"plain text", "legal", "the office is open monday through friday"},
		{"empty", "saas", ""},
		{"punctuation only", "restaurant", "!!! ... ???"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ScoreText(tt.code, tt.text, 0.9)
			if p.Score < 0 || p.Score > 100 {
				t.Errorf("Score = %f, out of [0,100]", p.Score)
			}
		})
	}
}

func TestEmotionalTextOutscoresPlain(t *testing.T) {
	emotional := ScoreText("restaurant",
		"I love this place, amazing flavor, the best homemade pasta, worried it ruined me for every other restaurant", 0.9)
	plain := ScoreText("restaurant",
		"the restaurant is located at 400 main street and has twelve tables", 0.9)

	if emotional.Score <= plain.Score {
		t.Errorf("emotional score %f <= plain score %f", emotional.Score, plain.Score)
	}
}

func TestSignalBreakdownCountsCategories(t *testing.T) {
	p := ScoreText("ecommerce", "hurry, limited deal ends today, I love this and worry I will miss it", 0.8)

	for _, cat := range []string{"urgency", "desire", "fear"} {
		if p.Signals[cat] == 0 {
			t.Errorf("Signals[%s] = 0, want matches", cat)
		}
	}
}

func TestConfidenceWeightsLexiconLayer(t *testing.T) {
	text := "I love this amazing place and crave it constantly"
	high := Score("restaurant", []Sample{{Text: text, Confidence: 1.0}})
	low := Score("restaurant", []Sample{{Text: text, Confidence: 0.2}})

	if high.Layers.Lexicon <= low.Layers.Lexicon {
		t.Errorf("high-confidence lexicon %f <= low-confidence %f",
			high.Layers.Lexicon, low.Layers.Lexicon)
	}
}

func TestLayerWeightsBlend(t *testing.T) {
	p := ScoreText("fitness", "transform your energy, proven results, stronger every day", 0.9)

	want := clamp(0.5*p.Layers.Baseline + 0.35*p.Layers.Lexicon + 0.15*p.Layers.Density)
	if p.Score != want {
		t.Errorf("Score = %f, want weighted blend %f", p.Score, want)
	}
}

func TestProfileLookup(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"restaurant", "restaurant"},
		{"saas", "saas"},
		{"", "generic"},
		{"unknown", "generic"},
	}
	for _, tt := range tests {
		if got := Profile(tt.code).Code; got != tt.want {
			t.Errorf("Profile(%q).Code = %q, want %q", tt.code, got, tt.want)
		}
	}
}
