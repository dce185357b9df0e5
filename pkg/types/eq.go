// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IndustryProfile calibrates emotional scoring for one business
// classification. Profiles are looked up by exact code; unknown codes fall
// back to a single generic default (prd007-eq R1.2).
type IndustryProfile struct {
	// Code is the classification code (e.g. "restaurant", "saas").
	Code string `json:"code" yaml:"code"`

	// Name is the human-readable classification name.
	Name string `json:"name" yaml:"name"`

	// ToneBaseline is the industry's baseline emotional intensity in [0,100].
	ToneBaseline float64 `json:"tone_baseline" yaml:"tone_baseline"`

	// TriggerVocab lists emotional trigger terms common in this industry.
	TriggerVocab []string `json:"trigger_vocab" yaml:"trigger_vocab"`

	// PowerWords lists high-impact marketing terms for this industry.
	PowerWords []string `json:"power_words" yaml:"power_words"`
}

// EQLayers breaks an EQ score into its three weighted layers.
type EQLayers struct {
	// Baseline is the industry baseline layer value in [0,100] (50% weight).
	Baseline float64 `json:"baseline" yaml:"baseline"`

	// Lexicon is the emotion-lexicon layer value in [0,100] (35% weight).
	Lexicon float64 `json:"lexicon" yaml:"lexicon"`

	// Density is the keyword-density layer value in [0,100] (15% weight).
	Density float64 `json:"density" yaml:"density"`
}

// EQProfile is the run-level emotional-intensity result.
type EQProfile struct {
	// Classification is the code the profile was calibrated against.
	Classification string `json:"classification" yaml:"classification"`

	// Baseline is the industry baseline used for layer 1.
	Baseline float64 `json:"baseline" yaml:"baseline"`

	// Score is the blended emotional-intensity score, clamped to [0,100].
	Score float64 `json:"score" yaml:"score"`

	// Layers is the per-layer breakdown.
	Layers EQLayers `json:"layers" yaml:"layers"`

	// Signals counts lexicon matches per emotion category (fear, desire, ...).
	Signals map[string]int `json:"signals,omitempty" yaml:"signals,omitempty"`
}
