// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eq scores emotional intensity for content, calibrated against a
// business classification.
// Implements: prd007-eq (R1-R3);
//
//	docs/ARCHITECTURE.md § EQ Scoring.
package eq

import "github.com/pdiddy/intel-engine/pkg/types"

// industryProfiles is the static classification table. Lookups are by
// exact code; anything else falls back to defaultProfile, never an error.
var industryProfiles = map[string]types.IndustryProfile{
	"restaurant": {
		Code:         "restaurant",
		Name:         "Restaurants & Cafes",
		ToneBaseline: 62,
		TriggerVocab: []string{"craving", "fresh", "homemade", "cozy", "atmosphere", "flavor", "local"},
		PowerWords:   []string{"unforgettable", "authentic", "handcrafted", "seasonal", "signature"},
	},
	"fitness": {
		Code:         "fitness",
		Name:         "Fitness & Wellness",
		ToneBaseline: 70,
		TriggerVocab: []string{"transform", "stronger", "energy", "results", "goals", "confidence"},
		PowerWords:   []string{"breakthrough", "proven", "unstoppable", "powerful", "guaranteed"},
	},
	"legal": {
		Code:         "legal",
		Name:         "Legal Services",
		ToneBaseline: 38,
		TriggerVocab: []string{"protect", "rights", "peace", "trusted", "experienced", "deserve"},
		PowerWords:   []string{"proven", "dedicated", "relentless", "respected"},
	},
	"realestate": {
		Code:         "realestate",
		Name:         "Real Estate",
		ToneBaseline: 55,
		TriggerVocab: []string{"dream", "home", "neighborhood", "investment", "opportunity", "family"},
		PowerWords:   []string{"exclusive", "rare", "stunning", "coveted", "move-in"},
	},
	"ecommerce": {
		Code:         "ecommerce",
		Name:         "E-commerce & Retail",
		ToneBaseline: 58,
		TriggerVocab: []string{"deal", "save", "limited", "free", "new", "favorite", "quality"},
		PowerWords:   []string{"exclusive", "bestselling", "essential", "irresistible"},
	},
	"saas": {
		Code:         "saas",
		Name:         "Software & SaaS",
		ToneBaseline: 45,
		TriggerVocab: []string{"automate", "faster", "simple", "scale", "insight", "workflow"},
		PowerWords:   []string{"effortless", "powerful", "seamless", "instant"},
	},
	"healthcare": {
		Code:         "healthcare",
		Name:         "Healthcare",
		ToneBaseline: 40,
		TriggerVocab: []string{"care", "health", "relief", "trusted", "gentle", "recovery"},
		PowerWords:   []string{"compassionate", "advanced", "personalized"},
	},
}

// defaultProfile is the generic fallback for unknown classification codes.
var defaultProfile = types.IndustryProfile{
	Code:         "generic",
	Name:         "General Business",
	ToneBaseline: 50,
	TriggerVocab: []string{"quality", "trusted", "local", "new", "best", "service"},
	PowerWords:   []string{"proven", "exclusive", "exceptional", "reliable"},
}

// Profile returns the industry profile for code, or the generic default
// when the code is unknown or empty.
func Profile(code string) types.IndustryProfile {
	if p, ok := industryProfiles[code]; ok {
		return p
	}
	return defaultProfile
}

// emotionLexicon maps emotion categories to their signal terms (R2.2).
var emotionLexicon = map[string][]string{
	"fear": {
		"worry", "worried", "afraid", "risk", "lose", "losing", "miss",
		"missing", "mistake", "regret", "scared", "anxious", "ruined",
	},
	"desire": {
		"want", "love", "crave", "craving", "dream", "wish", "perfect",
		"amazing", "incredible", "unreal", "obsessed", "favorite",
	},
	"pride": {
		"best", "proud", "finest", "award", "top", "premier", "leading",
		"exclusive", "elite",
	},
	"urgency": {
		"now", "today", "limited", "hurry", "deadline", "soon", "last",
		"closing", "ending", "weekend", "only",
	},
	"trust": {
		"trusted", "reliable", "honest", "proven", "guaranteed", "certified",
		"recommended", "authentic",
	},
	"frustration": {
		"annoying", "frustrated", "tired", "sick", "terrible", "awful",
		"disappointing", "complaint", "complaints", "problem", "problems",
	},
}
