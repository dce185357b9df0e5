// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/intel-engine/internal/eq"
	"github.com/pdiddy/intel-engine/pkg/types"
)

// Factor names as they appear in Connection.Factors.
const (
	FactorSourceDiversity       = "source_diversity"
	FactorDomainDiversity       = "domain_diversity"
	FactorTimingRelevance       = "timing_relevance"
	FactorEmotionalIntensity    = "emotional_intensity"
	FactorCompetitiveMoat       = "competitive_moat"
	FactorThemeValidation       = "theme_validation"
	FactorCustomerFocus         = "customer_focus"
	FactorSpecificity           = "specificity"
	FactorConfidenceCalibration = "confidence_calibration"
	FactorNovelty               = "novelty"
)

// timingWindow is the freshness horizon: a member this much older than the
// newest datapoint in the run contributes nothing to timing relevance.
const timingWindow = 30 * 24 * time.Hour

// moatKeywords signal defensible competitive positioning in member text.
var moatKeywords = []string{
	"only", "exclusive", "unique", "unmatched", "competitor", "competitors",
	"rival", "rivals", "gap", "lack", "lacks", "missing", "nobody", "first",
}

// specificityMarkers signal concrete, implementable detail in member text.
var specificityMarkers = []string{
	"percent", "daily", "weekly", "monthly", "minutes", "hours", "days",
	"per", "within", "step", "steps", "price", "cost", "rate",
}

// scoreCandidate computes the weighted breakthrough score for one candidate
// and keeps it only if it clears the threshold for its order. Every factor
// is normalized to [0,1]; the score is the weighted mean scaled to [0,100]
// (prd006-discovery R3.1).
func (e *Engine) scoreCandidate(members []types.DataPoint, theme, classification string, newest time.Time, comboSeen map[string]int) (types.Connection, bool) {
	order := len(members)
	w := e.cfg.Weights

	factors := map[string]float64{
		FactorSourceDiversity:       sourceDiversityFactor(members),
		FactorDomainDiversity:       domainDiversityFactor(members),
		FactorTimingRelevance:       timingFactor(members, newest),
		FactorEmotionalIntensity:    emotionalFactor(members, classification),
		FactorCompetitiveMoat:       moatFactor(members),
		FactorThemeValidation:       themeValidationFactor(members),
		FactorCustomerFocus:         customerFocusFactor(members),
		FactorSpecificity:           specificityFactor(members),
		FactorConfidenceCalibration: confidenceFactor(members),
		FactorNovelty:               noveltyFactor(members, comboSeen),
	}

	weighted := w.SourceDiversity*factors[FactorSourceDiversity] +
		w.DomainDiversity*factors[FactorDomainDiversity] +
		w.TimingRelevance*factors[FactorTimingRelevance] +
		w.EmotionalIntensity*factors[FactorEmotionalIntensity] +
		w.CompetitiveMoat*factors[FactorCompetitiveMoat] +
		w.ThemeValidation*factors[FactorThemeValidation] +
		w.CustomerFocus*factors[FactorCustomerFocus] +
		w.Specificity*factors[FactorSpecificity] +
		w.ConfidenceCalibration*factors[FactorConfidenceCalibration] +
		w.Novelty*factors[FactorNovelty]
	total := w.SourceDiversity + w.DomainDiversity + w.TimingRelevance +
		w.EmotionalIntensity + w.CompetitiveMoat + w.ThemeValidation +
		w.CustomerFocus + w.Specificity + w.ConfidenceCalibration + w.Novelty

	score := 100 * weighted / total

	threshold, tier := orderThreshold(order)
	if score < threshold {
		return types.Connection{}, false
	}

	memberIDs := make([]string, order)
	for i, m := range members {
		memberIDs[i] = m.ID
	}
	sort.Strings(memberIDs)

	return types.Connection{
		ID:        connectionID(memberIDs),
		Order:     order,
		MemberIDs: memberIDs,
		Sources:   distinctSourceList(members),
		Domains:   distinctDomainList(members),
		Theme:     theme,
		Score:     score,
		Tier:      tier,
		Factors:   factors,
	}, true
}

// sourceDiversityFactor is the distinct-source share of the member count: a
// candidate whose every member comes from a different source scores 1.
func sourceDiversityFactor(members []types.DataPoint) float64 {
	return float64(distinctSources(members)) / float64(len(members))
}

// domainDiversityFactor is the distinct-domain count over the four
// intelligence domains.
func domainDiversityFactor(members []types.DataPoint) float64 {
	seen := make(map[types.Domain]struct{}, len(members))
	for _, m := range members {
		seen[m.Domain] = struct{}{}
	}
	return float64(len(seen)) / 4
}

// timingFactor measures freshness against the newest datapoint in the run,
// not the wall clock, so rescoring identical input yields identical scores.
func timingFactor(members []types.DataPoint, newest time.Time) float64 {
	if newest.IsZero() {
		return 0
	}
	total := 0.0
	for _, m := range members {
		age := newest.Sub(m.Timestamp)
		if age < 0 {
			age = 0
		}
		f := 1 - float64(age)/float64(timingWindow)
		if f < 0 {
			f = 0
		}
		total += f
	}
	return total / float64(len(members))
}

// emotionalFactor feeds the member texts through the industry-calibrated
// emotional scorer, each weighted by its source confidence.
func emotionalFactor(members []types.DataPoint, classification string) float64 {
	samples := make([]eq.Sample, len(members))
	for i, m := range members {
		samples[i] = eq.Sample{Text: m.Text, Confidence: m.Confidence}
	}
	return eq.Score(classification, samples).Score / 100
}

// moatFactor takes the stronger of two signals: the share of members from
// the competitive domain, and the share whose text carries moat vocabulary.
func moatFactor(members []types.DataPoint) float64 {
	competitive, keyword := 0, 0
	for _, m := range members {
		if m.Domain == types.DomainCompetitive {
			competitive++
		}
		if containsAnyToken(m.Text, moatKeywords) {
			keyword++
		}
	}
	n := float64(len(members))
	domainShare := float64(competitive) / n
	keywordShare := float64(keyword) / n
	if keywordShare > domainShare {
		return keywordShare
	}
	return domainShare
}

// themeValidationFactor rewards cross-source corroboration of the shared
// theme: each additional distinct source past the first counts.
func themeValidationFactor(members []types.DataPoint) float64 {
	f := float64(distinctSources(members)-1) / 4
	if f > 1 {
		f = 1
	}
	return f
}

func customerFocusFactor(members []types.DataPoint) float64 {
	count := 0
	for _, m := range members {
		if m.Domain == types.DomainCustomerPsychology {
			count++
		}
	}
	return float64(count) / float64(len(members))
}

// specificityFactor estimates how implementable the member texts are:
// numerals and concrete-detail markers count, three per member saturates.
func specificityFactor(members []types.DataPoint) float64 {
	total := 0.0
	for _, m := range members {
		hits := 0
		for _, tok := range strings.Fields(strings.ToLower(m.Text)) {
			if tokenHasDigit(tok) || inList(strings.Trim(tok, ".,!?:;"), specificityMarkers) {
				hits++
			}
		}
		f := float64(hits) / 3
		if f > 1 {
			f = 1
		}
		total += f
	}
	return total / float64(len(members))
}

func confidenceFactor(members []types.DataPoint) float64 {
	total := 0.0
	for _, m := range members {
		total += m.Confidence
	}
	f := total / float64(len(members))
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// noveltyFactor decays with repetition of the same source combination.
// comboSeen is keyed by the sorted distinct source set and updated in
// enumeration order, which is itself deterministic.
func noveltyFactor(members []types.DataPoint, comboSeen map[string]int) float64 {
	key := strings.Join(distinctSourceList(members), "|")
	seen := comboSeen[key]
	comboSeen[key]++
	return 1 / float64(1+seen)
}

func distinctSourceList(members []types.DataPoint) []string {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		seen[m.Source] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func distinctDomainList(members []types.DataPoint) []types.Domain {
	seen := make(map[types.Domain]struct{}, len(members))
	for _, m := range members {
		seen[m.Domain] = struct{}{}
	}
	out := make([]types.Domain, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func containsAnyToken(text string, list []string) bool {
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if inList(strings.Trim(tok, ".,!?:;"), list) {
			return true
		}
	}
	return false
}

func inList(tok string, list []string) bool {
	for _, s := range list {
		if tok == s {
			return true
		}
	}
	return false
}

func tokenHasDigit(tok string) bool {
	for _, r := range tok {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
