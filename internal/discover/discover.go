// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover enumerates and scores N-way cross-source connections
// from clustered datapoints. Implements: prd006-discovery (R1-R5).
//
// Candidate generation is scoped to one cluster at a time rather than a
// full cross-product over all datapoints. Within a cluster the pool is the
// top datapoints per source by confidence, capped to a configured size, so
// order-5 enumeration stays bounded. Every candidate must draw members from
// at least two distinct sources.
//
// Identical datapoints, clusters, and weights always yield the identical
// connection set: enumeration order is fixed, connection IDs are content
// digests, and no factor consults the wall clock.
package discover

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// Defaults per prd006-discovery R2.2-R2.4.
const (
	defaultTopPerSource = 3
	defaultMaxPoolSize  = 12
	defaultMaxPerTier   = 10

	minOrder = 2
	maxOrder = 5
)

// ConfigError reports invalid discovery configuration. It is the only hard
// failure this package produces; everything downstream of a valid config is
// absorbed into the returned connection set.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("discovery config: %s: %s", e.Field, e.Reason)
}

// Engine scores N-way candidates against the configured factor weights.
type Engine struct {
	cfg types.DiscoveryConfig
}

// New validates the configuration and returns a ready engine. Weights must
// all be non-negative with at least one positive (prd006-discovery R5.2).
func New(cfg types.DiscoveryConfig) (*Engine, error) {
	if err := validateWeights(cfg.Weights); err != nil {
		return nil, err
	}
	if cfg.TopPerSource <= 0 {
		cfg.TopPerSource = defaultTopPerSource
	}
	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = defaultMaxPoolSize
	}
	if cfg.MaxPerTier <= 0 {
		cfg.MaxPerTier = defaultMaxPerTier
	}
	return &Engine{cfg: cfg}, nil
}

func validateWeights(w types.ScoringWeights) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"source_diversity", w.SourceDiversity},
		{"domain_diversity", w.DomainDiversity},
		{"timing_relevance", w.TimingRelevance},
		{"emotional_intensity", w.EmotionalIntensity},
		{"competitive_moat", w.CompetitiveMoat},
		{"theme_validation", w.ThemeValidation},
		{"customer_focus", w.CustomerFocus},
		{"specificity", w.Specificity},
		{"confidence_calibration", w.ConfidenceCalibration},
		{"novelty", w.Novelty},
	}
	sum := 0.0
	for _, f := range fields {
		if f.value < 0 {
			return &ConfigError{Field: "weights." + f.name, Reason: "must be non-negative"}
		}
		sum += f.value
	}
	if sum == 0 {
		return &ConfigError{Field: "weights", Reason: "at least one weight must be positive"}
	}
	return nil
}

// orderThreshold returns the minimum score and tier for a candidate order.
// Thresholds are independent per order; a below-threshold candidate is
// discarded, never downgraded to a lower tier (prd006-discovery R3.2).
func orderThreshold(order int) (float64, types.Tier) {
	switch order {
	case 2:
		return 50, types.TierInsight
	case 3:
		return 65, types.TierPattern
	case 4:
		return 75, types.TierBreakthrough
	default:
		return 80, types.TierUltimate
	}
}

// Discover enumerates candidates cluster by cluster, scores each against
// the ten weighted factors, and returns the surviving connections ranked by
// (tier desc, score desc, source diversity desc, id asc) with a per-tier
// cap. The classification code feeds the emotional-intensity factor.
func (e *Engine) Discover(points []types.DataPoint, clusters []types.Cluster, classification string) []types.Connection {
	byID := make(map[string]types.DataPoint, len(points))
	for _, p := range points {
		byID[p.ID] = p
	}
	newest := newestTimestamp(points)

	ordered := make([]types.Cluster, len(clusters))
	copy(ordered, clusters)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var kept []types.Connection
	comboSeen := make(map[string]int)
	for _, cl := range ordered {
		pool := e.candidatePool(cl, byID)
		if len(pool) < minOrder {
			continue
		}
		top := maxOrder
		if top > len(pool) {
			top = len(pool)
		}
		for order := minOrder; order <= top; order++ {
			forEachCombination(len(pool), order, func(idx []int) {
				members := make([]types.DataPoint, order)
				for i, j := range idx {
					members[i] = pool[j]
				}
				if distinctSources(members) < 2 {
					return
				}
				conn, ok := e.scoreCandidate(members, cl.Theme, classification, newest, comboSeen)
				if ok {
					kept = append(kept, conn)
				}
			})
		}
	}

	rank(kept)
	return e.capPerTier(kept)
}

// candidatePool selects the cluster's candidate members: the top
// TopPerSource datapoints per source by confidence, then the whole pool
// capped to MaxPoolSize, again by confidence. Ties break on ID so the pool
// is identical for identical input. The final pool is ordered by ID, which
// fixes the enumeration order.
func (e *Engine) candidatePool(cl types.Cluster, byID map[string]types.DataPoint) []types.DataPoint {
	bySource := make(map[string][]types.DataPoint)
	for _, id := range cl.MemberIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		bySource[p.Source] = append(bySource[p.Source], p)
	}

	names := make([]string, 0, len(bySource))
	for name := range bySource {
		names = append(names, name)
	}
	sort.Strings(names)

	var pool []types.DataPoint
	for _, name := range names {
		group := bySource[name]
		sortByConfidence(group)
		if len(group) > e.cfg.TopPerSource {
			group = group[:e.cfg.TopPerSource]
		}
		pool = append(pool, group...)
	}

	if len(pool) > e.cfg.MaxPoolSize {
		sortByConfidence(pool)
		pool = pool[:e.cfg.MaxPoolSize]
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool
}

func sortByConfidence(points []types.DataPoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Confidence != points[j].Confidence {
			return points[i].Confidence > points[j].Confidence
		}
		return points[i].ID < points[j].ID
	})
}

// forEachCombination visits every k-subset of [0,n) in lexicographic order.
func forEachCombination(n, k int, visit func(idx []int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		visit(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func distinctSources(members []types.DataPoint) int {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		seen[m.Source] = struct{}{}
	}
	return len(seen)
}

func newestTimestamp(points []types.DataPoint) time.Time {
	var newest time.Time
	for _, p := range points {
		if p.Timestamp.After(newest) {
			newest = p.Timestamp
		}
	}
	return newest
}

// connectionID digests the sorted member set. Stable across runs for
// identical input (prd006-discovery R4.1).
func connectionID(memberIDs []string) string {
	sum := sha256.Sum256([]byte(strings.Join(memberIDs, "\n")))
	return hex.EncodeToString(sum[:12])
}

// rank orders connections by tier desc, score desc, source diversity desc,
// then ID asc as the final tiebreak.
func rank(conns []types.Connection) {
	sort.Slice(conns, func(i, j int) bool {
		a, b := conns[i], conns[j]
		if ra, rb := types.TierRank(a.Tier), types.TierRank(b.Tier); ra != rb {
			return ra > rb
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if da, db := a.SourceDiversity(), b.SourceDiversity(); da != db {
			return da > db
		}
		return a.ID < b.ID
	})
}

func (e *Engine) capPerTier(conns []types.Connection) []types.Connection {
	counts := make(map[types.Tier]int)
	out := conns[:0]
	for _, c := range conns {
		if counts[c.Tier] >= e.cfg.MaxPerTier {
			continue
		}
		counts[c.Tier]++
		out = append(out, c)
	}
	return out
}
