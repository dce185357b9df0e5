// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Cluster is a semantic grouping of datapoints produced by the clustering
// stage. Membership is a hard partition: a datapoint belongs to exactly one
// cluster (prd005-clustering R1.3).
type Cluster struct {
	// ID is the cluster index within this run.
	ID int `json:"id" yaml:"id"`

	// Centroid is the mean embedding of the member vectors.
	Centroid []float64 `json:"centroid,omitempty" yaml:"centroid,omitempty"`

	// MemberIDs lists the datapoint IDs assigned to this cluster, sorted.
	MemberIDs []string `json:"member_ids" yaml:"member_ids"`

	// Theme is a short label derived from text nearest the centroid.
	Theme string `json:"theme" yaml:"theme"`

	// Domains counts members per intelligence domain.
	Domains map[Domain]int `json:"domains" yaml:"domains"`
}

// Size returns the member count.
func (c Cluster) Size() int { return len(c.MemberIDs) }

// Tier classifies a connection by its order and score.
type Tier string

const (
	TierInsight      Tier = "insight"
	TierPattern      Tier = "pattern"
	TierBreakthrough Tier = "breakthrough"
	TierUltimate     Tier = "ultimate"
)

// TierRank orders tiers for ranking: higher is better.
func TierRank(t Tier) int {
	switch t {
	case TierUltimate:
		return 4
	case TierBreakthrough:
		return 3
	case TierPattern:
		return 2
	case TierInsight:
		return 1
	}
	return 0
}

// Connection is a scored N-way correlation across datapoints from distinct
// sources. Per prd006-discovery R1.2, Order is len(MemberIDs) and members
// always span at least two sources.
type Connection struct {
	// ID is a deterministic digest of the member set, stable across runs
	// for identical input (prd006-discovery R4.1).
	ID string `json:"id" yaml:"id"`

	// Order is the number of member datapoints (2..5).
	Order int `json:"order" yaml:"order"`

	// MemberIDs lists member datapoint IDs, sorted.
	MemberIDs []string `json:"member_ids" yaml:"member_ids"`

	// Sources lists the distinct contributing sources, sorted.
	Sources []string `json:"sources" yaml:"sources"`

	// Domains lists the distinct contributing domains, sorted.
	Domains []Domain `json:"domains" yaml:"domains"`

	// Theme is the cluster theme the members share.
	Theme string `json:"theme" yaml:"theme"`

	// Score is the breakthrough score in [0,100].
	Score float64 `json:"score" yaml:"score"`

	// Tier is insight, pattern, breakthrough, or ultimate.
	Tier Tier `json:"tier" yaml:"tier"`

	// Factors breaks the score down by weighted factor, keyed by factor name.
	Factors map[string]float64 `json:"factors,omitempty" yaml:"factors,omitempty"`
}

// SourceDiversity returns the distinct-source count.
func (c Connection) SourceDiversity() int { return len(c.Sources) }
