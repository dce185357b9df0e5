// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// pointAt builds a datapoint embedded near the given 4-dim anchor.
func pointAt(id, source, text string, domain types.Domain, anchor []float64, jitter float64) types.DataPoint {
	v := make([]float64, len(anchor))
	copy(v, anchor)
	v[0] += jitter
	return types.DataPoint{
		ID:        id,
		Source:    source,
		Domain:    domain,
		Text:      text,
		Embedding: v,
	}
}

// twoGroups builds two well-separated groups of points.
func twoGroups() []types.DataPoint {
	a := []float64{0, 0, 0, 0}
	b := []float64{10, 10, 10, 10}
	return []types.DataPoint{
		pointAt("a-0", "reviews", "espresso quality praise", types.DomainCustomerPsychology, a, 0.1),
		pointAt("a-1", "news", "espresso bar opening", types.DomainTiming, a, 0.2),
		pointAt("a-2", "trends", "espresso searches rising", types.DomainContent, a, 0.3),
		pointAt("b-0", "reviews", "parking complaints downtown", types.DomainCustomerPsychology, b, 0.1),
		pointAt("b-1", "seo-gap", "parking keyword gap", types.DomainCompetitive, b, 0.2),
		pointAt("b-2", "news", "downtown parking changes", types.DomainTiming, b, 0.3),
	}
}

func TestClusterSeparatesGroups(t *testing.T) {
	out := Cluster(twoGroups(), types.ClusteringConfig{K: 2, Seed: 7})

	if out.Degraded {
		t.Error("Degraded = true for 6 points")
	}
	if len(out.Clusters) != 2 {
		t.Fatalf("len(Clusters) = %d, want 2", len(out.Clusters))
	}

	// Each group lands wholly in one cluster.
	byMember := map[string]int{}
	for _, c := range out.Clusters {
		for _, id := range c.MemberIDs {
			byMember[id] = c.ID
		}
	}
	if byMember["a-0"] != byMember["a-1"] || byMember["a-1"] != byMember["a-2"] {
		t.Error("group a split across clusters")
	}
	if byMember["b-0"] != byMember["b-1"] || byMember["b-1"] != byMember["b-2"] {
		t.Error("group b split across clusters")
	}
	if byMember["a-0"] == byMember["b-0"] {
		t.Error("groups a and b merged into one cluster")
	}
}

func TestClusterIsDeterministic(t *testing.T) {
	cfg := types.ClusteringConfig{K: 2, Seed: 42}

	first := Cluster(twoGroups(), cfg)
	second := Cluster(twoGroups(), cfg)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different clusterings")
	}
}

func TestClusterIgnoresInputOrder(t *testing.T) {
	cfg := types.ClusteringConfig{K: 2, Seed: 42}
	points := twoGroups()

	first := Cluster(points, cfg)

	reversed := make([]types.DataPoint, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	second := Cluster(reversed, cfg)

	if !reflect.DeepEqual(first, second) {
		t.Error("clustering depends on caller ordering")
	}
}

func TestKReducedToVectorCount(t *testing.T) {
	points := twoGroups()[:3]
	out := Cluster(points, types.ClusteringConfig{K: 10, Seed: 1})

	if len(out.Clusters) > 3 {
		t.Errorf("len(Clusters) = %d, want <= 3", len(out.Clusters))
	}
	total := 0
	for _, c := range out.Clusters {
		total += c.Size()
	}
	if total != 3 {
		t.Errorf("total members = %d, want 3", total)
	}
}

func TestHardPartition(t *testing.T) {
	out := Cluster(twoGroups(), types.ClusteringConfig{K: 3, Seed: 3})

	seen := map[string]bool{}
	for _, c := range out.Clusters {
		for _, id := range c.MemberIDs {
			if seen[id] {
				t.Errorf("datapoint %s appears in more than one cluster", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 6 {
		t.Errorf("partition covers %d points, want 6", len(seen))
	}
}

func TestDegenerateSinglePoint(t *testing.T) {
	points := twoGroups()[:1]
	out := Cluster(points, types.ClusteringConfig{})

	if !out.Degraded {
		t.Error("Degraded = false for a single point")
	}
	if len(out.Clusters) != 1 {
		t.Fatalf("len(Clusters) = %d, want 1 trivial cluster", len(out.Clusters))
	}
	if out.Clusters[0].Size() != 1 {
		t.Errorf("trivial cluster has %d members, want 1", out.Clusters[0].Size())
	}
}

func TestNoEmbeddedPoints(t *testing.T) {
	points := []types.DataPoint{{ID: "x", Text: "no vector"}}
	out := Cluster(points, types.ClusteringConfig{})

	if !out.Degraded {
		t.Error("Degraded = false with no embedded points")
	}
	if len(out.Clusters) != 0 {
		t.Errorf("len(Clusters) = %d, want 0", len(out.Clusters))
	}
}

func TestThemeLabelFromNearestTexts(t *testing.T) {
	out := Cluster(twoGroups(), types.ClusteringConfig{K: 2, Seed: 7})

	for _, c := range out.Clusters {
		if c.Theme == "" {
			t.Errorf("cluster %d has empty theme", c.ID)
		}
	}
	// The espresso group's label should mention its dominant token.
	for _, c := range out.Clusters {
		for _, id := range c.MemberIDs {
			if id == "a-0" {
				if want := "espresso"; !containsToken(c.Theme, want) {
					t.Errorf("theme %q does not contain %q", c.Theme, want)
				}
			}
		}
	}
}

func containsToken(theme, token string) bool {
	for _, f := range tokenize(theme) {
		if f == token {
			return true
		}
	}
	return false
}

func TestDomainDistribution(t *testing.T) {
	out := Cluster(twoGroups(), types.ClusteringConfig{K: 2, Seed: 7})

	for _, c := range out.Clusters {
		total := 0
		for _, n := range c.Domains {
			total += n
		}
		if total != c.Size() {
			t.Errorf("cluster %d domain counts sum to %d, size %d", c.ID, total, c.Size())
		}
	}
}

func TestAutoK(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{2, 2},
		{8, 2},
		{18, 3},
		{50, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			if got := autoK(tt.n); got != tt.want {
				t.Errorf("autoK(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}
