// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster groups embedded datapoints into semantic clusters with
// theme labels.
// Implements: prd005-clustering (R1-R4);
//
//	docs/ARCHITECTURE.md § Clustering.
//
// The k-means run is seeded, so identical input always yields identical
// clusters; no run-to-run randomness (R2.1).
package cluster

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pdiddy/intel-engine/pkg/types"
)

const (
	defaultSeed          = 42
	defaultMaxIterations = 100
)

// Output holds the clusters of one run. Degraded reports input too sparse
// for meaningful grouping, which is a state, not an error (R4.1).
type Output struct {
	Clusters []types.Cluster
	Degraded bool
}

// Cluster partitions the embedded datapoints into k semantic clusters.
// Points without an embedding are ignored. Fewer than 2 embedded points
// yield a single trivial cluster and the degraded flag.
func Cluster(points []types.DataPoint, cfg types.ClusteringConfig) Output {
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}

	embedded := make([]types.DataPoint, 0, len(points))
	for _, p := range points {
		if len(p.Embedding) > 0 {
			embedded = append(embedded, p)
		}
	}
	// Canonical input order: clustering must not depend on caller ordering.
	sort.Slice(embedded, func(i, j int) bool { return embedded[i].ID < embedded[j].ID })

	if len(embedded) == 0 {
		return Output{Degraded: true}
	}
	if len(embedded) < 2 {
		return Output{
			Clusters: []types.Cluster{buildCluster(0, embedded[0].Embedding, embedded)},
			Degraded: true,
		}
	}

	k := cfg.K
	if k <= 0 {
		k = autoK(len(embedded))
	}
	if k > len(embedded) {
		k = len(embedded)
	}

	assignments, centroids := kmeans(embedded, k, cfg)

	members := make([][]types.DataPoint, k)
	for i, p := range embedded {
		c := assignments[i]
		members[c] = append(members[c], p)
	}

	var out Output
	id := 0
	for c := 0; c < k; c++ {
		if len(members[c]) == 0 {
			continue
		}
		out.Clusters = append(out.Clusters, buildCluster(id, centroids[c], members[c]))
		id++
	}
	return out
}

// autoK derives a cluster count from the input size: sqrt(n/2), at least 2.
func autoK(n int) int {
	k := int(math.Round(math.Sqrt(float64(n) / 2)))
	if k < 2 {
		k = 2
	}
	return k
}

// kmeans runs seeded k-means++ with Lloyd iterations until assignments
// stabilize. Empty clusters are re-seeded from the point farthest from its
// centroid, which keeps the run deterministic.
func kmeans(points []types.DataPoint, k int, cfg types.ClusteringConfig) ([]int, [][]float64) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	dim := len(points[0].Embedding)

	centroids := initPlusPlus(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := squaredDistance(p.Embedding, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids as member means.
		counts := make([]int, k)
		for c := range centroids {
			centroids[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignments[i]
			floats.Add(centroids[c], p.Embedding)
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				centroids[c] = farthestPoint(points, centroids, assignments)
				continue
			}
			floats.Scale(1/float64(counts[c]), centroids[c])
		}
	}
	return assignments, centroids
}

// initPlusPlus seeds centroids with k-means++: the first uniformly, each
// subsequent one proportional to squared distance from the nearest chosen
// centroid.
func initPlusPlus(points []types.DataPoint, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := rng.Intn(len(points))
	centroids = append(centroids, cloneVector(points[first].Embedding))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := squaredDistance(p.Embedding, c); sq < d {
					d = sq
				}
			}
			dists[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid; duplicate one.
			centroids = append(centroids, cloneVector(points[0].Embedding))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		chosen := len(points) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, cloneVector(points[chosen].Embedding))
	}
	return centroids
}

// farthestPoint returns a copy of the embedding farthest from its assigned
// centroid, used to re-seed an empty cluster.
func farthestPoint(points []types.DataPoint, centroids [][]float64, assignments []int) []float64 {
	worst, worstDist := 0, -1.0
	for i, p := range points {
		if d := squaredDistance(p.Embedding, centroids[assignments[i]]); d > worstDist {
			worst, worstDist = i, d
		}
	}
	return cloneVector(points[worst].Embedding)
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// buildCluster assembles the exported Cluster record: sorted member IDs,
// domain distribution, and a theme label from the text nearest the
// centroid.
func buildCluster(id int, centroid []float64, members []types.DataPoint) types.Cluster {
	c := types.Cluster{
		ID:       id,
		Centroid: centroid,
		Domains:  make(map[types.Domain]int),
	}
	for _, m := range members {
		c.MemberIDs = append(c.MemberIDs, m.ID)
		c.Domains[m.Domain]++
	}
	sort.Strings(c.MemberIDs)
	c.Theme = themeLabel(centroid, members)
	return c
}
