// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/intel-engine/internal/embed"
	"github.com/pdiddy/intel-engine/internal/sources"
	"github.com/pdiddy/intel-engine/pkg/types"
)

var testStamp = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type mockAdapter struct {
	name   string
	domain types.Domain
	points []types.DataPoint
	err    error
}

func (m *mockAdapter) Name() string         { return m.name }
func (m *mockAdapter) Domain() types.Domain { return m.domain }

func (m *mockAdapter) Fetch(ctx context.Context, q sources.Query) ([]types.DataPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.points, nil
}

// mockProvider returns a near-identical 4-dim vector per text so that every
// point lands in one cluster. Texts containing "malformed" get a wrong-width
// vector.
type mockProvider struct{}

func (mockProvider) Name() string { return "mock" }

func (mockProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		if strings.Contains(text, "malformed") {
			vectors[i] = []float64{1}
			continue
		}
		jitter := float64(len(text)%5) * 0.01
		vectors[i] = []float64{1 + jitter, jitter, 0, 0}
	}
	return vectors, nil
}

func adapterWithPoint(name string, domain types.Domain, id, text string) *mockAdapter {
	return &mockAdapter{
		name:   name,
		domain: domain,
		points: []types.DataPoint{{
			ID:         id,
			Source:     name,
			Domain:     domain,
			Text:       text,
			Confidence: 0.95,
			Timestamp:  testStamp,
		}},
	}
}

func fourAdapters(t *testing.T) *sources.Registry {
	t.Helper()
	reg := sources.NewRegistry()
	adapters := []*mockAdapter{
		adapterWithPoint("reviews", types.DomainCustomerPsychology, "dp-01",
			"Customers love the amazing homemade pasta and crave it weekly, 40 percent reorder within 3 days"),
		adapterWithPoint("forum", types.DomainCustomerPsychology, "dp-02",
			"Regulars worry they will miss the 12 seat chef table, the best experience in town"),
		adapterWithPoint("seo-gap", types.DomainCompetitive, "dp-03",
			"Competitors lack gluten free menus, the only provider within 5 miles"),
		adapterWithPoint("news", types.DomainTiming, "dp-04",
			"Food festival starts in 2 weeks, limited window now for seasonal promotion"),
	}
	for _, a := range adapters {
		if err := reg.Register(a); err != nil {
			t.Fatalf("Register(%s): %v", a.name, err)
		}
	}
	return reg
}

func testConfig() types.EngineConfig {
	return types.EngineConfig{
		Orchestrator: types.OrchestratorConfig{MinViable: 2},
		Embedding:    types.EmbeddingConfig{Dimensions: 4},
		Clustering:   types.ClusteringConfig{K: 1},
		Discovery:    types.DiscoveryConfig{Weights: types.DefaultScoringWeights()},
	}
}

func TestNewValidatesConfiguration(t *testing.T) {
	reg := sources.NewRegistry()

	if _, err := New(reg, mockProvider{}, testConfig(), nil); err == nil {
		t.Error("expected error for empty registry")
	}

	full := fourAdapters(t)
	if _, err := New(full, nil, testConfig(), nil); err == nil {
		t.Error("expected error for nil provider")
	}

	cfg := testConfig()
	cfg.Discovery.Weights = types.ScoringWeights{SourceDiversity: -1}
	if _, err := New(full, mockProvider{}, cfg, nil); err == nil {
		t.Error("expected error for invalid weights")
	}
}

func TestRunFullPipeline(t *testing.T) {
	engine, err := New(fourAdapters(t), mockProvider{}, testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := engine.Run(context.Background(), BusinessContext{
		Name:           "Bella Cucina",
		Location:       "Portland, OR",
		Classification: "restaurant",
		Keywords:       []string{"gluten free"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if report.DataPointCount != 4 {
		t.Errorf("DataPointCount = %d, want 4", report.DataPointCount)
	}
	if len(report.SourceCoverage) != 4 {
		t.Fatalf("SourceCoverage has %d entries, want 4", len(report.SourceCoverage))
	}
	for _, r := range report.SourceCoverage {
		if !r.OK() {
			t.Errorf("source %s: status %s", r.Source, r.Status)
		}
	}
	if report.Degraded {
		t.Error("Degraded = true with all sources ok and minViable 2")
	}
	if report.ClusteringDegraded {
		t.Error("ClusteringDegraded = true with 4 embedded points")
	}
	if len(report.Clusters) != 1 {
		t.Errorf("Clusters = %d, want 1", len(report.Clusters))
	}
	if report.EQProfile.Classification != "restaurant" {
		t.Errorf("EQProfile.Classification = %q", report.EQProfile.Classification)
	}

	var breakthroughs int
	for _, c := range report.Connections {
		if c.Order == 4 && c.Tier == types.TierBreakthrough {
			breakthroughs++
		}
	}
	if breakthroughs != 1 {
		t.Errorf("order-4 breakthroughs = %d, want 1", breakthroughs)
	}
}

func TestRunAbsorbsSourceFailure(t *testing.T) {
	reg := fourAdapters(t)
	if err := reg.Register(&mockAdapter{
		name:   "trends",
		domain: types.DomainContent,
		err:    errors.New("upstream 503"),
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	engine, err := New(reg, mockProvider{}, testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	report, err := engine.Run(context.Background(), BusinessContext{Name: "Bella Cucina", Classification: "restaurant"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var failed *types.SourceResult
	for i, r := range report.SourceCoverage {
		if r.Source == "trends" {
			failed = &report.SourceCoverage[i]
		}
	}
	if failed == nil {
		t.Fatal("trends missing from coverage")
	}
	if failed.OK() {
		t.Error("failing source reported ok")
	}
	if report.DataPointCount != 4 {
		t.Errorf("DataPointCount = %d, want 4 from the surviving sources", report.DataPointCount)
	}
}

func TestRunRecordsEmbeddingFailures(t *testing.T) {
	reg := fourAdapters(t)
	if err := reg.Register(adapterWithPoint("transcripts", types.DomainContent, "dp-05",
		"this sample is malformed on purpose")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	engine, err := New(reg, mockProvider{}, testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	report, err := engine.Run(context.Background(), BusinessContext{Name: "Bella Cucina", Classification: "restaurant"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.EmbeddingFailures) != 1 {
		t.Fatalf("EmbeddingFailures = %d, want 1", len(report.EmbeddingFailures))
	}
	failure := report.EmbeddingFailures[0]
	if failure.ID != "dp-05" || failure.Cause != embed.CauseBadVector {
		t.Errorf("failure = %+v, want dp-05 with cause bad_vector", failure)
	}
	for _, cl := range report.Clusters {
		for _, id := range cl.MemberIDs {
			if id == "dp-05" {
				t.Error("excluded datapoint appears in a cluster")
			}
		}
	}
}

func TestRunRejectsEmptyQuery(t *testing.T) {
	engine, err := New(fourAdapters(t), mockProvider{}, testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Run(context.Background(), BusinessContext{}); err == nil {
		t.Error("expected error for empty business context")
	}
}
