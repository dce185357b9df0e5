// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intel is the upward API: one call runs the whole pipeline from
// concurrent collection through connection discovery and emotional scoring.
// Implements: prd001-orchestration (R1);
//
//	docs/ARCHITECTURE.md § Pipeline.
//
// A run never fails on degraded input. Source failures, excluded embedding
// items, and sparse clustering are all absorbed into the Report so callers
// always see an inspectable reason for missing coverage. Only configuration
// errors abort (prd006-discovery R5.2).
package intel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/intel-engine/internal/cache"
	"github.com/pdiddy/intel-engine/internal/cluster"
	"github.com/pdiddy/intel-engine/internal/discover"
	"github.com/pdiddy/intel-engine/internal/embed"
	"github.com/pdiddy/intel-engine/internal/eq"
	"github.com/pdiddy/intel-engine/internal/orchestrate"
	"github.com/pdiddy/intel-engine/internal/sources"
	"github.com/pdiddy/intel-engine/pkg/types"
)

// BusinessContext describes the business a run collects intelligence for.
type BusinessContext struct {
	// Name is the business name, e.g. "Bella Cucina".
	Name string `json:"name" yaml:"name"`

	// Location narrows collection geographically, e.g. "Portland, OR".
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Classification is the industry code feeding emotional calibration,
	// e.g. "restaurant". Unknown codes fall back to a generic profile.
	Classification string `json:"classification,omitempty" yaml:"classification,omitempty"`

	// Keywords extend the collection query.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Report is the complete result of one intelligence run. Reports live in
// memory for the duration of the run; persistence is the caller's choice.
type Report struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Business and Classification echo the request.
	Business       string `json:"business" yaml:"business"`
	Classification string `json:"classification,omitempty" yaml:"classification,omitempty"`

	// GeneratedAt is the run completion time.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Connections are the ranked cross-source correlations.
	Connections []types.Connection `json:"connections" yaml:"connections"`

	// EQProfile is the standalone emotional-intensity profile computed
	// over the full collected corpus.
	EQProfile types.EQProfile `json:"eq_profile" yaml:"eq_profile"`

	// Degraded reports that fewer than the viable minimum of sources
	// succeeded. The report is still usable, just sparse.
	Degraded bool `json:"degraded" yaml:"degraded"`

	// SourceCoverage reports per-source status, counts, and latency.
	SourceCoverage []types.SourceResult `json:"source_coverage" yaml:"source_coverage"`

	// DataPointCount is the merged datapoint total across ok sources.
	DataPointCount int `json:"datapoint_count" yaml:"datapoint_count"`

	// EmbeddingFailures records every item excluded from clustering with
	// its machine-readable cause.
	EmbeddingFailures []embed.ItemFailure `json:"embedding_failures,omitempty" yaml:"embedding_failures,omitempty"`

	// ClusteringDegraded flags input too sparse for meaningful grouping.
	ClusteringDegraded bool `json:"clustering_degraded" yaml:"clustering_degraded"`

	// Clusters are the semantic groupings behind the connections.
	Clusters []types.Cluster `json:"clusters" yaml:"clusters"`
}

// Engine runs the pipeline: orchestrate, embed, cluster, discover, score.
type Engine struct {
	orch       *orchestrate.Orchestrator
	embedder   *embed.Service
	discoverer *discover.Engine
	cfg        types.EngineConfig
	log        *zap.Logger
}

// New wires the pipeline stages together. Construction is where all
// configuration is validated; Run never fails on anything but an empty
// query afterwards. A nil logger is replaced with a no-op.
func New(registry *sources.Registry, provider embed.Provider, cfg types.EngineConfig, log *zap.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("no embedding provider configured")
	}
	if log == nil {
		log = zap.NewNop()
	}

	sharedCache := cache.New(cfg.Cache)
	orch, err := orchestrate.New(registry, sharedCache, cfg.Orchestrator, log)
	if err != nil {
		return nil, err
	}
	discoverer, err := discover.New(cfg.Discovery)
	if err != nil {
		return nil, err
	}

	return &Engine{
		orch:       orch,
		embedder:   embed.NewService(provider, cfg.Embedding, log),
		discoverer: discoverer,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Run executes one full intelligence run for the business context.
func (e *Engine) Run(ctx context.Context, bc BusinessContext) (*Report, error) {
	query := sources.Query{
		Business:       bc.Name,
		Location:       bc.Location,
		Classification: bc.Classification,
		Keywords:       bc.Keywords,
	}

	collected, err := e.orch.Run(ctx, query)
	if err != nil {
		return nil, err
	}

	embedded := e.embedder.EmbedPoints(ctx, collected.DataPoints)
	clustered := cluster.Cluster(embedded.Points, e.cfg.Clustering)
	connections := e.discoverer.Discover(embedded.Points, clustered.Clusters, bc.Classification)

	samples := make([]eq.Sample, 0, len(collected.DataPoints))
	for _, p := range collected.DataPoints {
		samples = append(samples, eq.Sample{Text: p.Text, Confidence: p.Confidence})
	}
	profile := eq.Score(bc.Classification, samples)

	report := &Report{
		RunID:              uuid.NewString(),
		Business:           bc.Name,
		Classification:     bc.Classification,
		GeneratedAt:        time.Now().UTC(),
		Connections:        connections,
		EQProfile:          profile,
		Degraded:           collected.Degraded,
		SourceCoverage:     collected.Results,
		DataPointCount:     len(collected.DataPoints),
		EmbeddingFailures:  embedded.Failures,
		ClusteringDegraded: clustered.Degraded,
		Clusters:           clustered.Clusters,
	}

	e.log.Info("intelligence run complete",
		zap.String("run_id", report.RunID),
		zap.String("business", bc.Name),
		zap.Int("datapoints", report.DataPointCount),
		zap.Int("connections", len(connections)),
		zap.Bool("degraded", report.Degraded))

	return report, nil
}
