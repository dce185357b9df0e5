// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrate fans a query out to all registered intelligence
// sources concurrently and merges the results order-independently.
// Implements: prd001-orchestration (R1-R5);
//
//	docs/ARCHITECTURE.md § Orchestrator.
//
// A failing source never aborts the others: its failure is recorded in the
// run's source coverage and the run continues. Only configuration errors
// (no sources, empty query) abort a run.
package orchestrate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/intel-engine/internal/cache"
	"github.com/pdiddy/intel-engine/internal/sources"
	"github.com/pdiddy/intel-engine/pkg/types"
)

const (
	defaultPerSourceTimeout = 10 * time.Second
	defaultGlobalDeadline   = 45 * time.Second
	defaultMaxConcurrent    = 8
	defaultMinViable        = 8
)

// Orchestrator coordinates one concurrent collection run across all
// registered source adapters.
type Orchestrator struct {
	registry *sources.Registry
	cache    *cache.Cache
	cfg      types.OrchestratorConfig
	log      *zap.Logger
}

// Output holds the merged results of one collection run.
type Output struct {
	// Results is the per-source coverage report, sorted by source name.
	Results []types.SourceResult

	// DataPoints is the merged set from all successful sources, sorted by
	// (source, id) so the set never depends on completion order (R3.2).
	DataPoints []types.DataPoint

	// Degraded reports that fewer than MinViable sources succeeded. The
	// run still returns whatever was gathered (R4.3).
	Degraded bool
}

// OKCount returns the number of sources that succeeded.
func (o Output) OKCount() int {
	n := 0
	for _, r := range o.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// New builds an Orchestrator. An empty registry is a configuration error
// and the only hard failure besides an empty query (R5.1). A nil cache
// disables read-through caching; a nil logger is replaced with a no-op.
func New(registry *sources.Registry, c *cache.Cache, cfg types.OrchestratorConfig, log *zap.Logger) (*Orchestrator, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, fmt.Errorf("no source adapters registered")
	}
	if cfg.PerSourceTimeout <= 0 {
		cfg.PerSourceTimeout = defaultPerSourceTimeout
	}
	if cfg.GlobalDeadline <= 0 {
		cfg.GlobalDeadline = defaultGlobalDeadline
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.MinViable <= 0 {
		cfg.MinViable = defaultMinViable
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{registry: registry, cache: c, cfg: cfg, log: log}, nil
}

// Run launches one worker per registered source, bounded by a semaphore,
// and blocks until every source completes or the global deadline elapses.
// Reaching the deadline cancels in-flight work cooperatively; completed
// results are kept, late ones are discarded (R2.3).
func (o *Orchestrator) Run(ctx context.Context, query sources.Query) (Output, error) {
	if query.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide a business name, location, or keywords")
	}

	adapters := o.registry.List()
	runCtx, cancel := context.WithTimeout(ctx, o.cfg.GlobalDeadline)
	defer cancel()

	sem := make(chan struct{}, o.cfg.MaxConcurrent)
	ch := make(chan types.SourceResult, len(adapters))
	var wg sync.WaitGroup

	for _, a := range adapters {
		wg.Add(1)
		go func(a sources.Adapter) {
			defer wg.Done()
			ch <- o.fetchOne(runCtx, sem, a, query)
		}(a)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var out Output
	for result := range ch {
		if result.OK() {
			out.DataPoints = append(out.DataPoints, result.Points...)
		}
		out.Results = append(out.Results, result)
	}

	// Commutative merge: impose a canonical order so the output is
	// independent of completion order.
	sort.Slice(out.Results, func(i, j int) bool {
		return out.Results[i].Source < out.Results[j].Source
	})
	sort.Slice(out.DataPoints, func(i, j int) bool {
		a, b := out.DataPoints[i], out.DataPoints[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.ID < b.ID
	})

	ok := out.OKCount()
	out.Degraded = ok < o.cfg.MinViable
	o.log.Info("collection run complete",
		zap.Int("sources", len(adapters)),
		zap.Int("ok", ok),
		zap.Int("datapoints", len(out.DataPoints)),
		zap.Bool("degraded", out.Degraded))

	return out, nil
}

// fetchOne runs a single source fetch under the semaphore and the
// per-source timeout, converting any failure into a coverage record.
func (o *Orchestrator) fetchOne(runCtx context.Context, sem chan struct{}, a sources.Adapter, query sources.Query) types.SourceResult {
	select {
	case sem <- struct{}{}:
		defer func() { <-sem }()
	case <-runCtx.Done():
		// Global deadline reached before this source ever started.
		return types.SourceResult{
			Source: a.Name(),
			Status: types.StatusTimeout,
			Err:    "skipped: global deadline reached",
		}
	}

	fetchCtx, cancel := context.WithTimeout(runCtx, o.cfg.PerSourceTimeout)
	defer cancel()

	start := time.Now()
	points, err := sources.WithCache(a, o.cache).Fetch(fetchCtx, query)
	latency := time.Since(start)

	if err != nil {
		se := sources.Classify(a.Name(), err)
		status := types.StatusError
		if se.Kind == sources.KindTimeout {
			status = types.StatusTimeout
		}
		o.log.Warn("source failed",
			zap.String("source", a.Name()),
			zap.String("kind", string(se.Kind)),
			zap.Duration("latency", latency),
			zap.Error(err))
		return types.SourceResult{
			Source:  a.Name(),
			Status:  status,
			Err:     se.Error(),
			Latency: latency,
		}
	}

	for i := range points {
		points[i].ClampConfidence()
	}
	return types.SourceResult{
		Source:  a.Name(),
		Status:  types.StatusOK,
		Points:  points,
		Latency: latency,
	}
}
