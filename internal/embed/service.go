// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// FailureCause is the machine-readable reason a single item was excluded
// from clustering. Causes are surfaced in run metadata, never silently
// dropped to a zero vector (R4.1).
type FailureCause string

const (
	CauseMissingCredential FailureCause = "missing_credential"
	CauseProviderError     FailureCause = "provider_error"
	CauseBadVector         FailureCause = "bad_vector"
	CauseEmptyText         FailureCause = "empty_text"
	CauseBudgetExceeded    FailureCause = "budget_exceeded"
)

// ItemFailure records why one datapoint could not be embedded.
type ItemFailure struct {
	// ID is the affected datapoint ID.
	ID string `json:"id" yaml:"id"`

	// Cause is the machine-readable failure class.
	Cause FailureCause `json:"cause" yaml:"cause"`

	// Detail is the human-readable failure description.
	Detail string `json:"detail" yaml:"detail"`
}

// Output holds the embedded points and the per-item failures of one batch
// run. Failed items are excluded from Points.
type Output struct {
	Points   []types.DataPoint
	Failures []ItemFailure
}

// Service batches datapoint text to a Provider and validates the returned
// vectors. The embedding phase runs under its own budget, independent of
// the orchestration deadline, so one slow batch cannot starve clustering
// of already-collected data (R5.1).
type Service struct {
	provider Provider
	cfg      types.EmbeddingConfig
	log      *zap.Logger
}

// NewService builds a Service around provider. A nil logger is replaced
// with a no-op.
func NewService(provider Provider, cfg types.EmbeddingConfig, log *zap.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = defaultDimensions
	}
	if cfg.Budget <= 0 {
		cfg.Budget = defaultBudget
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

// EmbedPoints embeds every datapoint's text, batching up to BatchSize texts
// per provider call. A failing item (empty text, wrong vector shape,
// provider error) is excluded with a recorded cause; it never fails the
// batch or the run (R3.1-R3.3).
func (s *Service) EmbedPoints(ctx context.Context, points []types.DataPoint) Output {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Budget)
	defer cancel()

	var out Output

	// Skip empty texts up front; the provider never sees them.
	candidates := make([]types.DataPoint, 0, len(points))
	for _, p := range points {
		if p.Text == "" {
			out.Failures = append(out.Failures, ItemFailure{
				ID:     p.ID,
				Cause:  CauseEmptyText,
				Detail: "datapoint has no text to embed",
			})
			continue
		}
		candidates = append(candidates, p)
	}

	for start := 0; start < len(candidates); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		if ctx.Err() != nil {
			for _, p := range batch {
				out.Failures = append(out.Failures, ItemFailure{
					ID:     p.ID,
					Cause:  CauseBudgetExceeded,
					Detail: "embedding budget exhausted before batch started",
				})
			}
			continue
		}

		s.embedBatch(ctx, batch, &out)
	}

	if len(out.Failures) > 0 {
		s.log.Warn("embedding excluded items",
			zap.Int("embedded", len(out.Points)),
			zap.Int("failed", len(out.Failures)))
	}
	return out
}

// embedBatch runs one provider call and validates each returned vector.
// A batch-level provider error is fanned out to per-item failures so the
// remaining batches still run.
func (s *Service) embedBatch(ctx context.Context, batch []types.DataPoint, out *Output) {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.Text
	}

	start := time.Now()
	vectors, err := s.provider.Embed(ctx, texts)
	if err != nil {
		cause := CauseProviderError
		if errors.Is(err, ErrMissingCredential) {
			cause = CauseMissingCredential
		}
		for _, p := range batch {
			out.Failures = append(out.Failures, ItemFailure{
				ID:     p.ID,
				Cause:  cause,
				Detail: err.Error(),
			})
		}
		s.log.Warn("embedding batch failed",
			zap.String("cause", string(cause)),
			zap.Int("items", len(batch)),
			zap.Error(err))
		return
	}

	for i, p := range batch {
		if i >= len(vectors) || len(vectors[i]) != s.cfg.Dimensions {
			got := 0
			if i < len(vectors) {
				got = len(vectors[i])
			}
			out.Failures = append(out.Failures, ItemFailure{
				ID:     p.ID,
				Cause:  CauseBadVector,
				Detail: fmt.Sprintf("provider returned %d dimensions, expected %d", got, s.cfg.Dimensions),
			})
			continue
		}
		p.Embedding = vectors[i]
		out.Points = append(out.Points, p)
	}

	s.log.Debug("embedding batch complete",
		zap.Int("items", len(batch)),
		zap.Duration("latency", time.Since(start)))
}
