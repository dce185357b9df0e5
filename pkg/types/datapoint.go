// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the intel-engine pipeline.
// Implements: prd001-orchestration (DataPoint, SourceResult);
//
//	prd005-clustering (Cluster);
//	prd006-discovery (Connection, Tier);
//	prd007-eq (EQProfile, IndustryProfile).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// Domain classifies the intelligence angle a data point speaks to.
type Domain string

const (
	DomainCustomerPsychology Domain = "customer-psychology"
	DomainCompetitive        Domain = "competitive"
	DomainTiming             Domain = "timing"
	DomainContent            Domain = "content"
)

// DataPoint is a single normalized observation from one external source.
// Per prd001-orchestration R3.1, confidence is always within [0,1]; adapters
// clamp before returning.
type DataPoint struct {
	// ID uniquely identifies the observation within a run (source-prefixed).
	ID string `json:"id" yaml:"id"`

	// Source names the adapter that produced this observation.
	Source string `json:"source" yaml:"source"`

	// Domain is the intelligence angle: customer-psychology, competitive,
	// timing, or content.
	Domain Domain `json:"domain" yaml:"domain"`

	// Text is the normalized observation text used for embedding and scoring.
	Text string `json:"text" yaml:"text"`

	// Confidence is the adapter's estimate of signal quality in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Timestamp is when the underlying signal was observed at the source.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Metadata carries raw source-specific fields (rating, region, url, ...).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Embedding is the semantic vector, set by the embedding stage.
	Embedding []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty"`

	// FromCache reports whether the point was served by the cache layer
	// rather than a live fetch.
	FromCache bool `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
}

// ClampConfidence forces Confidence into [0,1].
func (d *DataPoint) ClampConfidence() {
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
}

// SourceStatus is the terminal state of one source fetch within a run.
type SourceStatus string

const (
	StatusOK      SourceStatus = "ok"
	StatusTimeout SourceStatus = "timeout"
	StatusError   SourceStatus = "error"
)

// SourceResult reports the outcome of one source fetch. Created once per
// orchestrator run and surfaced to callers as source coverage; never
// persisted by the core.
type SourceResult struct {
	// Source names the adapter.
	Source string `json:"source" yaml:"source"`

	// Status is ok, timeout, or error.
	Status SourceStatus `json:"status" yaml:"status"`

	// Err is the failure description when Status is not ok.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`

	// Points holds the datapoints gathered when Status is ok.
	Points []DataPoint `json:"points,omitempty" yaml:"points,omitempty"`

	// Latency is the wall-clock duration of the fetch.
	Latency time.Duration `json:"latency" yaml:"latency"`
}

// OK reports whether the fetch succeeded.
func (r SourceResult) OK() bool { return r.Status == StatusOK }
