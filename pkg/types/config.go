// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "intel-engine/0.1"). Per prd003-sources R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OrchestratorConfig holds settings for the collection stage.
// Per prd001-orchestration R2.1-R2.5.
type OrchestratorConfig struct {
	// PerSourceTimeout bounds each individual source fetch (default 10s).
	PerSourceTimeout time.Duration `json:"per_source_timeout" yaml:"per_source_timeout"`

	// GlobalDeadline caps total collection wall-clock time (default 45s).
	// In-flight work is cancelled when it elapses; completed results are kept.
	GlobalDeadline time.Duration `json:"global_deadline" yaml:"global_deadline"`

	// MaxConcurrent caps simultaneous outbound fetches (default 8).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// MinViable is the minimum count of successful sources for a
	// non-degraded run (default 8).
	MinViable int `json:"min_viable" yaml:"min_viable"`
}

// CacheConfig holds settings for the shared source cache.
// Per prd002-cache R1.1, R1.4.
type CacheConfig struct {
	// TTL is the default entry lifetime (default 6h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// CleanupInterval controls expired-entry sweeping (default 10m).
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// EmbeddingConfig holds settings for the embedding stage.
// Per prd004-embedding R2.1-R2.4, R5.1.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the embedding provider endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the provider model identifier.
	Model string `json:"model" yaml:"model"`

	// Dimensions is the expected embedding width; vectors of any other
	// shape are rejected per item (default 256).
	Dimensions int `json:"dimensions" yaml:"dimensions"`

	// BatchSize is the maximum texts per provider call (default 32).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MaxRetries bounds backoff retries on rate-limit and 5xx responses
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Budget caps the whole embedding phase, independent of the
	// orchestration deadline (default 30s).
	Budget time.Duration `json:"budget" yaml:"budget"`

	// RequestsPerMinute rate-limits provider calls (default 300).
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`
}

// ClusteringConfig holds settings for the clustering stage.
// Per prd005-clustering R1.1, R2.2.
type ClusteringConfig struct {
	// K is the requested cluster count; 0 derives k from the input size.
	// K larger than the vector count is reduced to the count.
	K int `json:"k" yaml:"k"`

	// Seed fixes the k-means initialization so identical input always
	// yields identical clusters (default 42).
	Seed int64 `json:"seed" yaml:"seed"`

	// MaxIterations is the safety limit per k-means run (default 100).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
}

// ScoringWeights holds the ten factor weights for breakthrough scoring.
// All weights must be non-negative and at least one positive; the engine
// rejects anything else as a configuration error (prd006-discovery R5.2).
type ScoringWeights struct {
	SourceDiversity       float64 `json:"source_diversity" yaml:"source_diversity"`
	DomainDiversity       float64 `json:"domain_diversity" yaml:"domain_diversity"`
	TimingRelevance       float64 `json:"timing_relevance" yaml:"timing_relevance"`
	EmotionalIntensity    float64 `json:"emotional_intensity" yaml:"emotional_intensity"`
	CompetitiveMoat       float64 `json:"competitive_moat" yaml:"competitive_moat"`
	ThemeValidation       float64 `json:"theme_validation" yaml:"theme_validation"`
	CustomerFocus         float64 `json:"customer_focus" yaml:"customer_focus"`
	Specificity           float64 `json:"specificity" yaml:"specificity"`
	ConfidenceCalibration float64 `json:"confidence_calibration" yaml:"confidence_calibration"`
	Novelty               float64 `json:"novelty" yaml:"novelty"`
}

// DefaultScoringWeights returns the calibrated default weighting. Diversity
// and cross-source validation carry the most weight; single-signal factors
// carry less. Exposed as configuration so deployments can recalibrate.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		SourceDiversity:       1.5,
		DomainDiversity:       1.25,
		ThemeValidation:       1.25,
		TimingRelevance:       1.0,
		EmotionalIntensity:    1.0,
		ConfidenceCalibration: 1.0,
		Novelty:               1.0,
		CompetitiveMoat:       0.75,
		CustomerFocus:         0.75,
		Specificity:           0.75,
	}
}

// DiscoveryConfig holds settings for connection discovery.
// Per prd006-discovery R2.1-R2.4, R5.1-R5.3.
type DiscoveryConfig struct {
	// Weights are the ten scoring-factor weights.
	Weights ScoringWeights `json:"weights" yaml:"weights"`

	// TopPerSource caps candidate members taken per source within one
	// cluster, by confidence (default 3).
	TopPerSource int `json:"top_per_source" yaml:"top_per_source"`

	// MaxPoolSize caps the candidate pool per cluster (default 12),
	// bounding order-5 enumeration.
	MaxPoolSize int `json:"max_pool_size" yaml:"max_pool_size"`

	// MaxPerTier caps returned connections per tier (default 10).
	MaxPerTier int `json:"max_per_tier" yaml:"max_per_tier"`
}

// StoreConfig holds settings for the optional results store.
// Per prd008-results-store R1.1.
type StoreConfig struct {
	// Dir is the base directory for the results database and exports.
	Dir string `json:"dir" yaml:"dir"`
}

// EngineConfig aggregates configuration for a full intelligence run.
type EngineConfig struct {
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
	Cache        CacheConfig        `json:"cache" yaml:"cache"`
	Embedding    EmbeddingConfig    `json:"embedding" yaml:"embedding"`
	Clustering   ClusteringConfig   `json:"clustering" yaml:"clustering"`
	Discovery    DiscoveryConfig    `json:"discovery" yaml:"discovery"`
}
