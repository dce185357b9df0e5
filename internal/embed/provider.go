// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed converts datapoint text into semantic vectors through an
// external embedding provider, batching requests and isolating per-item
// failures.
// Implements: prd004-embedding (R1-R5);
//
//	docs/ARCHITECTURE.md § Embedding.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/intel-engine/internal/httputil"
	"github.com/pdiddy/intel-engine/pkg/types"
)

// ErrMissingCredential marks a provider call rejected for lack of an API
// key. The service reports it as a distinct per-item cause, never to be
// confused with a transient rate-limit failure (R4.2).
var ErrMissingCredential = errors.New("embedding credential missing")

// Provider turns a batch of texts into one vector per text. Implementations
// must return the vectors in input order.
type Provider interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

const (
	defaultBatchSize  = 32
	defaultDimensions = 256
	defaultBudget     = 30 * time.Second
	defaultRPM        = 300
)

// httpProviderBase is overridden per-instance via EmbeddingConfig.BaseURL;
// tests point it at an httptest server.
const httpProviderBase = "https://api.meshintel.dev/v1/embeddings"

// HTTPProvider calls a JSON embeddings endpoint (POST {model, input[]} ->
// {data:[{embedding:[]}]}). Rate-limit and 5xx responses are retried with
// exponential backoff via httputil.DoWithRetry.
type HTTPProvider struct {
	client  *http.Client
	cfg     types.EmbeddingConfig
	limiter *rate.Limiter
}

// NewHTTPProvider builds the provider. The API key may be empty; the first
// Embed call then fails with ErrMissingCredential so the cause is carried
// into run metadata instead of aborting construction.
func NewHTTPProvider(cfg types.EmbeddingConfig) *HTTPProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = httpProviderBase
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRPM
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPProvider{
		client:  &http.Client{Timeout: timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute/10+1),
	}
}

// Name returns the provider identifier.
func (p *HTTPProvider) Name() string { return "http" }

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed posts one batch to the provider and returns vectors in input order.
func (p *HTTPProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if p.cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(embedRequest{Model: p.cfg.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.client, req, p.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("embedding API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("embedding API HTTP %d: %w", resp.StatusCode, ErrMissingCredential)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned HTTP %d", resp.StatusCode)
	}

	var body embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing embedding response: %w", err)
	}
	if len(body.Data) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(body.Data), len(texts))
	}

	vectors := make([][]float64, len(body.Data))
	for i, d := range body.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
