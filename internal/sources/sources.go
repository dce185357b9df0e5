// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources defines the uniform source-adapter contract and the
// adapter registry consumed by the orchestrator.
// Implements: prd003-sources (R1-R5);
//
//	docs/ARCHITECTURE.md § Source Adapters.
//
// Each external intelligence source (search trends, reviews, news, weather,
// ...) implements Adapter per the Strategy pattern. Adapters own their
// transport and authentication; the orchestrator only sees DataPoints or an
// error.
package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// Query holds the business context a run collects intelligence for.
type Query struct {
	Business       string
	Location       string
	Classification string
	Keywords       []string
}

// IsEmpty reports whether the query contains no searchable terms (R1.4).
func (q Query) IsEmpty() bool {
	return q.Business == "" && q.Location == "" && len(q.Keywords) == 0
}

// Terms returns the canonical query string used for cache keys and outbound
// requests: business, location, then keywords, space-joined.
func (q Query) Terms() string {
	parts := make([]string, 0, 2+len(q.Keywords))
	if q.Business != "" {
		parts = append(parts, q.Business)
	}
	if q.Location != "" {
		parts = append(parts, q.Location)
	}
	parts = append(parts, q.Keywords...)
	return strings.Join(parts, " ")
}

// Adapter fetches datapoints from a single external source. Implementations
// must respect ctx cancellation and clamp datapoint confidence to [0,1].
type Adapter interface {
	Name() string
	Domain() types.Domain
	Fetch(ctx context.Context, query Query) ([]types.DataPoint, error)
}

// ErrorKind classifies an adapter failure for source coverage reporting.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindNetwork     ErrorKind = "network"
	KindAuth        ErrorKind = "auth"
	KindBadResponse ErrorKind = "bad_response"
)

// SourceError wraps an adapter failure with its source name and kind.
// Orchestrator workers recover these locally; they never abort other
// sources (R4.1).
type SourceError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ErrAuth marks authentication and credential failures so Classify can
// distinguish them from transient transport errors.
var ErrAuth = errors.New("authentication failed")

// Classify wraps err as a SourceError for source, inferring the kind:
// context deadline/cancellation is a timeout, ErrAuth is auth, net errors
// are network, anything else is a bad response.
func Classify(source string, err error) *SourceError {
	kind := KindBadResponse
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindTimeout
	case errors.Is(err, ErrAuth):
		kind = KindAuth
	case errors.As(err, &netErr):
		kind = KindNetwork
	}
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// Registry holds the adapters registered for a run. A registry with no
// adapters is a configuration error at orchestrator construction (R2.2).
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its name. Registering a duplicate name is
// an error so misconfigured wiring fails loudly.
func (r *Registry) Register(a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := a.Name()
	if name == "" {
		return fmt.Errorf("adapter has empty name")
	}
	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("adapter %q already registered", name)
	}
	r.adapters[name] = a
	return nil
}

// List returns the registered adapters sorted by name, so every iteration
// over sources is deterministic.
func (r *Registry) List() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Adapter, len(names))
	for i, name := range names {
		out[i] = r.adapters[name]
	}
	return out
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}
