// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/pdiddy/intel-engine/internal/cache"
	"github.com/pdiddy/intel-engine/pkg/types"
)

// --- mock adapter ---

type mockAdapter struct {
	name   string
	domain types.Domain
	points []types.DataPoint
	err    error
	calls  int
}

func (m *mockAdapter) Name() string         { return m.name }
func (m *mockAdapter) Domain() types.Domain { return m.domain }

func (m *mockAdapter) Fetch(_ context.Context, _ Query) ([]types.DataPoint, error) {
	m.calls++
	return m.points, m.err
}

func makePoints(source string, n int) []types.DataPoint {
	points := make([]types.DataPoint, n)
	for i := range points {
		points[i] = types.DataPoint{
			ID:         fmt.Sprintf("%s-%d", source, i),
			Source:     source,
			Domain:     types.DomainContent,
			Text:       "signal text",
			Confidence: 0.7,
		}
	}
	return points
}

// --- Query ---

func TestQueryIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty", Query{}, true},
		{"business only", Query{Business: "Blue Door Cafe"}, false},
		{"location only", Query{Location: "Portland"}, false},
		{"keywords only", Query{Keywords: []string{"espresso"}}, false},
		{"classification only is empty", Query{Classification: "restaurant"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryTerms(t *testing.T) {
	q := Query{Business: "Blue Door Cafe", Location: "Portland", Keywords: []string{"espresso", "pastry"}}
	want := "Blue Door Cafe Portland espresso pastry"
	if got := q.Terms(); got != want {
		t.Errorf("Terms() = %q, want %q", got, want)
	}
}

// --- Classify ---

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"cancelled", context.Canceled, KindTimeout},
		{"wrapped deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), KindTimeout},
		{"auth", fmt.Errorf("HTTP 401: %w", ErrAuth), KindAuth},
		{"network", &net.DNSError{Err: "no such host"}, KindNetwork},
		{"other", errors.New("malformed body"), KindBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := Classify("reviews", tt.err)
			if se.Kind != tt.want {
				t.Errorf("Classify() kind = %s, want %s", se.Kind, tt.want)
			}
			if se.Source != "reviews" {
				t.Errorf("Classify() source = %q, want reviews", se.Source)
			}
			if !errors.Is(se, tt.err) {
				t.Error("Classify() lost the wrapped error")
			}
		})
	}
}

// --- Registry ---

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"weather", "reviews", "news"} {
		if err := r.Register(&mockAdapter{name: name}); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	list := r.List()
	if len(list) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(list))
	}
	want := []string{"news", "reviews", "weather"}
	for i, a := range list {
		if a.Name() != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, a.Name(), want[i])
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockAdapter{name: "reviews"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&mockAdapter{name: "reviews"}); err == nil {
		t.Error("Register() accepted duplicate name, want error")
	}
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockAdapter{}); err == nil {
		t.Error("Register() accepted empty name, want error")
	}
}

// --- Cached ---

func TestCachedServesSecondFetchFromCache(t *testing.T) {
	c := cache.New(types.CacheConfig{TTL: time.Minute})
	mock := &mockAdapter{name: "reviews", points: makePoints("reviews", 2)}
	adapter := WithCache(mock, c)
	q := Query{Business: "cafe"}

	first, err := adapter.Fetch(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].FromCache {
		t.Error("first fetch marked FromCache, want live")
	}

	second, err := adapter.Fetch(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if mock.calls != 1 {
		t.Errorf("adapter called %d times, want 1", mock.calls)
	}
	for _, p := range second {
		if !p.FromCache {
			t.Errorf("cached point %s not marked FromCache", p.ID)
		}
	}
}

func TestCachedNeverCachesErrors(t *testing.T) {
	c := cache.New(types.CacheConfig{TTL: time.Minute})
	mock := &mockAdapter{name: "news", err: errors.New("HTTP 503")}
	adapter := WithCache(mock, c)
	q := Query{Business: "cafe"}

	if _, err := adapter.Fetch(context.Background(), q); err == nil {
		t.Fatal("Fetch() = nil error, want failure")
	}
	if c.Len() != 0 {
		t.Errorf("cache has %d entries after failed fetch, want 0", c.Len())
	}

	// The next run retries the source instead of seeing a poisoned entry.
	mock.err = nil
	mock.points = makePoints("news", 1)
	points, err := adapter.Fetch(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].FromCache {
		t.Error("recovered fetch should be live, not cached")
	}
}

func TestCachedDoesNotMutateStoredPoints(t *testing.T) {
	c := cache.New(types.CacheConfig{TTL: time.Minute})
	mock := &mockAdapter{name: "reviews", points: makePoints("reviews", 1)}
	adapter := WithCache(mock, c)
	q := Query{Business: "cafe"}

	adapter.Fetch(context.Background(), q)
	adapter.Fetch(context.Background(), q)

	stored, ok := c.Get(cache.Key("reviews", q.Terms()))
	if !ok {
		t.Fatal("expected cache entry")
	}
	if stored[0].FromCache {
		t.Error("stored entry mutated: FromCache should only be set on copies")
	}
}
