// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/intel-engine/pkg/types"
)

func testPoints(source string, n int) []types.DataPoint {
	points := make([]types.DataPoint, n)
	for i := range points {
		points[i] = types.DataPoint{
			ID:         fmt.Sprintf("%s-%d", source, i),
			Source:     source,
			Domain:     types.DomainContent,
			Text:       "signal",
			Confidence: 0.8,
		}
	}
	return points
}

func TestSetThenGet(t *testing.T) {
	c := New(types.CacheConfig{TTL: time.Minute})

	key := Key("reviews", "coffee shop seattle")
	c.Set(key, testPoints("reviews", 3), 0)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if len(got) != 3 {
		t.Errorf("len(got) = %d, want 3", len(got))
	}
}

func TestGetMiss(t *testing.T) {
	c := New(types.CacheConfig{})
	if _, ok := c.Get(Key("reviews", "never set")); ok {
		t.Error("Get() hit on unset key, want miss")
	}
}

func TestEntryExpires(t *testing.T) {
	c := New(types.CacheConfig{TTL: time.Minute, CleanupInterval: time.Hour})

	key := Key("news", "query")
	c.Set(key, testPoints("news", 1), 20*time.Millisecond)

	if _, ok := c.Get(key); !ok {
		t.Fatal("Get() miss before expiry, want hit")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Error("Get() hit after expiry, want miss")
	}
}

func TestInvalidate(t *testing.T) {
	c := New(types.CacheConfig{})

	key := Key("weather", "q")
	c.Set(key, testPoints("weather", 1), 0)
	c.Invalidate(key)

	if _, ok := c.Get(key); ok {
		t.Error("Get() hit after Invalidate, want miss")
	}

	// Invalidating an absent key must not panic.
	c.Invalidate(Key("weather", "other"))
}

func TestKeyDistinguishesSourceAndQuery(t *testing.T) {
	tests := []struct {
		name           string
		s1, q1, s2, q2 string
		wantSame       bool
	}{
		{"identical", "reviews", "q", "reviews", "q", true},
		{"different query", "reviews", "q1", "reviews", "q2", false},
		{"different source", "reviews", "q", "news", "q", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same := Key(tt.s1, tt.q1) == Key(tt.s2, tt.q2)
			if same != tt.wantSame {
				t.Errorf("key equality = %v, want %v", same, tt.wantSame)
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(types.CacheConfig{TTL: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := Key("src", fmt.Sprintf("query-%d", n%4))
			for j := 0; j < 100; j++ {
				c.Set(key, testPoints("src", 2), 0)
				c.Get(key)
				if j%10 == 0 {
					c.Invalidate(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
