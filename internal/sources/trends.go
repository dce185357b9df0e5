// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// trendsAPIBase is the search-trends endpoint. Declared as a var so tests
// can substitute an httptest server.
var trendsAPIBase = "https://api.meshintel.dev/v1/trends"

// TrendsAdapter fetches rising search queries around a business and its
// keywords (R2.2). Search behavior feeds the content domain.
type TrendsAdapter struct {
	Client *http.Client
	Config types.HTTPConfig
}

// Name returns the adapter identifier.
func (a *TrendsAdapter) Name() string { return "search-trends" }

// Domain returns the intelligence domain this adapter feeds.
func (a *TrendsAdapter) Domain() types.Domain { return types.DomainContent }

type trendsResponse struct {
	Trends []struct {
		Query     string  `json:"query"`
		GrowthPct float64 `json:"growth_pct"`
		Volume    int     `json:"volume"`
		Date      string  `json:"date"`
	} `json:"trends"`
}

// Fetch queries the trends API and normalizes rising queries into
// DataPoints.
func (a *TrendsAdapter) Fetch(ctx context.Context, query Query) ([]types.DataPoint, error) {
	params := url.Values{
		"q":      {query.Terms()},
		"region": {query.Location},
	}
	reqURL := trendsAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trends API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends API returned HTTP %d", resp.StatusCode)
	}

	var body trendsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing trends response: %w", err)
	}

	var points []types.DataPoint
	for i, tr := range body.Trends {
		q := strings.TrimSpace(tr.Query)
		if q == "" {
			continue
		}

		p := types.DataPoint{
			ID:         fmt.Sprintf("search-trends-%d", i),
			Source:     a.Name(),
			Domain:     a.Domain(),
			Text:       fmt.Sprintf("rising search interest: %q up %.0f%%", q, tr.GrowthPct),
			Confidence: trendConfidence(tr.Volume, tr.GrowthPct),
			Metadata: map[string]string{
				"query":      q,
				"growth_pct": fmt.Sprintf("%.1f", tr.GrowthPct),
				"volume":     fmt.Sprintf("%d", tr.Volume),
			},
		}
		if t, parseErr := time.Parse("2006-01-02", tr.Date); parseErr == nil {
			p.Timestamp = t
		}
		p.ClampConfidence()
		points = append(points, p)
	}
	return points, nil
}

// trendConfidence scales with search volume; low-volume spikes are noisy.
func trendConfidence(volume int, growth float64) float64 {
	conf := 0.4
	switch {
	case volume >= 10000:
		conf = 0.85
	case volume >= 1000:
		conf = 0.7
	case volume >= 100:
		conf = 0.55
	}
	if growth >= 100 {
		conf += 0.1
	}
	return conf
}
