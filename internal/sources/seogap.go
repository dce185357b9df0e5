// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/intel-engine/pkg/types"
)

// seoGapAPIBase is the SEO gap-analysis endpoint. Declared as a var so
// tests can substitute an httptest server.
var seoGapAPIBase = "https://api.meshintel.dev/v1/seo/gaps"

// SEOGapAdapter fetches keyword gaps between a business and its local
// competitors (R2.4). Gap analysis feeds the competitive domain.
type SEOGapAdapter struct {
	Client *http.Client
	Config types.HTTPConfig
	APIKey string
}

// Name returns the adapter identifier.
func (a *SEOGapAdapter) Name() string { return "seo-gap" }

// Domain returns the intelligence domain this adapter feeds.
func (a *SEOGapAdapter) Domain() types.Domain { return types.DomainCompetitive }

type seoGapResponse struct {
	Gaps []struct {
		Keyword        string `json:"keyword"`
		CompetitorRank int    `json:"competitor_rank"`
		OwnRank        int    `json:"own_rank"`
		Difficulty     int    `json:"difficulty"`
	} `json:"gaps"`
}

// Fetch queries the SEO API and normalizes each ranking gap into a
// DataPoint.
func (a *SEOGapAdapter) Fetch(ctx context.Context, query Query) ([]types.DataPoint, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("SEO API key not configured: %w", ErrAuth)
	}

	params := url.Values{
		"business": {query.Business},
		"location": {query.Location},
	}
	reqURL := seoGapAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SEO API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("SEO API HTTP %d: %w", resp.StatusCode, ErrAuth)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEO API returned HTTP %d", resp.StatusCode)
	}

	var body seoGapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing SEO response: %w", err)
	}

	var points []types.DataPoint
	for i, gap := range body.Gaps {
		kw := strings.TrimSpace(gap.Keyword)
		if kw == "" {
			continue
		}

		p := types.DataPoint{
			ID:     fmt.Sprintf("seo-gap-%d", i),
			Source: a.Name(),
			Domain: a.Domain(),
			Text: fmt.Sprintf("competitors rank #%d for %q while we rank #%d",
				gap.CompetitorRank, kw, gap.OwnRank),
			Confidence: gapConfidence(gap.CompetitorRank, gap.OwnRank, gap.Difficulty),
			Metadata: map[string]string{
				"keyword":         kw,
				"competitor_rank": fmt.Sprintf("%d", gap.CompetitorRank),
				"own_rank":        fmt.Sprintf("%d", gap.OwnRank),
				"difficulty":      fmt.Sprintf("%d", gap.Difficulty),
			},
		}
		p.ClampConfidence()
		points = append(points, p)
	}
	return points, nil
}

// gapConfidence favors wide, winnable gaps: a competitor ranking far above
// us on a low-difficulty keyword is the strongest competitive signal.
func gapConfidence(competitorRank, ownRank, difficulty int) float64 {
	conf := 0.5
	if ownRank-competitorRank >= 20 {
		conf += 0.2
	}
	if difficulty > 0 && difficulty <= 30 {
		conf += 0.15
	}
	return conf
}
