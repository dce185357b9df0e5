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

// newsAPIBase is the local-news endpoint. Declared as a var so tests can
// substitute an httptest server.
var newsAPIBase = "https://api.meshintel.dev/v1/news"

// NewsAdapter fetches recent local and industry news (R2.3). News provides
// temporal context and feeds the timing domain.
type NewsAdapter struct {
	Client *http.Client
	Config types.HTTPConfig
	APIKey string
}

// Name returns the adapter identifier.
func (a *NewsAdapter) Name() string { return "news" }

// Domain returns the intelligence domain this adapter feeds.
func (a *NewsAdapter) Domain() types.Domain { return types.DomainTiming }

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PublishedAt string `json:"published_at"`
		URL         string `json:"url"`
		SourceName  string `json:"source_name"`
	} `json:"articles"`
}

// Fetch queries the news API and normalizes each article headline into a
// DataPoint.
func (a *NewsAdapter) Fetch(ctx context.Context, query Query) ([]types.DataPoint, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("news API key not configured: %w", ErrAuth)
	}

	params := url.Values{
		"q":        {query.Terms()},
		"location": {query.Location},
	}
	reqURL := newsAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	req.Header.Set("X-Api-Key", a.APIKey)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("news API HTTP %d: %w", resp.StatusCode, ErrAuth)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API returned HTTP %d", resp.StatusCode)
	}

	var body newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing news response: %w", err)
	}

	var points []types.DataPoint
	for i, art := range body.Articles {
		title := strings.TrimSpace(art.Title)
		if title == "" {
			continue
		}

		text := title
		if desc := strings.TrimSpace(art.Description); desc != "" {
			text = title + ". " + desc
		}

		p := types.DataPoint{
			ID:         fmt.Sprintf("news-%d", i),
			Source:     a.Name(),
			Domain:     a.Domain(),
			Text:       text,
			Confidence: 0.6,
			Metadata: map[string]string{
				"url":         art.URL,
				"source_name": art.SourceName,
			},
		}
		if t, parseErr := time.Parse(time.RFC3339, art.PublishedAt); parseErr == nil {
			p.Timestamp = t
			// Fresh news is a stronger timing signal.
			if time.Since(t) < 72*time.Hour {
				p.Confidence = 0.75
			}
		}
		p.ClampConfidence()
		points = append(points, p)
	}
	return points, nil
}
