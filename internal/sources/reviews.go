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

// reviewsAPIBase is the review aggregation endpoint. Declared as a var so
// tests can substitute an httptest server.
var reviewsAPIBase = "https://api.meshintel.dev/v1/reviews"

// ReviewsAdapter fetches recent customer reviews for a business (R2.1).
// Reviews feed the customer-psychology domain.
type ReviewsAdapter struct {
	Client *http.Client
	Config types.HTTPConfig
}

// Name returns the adapter identifier.
func (a *ReviewsAdapter) Name() string { return "reviews" }

// Domain returns the intelligence domain this adapter feeds.
func (a *ReviewsAdapter) Domain() types.Domain { return types.DomainCustomerPsychology }

type reviewsResponse struct {
	Reviews []struct {
		ID     string  `json:"id"`
		Text   string  `json:"text"`
		Rating float64 `json:"rating"`
		Date   string  `json:"date"`
		Author string  `json:"author"`
	} `json:"reviews"`
}

// Fetch queries the review API and normalizes each review into a DataPoint.
func (a *ReviewsAdapter) Fetch(ctx context.Context, query Query) ([]types.DataPoint, error) {
	params := url.Values{
		"business": {query.Business},
		"location": {query.Location},
	}
	reqURL := reviewsAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reviews API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("reviews API HTTP %d: %w", resp.StatusCode, ErrAuth)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reviews API returned HTTP %d", resp.StatusCode)
	}

	var body reviewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing reviews response: %w", err)
	}

	var points []types.DataPoint
	for i, rev := range body.Reviews {
		text := strings.TrimSpace(rev.Text)
		if text == "" {
			continue
		}

		p := types.DataPoint{
			ID:         fmt.Sprintf("reviews-%s", nonEmpty(rev.ID, fmt.Sprintf("%d", i))),
			Source:     a.Name(),
			Domain:     a.Domain(),
			Text:       text,
			Confidence: reviewConfidence(text, rev.Rating),
			Metadata: map[string]string{
				"rating": fmt.Sprintf("%.1f", rev.Rating),
				"author": rev.Author,
			},
		}
		if t, parseErr := time.Parse(time.RFC3339, rev.Date); parseErr == nil {
			p.Timestamp = t
		}
		p.ClampConfidence()
		points = append(points, p)
	}
	return points, nil
}

// reviewConfidence estimates signal quality: longer reviews and strongly
// polarized ratings carry more psychological signal than terse mid-scale
// ones.
func reviewConfidence(text string, rating float64) float64 {
	conf := 0.5

	words := len(strings.Fields(text))
	switch {
	case words >= 60:
		conf += 0.25
	case words >= 20:
		conf += 0.15
	}

	// Ratings near either extreme of a 5-point scale are stronger signals.
	polarity := rating - 3.0
	if polarity < 0 {
		polarity = -polarity
	}
	conf += polarity * 0.1

	return conf
}

func nonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
