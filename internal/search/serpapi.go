// Package search looks up supplementary articles and videos for a coaching
// question.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"health-coach/internal/session"
)

const (
	DefaultEndpoint = "https://serpapi.com/search"

	maxArticles = 3
	maxVideos   = 2
	resultCount = 5
)

type result struct {
	Title *string `json:"title"`
	Link  *string `json:"link"`
}

type response struct {
	OrganicResults []*result `json:"organic_results"`
	VideoResults   []*result `json:"video_results"`
}

// Client queries a SerpAPI compatible endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func New(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Lookup returns up to 3 articles and 2 videos for query. Any failure yields
// nil, never a partial result.
func (c *Client) Lookup(ctx context.Context, query string) *session.Resources {
	if c.apiKey == "" || strings.TrimSpace(query) == "" {
		return nil
	}
	res, err := c.fetch(ctx, query)
	if err != nil {
		log.Printf("🔍 resource lookup failed: %v", err)
		return nil
	}
	return res
}

func (c *Client) fetch(ctx context.Context, query string) (*session.Resources, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("api_key", c.apiKey)
	params.Set("num", fmt.Sprint(resultCount))
	params.Set("tbm", "vid")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles, err := toLinks(body.OrganicResults, maxArticles)
	if err != nil {
		return nil, fmt.Errorf("organic results: %w", err)
	}
	videos, err := toLinks(body.VideoResults, maxVideos)
	if err != nil {
		return nil, fmt.Errorf("video results: %w", err)
	}
	return &session.Resources{Articles: articles, Videos: videos}, nil
}

// toLinks keeps the first limit results. Every kept result must carry both a
// title and a link.
func toLinks(results []*result, limit int) ([]session.Link, error) {
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]session.Link, 0, len(results))
	for i, r := range results {
		if r == nil || r.Title == nil || r.Link == nil {
			return nil, fmt.Errorf("result %d is missing title or link", i)
		}
		out = append(out, session.Link{Title: *r.Title, Link: *r.Link})
	}
	return out, nil
}
