// ABOUTME: NewsAPI client fetching top headlines with a TTL cache.
// ABOUTME: Headline failures are soft; callers fall back to creative prompts.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/hoshiko-bot/hoshiko/internal/clock"
)

// DefaultNewsAPIURL is the NewsAPI top-headlines endpoint.
const DefaultNewsAPIURL = "https://newsapi.org/v2"

// NewsClient fetches technology headlines from NewsAPI, caching results so
// repeated cycles within the cache window reuse one fetch.
type NewsClient struct {
	apiURL string
	apiKey string
	client *http.Client
	ttl    time.Duration
	clock  clock.Clock

	cached    []string
	fetchedAt time.Time
}

// NewNewsClient creates a headline client. An empty apiURL uses the public
// NewsAPI endpoint; a nil clock uses the system clock.
func NewNewsClient(apiURL, apiKey string, ttl time.Duration, clk clock.Clock) *NewsClient {
	if apiURL == "" {
		apiURL = DefaultNewsAPIURL
	}
	if clk == nil {
		clk = clock.System
	}
	return &NewsClient{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		ttl:    ttl,
		clock:  clk,
	}
}

// newsResponse is the envelope returned by GET /top-headlines.
type newsResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// TopHeadline returns a random headline from the cached batch, refreshing the
// cache when stale.
func (n *NewsClient) TopHeadline(ctx context.Context, rng *rand.Rand) (string, error) {
	now := n.clock()
	if len(n.cached) == 0 || now.Sub(n.fetchedAt) >= n.ttl {
		headlines, err := n.fetch(ctx)
		if err != nil {
			return "", err
		}
		n.cached = headlines
		n.fetchedAt = now
	}
	if len(n.cached) == 0 {
		return "", fmt.Errorf("no headlines available")
	}
	return n.cached[rng.Intn(len(n.cached))], nil
}

func (n *NewsClient) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", n.apiURL+"/top-headlines", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("category", "technology")
	q.Set("pageSize", "10")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("news API returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	headlines := make([]string, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title != "" {
			headlines = append(headlines, a.Title)
		}
	}
	return headlines, nil
}
