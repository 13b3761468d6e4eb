package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/flockwood/Offside-Tool/internal/config"
	"github.com/flockwood/Offside-Tool/internal/models"
)

var ErrNotFound = errors.New("player not found on source")

// Scraper fetches player data from an external source. Implementations are
// invoked only by background tasks, never on the request path.
type Scraper interface {
	ScrapePlayer(ctx context.Context, name string) (*models.PlayerCreate, error)
}

// Client talks to a player-data API. Requests are rate limited and retried
// with exponential backoff on 429 and 5xx responses up to a bounded count;
// exhaustion fails only the single item.
type Client struct {
	baseURL    string
	httpClient *http.Client
	rateLimit  time.Duration
	maxRetries uint64

	mu          sync.Mutex
	lastRequest time.Time
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.ScraperBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		rateLimit:  cfg.ScraperRateLimit,
		maxRetries: uint64(cfg.ScraperRetries),
	}
}

type searchResponse struct {
	Players []models.PlayerCreate `json:"players"`
}

func (c *Client) ScrapePlayer(ctx context.Context, name string) (*models.PlayerCreate, error) {
	endpoint := fmt.Sprintf("%s/api/players/search?name=%s", c.baseURL, url.QueryEscape(name))

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Players) == 0 {
		return nil, ErrNotFound
	}

	return &result.Players[0], nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	c.waitForRateLimit()

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(500*time.Millisecond))

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("source replied %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("source replied %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) waitForRateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		if elapsed := time.Since(c.lastRequest); elapsed < c.rateLimit {
			time.Sleep(c.rateLimit - elapsed)
		}
	}
	c.lastRequest = time.Now()
}
