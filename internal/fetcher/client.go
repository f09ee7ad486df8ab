package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

const (
	decisionsPath   = "/decisions"
	eventsPath      = "/events"
	leaderboardPath = "/leaderboard"

	dateParamLayout = "2006-01-02"
)

// Options parameterise the upstream service client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the PrediBench data service over HTTPS/JSON. All failures
// here are hard errors: the dashboard cannot degrade a total fetch failure
// gracefully, so they propagate to the caller for retry.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs an upstream service client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// DecisionsByModel fetches the ordered decision history of one model.
func (c *Client) DecisionsByModel(ctx context.Context, modelID string) ([]market.Decision, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model id required")
	}

	var out []market.Decision
	query := url.Values{"model_id": {modelID}}
	if err := c.getJSON(ctx, decisionsPath, query, &out); err != nil {
		return nil, fmt.Errorf("fetch decisions for model %s: %w", modelID, err)
	}
	return out, nil
}

// DecisionsByDate fetches all models' decisions for one target date.
func (c *Client) DecisionsByDate(ctx context.Context, date time.Time) ([]market.Decision, error) {
	var out []market.Decision
	query := url.Values{"date": {date.UTC().Format(dateParamLayout)}}
	if err := c.getJSON(ctx, decisionsPath, query, &out); err != nil {
		return nil, fmt.Errorf("fetch decisions for date %s: %w", date.Format(dateParamLayout), err)
	}
	return out, nil
}

// EventByID fetches one event with its per-market price series.
func (c *Client) EventByID(ctx context.Context, eventID string) (market.Event, error) {
	if eventID == "" {
		return market.Event{}, fmt.Errorf("event id required")
	}

	var out market.Event
	if err := c.getJSON(ctx, eventsPath+"/"+url.PathEscape(eventID), nil, &out); err != nil {
		return market.Event{}, fmt.Errorf("fetch event %s: %w", eventID, err)
	}
	return out, nil
}

// Leaderboard fetches the current leaderboard snapshot.
func (c *Client) Leaderboard(ctx context.Context) ([]market.LeaderboardEntry, error) {
	var out []market.LeaderboardEntry
	if err := c.getJSON(ctx, leaderboardPath, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("service base url not configured")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("upstream request failed")
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var (
	_ DecisionFetcher    = (*Client)(nil)
	_ EventFetcher       = (*Client)(nil)
	_ LeaderboardFetcher = (*Client)(nil)
)
