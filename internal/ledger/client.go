// Package ledger talks to the remote ledger API and assembles the
// point-in-time snapshots the analysis services run on. Responses are
// cached in memory and mirrored to disk so the app keeps working when the
// remote side is down.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ledgerlens/internal/models"
	"ledgerlens/internal/services/cache"
)

const defaultTimeout = 30 * time.Second

// Client is an authenticated HTTP client for the ledger API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      *cache.Cache[json.RawMessage]
	throttle   *throttle
}

// Options tune a Client. Zero values fall back to sensible defaults.
type Options struct {
	CacheTTL          time.Duration
	CacheSize         int
	RequestsPerMinute int
	HTTPClient        *http.Client
}

// NewClient builds a Client for the ledger API rooted at baseURL.
func NewClient(baseURL, token string, opts Options) *Client {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = 64
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: opts.HTTPClient,
		cache:      cache.New[json.RawMessage](opts.CacheSize, opts.CacheTTL),
		throttle:   newThrottle(opts.RequestsPerMinute),
	}
}

// InvalidateCache drops all cached responses. Called after writes so
// subsequent reads see the new state.
func (c *Client) InvalidateCache() {
	c.cache.Purge()
}

// Accounts fetches the account list.
func (c *Client) Accounts(ctx context.Context) ([]models.Account, error) {
	var out struct {
		Accounts []models.Account `json:"accounts"`
	}
	if err := c.getJSON(ctx, "/accounts", &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// Categories fetches the category list.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.getJSON(ctx, "/categories", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// Transactions fetches every transaction on record.
func (c *Client) Transactions(ctx context.Context) (*models.TransactionSet, error) {
	var out struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := c.getJSON(ctx, "/transactions", &out); err != nil {
		return nil, err
	}
	return models.NewTransactionSet(out.Transactions), nil
}

// Scheduled fetches upcoming scheduled transactions.
func (c *Client) Scheduled(ctx context.Context) ([]models.ScheduledTransaction, error) {
	var out struct {
		Scheduled []models.ScheduledTransaction `json:"scheduled_transactions"`
	}
	if err := c.getJSON(ctx, "/scheduled_transactions", &out); err != nil {
		return nil, err
	}
	return out.Scheduled, nil
}

// getJSON performs a cached, throttled GET against path and decodes the
// response body into dst.
func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	if raw, ok := c.cache.Get(path); ok {
		return json.Unmarshal(raw, dst)
	}

	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	c.cache.Set(path, raw)
	return json.Unmarshal(raw, dst)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// APIError is a non-2xx response from the ledger API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger API %s %s: status %d", e.Method, e.Path, e.StatusCode)
}
