// Package helius talks to the Helius enriched-transaction API. It provides
// batched parsed-transaction lookups and paginated address history, with
// retries and exponential backoff.
package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solana-wallet-lens/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.helius.xyz"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0

	// MaxParseBatch is the API's per-request signature limit.
	MaxParseBatch = 100
)

// Source fetches enriched transactions. Implemented by HTTPClient.
type Source interface {
	// ParseTransactions resolves up to MaxParseBatch signatures into
	// enriched transactions. Unknown signatures are silently absent from
	// the result.
	ParseTransactions(ctx context.Context, signatures []string) ([]*domain.HeliusTransaction, error)

	// AddressTransactions returns one page of an address's enriched
	// history, newest first. An empty before walks from the tip.
	AddressTransactions(ctx context.Context, address string, before string, limit int) ([]*domain.HeliusTransaction, error)
}

// HTTPClient implements Source against the Helius REST API.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new Helius API client.
func NewHTTPClient(apiKey string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Source = (*HTTPClient)(nil)

// ParseTransactions resolves signatures via POST /v0/transactions.
func (c *HTTPClient) ParseTransactions(ctx context.Context, signatures []string) ([]*domain.HeliusTransaction, error) {
	if len(signatures) == 0 {
		return nil, nil
	}
	if len(signatures) > MaxParseBatch {
		return nil, fmt.Errorf("batch of %d exceeds limit %d", len(signatures), MaxParseBatch)
	}

	body, err := json.Marshal(map[string][]string{"transactions": signatures})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/v0/transactions?api-key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	var txs []*domain.HeliusTransaction
	if err := c.do(ctx, http.MethodPost, u, body, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// AddressTransactions returns one page of enriched history via
// GET /v0/addresses/{address}/transactions.
func (c *HTTPClient) AddressTransactions(ctx context.Context, address string, before string, limit int) ([]*domain.HeliusTransaction, error) {
	q := url.Values{}
	q.Set("api-key", c.apiKey)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if before != "" {
		q.Set("before", before)
	}

	u := fmt.Sprintf("%s/v0/addresses/%s/transactions?%s", c.baseURL, url.PathEscape(address), q.Encode())
	var txs []*domain.HeliusTransaction
	if err := c.do(ctx, http.MethodGet, u, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// do performs one API call with retries and exponential backoff. HTTP 4xx
// other than 429 is not retried.
func (c *HTTPClient) do(ctx context.Context, method, u string, body []byte, result interface{}) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		// Handle rate limiting
		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Client errors are not retried
			return fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("unmarshal response: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
