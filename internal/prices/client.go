package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Client fetches USD quotes from the price feed.
type Client struct {
	url        string
	httpClient *http.Client
	baseDelay  time.Duration
	maxRetries int
}

// NewClient creates a new price feed client.
func NewClient(url string, baseDelay time.Duration, maxRetries int) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseDelay:  baseDelay,
		maxRetries: maxRetries,
	}
}

// FetchQuotes downloads the full list of quotes.
// The feed may list a currency several times; see BuildTable for how duplicates are resolved.
func (c *Client) FetchQuotes(ctx context.Context) ([]Quote, error) {
	body, err := c.fetchWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	// Parse: [{"currency":"ETH","date":"2023-08-29T07:10:52.000Z","price":1645.93}, ...]
	var quotes []Quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("parsing price feed response: %w", err)
	}
	return quotes, nil
}

// fetchWithRetry retries 429 and 5xx responses with exponential backoff.
// Transport errors and other statuses fail immediately.
func (c *Client) fetchWithRetry(ctx context.Context) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("creating price feed request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("price feed request failed: %w", err))
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("reading price feed response: %w", err))
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			return nil, fmt.Errorf("price feed HTTP %d (attempt %d/%d)", resp.StatusCode, attempt, c.maxRetries+1)
		default:
			return nil, backoff.Permanent(fmt.Errorf("price feed HTTP %d: %s", resp.StatusCode, string(body)))
		}
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
	)
}
