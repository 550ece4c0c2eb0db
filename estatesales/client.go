package estatesales

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const DefaultBaseURL = "https://www.estatesales.net"

// Sites reject empty or default client identification, so the fetcher ships a
// realistic browser User-Agent.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	DefaultMaxPages        = 5
	DefaultPageConcurrency = 4
)

// Page is one fetched listing page. URL is the request URL after redirects
// and is the base for resolving relative links.
type Page struct {
	URL  *url.URL
	Body []byte
}

type Client struct {
	httpClient      *http.Client
	userAgent       string
	minInterval     time.Duration
	retry           RetryConfig
	maxPages        int
	pageConcurrency int
	mu              sync.Mutex
	lastRequest     time.Time
}

type Option func(*Client)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	StatusCodes map[int]struct{}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(userAgent) != "" {
			c.userAgent = userAgent
		}
	}
}

func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.minInterval = interval
	}
}

func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

func WithMaxPages(maxPages int) Option {
	return func(c *Client) {
		if maxPages > 0 {
			c.maxPages = maxPages
		}
	}
}

func WithPageConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageConcurrency = n
		}
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient:  http.DefaultClient,
		userAgent:   defaultUserAgent,
		minInterval: 200 * time.Millisecond,
		retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    5 * time.Second,
			StatusCodes: map[int]struct{}{
				http.StatusTooManyRequests:     {},
				http.StatusInternalServerError: {},
				http.StatusBadGateway:          {},
				http.StatusServiceUnavailable:  {},
				http.StatusGatewayTimeout:      {},
			},
		},
		maxPages:        DefaultMaxPages,
		pageConcurrency: DefaultPageConcurrency,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FetchError is a run-fatal fetch failure: the listing site could not be
// reached, or answered with a non-retryable status, after retries.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "estatesales: fetch failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("estatesales: fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("estatesales: fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FetchPage issues a GET for one listing page, retrying transient failures
// (transport errors, 429, 5xx) with exponential backoff. Other statuses fail
// immediately.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if c == nil {
		return nil, errors.New("estatesales: client is nil")
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}

	maxAttempts := c.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	var lastStatus int
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		if strings.TrimSpace(c.userAgent) != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		page, statusCode, err := c.doRequest(ctx, req)
		if err == nil && statusCode == http.StatusOK {
			return page, nil
		}

		lastErr = err
		lastStatus = statusCode
		if !c.shouldRetry(statusCode, err) || attempt == maxAttempts {
			return nil, &FetchError{URL: pageURL, StatusCode: statusCode, Err: err}
		}
		if err := sleepWithContext(ctx, c.retryDelay(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, &FetchError{URL: pageURL, StatusCode: lastStatus, Err: lastErr}
}

func (c *Client) doRequest(ctx context.Context, req *http.Request) (*Page, int, error) {
	if err := c.waitRateLimit(ctx); err != nil {
		return nil, 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}
	return &Page{URL: finalURL, Body: body}, resp.StatusCode, nil
}

func (c *Client) waitRateLimit(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}
	c.mu.Lock()
	now := time.Now()
	next := c.lastRequest.Add(c.minInterval)
	if next.Before(now) || next.Equal(now) {
		c.lastRequest = now
		c.mu.Unlock()
		return nil
	}
	c.lastRequest = next
	c.mu.Unlock()

	return sleepWithContext(ctx, time.Until(next))
}

func (c *Client) shouldRetry(statusCode int, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return true
	}
	_, ok := c.retry.StatusCodes[statusCode]
	return ok
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return c.retry.BaseDelay
	}
	delay := c.retry.BaseDelay << (attempt - 1)
	if delay > c.retry.MaxDelay {
		delay = c.retry.MaxDelay
	}
	if delay <= 0 {
		return 200 * time.Millisecond
	}
	return delay
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
