package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies cover-mosaic to metadata services.
const DefaultUserAgent = "cover-mosaic/0.1 ( https://github.com/handiism/cover-mosaic )"

// Options configures a Client. Zero values select the defaults noted on
// each field.
type Options struct {
	// UserAgent is sent with every request. Default: DefaultUserAgent.
	UserAgent string

	// Timeout bounds a single request. Default: 60s.
	Timeout time.Duration

	// RequestInterval is the minimum spacing between requests. Zero
	// disables rate limiting.
	RequestInterval time.Duration

	// MaxRetries is how many times a transient failure is retried.
	MaxRetries int

	// RetryDelay is the first backoff delay; it doubles on every retry.
	// Default: 1s.
	RetryDelay time.Duration

	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// Client wraps HTTP operations for metadata and artwork services.
//
// Client provides:
//   - A configured User-Agent header, which MusicBrainz requires
//   - Request spacing through a token bucket limiter
//   - Retries with exponential backoff for network errors, 429 and 5xx
//
// Example usage:
//
//	client := NewClient(Options{RequestInterval: time.Second, MaxRetries: 3})
//
//	// Fetch XML or HTML
//	body, err := client.GetString(ctx, "https://musicbrainz.org/ws/2/release/?query=...")
//
//	// Fetch an image
//	data, err := client.Get(ctx, artworkURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
}

// NewClient creates a new HTTP client.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(limit, 1),
		retries:    max(opts.MaxRetries, 0),
		retryDelay: opts.RetryDelay,
	}
}

// UserAgent returns the header value sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// HTTPClient returns the underlying client, for libraries that issue their
// own requests.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Wait blocks until the rate limiter admits another request.
func (c *Client) Wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Status, e.URL)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header and waits for the
// rate limiter. Network errors, 429 and 5xx responses are retried.
//
// Returns an error if:
//   - The context is cancelled
//   - Every attempt fails
//   - The response status is not 200 OK (a *StatusError)
//
// Example:
//
//	data, err := client.Get(ctx, "https://coverartarchive.org/release/<mbid>/front-500")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.retries+1, c.retryDelay, func() error {
		var err error
		body, err = c.get(ctx, url)
		return err
	})
	return body, err
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		se := &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &RetryableError{Err: se}
		}
		return nil, se
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching text content like HTML.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
