// Package fetch performs HTTP GETs with bounded retries. Rate limiting
// (429), server errors (5xx) and transport failures are retried with
// exponential backoff plus jitter; any other non-200 status fails at once.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrClientStatus     = errors.New("fetch: client error status")
	ErrRetriesExhausted = errors.New("fetch: retries exhausted")
)

const (
	DefaultMaxRetries = 3
	defaultUserAgent  = "betlegend-sitetools/1.0"
)

// StatusError carries the HTTP status of a failed attempt.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}

type Client struct {
	HTTP       *http.Client
	MaxRetries int
	Limiter    *rate.Limiter
	Logger     *slog.Logger

	// Sleep waits between attempts; replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	// Jitter returns a value in [0,1).
	Jitter func() float64
}

// New returns a Client pacing requests at perSecond with the given timeout.
func New(timeout time.Duration, maxRetries int, perSecond float64) *Client {
	c := &Client{
		HTTP:       &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
	}
	if perSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return c
}

// Backoff is the wait before retry number attempt (0-based).
func Backoff(attempt int, jitter float64) time.Duration {
	secs := math.Pow(2, float64(attempt)) + jitter
	return time.Duration(secs * float64(time.Second))
}

// Get returns the body of url after a 200 response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	retries := c.MaxRetries
	if retries < 1 {
		retries = DefaultMaxRetries
	}
	var last error
	for attempt := 0; attempt < retries; attempt++ {
		body, retry, err := c.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		last = err
		if attempt == retries-1 {
			break
		}
		wait := Backoff(attempt, c.jitter())
		c.logger().Warn("fetch retry", "url", url, "attempt", attempt+1, "wait", wait, "err", err)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, retries, last)
}

// GetJSON fetches url and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, url string) ([]byte, bool, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read %s: %w", url, err)
		}
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, true, &StatusError{URL: url, Status: resp.StatusCode}
	default:
		return nil, false, fmt.Errorf("%w: %w", ErrClientStatus, &StatusError{URL: url, Status: resp.StatusCode})
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) jitter() float64 {
	if c.Jitter != nil {
		return c.Jitter()
	}
	return rand.Float64()
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
