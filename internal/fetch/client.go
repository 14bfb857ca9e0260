// Package fetch downloads FPL classic API responses into the raw store.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/fplmate/fplmate/internal/metrics"
	"github.com/fplmate/fplmate/internal/store"
)

const DefaultBaseURL = "https://fantasy.premierleague.com/api"

var (
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned for 503 responses once retries run out.
	ErrUnavailable = errors.New("service unavailable")
)

type Client struct {
	HTTP         *http.Client
	Store        *store.JSONStore
	BaseURL      string
	UserAgent    string
	Retries      int
	Backoff      time.Duration
	PrettyWrite  bool
	UseCache     bool
	DisableWrite bool

	Limiter *rate.Limiter
	Breaker *gobreaker.CircuitBreaker
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

func NewClient(st *store.JSONStore) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 20 * time.Second},
		Store:       st,
		BaseURL:     DefaultBaseURL,
		UserAgent:   "fplmate/0.1",
		Retries:     3,
		Backoff:     time.Second,
		PrettyWrite: true,
		UseCache:    true,
		Limiter:     rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		Breaker:     NewBreaker("fpl-api"),
		Log:         zerolog.Nop(),
	}
}

// NewBreaker trips after three consecutive failed fetches and probes again
// after a minute.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// a missing entry says nothing about upstream health
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
}

type statusError struct {
	path   string
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s failed: %d body=%s", e.path, e.status, e.body)
}

// FetchRaw downloads urlPath (like "/bootstrap-static/") and writes it to
// relPath. Returns raw bytes from cache or network.
//
// 404 fails at once with ErrNotFound. 503 and transport errors are retried
// up to Retries attempts, waiting Backoff*(attempt) between them.
func (c *Client) FetchRaw(ctx context.Context, urlPath, relPath string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.Store.Exists(relPath) {
		c.Log.Debug().Str("path", relPath).Msg("cache hit")
		return c.Store.ReadRaw(relPath)
	}

	attempts := max(c.Retries, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			wait := c.Backoff * time.Duration(i)
			c.Log.Warn().Err(lastErr).Str("url", urlPath).Int("attempt", i+1).Dur("wait", wait).Msg("retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		body, err := c.do(ctx, urlPath)
		if err == nil {
			if !c.DisableWrite {
				if err := c.Store.WriteRaw(relPath, body, c.PrettyWrite); err != nil {
					return nil, err
				}
			}
			c.Log.Info().Str("url", urlPath).Str("path", relPath).Int("bytes", len(body)).Msg("fetched")
			return body, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("GET %s: %d attempts: %w", urlPath, attempts, lastErr)
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return false
	case errors.Is(err, ErrUnavailable):
		return true
	}
	var se *statusError
	return !errors.As(err, &se)
}

func (c *Client) do(ctx context.Context, urlPath string) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.Breaker == nil {
		return c.get(ctx, urlPath)
	}
	out, err := c.Breaker.Execute(func() (any, error) {
		return c.get(ctx, urlPath)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) get(ctx context.Context, urlPath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+urlPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Metrics.ObserveUpstream(endpointLabel(urlPath), 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	c.Metrics.ObserveUpstream(endpointLabel(urlPath), resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", urlPath, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("GET %s: %w", urlPath, ErrNotFound)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, fmt.Errorf("GET %s: %w", urlPath, ErrUnavailable)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &statusError{path: urlPath, status: resp.StatusCode, body: string(body)}
	}
	return body, nil
}
