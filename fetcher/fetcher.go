// Package fetcher retrieves raw HTML for the analysis pipeline. It is the
// only network-bound stage; everything downstream is pure compute.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxAttempts = 3
	defaultBaseBackoff = 1 * time.Second
	defaultMaxBackoff  = 10 * time.Second
	userAgent          = "CiteLens/1.0"
	maxBodyBytes       = 10 << 20 // 10 MiB guards against runaway pages
)

// RetryObserver is notified of every attempt beyond the first.
type RetryObserver interface {
	RecordFetchRetry()
}

// Fetcher retrieves pages with bounded retries and exponential backoff.
type Fetcher struct {
	client      *http.Client
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	logger      *slog.Logger
	observer    RetryObserver
}

// Option configures a Fetcher.
type Option func(*Fetcher)

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

func WithRetryObserver(o RetryObserver) Option {
	return func(f *Fetcher) { f.observer = o }
}

// New builds a Fetcher with a pooled transport and keep-alive connections.
func New(logger *slog.Logger, opts ...Option) *Fetcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
		maxBackoff:  defaultMaxBackoff,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the page body as a string. Network errors and 5xx
// responses are retried with exponential backoff; a non-2xx result after
// the final attempt is the caller's fatal error for this analysis.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	backoff := f.baseBackoff

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			if f.observer != nil {
				f.observer.RecordFetchRetry()
			}
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("fetch %s: %w", url, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > f.maxBackoff {
				backoff = f.maxBackoff
			}
		}

		body, retryable, err := f.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if f.logger != nil {
			f.logger.Warn("fetch attempt failed", "url", url, "attempt", attempt, "error", err)
		}
		if !retryable {
			break
		}
	}
	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, url string) (body string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return "", true, fmt.Errorf("server returned %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", true, fmt.Errorf("read body: %w", err)
	}
	return string(data), false, nil
}
