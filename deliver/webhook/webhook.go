// Package webhook implements an HTTP POST delivery adapter.
//
// POSTs the encoded body to a configurable URL with the generated
// Content-Type header. Buffered bodies retry with exponential backoff on
// transient failures; streaming bodies are sent exactly once because the
// body bytes cannot be replayed.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/justapithecus/formwire/deliver"
	"github.com/justapithecus/formwire/form"
	"github.com/justapithecus/formwire/iox"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultRetries is the default number of retry attempts for buffered
// bodies.
const DefaultRetries = 3

// Config configures the webhook adapter.
type Config struct {
	// URL is the HTTP endpoint to POST to (required).
	URL string
	// Headers are custom HTTP headers added to each request.
	// Content-Type and Content-Length come from the payload and cannot
	// be overridden here.
	Headers map[string]string
	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure (default 3).
	// Ignored for streaming bodies, which are sent exactly once.
	Retries int
}

// Adapter delivers encoded bodies via HTTP POST.
type Adapter struct {
	config Config
	client *http.Client
}

// New creates a webhook adapter from the given config.
// Returns an error if the URL is empty.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook adapter requires a URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}

	return &Adapter{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Deliver POSTs the payload.
//
// Buffered bodies are read once and retried with exponential backoff on
// 5xx responses and network errors; 4xx responses are non-retriable and
// fail immediately. Streaming bodies get a single attempt.
func (a *Adapter) Deliver(ctx context.Context, payload *form.Payload) error {
	defer iox.DiscardClose(payload.Body)

	if payload.Streaming() {
		return a.doRequest(ctx, payload, payload.Body, -1)
	}

	body, err := io.ReadAll(payload.Body)
	if err != nil {
		return fmt.Errorf("webhook: read body: %w", err)
	}

	var lastErr error
	// attempts = 1 initial + retries
	attempts := 1 + a.config.Retries

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("webhook: context canceled: %w", err)
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return fmt.Errorf("webhook: context canceled during backoff: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		lastErr = a.doRequest(ctx, payload, bytes.NewReader(body), int64(len(body)))
		if lastErr == nil {
			return nil
		}

		// 4xx errors are non-retriable, stop immediately
		var statusErr *StatusError
		if errors.As(lastErr, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
			return fmt.Errorf("webhook: non-retriable error: %w", lastErr)
		}
	}

	return fmt.Errorf("webhook: failed after %d attempts: %w", attempts, lastErr)
}

// Close implements deliver.Deliverer. The shared http.Client holds no
// per-adapter resources.
func (a *Adapter) Close() error { return nil }

// StatusError is returned for non-2xx HTTP responses.
// Carrying the status code lets callers distinguish retriable (5xx) from
// non-retriable (4xx) failures.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// doRequest performs a single POST and returns nil on 2xx.
func (a *Adapter) doRequest(ctx context.Context, payload *form.Payload, body io.Reader, length int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, body)
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}

	req.Header.Set("Content-Type", payload.ContentType)
	if length >= 0 {
		req.ContentLength = length
		req.Header.Set("Content-Length", strconv.FormatInt(length, 10))
	}
	for k, v := range a.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// Verify Adapter implements deliver.Deliverer.
var _ deliver.Deliverer = (*Adapter)(nil)
