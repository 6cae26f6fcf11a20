package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 50 * time.Millisecond
)

// Doer sends a single HTTP request. *http.Client satisfies it; tests
// substitute a fake.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Executor sends HTTP requests with bounded exponential backoff on
// transient failures.
type Executor struct {
	client     Doer
	maxRetries int
	backoff    time.Duration
}

// Config holds executor configuration.
type Config struct {
	Client     Doer
	MaxRetries int           // attempts per request (default 3)
	Backoff    time.Duration // first retry delay, doubled each attempt (default 50ms)
}

// NewExecutor creates an executor with the given retry policy.
func NewExecutor(cfg Config) *Executor {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &Executor{
		client:     client,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// Do sends the request, retrying transient failures.
//
// Network errors are retried and, once attempts are exhausted, returned as
// an error: the server was never reached. A 429 or 5xx response is retried
// and, once attempts are exhausted, the last response is returned with a nil
// error so the caller can inspect the status: the server kept failing. Any
// other status, success or client error, is returned immediately.
func (e *Executor) Do(ctx context.Context, method, url string, headers map[string]string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	delay := e.backoff
	for attempt := 1; ; attempt++ {
		req, err := e.buildRequest(ctx, method, url, headers, payload)
		if err != nil {
			return nil, err
		}

		resp, err := e.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("request failed",
				"method", method,
				"url", url,
				"attempt", attempt,
				"max_retries", e.maxRetries,
				"error", err,
			)
			if attempt == e.maxRetries {
				return nil, fmt.Errorf("%s %s after %d attempts: %w", method, url, attempt, err)
			}
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
			continue
		}

		if terminal(resp.StatusCode) {
			return resp, nil
		}

		// Retryable (429 or 5xx). Callers inspect the status of the
		// last response themselves.
		if attempt == e.maxRetries {
			return resp, nil
		}

		drain(resp)
		slog.Warn("retryable response",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
			"attempt", attempt,
			"max_retries", e.maxRetries,
		)
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
	}
}

func (e *Executor) buildRequest(ctx context.Context, method, url string, headers map[string]string, payload []byte) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// terminal reports whether the status ends the retry loop: any success or
// redirect, or a client error other than 429.
func terminal(status int) bool {
	if status >= 200 && status < 400 {
		return true
	}
	return status >= 400 && status < 500 && status != 429
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// sleep waits for the backoff delay without starving cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
