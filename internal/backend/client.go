// Package backend is the client for the hosted Supabase backend: PostgREST
// tables plus the RPC functions that post imported transactions to the
// ledger.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/observability"
	"github.com/ledgerline-dev/ledgerline/internal/resilience"
)

var tracer = otel.Tracer("ledgerline/backend")

// Client wraps HTTP calls to the Supabase PostgREST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	serviceKey string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient creates a backend client. The service role key is used as the
// bearer token when set; otherwise the anon key is. logger and metrics may be
// nil.
func NewClient(httpClient *http.Client, baseURL, anonKey, serviceKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger, metrics *observability.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		cb:         cb,
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
	}
}

func (c *Client) bearer() string {
	if c.serviceKey != "" {
		return c.serviceKey
	}
	return c.anonKey
}

// do executes an authenticated request against /rest/v1/<path>. payload, when
// non-nil, is sent as JSON. 4xx responses other than 408 and 429 are marked
// permanent so they are not retried.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, resilience.Permanent(fmt.Errorf("encoding %s payload: %w", path, err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		c.logger.Error("supabase: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, resilience.Permanent(err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("supabase: failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		serr := &statusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests {
			return nil, resilience.Permanent(serr)
		}
		return nil, serr
	}

	c.logger.Debug("supabase: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return respBody, nil
}

// call runs fn through the circuit breaker and retry policy, converting any
// failure into an *ErrExternalService. Only reads and idempotent lookups go
// through call.
func (c *Client) call(ctx context.Context, op string, fn func() error) error {
	return c.execute(ctx, op, func() error {
		return resilience.RetryWithBackoff(ctx, c.cfg, fn)
	})
}

// callOnce runs fn through the circuit breaker exactly once. Writes use it: a
// timed-out write may already be committed and must not be resent.
func (c *Client) callOnce(ctx context.Context, op string, fn func() error) error {
	return c.execute(ctx, op, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn()
	})
}

func (c *Client) execute(ctx context.Context, op string, run func() error) error {
	span := trace.SpanFromContext(ctx)

	_, err := c.cb.Execute(func() (any, error) {
		return nil, run()
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	c.metrics.IncrBackendError(op)
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	return &ErrExternalService{Service: "supabase/" + op, Err: err}
}

func decodeJSON(data []byte, v any, what string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return resilience.Permanent(fmt.Errorf("decoding %s: %w", what, err))
	}
	return nil
}
