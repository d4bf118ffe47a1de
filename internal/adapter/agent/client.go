// Package agent is the HTTP adapter for the content agent backend. It owns
// the generation stream plus the one-shot REST surface (conversations,
// evaluation, safety, health) exposed by the same service.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"social-studio/internal/domain"
	"social-studio/internal/infra/config"
)

// maxResponseBody is the maximum body size read from one-shot REST calls.
const maxResponseBody = 10 * 1024 * 1024 // 10 MB

// defaultBaseURL matches the backend's local development address.
const defaultBaseURL = "http://localhost:8000"

// Client talks to the content agent backend.
//
// Two HTTP clients are held on purpose: one-shot calls run with an overall
// timeout, while the generation stream must never be cut off by a client
// wall clock (the backend owns stream timeout policy). The stream client
// still bounds dialing and response-header wait via its transport.
type Client struct {
	baseURL string
	call    *http.Client
	stream  *http.Client
	breaker *gobreaker.CircuitBreaker[domain.EvaluationScores]
	logger  *slog.Logger
}

// New creates a backend client with pooled transports and an evaluation
// circuit breaker per cfg.
func New(cfg config.BackendConfig, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}

	transport := newPooledTransport(cfg)
	c := &Client{
		baseURL: baseURL,
		call: &http.Client{
			Transport: transport,
			Timeout:   callTimeout,
		},
		stream: &http.Client{
			Transport: transport,
		},
		logger: logger,
	}
	c.breaker = newEvalBreaker(cfg.Breaker, logger)
	return c
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Health probes backend reachability.
func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	body, err := c.doJSONRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, domain.WrapOp("Agent.Health", err)
	}
	var status domain.HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, domain.WrapOp("Agent.Health", fmt.Errorf("unmarshal response: %w", err))
	}
	return &status, nil
}

// doJSONRequest performs a REST call and returns the response body.
// It handles: create request, set headers, execute, read body (with limit),
// and map non-2xx statuses to domain errors.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.call.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, mapHTTPError(httpResp.StatusCode, respBody)
	}

	return respBody, nil
}

// doStreamRequest performs the POST that opens a generation stream and
// returns the open *http.Response (caller owns Body). Non-2xx statuses are
// mapped to domain errors, surfacing the backend's error field when set.
func (c *Client) doStreamRequest(ctx context.Context, path string, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	httpResp, err := c.stream.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		defer httpResp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, mapHTTPError(httpResp.StatusCode, respBody)
	}

	return httpResp, nil
}

// mapTransportError classifies request execution failures. Context
// cancellation passes through untouched so callers can treat it as a clean
// stop rather than a backend failure.
func mapTransportError(err error) error {
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), context.Canceled.Error()):
		return context.Canceled
	case strings.Contains(err.Error(), context.DeadlineExceeded.Error()):
		return fmt.Errorf("%w: %s", domain.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnavailable, err)
	}
}

// mapHTTPError maps an HTTP status code + response body to a domain error.
func mapHTTPError(statusCode int, body []byte) error {
	detail := apiErrorDetail(body)
	if detail == "" {
		detail = fmt.Sprintf("API error %d", statusCode)
	}

	switch {
	case statusCode == http.StatusBadRequest: // 400
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, detail)
	case statusCode == http.StatusNotFound: // 404
		return fmt.Errorf("%w: %s", domain.ErrNotFound, detail)
	case statusCode == http.StatusTooManyRequests: // 429
		return fmt.Errorf("%w: %s", domain.ErrRateLimit, detail)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden: // 401, 403
		return fmt.Errorf("%w: %s", domain.ErrAuthInvalid, detail)
	case statusCode == http.StatusNotImplemented: // 501, feature not configured backend-side
		return fmt.Errorf("%w: %s", domain.ErrUnavailable, detail)
	case statusCode >= 500:
		return fmt.Errorf("%w: %s", domain.ErrUnavailable, detail)
	default:
		return fmt.Errorf("API error %d: %s", statusCode, detail)
	}
}

// apiErrorDetail pulls the backend's error message out of a failure body.
// The backend reports {"error": ...}, occasionally with a "hint"; FastAPI
// validation failures use {"detail": ...}. Falls back to the raw body.
func apiErrorDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Error  string          `json:"error"`
		Hint   string          `json:"hint"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "" && payload.Hint != "":
			return payload.Error + " (" + payload.Hint + ")"
		case payload.Error != "":
			return payload.Error
		case len(payload.Detail) > 0:
			return string(payload.Detail)
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}

// newPooledTransport creates an http.Transport with connection pooling
// sized for a single-backend client.
func newPooledTransport(cfg config.BackendConfig) *http.Transport {
	connTimeout := cfg.ConnTimeout
	if connTimeout <= 0 {
		connTimeout = 10 * time.Second
	}
	respTimeout := cfg.RespTimeout
	if respTimeout <= 0 {
		respTimeout = 120 * time.Second
	}

	maxIdle := cfg.Pool.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	maxIdlePerHost := cfg.Pool.MaxIdleConnsPerHost
	if maxIdlePerHost <= 0 {
		maxIdlePerHost = 5
	}
	maxConnsPerHost := cfg.Pool.MaxConnsPerHost
	if maxConnsPerHost <= 0 {
		maxConnsPerHost = 10
	}
	idleTimeout := cfg.Pool.IdleConnTimeout
	if idleTimeout <= 0 {
		idleTimeout = 120 * time.Second
	}

	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   connTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: respTimeout,
		MaxIdleConns:          maxIdle,
		MaxIdleConnsPerHost:   maxIdlePerHost,
		MaxConnsPerHost:       maxConnsPerHost,
		IdleConnTimeout:       idleTimeout,
		ForceAttemptHTTP2:     true,
	}
}
