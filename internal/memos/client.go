// ABOUTME: HTTP client for the Memos REST API.
// ABOUTME: One request per call, bearer auth, bounded by the configured timeout, no retries.

package memos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/config"
	"github.com/harper/memos-mcp/internal/telemetry"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// maxMessageRunes bounds an upstream error body quoted into an error.
const maxMessageRunes = 512

// Client talks to one Memos instance. It holds only immutable settings and
// is safe for concurrent use.
type Client struct {
	apiURL     string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	metrics    telemetry.Metrics
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is left
// alone; the per-request deadline still applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m telemetry.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client from validated settings.
func NewClient(settings config.Settings, opts ...Option) *Client {
	c := &Client{
		apiURL:     settings.APIURL(),
		token:      settings.AccessToken,
		timeout:    settings.Timeout,
		httpClient: &http.Client{Timeout: settings.Timeout},
		logger:     zap.NewNop(),
		metrics:    telemetry.NewNoopMetrics(),
		userAgent:  "memos-mcp",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one upstream call. endpoint is the path template used
// for logs and metric labels so ids do not explode label cardinality.
type request struct {
	method   string
	path     string
	endpoint string
	query    url.Values
	body     any
}

// do performs exactly one HTTP exchange and hands a 2xx body to decode,
// which may be nil. A 2xx body that fails to decode is recorded as an
// upstream failure.
func (c *Client) do(ctx context.Context, r request, decode func(body []byte) error) error {
	start := time.Now()
	logger := telemetry.LoggerWithRequest(ctx, c.logger).With(
		zap.String("method", r.method),
		zap.String("endpoint", r.endpoint),
	)

	body, status, err := c.exchange(ctx, r)
	if err == nil && decode != nil {
		if err = decode(body); err != nil {
			if e := apperr.As(err); e.Status == 0 && e.Kind == apperr.KindUpstream {
				e.Status = status
				err = e
			}
		}
	}

	outcome := telemetry.OutcomeSuccess
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	c.metrics.ObserveUpstream(r.method, r.endpoint, outcome, status, time.Since(start))

	if err != nil {
		logger.Warn("memos request failed",
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	logger.Debug("memos request completed",
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// decodeJSON unmarshals a non-empty body into out.
func decodeJSON(out any) func([]byte) error {
	return func(body []byte) error {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return invalidBody(err)
		}
		return nil
	}
}

func (c *Client) exchange(ctx context.Context, r request) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.apiURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, 0, apperr.Validation("encode request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindTransport, err, "build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := telemetry.RequestIDFromContext(ctx); ok {
		req.Header.Set(telemetry.RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, c.transportError(ctx, r, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, c.transportError(ctx, r, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, resp.StatusCode, apperr.FromStatus(resp.StatusCode, upstreamMessage(resp.StatusCode, body))
	}
	return body, resp.StatusCode, nil
}

func (c *Client) transportError(ctx context.Context, r request, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return apperr.Wrap(apperr.KindTransport, err,
			"%s %s timed out after %s", r.method, r.endpoint, c.timeout)
	}
	if errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.KindTransport, err, "%s %s was cancelled", r.method, r.endpoint)
	}
	return apperr.Wrap(apperr.KindTransport, err, "failed to reach Memos at %s: %v", c.apiURL, err)
}

// upstreamMessage pulls a human-readable message out of an error body.
// Memos answers gRPC-gateway style `{"code":5,"message":"..."}`.
func upstreamMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}
	if runes := []rune(text); len(runes) > maxMessageRunes {
		text = string(runes[:maxMessageRunes]) + "..."
	}
	return text
}
