// Package chat is the HTTP client for the external text-to-SQL service.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	chatapp "github.com/spendlens/backend/internal/application/chat"
	"github.com/spendlens/backend/internal/infrastructure/config"
	"github.com/spendlens/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// Outcomes recorded on chat.outcome
const (
	outcomeOK              = "ok"
	outcomeTransportError  = "transport_error"
	outcomeHTTPError       = "http_error"
	outcomeInvalidResponse = "invalid_response"
)

const maxResponseSize = 10 << 20

var _ chatapp.Client = (*Client)(nil)

// Client posts questions to {base}/chat
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger

	latency  metric.Float64Histogram
	failures metric.Int64Counter
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	meter metric.Meter
}

// WithMeter records upstream latency and failures on meter instead of the
// global provider's chat meter.
func WithMeter(meter metric.Meter) Option {
	return func(o *clientOptions) {
		o.meter = meter
	}
}

type askRequest struct {
	Question string `json:"question"`
}

// NewClient creates a Client. The transport propagates trace context.
func NewClient(cfg *config.ChatConfig, logger *zap.Logger, opts ...Option) *Client {
	o := clientOptions{meter: otel.Meter(telemetry.ChatMeterName)}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/chat",
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
	if err := c.initInstruments(o.meter); err != nil {
		logger.Warn("Chat metrics disabled", zap.Error(err))
		_ = c.initInstruments(noop.NewMeterProvider().Meter(telemetry.ChatMeterName))
	}
	return c
}

func (c *Client) initInstruments(meter metric.Meter) error {
	latency, err := meter.Float64Histogram("chat_upstream_request_duration_seconds",
		metric.WithDescription("Latency of text-to-SQL calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(telemetry.ChatDurationBuckets...),
	)
	if err != nil {
		return err
	}
	failures, err := meter.Int64Counter("chat_upstream_failures_total",
		metric.WithDescription("Text-to-SQL calls that did not return a JSON answer"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}
	c.latency, c.failures = latency, failures
	return nil
}

// Endpoint returns the URL questions are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ask sends the question and returns the JSON answer unchanged
func (c *Client) Ask(ctx context.Context, question string) (json.RawMessage, error) {
	start := time.Now()
	answer, outcome, err := c.ask(ctx, question)

	attrs := metric.WithAttributes(telemetry.AttrChatOutcome.String(outcome))
	c.latency.Record(ctx, time.Since(start).Seconds(), attrs)
	if outcome != outcomeOK {
		c.failures.Add(ctx, 1, attrs)
	}
	return answer, err
}

func (c *Client) ask(ctx context.Context, question string) (json.RawMessage, string, error) {
	payload, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, outcomeTransportError, fmt.Errorf("chat: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, outcomeTransportError, fmt.Errorf("chat: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, outcomeTransportError, &chatapp.UpstreamError{Details: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, outcomeTransportError, &chatapp.UpstreamError{StatusCode: resp.StatusCode, Details: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Text-to-SQL service returned an error",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
		)
		return nil, outcomeHTTPError, &chatapp.UpstreamError{StatusCode: resp.StatusCode, Details: details(body, resp.Status)}
	}

	if !json.Valid(body) {
		return nil, outcomeInvalidResponse, &chatapp.UpstreamError{StatusCode: resp.StatusCode, Details: details(body, "invalid JSON response")}
	}
	return json.RawMessage(body), outcomeOK, nil
}

// details prefers the parsed JSON payload, then the raw text, then fallback
func details(body []byte, fallback string) any {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}
