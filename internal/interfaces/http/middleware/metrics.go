package middleware

import (
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spendlens/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// the route attribute bounded.
const unmatchedRoute = "unmatched"

// HTTPMetricsConfig holds configuration for the HTTP metrics middleware.
type HTTPMetricsConfig struct {
	Meter   metric.Meter
	Enabled bool
	// SkipPaths are not measured, typically health checks.
	SkipPaths []string
	Logger    *zap.Logger
}

type httpInstruments struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	responseSize metric.Float64Histogram
	active       metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requests, err := meter.Int64Counter("http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(telemetry.HTTPDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}
	responseSize, err := meter.Float64Histogram("http_server_response_size_bytes",
		metric.WithDescription("HTTP response body size in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(telemetry.ResponseSizeBuckets...),
	)
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of requests being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return &httpInstruments{requests: requests, duration: duration, responseSize: responseSize, active: active}, nil
}

// HTTPMetrics records request count, latency and response size per route
// pattern. Counts carry method, route and status code; latency and size
// carry method and route only.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	passthrough := func(c *gin.Context) { c.Next() }
	if !cfg.Enabled || cfg.Meter == nil {
		return passthrough
	}

	inst, err := newHTTPInstruments(cfg.Meter)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passthrough
	}

	skip := cfg.SkipPaths
	return func(c *gin.Context) {
		if slices.Contains(skip, c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		start := time.Now()
		inst.active.Add(ctx, 1)

		c.Next()

		inst.active.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		base := metric.WithAttributes(
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		)

		inst.requests.Add(ctx, 1, metric.WithAttributes(
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()),
		))
		inst.duration.Record(ctx, time.Since(start).Seconds(), base)
		if size := c.Writer.Size(); size > 0 {
			inst.responseSize.Record(ctx, float64(size), base)
		}
	}
}
