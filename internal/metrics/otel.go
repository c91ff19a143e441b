package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultServiceName = "league-engine"

var otlpReaderFactory = buildOTLPReader

// TelemetryConfig controls metric export.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup returns the Recorder for cfg. Disabled telemetry yields a nil Recorder.
// With an OTLP endpoint every recording is also pushed through an OpenTelemetry
// meter provider; the returned shutdown flushes it.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return nil, noop, nil
	}
	rec := NewRecorder()
	if cfg.OtlpEndpoint == "" {
		return rec, noop, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	reader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
	if err != nil {
		return nil, nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))

	inst, err := newOtelInstruments(provider)
	if err != nil {
		return nil, nil, err
	}
	rec.otel = inst
	return rec, provider.Shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	matches          metric.Int64Counter
	goals            metric.Int64Histogram
	disallowed       metric.Int64Counter
	sessions         metric.Int64UpDownCounter
	decisions        metric.Int64Counter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(defaultServiceName)

	matches, err := meter.Int64Counter("league.matches.simulated")
	if err != nil {
		return nil, err
	}
	goals, err := meter.Int64Histogram("league.match.goals")
	if err != nil {
		return nil, err
	}
	disallowed, err := meter.Int64Counter("league.var.disallowed")
	if err != nil {
		return nil, err
	}
	sessions, err := meter.Int64UpDownCounter("league.live.sessions")
	if err != nil {
		return nil, err
	}
	decisions, err := meter.Int64Counter("league.live.decisions")
	if err != nil {
		return nil, err
	}
	requests, err := meter.Int64Counter("http.requests")
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("http.request.duration", metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              context.Background(),
		matches:          matches,
		goals:            goals,
		disallowed:       disallowed,
		sessions:         sessions,
		decisions:        decisions,
		requests:         requests,
		requestLatencyMs: latency,
	}, nil
}

func (o *otelInstruments) recordMatch(mode string, goals, disallowed int) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("mode", mode))
	o.matches.Add(o.ctx, 1, attrs)
	o.goals.Record(o.ctx, int64(goals), attrs)
	if disallowed > 0 {
		o.disallowed.Add(o.ctx, int64(disallowed), attrs)
	}
}

func (o *otelInstruments) addSessions(delta int64) {
	if o == nil {
		return
	}
	o.sessions.Add(o.ctx, delta)
}

func (o *otelInstruments) recordDecision(kind string) {
	if o == nil {
		return
	}
	o.decisions.Add(o.ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (o *otelInstruments) recordHTTPRequest(method, route string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatencyMs.Record(o.ctx, float64(duration.Microseconds())/1000, attrs)
}
