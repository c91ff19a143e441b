package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/utakatalp/league-engine/internal/league"
)

func TestSetupDisabledReturnsNilRecorder(t *testing.T) {
	rec, shutdown, err := Setup(context.Background(), TelemetryConfig{})
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil recorder when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected noop shutdown, got %v", err)
	}
}

func TestSetupWithoutEndpointIsPrometheusOnly(t *testing.T) {
	rec, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec == nil || rec.otel != nil {
		t.Fatalf("expected a prometheus-only recorder")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected noop shutdown, got %v", err)
	}
}

func TestSetupWithEndpoint(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	orig := otlpReaderFactory
	otlpReaderFactory = func(context.Context, string, bool) (sdkmetric.Reader, error) { return reader, nil }
	t.Cleanup(func() { otlpReaderFactory = orig })

	rec, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true, OtlpEndpoint: "collector:4318"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec == nil || rec.otel == nil {
		t.Fatalf("expected otel instruments")
	}

	rec.RecordMatch(ModeLive, league.MatchResult{HomeGoals: 2, AwayDisallowed: 1})
	rec.SessionOpened()
	rec.RecordDecision("halftime")
	rec.RecordHTTPRequest("GET", "/api/v1/table", 200, 2*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	seen := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			seen[m.Name] = true
		}
	}
	for _, name := range []string{"league.matches.simulated", "league.match.goals", "league.var.disallowed", "league.live.sessions", "league.live.decisions", "http.requests", "http.request.duration"} {
		if !seen[name] {
			t.Fatalf("expected %s to be exported, got %v", name, seen)
		}
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupReaderError(t *testing.T) {
	orig := otlpReaderFactory
	otlpReaderFactory = func(context.Context, string, bool) (sdkmetric.Reader, error) {
		return nil, errors.New("boom")
	}
	t.Cleanup(func() { otlpReaderFactory = orig })

	if _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true, OtlpEndpoint: "x"}); err == nil {
		t.Fatalf("expected reader error")
	}
}
