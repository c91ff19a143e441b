package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utakatalp/league-engine/internal/league"
)

const namespace = "league"

// Match modes.
const (
	ModeBatch = "batch"
	ModeLive  = "live"
)

// Recorder collects simulation and HTTP metrics on its own registry, and
// mirrors them to OpenTelemetry when Setup configured an exporter. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	matches    *prometheus.CounterVec
	goals      prometheus.Histogram
	disallowed prometheus.Counter
	sessions   prometheus.Gauge
	decisions  *prometheus.CounterVec
	requests   *prometheus.HistogramVec
	otel       *otelInstruments
}

// NewRecorder registers every collector on a fresh registry, plus the Go and
// process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_simulated_total",
			Help:      "Matches simulated, by mode.",
		}, []string{"mode"}),
		goals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "goals_per_match",
			Help:      "Total goals per simulated match.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
		disallowed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "var_disallowed_total",
			Help:      "Goals disallowed after a VAR review.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions_active",
			Help:      "Live match sessions currently open.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_decisions_total",
			Help:      "Bench decisions resolved, by kind.",
		}, []string{"kind"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(
		r.matches, r.goals, r.disallowed, r.sessions, r.decisions, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordMatch counts a finished match.
func (r *Recorder) RecordMatch(mode string, res league.MatchResult) {
	if r == nil {
		return
	}
	r.matches.WithLabelValues(mode).Inc()
	r.goals.Observe(float64(res.HomeGoals + res.AwayGoals))
	n := res.HomeDisallowed + res.AwayDisallowed
	if n > 0 {
		r.disallowed.Add(float64(n))
	}
	r.otel.recordMatch(mode, res.HomeGoals+res.AwayGoals, n)
}

// SessionOpened tracks a new live session.
func (r *Recorder) SessionOpened() {
	if r == nil {
		return
	}
	r.sessions.Inc()
	r.otel.addSessions(1)
}

// SessionClosed tracks a live session being dropped.
func (r *Recorder) SessionClosed() {
	if r == nil {
		return
	}
	r.sessions.Dec()
	r.otel.addSessions(-1)
}

// RecordDecision counts a resolved bench decision.
func (r *Recorder) RecordDecision(kind string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(kind).Inc()
	r.otel.recordDecision(kind)
}

// RecordHTTPRequest tracks basic HTTP metrics. route should be the route
// template, not the raw path, to keep label cardinality bounded.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
	r.otel.recordHTTPRequest(method, route, status, duration)
}
