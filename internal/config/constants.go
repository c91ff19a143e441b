package config

import "time"

const (
	envPort           = "PORT"
	envDatabaseURL    = "DATABASE_URL"
	envRosterFile     = "ROSTER_FILE"
	envRosterReseed   = "ROSTER_RESEED"
	envConfigFile     = "CONFIG_FILE"
	envAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
	envMetricsOn      = "METRICS_ENABLED"
	envWorkers        = "SIM_WORKERS"
	envSeed           = "SIM_SEED"
	envOddsRuns       = "SIM_ODDS_RUNS"
	envSessionTTL     = "LIVE_SESSION_TTL"
	envEventBoost     = "LIVE_EVENT_BOOST"

	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort      = "8080"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultSeed      = 20240801
	defaultOddsRuns  = 1000
	// Idle live sessions are dropped after this long.
	defaultSessionTTL = 30 * time.Minute
	defaultEventBoost = 1.0

	// defaultServiceName tags exported telemetry.
	defaultServiceName = "league-engine"
)
