package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/utakatalp/league-engine/internal/live"
)

// Config holds runtime configuration for the server and the season CLI.
type Config struct {
	Port           string           `yaml:"port"`
	DatabaseURL    string           `yaml:"database_url"`
	RosterFile     string           `yaml:"roster_file"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	Log            LogConfig        `yaml:"log"`
	Metrics        MetricsConfig    `yaml:"metrics"`
	Simulation     SimulationConfig `yaml:"simulation"`

	// RosterReseed wipes a persistent store before the roster is loaded.
	RosterReseed bool `yaml:"roster_reseed"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig toggles the Prometheus endpoint and the optional OTLP push.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ServiceName  string `yaml:"service_name"`
	OtlpEndpoint string `yaml:"otlp_endpoint"`
	OtlpInsecure bool   `yaml:"otlp_insecure"`
}

// SimulationConfig tunes the engines.
type SimulationConfig struct {
	// Workers bounds parallel fixture simulation; zero means GOMAXPROCS.
	Workers     int                `yaml:"workers"`
	Seed        int64              `yaml:"seed"`
	OddsRuns    int                `yaml:"odds_runs"`
	GoalFactors map[string]float64 `yaml:"goal_factors"`
	Live        live.Config        `yaml:"live"`
	SessionTTL  time.Duration      `yaml:"session_ttl"`
}

func defaults() Config {
	return Config{
		Port:    defaultPort,
		Log:     LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Metrics: MetricsConfig{Enabled: true, ServiceName: defaultServiceName, OtlpInsecure: true},
		Simulation: SimulationConfig{
			Seed:       defaultSeed,
			OddsRuns:   defaultOddsRuns,
			Live:       live.Config{EventBoost: defaultEventBoost},
			SessionTTL: defaultSessionTTL,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv(envConfigFile); path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	return applyEnv(cfg), nil
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	for code, f := range c.Simulation.GoalFactors {
		if f <= 0 {
			return fmt.Errorf("goal factor for %q must be positive, got %v", code, f)
		}
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Simulation.Workers)
	}
	if c.Simulation.Live.EventBoost < 0 {
		return fmt.Errorf("live event boost must not be negative, got %v", c.Simulation.Live.EventBoost)
	}
	return nil
}

func applyEnv(cfg Config) Config {
	cfg.Port = envOrDefault(envPort, cfg.Port)
	cfg.DatabaseURL = envOrDefault(envDatabaseURL, cfg.DatabaseURL)
	cfg.RosterFile = envOrDefault(envRosterFile, cfg.RosterFile)
	cfg.RosterReseed = boolEnvOrDefault(envRosterReseed, cfg.RosterReseed)
	cfg.AllowedOrigins = listEnvOrDefault(envAllowedOrigins, cfg.AllowedOrigins)
	cfg.Log.Level = envOrDefault(envLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOrDefault(envLogFormat, cfg.Log.Format)
	cfg.Metrics.Enabled = boolEnvOrDefault(envMetricsOn, cfg.Metrics.Enabled)
	cfg.Metrics.ServiceName = envOrDefault(envOtelService, cfg.Metrics.ServiceName)
	cfg.Metrics.OtlpEndpoint = envOrDefault(envOtelEndpoint, cfg.Metrics.OtlpEndpoint)
	cfg.Metrics.OtlpInsecure = boolEnvOrDefault(envOtelInsecure, cfg.Metrics.OtlpInsecure)
	cfg.Simulation.Workers = intEnvOrDefault(envWorkers, cfg.Simulation.Workers)
	cfg.Simulation.Seed = int64EnvOrDefault(envSeed, cfg.Simulation.Seed)
	cfg.Simulation.OddsRuns = intEnvOrDefault(envOddsRuns, cfg.Simulation.OddsRuns)
	cfg.Simulation.SessionTTL = durationEnvOrDefault(envSessionTTL, cfg.Simulation.SessionTTL)
	if raw := os.Getenv(envEventBoost); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			cfg.Simulation.Live.EventBoost = v
		}
	}
	return cfg
}

// LiveConfig is the live engine configuration with the shared goal factors
// filled in.
func (c Config) LiveConfig() live.Config {
	lc := c.Simulation.Live
	if lc.GoalFactors == nil {
		lc.GoalFactors = c.Simulation.GoalFactors
	}
	return lc
}
