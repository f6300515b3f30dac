// Package config defines the ranking run configuration and its loader.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers an optional YAML file and PACPONG_ env vars on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
	_ "time/tzdata" // zoneinfo for images without a system tz database
)

// Supported results store backends.
const (
	StoreSheets   = "sheets"
	StoreCSV      = "csv"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`
	// Timezone is used for "today" and for the published timestamp.
	Timezone string `koanf:"timezone" validate:"required"`
	// DecayDays is the match age at which results stop counting.
	DecayDays int `koanf:"decay_days" validate:"gt=0"`
	// NotPlayedScore is the dominance of pairs that never met.
	NotPlayedScore float64 `koanf:"not_played_score" validate:"gt=0,lt=1"`
	// RunTimeout bounds one read-compute-write run.
	RunTimeout time.Duration `koanf:"run_timeout" validate:"gt=0"`
	// Store selects the results store backend.
	Store string `koanf:"store" validate:"oneof=sheets csv postgres"`

	Sheets   SheetsConfig   `koanf:"sheets"`
	CSV      CSVConfig      `koanf:"csv"`
	Postgres PostgresConfig `koanf:"postgres"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

// SheetsConfig locates the competition spreadsheet.
type SheetsConfig struct {
	// CredentialsFile is a service account JSON key.
	CredentialsFile string `koanf:"credentials_file"`
	SpreadsheetID   string `koanf:"spreadsheet_id"`
	MatchesSheet    string `koanf:"matches_sheet"`
	ResultsSheet    string `koanf:"results_sheet"`
}

// CSVConfig points at local match and result files.
type CSVConfig struct {
	MatchesPath string `koanf:"matches_path"`
	ResultsPath string `koanf:"results_path"`
}

// PostgresConfig holds the database connection string.
type PostgresConfig struct {
	DSN string `koanf:"dsn"`
}

// MetricsConfig shapes run metrics and pushing them to a Prometheus
// Pushgateway. An empty PushgatewayURL disables pushing.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace" validate:"required"`
	Subsystem string `koanf:"subsystem" validate:"required"`
	// Labels are constant labels added to every metric, e.g. the competition.
	Labels map[string]string `koanf:"labels"`
	// StageBuckets overrides the stage duration histogram buckets (seconds).
	StageBuckets   []float64 `koanf:"stage_buckets"`
	PushgatewayURL string    `koanf:"pushgateway_url" validate:"omitempty,url"`
	Job            string    `koanf:"job"`
}

// TracingConfig controls exporting run spans over OTLP/HTTP.
type TracingConfig struct {
	Enabled bool `koanf:"enabled"`
	// Endpoint is host:port of the collector; empty uses the exporter default.
	Endpoint     string  `koanf:"endpoint"`
	Insecure     bool    `koanf:"insecure"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"gte=0,lte=1"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Timezone:       "Europe/Amsterdam",
		DecayDays:      28,
		NotPlayedScore: 0.5,
		RunTimeout:     2 * time.Minute,
		Store:          StoreSheets,
		Sheets: SheetsConfig{
			CredentialsFile: "credentials.json",
			MatchesSheet:    "matches",
			ResultsSheet:    "results",
		},
		CSV: CSVConfig{
			MatchesPath: "matches.csv",
			ResultsPath: "results.csv",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "pacpong",
			Subsystem: "ranking",
			Job:       "pacpong",
		},
		Tracing: TracingConfig{
			SamplingRate: 1,
		},
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
