package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/pacpong/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then the sheets store should demand a spreadsheet id", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "sheets.spreadsheet_id must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PACPONG_SHEETS__SPREADSHEET_ID", "sheet-123")
			_ = os.Setenv("PACPONG_DECAY_DAYS", "14")
			_ = os.Setenv("PACPONG_RUN_TIMEOUT", "30s")
			_ = os.Setenv("PACPONG_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Sheets.SpreadsheetID, convey.ShouldEqual, "sheet-123")
				convey.So(cfg.DecayDays, convey.ShouldEqual, 14)
				convey.So(cfg.RunTimeout, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Sheets.MatchesSheet, convey.ShouldEqual, "matches") // From defaults
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
store: csv
timezone: UTC
decay_days: 21
not_played_score: 0.45
csv:
  matches_path: /data/matches.csv
  results_path: /data/results.csv
metrics:
  pushgateway_url: http://pushgateway:9091
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PACPONG_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreCSV)
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
				convey.So(cfg.DecayDays, convey.ShouldEqual, 21)
				convey.So(cfg.NotPlayedScore, convey.ShouldEqual, 0.45)
				convey.So(cfg.CSV.MatchesPath, convey.ShouldEqual, "/data/matches.csv")
				convey.So(cfg.CSV.ResultsPath, convey.ShouldEqual, "/data/results.csv")
				convey.So(cfg.Metrics.PushgatewayURL, convey.ShouldEqual, "http://pushgateway:9091")
				convey.So(cfg.Metrics.Job, convey.ShouldEqual, "pacpong") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
store: postgres
postgres:
  dsn: postgres://file/db
decay_days: 21
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PACPONG_CONFIG", tmpFile)
			_ = os.Setenv("PACPONG_POSTGRES__DSN", "postgres://env/db") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Store, convey.ShouldEqual, config.StorePostgres) // From file
				convey.So(cfg.Postgres.DSN, convey.ShouldEqual, "postgres://env/db")
				convey.So(cfg.DecayDays, convey.ShouldEqual, 21) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PACPONG_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PACPONG_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown store", func() {
			_ = os.Setenv("PACPONG_STORE", "excel")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Store")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown timezone", func() {
			_ = os.Setenv("PACPONG_STORE", "csv")
			_ = os.Setenv("PACPONG_TIMEZONE", "Mars/Olympus_Mons")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "timezone")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero decay window", func() {
			_ = os.Setenv("PACPONG_STORE", "csv")
			_ = os.Setenv("PACPONG_DECAY_DAYS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "DecayDays")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PACPONG_STORE", "csv")
			_ = os.Setenv("PACPONG_DECAY_DAYS", "four weeks")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the postgres store has no dsn", func() {
			_ = os.Setenv("PACPONG_STORE", "postgres")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err.Error(), convey.ShouldContainSubstring, "postgres.dsn must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the pushgateway url is not a url", func() {
			_ = os.Setenv("PACPONG_STORE", "csv")
			_ = os.Setenv("PACPONG_METRICS__PUSHGATEWAY_URL", "not a url")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When tracing is switched on from the environment", func() {
			_ = os.Setenv("PACPONG_STORE", "csv")
			_ = os.Setenv("PACPONG_TRACING__ENABLED", "true")
			_ = os.Setenv("PACPONG_TRACING__ENDPOINT", "collector:4318")
			_ = os.Setenv("PACPONG_TRACING__SAMPLING_RATE", "0.25")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the tracing block should be filled", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Tracing.Enabled, convey.ShouldBeTrue)
				convey.So(cfg.Tracing.Endpoint, convey.ShouldEqual, "collector:4318")
				convey.So(cfg.Tracing.SamplingRate, convey.ShouldEqual, 0.25)
			})
		})

		convey.Convey("When metric labels come from the environment", func() {
			_ = os.Setenv("PACPONG_STORE", "csv")
			_ = os.Setenv("PACPONG_METRICS__NAMESPACE", "office")
			_ = os.Setenv("PACPONG_METRICS__LABELS__COMPETITION", "floor3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they should be nested under metrics", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Metrics.Namespace, convey.ShouldEqual, "office")
				convey.So(cfg.Metrics.Subsystem, convey.ShouldEqual, "ranking")
				convey.So(cfg.Metrics.Labels, convey.ShouldResemble, map[string]string{"competition": "floor3"})
				convey.So(cfg.Metrics.Enabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the sampling rate is above one", func() {
			_ = os.Setenv("PACPONG_STORE", "csv")
			_ = os.Setenv("PACPONG_TRACING__SAMPLING_RATE", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PACPONG_CONFIG",
		"PACPONG_STORE",
		"PACPONG_TIMEZONE",
		"PACPONG_DECAY_DAYS",
		"PACPONG_RUN_TIMEOUT",
		"PACPONG_LOG_FORMAT",
		"PACPONG_SHEETS__SPREADSHEET_ID",
		"PACPONG_POSTGRES__DSN",
		"PACPONG_METRICS__PUSHGATEWAY_URL",
		"PACPONG_METRICS__NAMESPACE",
		"PACPONG_METRICS__LABELS__COMPETITION",
		"PACPONG_TRACING__ENABLED",
		"PACPONG_TRACING__ENDPOINT",
		"PACPONG_TRACING__SAMPLING_RATE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "pacpong-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
