package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "PACPONG_"
	EnvConfig = EnvPrefix + "CONFIG"
)

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PACPONG_CONFIG is set
//  3. env (prefix PACPONG_, "__" separates nested keys, e.g.
//     PACPONG_SHEETS__SPREADSHEET_ID -> sheets.spreadsheet_id)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the settings the selected store needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidConfig, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone: %w", ErrInvalidConfig, err)
	}

	switch c.Store {
	case StoreSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("%w: sheets.spreadsheet_id must not be empty", ErrInvalidConfig)
		}
		if c.Sheets.CredentialsFile == "" || c.Sheets.MatchesSheet == "" || c.Sheets.ResultsSheet == "" {
			return fmt.Errorf("%w: sheets credentials_file, matches_sheet and results_sheet are required", ErrInvalidConfig)
		}
	case StoreCSV:
		if c.CSV.MatchesPath == "" || c.CSV.ResultsPath == "" {
			return fmt.Errorf("%w: csv.matches_path and csv.results_path are required", ErrInvalidConfig)
		}
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("%w: postgres.dsn must not be empty", ErrInvalidConfig)
		}
	}
	return nil
}
