// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package config loads and validates process configuration.
//
// Precedence, lowest to highest: flag defaults, the optional YAML config
// file, environment variables, explicitly set flags. The resulting Config
// is constructed once at startup and treated as immutable for the life of
// the process.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Environment profiles.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultSessionSecret is the well-known development fallback. It is
// refused outright in production: a deployment there must configure its
// own secret or fail to start.
const DefaultSessionSecret = "defaultsecret"

// Environment variable overrides.
const (
	envDatabaseURL   = "DATABASE_URL"
	envSessionSecret = "QUARTERDECK_SESSION_SECRET"
	envEnvironment   = "QUARTERDECK_ENV"
)

// Config is the process-wide configuration.
type Config struct {
	Environment       string `koanf:"environment"`
	ListenAddr        string `koanf:"listen_addr"`
	ObservabilityAddr string `koanf:"observability_addr"`
	DatabaseURL       string `koanf:"database_url"`
	SessionSecret     string `koanf:"session_secret"`
	CookieName        string `koanf:"cookie_name"`
	LogFormat         string `koanf:"log_format"`
	LogLevel          string `koanf:"log_level"`
}

// RegisterFlags declares the config flags with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("environment", EnvDevelopment, "deployment profile (development or production)")
	fs.String("listen-addr", ":8080", "dashboard listen address")
	fs.String("observability-addr", "127.0.0.1:9100", "metrics and health listen address")
	fs.String("database-url", "", "PostgreSQL connection string")
	fs.String("session-secret", "", "session token signing secret")
	fs.String("cookie-name", "session", "session cookie name")
	fs.String("log-format", "json", "log format (json or text)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

// Load builds the configuration from the given file (optional, may be
// empty) and flag set, then applies environment overrides and validates.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
		// Flags use dashes; config keys use underscores.
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "merge flags").
			Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "unmarshal").
			Wrap(err)
	}

	applyEnvOverrides(&cfg)

	if cfg.SessionSecret == "" && cfg.Environment != EnvProduction {
		cfg.SessionSecret = DefaultSessionSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envEnvironment); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv(envDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(envSessionSecret); v != "" {
		cfg.SessionSecret = v
	}
}

// Validate checks invariants that must hold before the process starts.
func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return oops.Code("CONFIG_INVALID").
			With("environment", c.Environment).
			Errorf("environment must be %q or %q", EnvDevelopment, EnvProduction)
	}
	if c.Environment == EnvProduction {
		if c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret {
			return oops.Code("CONFIG_INVALID").
				Errorf("production requires an explicit session secret")
		}
	}
	if c.SessionSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("session secret is required")
	}
	return nil
}

// IsProduction reports whether the production profile is active. The web
// layer keys cookie security flags off this.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
