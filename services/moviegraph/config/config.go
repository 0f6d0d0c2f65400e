// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads MovieGraph settings.
//
// # Precedence
//
// Values are resolved in order, later sources winning:
//
//	defaults ──► YAML file (optional) ──► environment ──► CLI flags
//
// CLI flags are applied by cmd/moviegraph after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Types
// =============================================================================

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Graph   GraphConfig   `yaml:"graph"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Login   LoginConfig   `yaml:"login"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	APIPath         string        `yaml:"api_path" validate:"required,startswith=/"`
	GinMode         string        `yaml:"gin_mode" validate:"omitempty,oneof=debug release test"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"min=0"`
	EnableMetrics   bool          `yaml:"enable_metrics"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For header
	// is honoured for the client IP. Empty trusts none.
	TrustedProxies []string `yaml:"trusted_proxies" validate:"omitempty,dive,cidr|ip"`
}

// GraphConfig holds Neo4j connection settings.
type GraphConfig struct {
	URI          string        `yaml:"uri" validate:"required"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Database     string        `yaml:"database"`
	QueryTimeout time.Duration `yaml:"query_timeout" validate:"min=0"`
}

// LoggingConfig selects log level, format and the optional log directory.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	Dir    string `yaml:"dir"`
}

// TracingConfig selects the span exporter. An empty endpoint disables
// tracing; "stdout" prints spans.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// LoginConfig bounds login attempts per client IP.
type LoginConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second" validate:"gt=0"`
	Burst         int     `yaml:"burst" validate:"min=1"`
}

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultPort        = 3000
	DefaultAPIPath     = "/api/v0"
	DefaultGraphURI    = "neo4j://localhost:7687"
	DefaultGraphUser   = "neo4j"
	DefaultServiceName = "moviegraph"
)

// Default returns the configuration used when no file or environment is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			APIPath:         DefaultAPIPath,
			ShutdownTimeout: 10 * time.Second,
			EnableMetrics:   true,
		},
		Graph: GraphConfig{
			URI:          DefaultGraphURI,
			Username:     DefaultGraphUser,
			QueryTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		Tracing: TracingConfig{ServiceName: DefaultServiceName},
		Login:   LoginConfig{RatePerSecond: 5, Burst: 10},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads path (if non-empty) over the defaults and applies the
// process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
//
// # Inputs
//
//   - path: YAML file. Empty skips the file; a missing file is an error.
//   - lookup: Environment lookup, usually os.LookupEnv
//
// # Outputs
//
//   - Config: Merged configuration, not yet validated
//   - error: Non-nil if the file cannot be read or parsed, or an
//     environment value has the wrong type
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("MOVIEGRAPH_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MOVIEGRAPH_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup("MOVIEGRAPH_TRUSTED_PROXIES"); ok && v != "" {
		cfg.Server.TrustedProxies = splitList(v)
	}
	str("MOVIEGRAPH_API_PATH", &cfg.Server.APIPath)
	str("GIN_MODE", &cfg.Server.GinMode)
	str("NEO4J_URI", &cfg.Graph.URI)
	str("NEO4J_USERNAME", &cfg.Graph.Username)
	str("NEO4J_PASSWORD", &cfg.Graph.Password)
	str("NEO4J_DATABASE", &cfg.Graph.Database)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Tracing.Endpoint)
	str("MOVIEGRAPH_LOG_LEVEL", &cfg.Logging.Level)
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every invalid field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
