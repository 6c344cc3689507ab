// Package config provides typed configuration for alertgate. Defaults,
// file discovery and environment binding happen in the cmd package via
// viper; this package defines the shape those layers decode into.
package config

import "time"

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Playbook PlaybookConfig `mapstructure:"playbook"`
	Gate     GateConfig     `mapstructure:"gate"`
	Sinks    SinksConfig    `mapstructure:"sinks"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for the libsql-backed fire
// history.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// PlaybookConfig points at the trigger definitions to load at startup.
type PlaybookConfig struct {
	Path string `mapstructure:"path"`
}

// GateConfig tunes the rate-limiting gate.
type GateConfig struct {
	// DefaultThrottle applies to triggers that do not set their own
	// throttle. Zero keeps the gate's bare semantics: only same-instant
	// repeats are suppressed.
	DefaultThrottle time.Duration `mapstructure:"default_throttle"`
}

// SinksConfig selects where fired notifications go.
type SinksConfig struct {
	Log     LogSinkConfig     `mapstructure:"log"`
	Webhook WebhookSinkConfig `mapstructure:"webhook"`
}

// LogSinkConfig configures the structured-log notification sink.
type LogSinkConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// WebhookSinkConfig configures the webhook notification sink.
type WebhookSinkConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level.
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level.
	// Valid values: SIMPLE, STRUCTURED
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
