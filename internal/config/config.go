// Package config loads application settings from environment variables,
// applies defaults and validates them on startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Audit   AuditConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// AuditConfig holds import and export settings for audit sessions.
type AuditConfig struct {
	// ExportDir is where exports are written (default: current directory)
	ExportDir string `env:"AUDIT_EXPORT_DIR"`

	// DryRun validates the export path without writing the file (default: false)
	DryRun bool `env:"AUDIT_DRY_RUN" default:"false"`

	// MaxFileSize is the largest importable file in bytes (default: 50MB)
	MaxFileSize int64 `env:"AUDIT_MAX_FILE_SIZE" default:"52428800"`
}

// ServerConfig holds settings for the browser UI server.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// APIKey protects mutating requests when set (default: none)
	APIKey string `env:"SERVER_API_KEY"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
