package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test. Blank values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AUDIT_EXPORT_DIR", "AUDIT_DRY_RUN", "AUDIT_MAX_FILE_SIZE",
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "SERVER_API_KEY",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func validConfig() *Config {
	return &Config{
		Audit:   AuditConfig{MaxFileSize: 1024},
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080, ShutdownTimeout: time.Second},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audit.ExportDir != "" {
		t.Errorf("Audit.ExportDir = %q, want empty", cfg.Audit.ExportDir)
	}
	if cfg.Audit.DryRun {
		t.Error("Audit.DryRun = true, want false")
	}
	if cfg.Audit.MaxFileSize != 50<<20 {
		t.Errorf("Audit.MaxFileSize = %d, want %d", cfg.Audit.MaxFileSize, 50<<20)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, 10*time.Second)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUDIT_EXPORT_DIR", " /srv/exports ")
	t.Setenv("AUDIT_DRY_RUN", "true")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "1m30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audit.ExportDir != "/srv/exports" {
		t.Errorf("Audit.ExportDir = %q, want %q", cfg.Audit.ExportDir, "/srv/exports")
	}
	if !cfg.Audit.DryRun {
		t.Error("Audit.DryRun = false, want true")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 90*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 90*time.Second)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "non-numeric size", key: "AUDIT_MAX_FILE_SIZE", value: "big", wantErr: "AUDIT_MAX_FILE_SIZE"},
		{name: "bad boolean", key: "AUDIT_DRY_RUN", value: "maybe", wantErr: "invalid boolean"},
		{name: "bad duration", key: "SERVER_READ_TIMEOUT", value: "soon", wantErr: "invalid duration"},
		{name: "zero size fails validation", key: "AUDIT_MAX_FILE_SIZE", value: "0", wantErr: "must be positive"},
		{name: "bad format", key: "LOG_FORMAT", value: "xml", wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() expected error for %s=%q", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 99999 }, wantErr: "SERVER_PORT"},
		{name: "negative read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = -time.Second }, wantErr: "SERVER_READ_TIMEOUT"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: "SERVER_SHUTDOWN_TIMEOUT"},
		{name: "invalid log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "upper case level accepted", mutate: func(c *Config) { c.Logging.Level = "WARN" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	cfg.Server.APIKey = "s3cret-key"
	str := cfg.String()
	if strings.Contains(str, "s3cret-key") {
		t.Errorf("String() leaks the API key: %s", str)
	}
	for _, want := range []string{"MaxFileSize: 1024", `"127.0.0.1:8080"`, `Level: "info"`} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %s, missing %q", str, want)
		}
	}
}
