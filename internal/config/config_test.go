package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if !cfg.CheckStatusEnabled() {
		t.Error("CheckStatusEnabled() should default to true")
	}
	if cfg.Reconcile.Workers != 4 || cfg.Reconcile.QueueSize != 64 || cfg.Reconcile.Concurrency != 8 {
		t.Errorf("unexpected reconcile defaults: %+v", cfg.Reconcile)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.DatabaseURL() != "" {
		t.Errorf("DatabaseURL() = %q, want empty", cfg.DatabaseURL())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestDatabaseURLFallback(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.MongoDBURL = "mongodb://legacy:27017/list"
	if got := cfg.DatabaseURL(); got != "mongodb://legacy:27017/list" {
		t.Errorf("DatabaseURL() = %q, want MONGODB_URL fallback", got)
	}

	cfg.Database.URL = "sqlite:///tmp/tasks.db"
	if got := cfg.DatabaseURL(); got != "sqlite:///tmp/tasks.db" {
		t.Errorf("DatabaseURL() = %q, want DATABASE_URL to win", got)
	}
}

func TestAddress(t *testing.T) {
	cfg := NewConfig()
	cfg.Server.Port = 8080
	if got := cfg.Address(); got != ":8080" {
		t.Errorf("Address() = %q, want :8080", got)
	}
}

func TestCheckStatusEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"Off", false},
		{"", true},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Reconcile.CheckStatus = tt.value
			if got := cfg.CheckStatusEnabled(); got != tt.want {
				t.Errorf("CheckStatusEnabled() with %q = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid sqlite url", func(c *Config) { c.Database.URL = "sqlite://:memory:" }, ""},
		{"valid mongo url", func(c *Config) { c.Database.URL = "mongodb://localhost:27017/list" }, ""},
		{"unsupported scheme", func(c *Config) { c.Database.URL = "postgres://localhost/list" }, "database.url"},
		{"bad legacy url", func(c *Config) { c.Database.MongoDBURL = "localhost:27017" }, "database.mongodb_url"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"no workers", func(c *Config) { c.Reconcile.Workers = 0 }, "reconcile.workers"},
		{"no queue", func(c *Config) { c.Reconcile.QueueSize = 0 }, "reconcile.queue_size"},
		{"no concurrency", func(c *Config) { c.Reconcile.Concurrency = 0 }, "reconcile.concurrency"},
		{"bad check status", func(c *Config) { c.Reconcile.CheckStatus = "maybe" }, "reconcile.check_status"},
		{"empty check status", func(c *Config) { c.Reconcile.CheckStatus = "" }, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}

			configErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error = %v, want *ConfigError", err)
			}
			if configErr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", configErr.Field, tt.wantField)
			}
			if configErr.Message == "" {
				t.Error("ConfigError.Message should not be empty")
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "server.port", Message: "port must be at least 1"}
	if got := err.Error(); got != "server.port: port must be at least 1" {
		t.Errorf("Error() = %q", got)
	}
}
