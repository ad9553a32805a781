package config

import (
	"fmt"
	"strings"
	"time"

	"task-list/internal/validation"
)

// Config holds all configuration options for the task list application
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Reconcile ReconcileConfig `koanf:"reconcile"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds the task store connection string
type DatabaseConfig struct {
	URL string `koanf:"url" validate:"omitempty,storeurl"`
	// MongoDBURL is the legacy MONGODB_URL, used when URL is empty.
	MongoDBURL string `koanf:"mongodb_url" validate:"omitempty,storeurl"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// ReconcileConfig holds background reconciler configuration
type ReconcileConfig struct {
	// CheckStatus is boolean-like (1/true/yes/on or 0/false/no/off).
	CheckStatus string `koanf:"check_status"`
	Workers     int    `koanf:"workers" validate:"min=1"`
	QueueSize   int    `koanf:"queue_size" validate:"min=1"`
	Concurrency int    `koanf:"concurrency" validate:"min=1"`
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: 10 * time.Second,
		},
		Reconcile: ReconcileConfig{
			CheckStatus: "true",
			Workers:     4,
			QueueSize:   64,
			Concurrency: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DatabaseURL returns DATABASE_URL, falling back to MONGODB_URL.
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return c.Database.MongoDBURL
}

// CheckStatusEnabled reports whether the reconciler should do any work.
func (c *Config) CheckStatusEnabled() bool {
	return ParseBoolWithFallback(c.Reconcile.CheckStatus, true)
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Validate validates the configuration and returns the first error found
func (c *Config) Validate() error {
	if ve := validation.ValidateStruct(c); ve != nil && ve.HasErrors() {
		fe := ve.Errors[0]
		return &ConfigError{Field: fieldPath(fe.Namespace, fe.Field), Message: fe.Message}
	}

	if _, ok := ParseBoolLike(c.Reconcile.CheckStatus); !ok && strings.TrimSpace(c.Reconcile.CheckStatus) != "" {
		return &ConfigError{Field: "reconcile.check_status", Message: "check status must be a boolean (1/0, true/false, yes/no, on/off)"}
	}

	return nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace, field string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return field
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
