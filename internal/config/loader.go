package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names an optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

// envMappings maps environment variables to koanf paths. Anything else in the
// environment is ignored.
var envMappings = map[string]string{
	"database_url":          "database.url",
	"mongodb_url":           "database.mongodb_url",
	"port":                  "server.port",
	"shutdown_timeout":      "server.shutdown_timeout",
	"check_status":          "reconcile.check_status",
	"checkstatus":           "reconcile.check_status",
	"reconcile_workers":     "reconcile.workers",
	"reconcile_queue_size":  "reconcile.queue_size",
	"reconcile_concurrency": "reconcile.concurrency",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Loader handles loading configuration from multiple sources
type Loader struct {
	configPath string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{configPath: os.Getenv(ConfigPathEnvVar)}
}

// WithConfigFile makes the loader read path instead of CONFIG_PATH.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configPath = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file, if any
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	config, err := l.load()
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Loader) load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(NewConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if l.configPath != "" {
		if err := k.Load(file.Provider(l.configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", l.configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config := &Config{}
	if err := k.Unmarshal("", config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if overrides != nil && overrides.ConfigPath != nil {
		l.configPath = *overrides.ConfigPath
	}

	config, err := l.load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	ConfigPath *string

	DatabaseURL *string
	Port        *int

	CheckStatus *string
	Workers     *int
	QueueSize   *int
	Concurrency *int

	LogLevel  *string
	LogFormat *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.DatabaseURL != nil {
		config.Database.URL = *overrides.DatabaseURL
	}
	if overrides.Port != nil {
		config.Server.Port = *overrides.Port
	}

	if overrides.CheckStatus != nil {
		config.Reconcile.CheckStatus = *overrides.CheckStatus
	}
	if overrides.Workers != nil {
		config.Reconcile.Workers = *overrides.Workers
	}
	if overrides.QueueSize != nil {
		config.Reconcile.QueueSize = *overrides.QueueSize
	}
	if overrides.Concurrency != nil {
		config.Reconcile.Concurrency = *overrides.Concurrency
	}

	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Logging.Format = *overrides.LogFormat
	}
}

// ParseBoolLike parses 1/true/yes/on and 0/false/no/off, case-insensitively.
func ParseBoolLike(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, true
	case "0", "f", "false", "n", "no", "off":
		return false, true
	}
	return false, false
}

// ParseBoolWithFallback parses a boolean-like string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, ok := ParseBoolLike(s); ok {
		return b
	}
	return fallback
}
