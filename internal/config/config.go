// Package config provides configuration management for campusgate using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort      = 8080
	defaultServerTimeout   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxIdleTime = 30 * time.Minute
)

// Config holds all configuration for the application.
type Config struct {
	// Environment is the runtime environment: development or production.
	// Development enables per-request logging and more verbose diagnostics.
	Environment string `mapstructure:"environment"`

	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	OpenAPI  OpenAPIConfig  `mapstructure:"openapi"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Debug    DebugConfig    `mapstructure:"debug"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// PublicBaseURL is the externally visible base URL of this service
	// (scheme://host[:port], no trailing slash). When empty the URL is
	// derived per request from forwarding headers.
	PublicBaseURL string `mapstructure:"public_base_url"`

	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig holds the cross-origin allow-list inputs.
type CORSConfig struct {
	// Origins is the fixed set of first-party origins.
	Origins []string `mapstructure:"origins"`

	// ExtraOrigins is a comma-separated list of additional origins,
	// typically supplied via CAMPUSGATE_SERVER_CORS_EXTRA_ORIGINS.
	// Entries are normalized when the allow list is built; malformed
	// entries are carried verbatim rather than rejected at startup.
	ExtraOrigins string `mapstructure:"extra_origins"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"dsn" masq:"secret"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// StorageConfig holds file storage configuration.
type StorageConfig struct {
	// UploadDir is the root directory that /uploads/* requests are
	// resolved against. Nothing outside it is ever served.
	UploadDir string `mapstructure:"upload_dir"`
}

// OpenAPIConfig holds API document publishing configuration.
type OpenAPIConfig struct {
	// SpecPath is the on-disk OpenAPI document (.json, .yaml or .yml)
	// published at /openapi.json. The file is read per request so edits
	// show up without a restart.
	SpecPath string `mapstructure:"spec_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`

	// Requests forces per-request access logging outside development.
	Requests bool `mapstructure:"requests"`
}

// DebugConfig holds diagnostic endpoint configuration.
type DebugConfig struct {
	// ExposeHeaders enables the /__headers echo endpoint. Off by default;
	// it reflects request headers back to the caller.
	ExposeHeaders bool `mapstructure:"expose_headers"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with CAMPUSGATE_ and use underscores
// for nesting. Example: CAMPUSGATE_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	SetDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/campusgate")
		v.AddConfigPath("$HOME/.campusgate")
	}

	// Environment variable settings
	v.SetEnvPrefix("CAMPUSGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file to ensure defaults
// are in place.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.public_base_url", "")
	v.SetDefault("server.cors.origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})
	v.SetDefault("server.cors.extra_origins", "")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "campusgate.db")
	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", defaultConnMaxIdleTime)
	v.SetDefault("database.log_level", "warn")

	// Storage defaults
	v.SetDefault("storage.upload_dir", "./uploads")

	// OpenAPI defaults
	v.SetDefault("openapi.spec_path", "./docs/openapi.json")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
	v.SetDefault("logging.requests", false)

	// Debug defaults
	v.SetDefault("debug.expose_headers", false)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	validEnvironments := map[string]bool{"development": true, "production": true}
	if !validEnvironments[c.Environment] {
		return fmt.Errorf("environment must be one of: development, production")
	}

	// Server validation
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	// Database validation
	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be one of: sqlite, postgres, mysql")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	validDBLogLevels := map[string]bool{"silent": true, "error": true, "warn": true, "info": true}
	if !validDBLogLevels[c.Database.LogLevel] {
		return fmt.Errorf("database.log_level must be one of: silent, error, warn, info")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns must not be negative")
	}

	// Storage validation
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir is required")
	}

	// Logging validation
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the service runs in the development
// environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// RequestLoggingEnabled reports whether per-request access logs should be
// emitted. Always on in development, opt-in via logging.requests elsewhere.
func (c *Config) RequestLoggingEnabled() bool {
	return c.IsDevelopment() || c.Logging.Requests
}
