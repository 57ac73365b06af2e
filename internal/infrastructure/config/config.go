package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names recognised by the application.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the root configuration structure for Forecourt.
// All configuration is loaded from YAML and can be overridden by environment
// variables. The loaded value is treated as immutable after startup: it is
// passed explicitly into the components that need it (token codec, cookie
// writer, database) rather than read from ambient global state.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

// AppConfig contains application-wide settings.
type AppConfig struct {
	// Name appears in page titles and log default fields.
	Name string `yaml:"name"`

	// Environment is "development" or "production". It controls the Secure
	// attribute on the session cookie and the default log format.
	Environment string `yaml:"environment"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Timeouts HTTPTimeoutConfig `yaml:"timeouts"`
}

// HTTPTimeoutConfig contains HTTP timeout settings, in seconds.
type HTTPTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// SessionConfig contains session token settings.
//
// TTLMinutes governs both the token's embedded expiry and the session
// cookie's Max-Age. Both are derived from the same value (in seconds for the
// cookie), so the two can never drift apart in unit or magnitude.
type SessionConfig struct {
	Secret     string `yaml:"secret"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// TTL returns the session lifetime as a Duration.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// BootstrapConfig contains the initial admin account created on first run
// against an empty accounts table. Without it the staff-gated inventory
// management surface would be unreachable on a fresh database.
type BootstrapConfig struct {
	AdminFirstName string `yaml:"admin_first_name"`
	AdminLastName  string `yaml:"admin_last_name"`
	AdminEmail     string `yaml:"admin_email"`
	AdminPassword  string `yaml:"admin_password"`
}

// Load reads configuration from a YAML file and applies environment variable
// overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: FORECOURT_SECTION_KEY
// For example: FORECOURT_DATABASE_PATH, FORECOURT_SESSION_SECRET
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "Forecourt",
			Environment: EnvDevelopment,
		},
		Database: DatabaseConfig{
			Path:        "./data/forecourt.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		HTTP: HTTPConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: HTTPTimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Session: SessionConfig{
			TTLMinutes: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Bootstrap: BootstrapConfig{
			AdminFirstName: "Site",
			AdminLastName:  "Admin",
			AdminEmail:     "admin@localhost",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: FORECOURT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORECOURT_ENVIRONMENT"); v != "" {
		cfg.App.Environment = v
	}

	// Database
	if v := os.Getenv("FORECOURT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// HTTP
	if v := os.Getenv("FORECOURT_HTTP_HOST"); v != "" {
		cfg.HTTP.Host = v
	}

	// Session secret (IMPORTANT: always set in production)
	if v := os.Getenv("FORECOURT_SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}

	// Bootstrap admin credentials
	if v := os.Getenv("FORECOURT_BOOTSTRAP_ADMIN_EMAIL"); v != "" {
		cfg.Bootstrap.AdminEmail = v
	}
	if v := os.Getenv("FORECOURT_BOOTSTRAP_ADMIN_PASSWORD"); v != "" {
		cfg.Bootstrap.AdminPassword = v
	}
}

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Environment != EnvDevelopment && c.App.Environment != EnvProduction {
		errs = append(errs, "app.environment must be development or production")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// HTTP validation
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, "http.port must be between 1 and 65535")
	}

	// Session validation - the signing secret is REQUIRED.
	// An empty or weak secret would allow anyone to forge a session token
	// carrying an Admin role and walk straight into inventory management.
	const minSecretLength = 32
	if c.Session.Secret == "" {
		errs = append(errs, "session.secret is required (set FORECOURT_SESSION_SECRET environment variable)")
	} else if len(c.Session.Secret) < minSecretLength {
		errs = append(errs, "session.secret must be at least 32 characters")
	}

	if c.Session.TTLMinutes <= 0 {
		errs = append(errs, "session.ttl_minutes must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment reports whether the app is running in development mode.
// In development the session cookie is set without the Secure attribute so
// it works over plain http://localhost.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// GetReadTimeout returns the HTTP read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the HTTP write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the HTTP idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeouts.Idle) * time.Second
}
