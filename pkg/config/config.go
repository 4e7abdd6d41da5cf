// Package config loads, defaults and validates the worker configuration
// and builds the collaborators (account directory, path cache, gateway,
// session) the configuration selects.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete worker configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (ONEDRIVEFS_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// The cache section follows a type-selection pattern: Type picks the
// implementation and only the matching type-specific section is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Accounts configures where account credentials live
	Accounts AccountsConfig `mapstructure:"accounts"`

	// Cache selects the path cache implementation
	Cache CacheConfig `mapstructure:"cache"`

	// Graph configures the Microsoft Graph client
	Graph GraphConfig `mapstructure:"graph"`

	// Metrics controls the Prometheus registry
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// AccountsConfig configures the account directory.
type AccountsConfig struct {
	// File is the JSON file holding account credentials
	File string `mapstructure:"file" validate:"required"`

	// ClientID is the OAuth application (client) identifier used when
	// refreshing tokens. Empty disables refresh.
	ClientID string `mapstructure:"client_id"`

	// Tenant is the Azure AD tenant; "common" covers personal and work
	// accounts alike
	Tenant string `mapstructure:"tenant"`
}

// CacheConfig selects the path cache implementation.
//
// The Type field determines which implementation is used. Only the
// corresponding type-specific section is read.
type CacheConfig struct {
	// Type specifies which cache implementation to use
	// Valid values: memory, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory badger"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`
}

// GraphConfig configures the Microsoft Graph client.
type GraphConfig struct {
	// Endpoint is the Graph API base URL
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`

	// Timeout bounds each remote request
	Timeout time.Duration `mapstructure:"timeout" validate:"required,gt=0"`

	// UserAgent is sent with every request
	UserAgent string `mapstructure:"user_agent"`
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	// Enabled turns metric collection on
	Enabled bool `mapstructure:"enabled"`

	// Listen is the address the metrics endpoint binds to
	// Only used when Enabled is true
	Listen string `mapstructure:"listen"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns the loaded and validated configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables and config file search.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the ONEDRIVEFS_ prefix with underscores,
	// e.g. ONEDRIVEFS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("ONEDRIVEFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file
// is fine; defaults apply.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "onedrivefs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "onedrivefs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
