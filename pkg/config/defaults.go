package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/onedrivefs/onedrivefs/pkg/drive/graph"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyAccountsDefaults(&cfg.Accounts)
	applyCacheDefaults(&cfg.Cache)
	applyGraphDefaults(&cfg.Graph)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyAccountsDefaults sets account directory defaults.
func applyAccountsDefaults(cfg *AccountsConfig) {
	if cfg.File == "" {
		cfg.File = filepath.Join(getConfigDir(), "accounts.json")
	}
	if cfg.Tenant == "" {
		cfg.Tenant = "common"
	}
}

// applyCacheDefaults sets path cache defaults.
func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}

	if cfg.Memory == nil {
		cfg.Memory = make(map[string]any)
	}
	if cfg.Badger == nil {
		cfg.Badger = make(map[string]any)
	}

	if _, ok := cfg.Badger["path"]; !ok {
		cfg.Badger["path"] = filepath.Join(getConfigDir(), "pathcache")
	}
}

// applyGraphDefaults sets Graph client defaults.
func applyGraphDefaults(cfg *GraphConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = graph.DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "onedrivefs"
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Listen == "" {
		cfg.Listen = ":9090"
	}
}
