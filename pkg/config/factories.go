package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/account"
	"github.com/onedrivefs/onedrivefs/pkg/cache"
	cacheBadger "github.com/onedrivefs/onedrivefs/pkg/cache/badger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/drive/graph"
	"github.com/onedrivefs/onedrivefs/pkg/fs"
	"github.com/onedrivefs/onedrivefs/pkg/metrics"
)

// SetupLogging applies the logging configuration to the process logger.
func SetupLogging(cfg *LoggingConfig) error {
	logger.SetLevel(cfg.Level)
	logger.SetFormat(cfg.Format)
	return logger.SetOutput(cfg.Output)
}

// NewPathCache creates a path cache based on configuration.
//
// Supported types:
//   - "memory": per-process map, discarded on exit
//   - "badger": BadgerDB-backed cache surviving restarts
func NewPathCache(cfg *CacheConfig) (cache.PathCache, error) {
	switch cfg.Type {
	case "memory":
		return cache.NewMemory(), nil
	case "badger":
		return newBadgerPathCache(cfg.Badger)
	default:
		return nil, fmt.Errorf("unknown cache type: %q", cfg.Type)
	}
}

// newBadgerPathCache creates the BadgerDB-backed cache.
func newBadgerPathCache(options map[string]any) (cache.PathCache, error) {
	type BadgerCacheConfig struct {
		Path string `mapstructure:"path"`
	}

	var storeCfg BadgerCacheConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger cache config: %w", err)
	}
	if storeCfg.Path == "" {
		return nil, fmt.Errorf("badger cache: path is required")
	}

	c, err := cacheBadger.New(storeCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}
	return c, nil
}

// NewGateway creates the Microsoft Graph gateway.
func NewGateway(cfg *GraphConfig) drive.Gateway {
	return graph.New(graph.Config{
		Endpoint:  cfg.Endpoint,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	})
}

// NewAccountDirectory creates the file-backed account directory.
func NewAccountDirectory(cfg *AccountsConfig) (account.Directory, error) {
	dir, err := account.NewFileDirectory(cfg.File, cfg.ClientID, cfg.Tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to open accounts file: %w", err)
	}
	return dir, nil
}

// NewSession assembles a fully wired session from configuration. The
// returned cache must be closed by the caller when done.
func NewSession(cfg *Config) (*fs.Session, cache.PathCache, error) {
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	accounts, err := NewAccountDirectory(&cfg.Accounts)
	if err != nil {
		return nil, nil, err
	}

	pathCache, err := NewPathCache(&cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	gateway := NewGateway(&cfg.Graph)
	session := fs.NewSession(accounts, gateway, pathCache, metrics.NewSessionMetrics())
	return session, pathCache, nil
}
