// Package badger provides a BadgerDB-backed PathCache.
//
// Functionally identical to the in-memory cache, but entries survive worker
// restarts. Since the cache is advisory either way, persistence only changes
// how warm a fresh worker starts, not correctness: stale entries are
// corrected the same way in-memory stale entries are, by the remote store
// being authoritative.
package badger

import (
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/cache"
)

const keyPrefix = "path:"

// Cache is a persistent PathCache stored in a local BadgerDB directory.
type Cache struct {
	db *badger.DB
}

// New opens (or creates) the cache database at dir.
func New(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open path cache at %s: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

func pathKey(path string) []byte {
	return []byte(keyPrefix + cache.Normalize(path))
}

func (c *Cache) Insert(path, id string) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pathKey(path), []byte(id))
	})
	if err != nil {
		// Cache population is best-effort; the operation that triggered
		// it must not fail because of it.
		logger.Warn("path cache insert failed for %s: %v", path, err)
	}
}

func (c *Cache) Lookup(path string) (string, bool) {
	var id string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pathKey(path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false
	}
	return id, true
}

func (c *Cache) Remove(path string) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(pathKey(path))
	})
	if err != nil {
		logger.Warn("path cache remove failed for %s: %v", path, err)
	}
}

func (c *Cache) Descendants(path string) []string {
	prefix := cache.Normalize(path)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var descendants []string
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix + prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := strings.TrimPrefix(string(it.Item().Key()), keyPrefix)
			if strings.Contains(key[len(prefix):], "/") {
				continue
			}
			descendants = append(descendants, key)
		}
		return nil
	})
	if err != nil {
		logger.Warn("path cache scan failed for %s: %v", path, err)
		return nil
	}
	return descendants
}

func (c *Cache) Close() error {
	return c.db.Close()
}
