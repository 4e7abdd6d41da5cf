// Package cache provides the advisory path → remote-identifier cache used
// by the resolver.
//
// The cache maps normalized virtual paths (no leading slash) to the opaque
// identifiers the remote store uses to address items. It is purely
// advisory: a missing entry means "unknown", never "does not exist", and a
// present entry does not guarantee the remote item still exists, since
// deletions performed elsewhere are not observed. Entries are inserted
// opportunistically after successful resolve, list, create and rename
// operations and removed on delete and rename-away.
//
// There is deliberately no TTL and no size bound: the worker is short-lived
// and single-threaded, and the original design accepts unbounded growth for
// the life of the process in exchange for never re-resolving a path twice.
package cache

import "strings"

// PathCache is the path → remote-identifier mapping.
//
// Implementations are not required to be safe for concurrent use; the
// worker session is single-threaded and owns its cache exclusively.
type PathCache interface {
	// Insert records the identifier for a path, replacing any previous
	// entry. Paths are normalized by stripping exactly one leading slash.
	Insert(path, id string)

	// Lookup returns the cached identifier for a path and whether one
	// was present.
	Lookup(path string) (string, bool)

	// Remove drops the entry for a path. Removing an absent path is a
	// no-op.
	Remove(path string)

	// Descendants returns the cached paths that are direct children of
	// the given path. Deeper descendants are not returned.
	Descendants(path string) []string

	// Close releases any resources held by the cache.
	Close() error
}

// Normalize strips exactly one leading slash from a path so that "/a/b"
// and "a/b" address the same cache entry.
func Normalize(path string) string {
	if strings.HasPrefix(path, "/") {
		return path[1:]
	}
	return path
}

// Memory is the default in-memory PathCache: a plain map created empty for
// each worker instance and discarded when the process exits.
type Memory struct {
	pathID map[string]string
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{pathID: make(map[string]string)}
}

func (m *Memory) Insert(path, id string) {
	m.pathID[Normalize(path)] = id
}

func (m *Memory) Lookup(path string) (string, bool) {
	id, ok := m.pathID[Normalize(path)]
	return id, ok
}

func (m *Memory) Remove(path string) {
	delete(m.pathID, Normalize(path))
}

func (m *Memory) Descendants(path string) []string {
	prefix := Normalize(path)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var descendants []string
	for key := range m.pathID {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if strings.Contains(key[len(prefix):], "/") {
			// Not a direct child.
			continue
		}
		descendants = append(descendants, key)
	}
	return descendants
}

func (m *Memory) Close() error {
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	return len(m.pathID)
}
