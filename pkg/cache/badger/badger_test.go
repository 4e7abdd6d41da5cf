package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestInsertLookupRemove(t *testing.T) {
	c := newTestCache(t)

	c.Insert("/alice/Documents", "id-1")

	id, ok := c.Lookup("alice/Documents")
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)

	c.Remove("/alice/Documents")
	_, ok = c.Lookup("/alice/Documents")
	assert.False(t, ok)
}

func TestDescendants(t *testing.T) {
	c := newTestCache(t)

	c.Insert("/alice/Documents/a.txt", "id-1")
	c.Insert("/alice/Documents/b.txt", "id-2")
	c.Insert("/alice/Documents/sub/c.txt", "id-3")
	c.Insert("/alice/Documentsx", "id-4")

	kids := c.Descendants("/alice/Documents")
	assert.ElementsMatch(t, []string{"alice/Documents/a.txt", "alice/Documents/b.txt"}, kids)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := New(dir)
	require.NoError(t, err)
	c.Insert("/alice/Documents", "id-1")
	require.NoError(t, c.Close())

	reopened, err := New(dir)
	require.NoError(t, err)
	defer reopened.Close()

	id, ok := reopened.Lookup("/alice/Documents")
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)
}
