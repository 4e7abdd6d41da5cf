package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedrivefs/onedrivefs/pkg/drive"
)

func TestDeleteFile(t *testing.T) {
	gw := newFakeGateway()
	gw.addFile("Documents/old.txt", "old-id", nil)
	s, _ := newTestSession(t, gw)
	s.cache.Insert("/alice/Documents/old.txt", "old-id")

	err := s.Delete(context.Background(), "onedrive:/alice/Documents/old.txt", false)
	require.NoError(t, err)

	require.Len(t, gw.deleted, 1)
	assert.Equal(t, "old-id", gw.deleted[0].ItemID)

	// The cache forgot the path.
	_, ok := s.cache.Lookup("/alice/Documents/old.txt")
	assert.False(t, ok)
}

func TestDeleteNonEmptyFolderRefused(t *testing.T) {
	gw := newFakeGateway()
	folder := gw.addFolder("Documents", "doc-id")
	gw.childrenOf[folder.Ref().Key()] = []drive.Item{{ID: "a-id", Name: "a.txt"}}
	s, _ := newTestSession(t, gw)

	err := s.Delete(context.Background(), "onedrive:/alice/Documents", false)
	assert.True(t, drive.IsCode(err, drive.ErrNotEmpty))

	// The remote delete was never issued.
	assert.Empty(t, gw.deleted)
	assert.Equal(t, 0, gw.calls["delete"])
}

func TestDeleteNonEmptyFolderWithRecurse(t *testing.T) {
	gw := newFakeGateway()
	folder := gw.addFolder("Documents", "doc-id")
	gw.childrenOf[folder.Ref().Key()] = []drive.Item{{ID: "a-id", Name: "a.txt"}}
	s, _ := newTestSession(t, gw)

	err := s.Delete(context.Background(), "onedrive:/alice/Documents", true)
	require.NoError(t, err)
	require.Len(t, gw.deleted, 1)

	// With the recursive intent there is no emptiness probe.
	assert.Equal(t, 0, gw.calls["children"])
}

func TestDeleteEmptyFolder(t *testing.T) {
	gw := newFakeGateway()
	gw.addFolder("Documents", "doc-id")
	s, _ := newTestSession(t, gw)

	err := s.Delete(context.Background(), "onedrive:/alice/Documents", false)
	require.NoError(t, err)
	require.Len(t, gw.deleted, 1)
}

func TestDeleteAccountRootForgetsAccount(t *testing.T) {
	gw := newFakeGateway()
	s, dir := newTestSession(t, gw)

	err := s.Delete(context.Background(), "onedrive:/alice", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, dir.removed)
	// Remote data is untouched.
	assert.Empty(t, gw.calls)
}

func TestDeleteOutsidePersonalContent(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	for _, url := range []string{
		"onedrive:/alice/Shared With Me/Report",
		"onedrive:/alice/Shared Drives/Marketing",
		"onedrive:/alice/trash/x",
	} {
		err := s.Delete(context.Background(), url, false)
		assert.True(t, drive.IsCode(err, drive.ErrUnsupported), url)
	}
	assert.Empty(t, gw.deleted)
}
