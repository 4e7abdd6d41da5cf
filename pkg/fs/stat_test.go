package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedrivefs/onedrivefs/pkg/drive"
)

func TestStatSyntheticLayers(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	tests := []struct {
		url  string
		name string
	}{
		{"onedrive:/", "/"},
		{"onedrive:/new-account", "new-account"},
		{"onedrive:/alice", "alice"},
		{"onedrive:/alice/Shared With Me", "Shared With Me"},
		{"onedrive:/alice/Shared Drives", "Shared Drives"},
	}

	for _, tt := range tests {
		entry, err := s.Stat(context.Background(), tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.name, entry.Name, tt.url)
		assert.True(t, entry.Folder, tt.url)
		assert.Equal(t, folderMimeType, entry.MimeType, tt.url)
	}

	// None of these touch the remote store.
	assert.Empty(t, gw.calls)
}

func TestStatPersonalFile(t *testing.T) {
	gw := newFakeGateway()
	gw.addFile("Documents/report.docx", "item-1", []byte("0123456789"))
	s, _ := newTestSession(t, gw)

	entry, err := s.Stat(context.Background(), "onedrive:/alice/Documents/report.docx")
	require.NoError(t, err)
	assert.Equal(t, "report.docx", entry.Name)
	assert.False(t, entry.Folder)
	assert.EqualValues(t, 10, entry.Size)
	assert.Equal(t, "text/plain", entry.MimeType)

	// Stat teaches the cache.
	key, ok := s.cache.Lookup("/alice/Documents/report.docx")
	require.True(t, ok)
	assert.Equal(t, "item-1", drive.ParseKey(key).ItemID)
}

func TestStatFolderReportsDirectoryType(t *testing.T) {
	gw := newFakeGateway()
	gw.addFolder("Documents", "doc-id")
	s, _ := newTestSession(t, gw)

	entry, err := s.Stat(context.Background(), "onedrive:/alice/Documents")
	require.NoError(t, err)
	assert.True(t, entry.Folder)
	assert.Equal(t, folderMimeType, entry.MimeType)
}

func TestStatSharedDriveKeepsRequestedName(t *testing.T) {
	gw := newFakeGateway()
	gw.drives = []drive.Info{{ID: "drv-1", Name: "Marketing"}}
	root := drive.ItemRef{DriveID: "drv-1", ItemID: drive.RootAlias}
	gw.byRef[root] = &drive.Item{ID: "root", Name: "root", Folder: true}
	s, _ := newTestSession(t, gw)

	entry, err := s.Stat(context.Background(), "onedrive:/alice/Shared Drives/Marketing")
	require.NoError(t, err)
	assert.Equal(t, "Marketing", entry.Name)
	assert.True(t, entry.Folder)
}

func TestStatTrashUnsupported(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	_, err := s.Stat(context.Background(), "onedrive:/alice/trash")
	assert.True(t, drive.IsCode(err, drive.ErrUnsupported))
}

func TestMimeType(t *testing.T) {
	gw := newFakeGateway()
	gw.addFile("notes.txt", "n-id", nil)
	gw.addFolder("Documents", "doc-id")
	s, _ := newTestSession(t, gw)

	mimeType, err := s.MimeType(context.Background(), "onedrive:/alice/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mimeType)

	mimeType, err = s.MimeType(context.Background(), "onedrive:/alice/Documents")
	require.NoError(t, err)
	assert.Equal(t, folderMimeType, mimeType)

	mimeType, err = s.MimeType(context.Background(), "onedrive:/alice")
	require.NoError(t, err)
	assert.Equal(t, folderMimeType, mimeType)
}
