package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedrivefs/onedrivefs/pkg/drive"
)

func TestRenameChangesName(t *testing.T) {
	gw := newFakeGateway()
	gw.addFile("Documents/old.txt", "item-1", nil)
	s, _ := newTestSession(t, gw)
	s.cache.Insert("/alice/Documents/old.txt", "item-1")

	err := s.Rename(context.Background(), "onedrive:/alice/Documents/old.txt", "onedrive:/alice/Documents/new.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls["update"])

	// The cache moved with the item.
	_, ok := s.cache.Lookup("/alice/Documents/old.txt")
	assert.False(t, ok)
	key, ok := s.cache.Lookup("/alice/Documents/new.txt")
	require.True(t, ok)
	assert.Equal(t, "item-1", drive.ParseKey(key).ItemID)
}

func TestRenameMovesBetweenFolders(t *testing.T) {
	gw := newFakeGateway()
	gw.addFile("Documents/report.docx", "item-1", nil)
	s, _ := newTestSession(t, gw)

	err := s.Rename(context.Background(), "onedrive:/alice/Documents/report.docx", "onedrive:/alice/Archive/report.docx")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls["update"])
}

func TestRenameNoOp(t *testing.T) {
	gw := newFakeGateway()
	gw.addFile("Documents/report.docx", "item-1", nil)
	s, _ := newTestSession(t, gw)

	err := s.Rename(context.Background(), "onedrive:/alice/Documents/report.docx", "onedrive:/alice/Documents/report.docx")
	require.NoError(t, err)

	// Identical endpoints touch nothing.
	assert.Empty(t, gw.calls)
}

func TestRenameAcrossAccountsUnsupported(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	err := s.Rename(context.Background(), "onedrive:/alice/a.txt", "onedrive:/bob/a.txt")
	assert.True(t, drive.IsCode(err, drive.ErrUnsupported))
	assert.Empty(t, gw.calls)
}

func TestRenameOutsidePersonalContent(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	err := s.Rename(context.Background(), "onedrive:/alice/Shared With Me/Report", "onedrive:/alice/Report")
	assert.True(t, drive.IsCode(err, drive.ErrUnsupported))

	err = s.Rename(context.Background(), "onedrive:/alice/a.txt", "onedrive:/alice/trash/a.txt")
	assert.True(t, drive.IsCode(err, drive.ErrUnsupported))
}

func TestRenameRootIsNotFound(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	// The root is missing as a transfer endpoint, on both sides and
	// before the account check can call the pair cross-account.
	err := s.Rename(context.Background(), "onedrive:/", "onedrive:/")
	assert.True(t, drive.IsCode(err, drive.ErrNotFound))

	err = s.Rename(context.Background(), "onedrive:/", "onedrive:/alice/a.txt")
	assert.True(t, drive.IsCode(err, drive.ErrNotFound))

	err = s.Rename(context.Background(), "onedrive:/alice/a.txt", "onedrive:/")
	assert.True(t, drive.IsCode(err, drive.ErrNotFound))
	assert.Empty(t, gw.calls)
}

func TestCopyFile(t *testing.T) {
	gw := newFakeGateway()
	gw.addFile("Documents/report.docx", "item-1", nil)
	s, _ := newTestSession(t, gw)

	err := s.Copy(context.Background(), "onedrive:/alice/Documents/report.docx", "onedrive:/alice/Archive/report-copy.docx")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls["copy"])

	key, ok := s.cache.Lookup("/alice/Archive/report-copy.docx")
	require.True(t, ok)
	assert.Equal(t, "copy-of-item-1", drive.ParseKey(key).ItemID)
}

func TestCopyAcrossAccountsUnsupported(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	err := s.Copy(context.Background(), "onedrive:/alice/a.txt", "onedrive:/bob/a.txt")
	assert.True(t, drive.IsCode(err, drive.ErrUnsupported))
	assert.Empty(t, gw.calls)
}

func TestCopyRootIsNotFound(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	err := s.Copy(context.Background(), "onedrive:/", "onedrive:/alice/copy.txt")
	assert.True(t, drive.IsCode(err, drive.ErrNotFound))
	assert.Empty(t, gw.calls)
}

func TestCopyMissingSource(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	err := s.Copy(context.Background(), "onedrive:/alice/nope.txt", "onedrive:/alice/copy.txt")
	assert.True(t, drive.IsCode(err, drive.ErrNotFound))
}

func TestFreeSpace(t *testing.T) {
	gw := newFakeGateway()
	gw.quota = drive.Quota{Total: 1024, Remaining: 512}
	s, _ := newTestSession(t, gw)

	quota, err := s.FreeSpace(context.Background(), "onedrive:/alice/Documents")
	require.NoError(t, err)
	assert.EqualValues(t, 1024, quota.Total)
	assert.EqualValues(t, 512, quota.Remaining)
}

func TestFreeSpaceOnRoot(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	// The root spans all accounts: answer trivially with an unknown
	// quota instead of failing, and without any remote call.
	quota, err := s.FreeSpace(context.Background(), "onedrive:/")
	require.NoError(t, err)
	assert.EqualValues(t, 0, quota.Total)
	assert.EqualValues(t, -1, quota.Remaining)
	assert.Empty(t, gw.calls)
}

func TestFreeSpaceOnNewAccount(t *testing.T) {
	gw := newFakeGateway()
	s, _ := newTestSession(t, gw)

	_, err := s.FreeSpace(context.Background(), "onedrive:/new-account")
	assert.True(t, drive.IsCode(err, drive.ErrInvalidPath))
}
