package fs

import (
	"context"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// Put stores the content read from src at the given path, creating the
// file or replacing an existing one. Content is spooled to a temporary
// file first: uploads need a known size and must be restartable after a
// token refresh, and the remote type is sniffed from the spooled bytes.
//
// A URL carrying an id hint updates that item directly without resolving
// the path. Otherwise the parent folder must already exist.
func (s *Session) Put(ctx context.Context, raw string, src io.Reader) error {
	return s.observe("put", s.put(ctx, raw, src))
}

func (s *Session) put(ctx context.Context, raw string, src io.Reader) error {
	p, err := parsePath(raw)
	if err != nil {
		return err
	}
	logger.Debug("put %s (%s)", p.String(), p.Zone())

	switch p.Zone() {
	case vpath.ZoneRoot, vpath.ZoneNewAccount, vpath.ZoneAccountRoot:
		return drive.NewError(drive.ErrAccessDenied, p.String(), "cannot write to %s", p.String())

	case vpath.ZoneSharedWithMeRoot, vpath.ZoneSharedWithMeTopLevel, vpath.ZoneSharedWithMe:
		return sharedWithMeReadOnly(p, "written")

	case vpath.ZoneSharedDrivesRoot, vpath.ZoneSharedDrive:
		return sharedDrivesReadOnly(p)

	case vpath.ZoneTrashRoot, vpath.ZoneTrashed:
		return trashUnsupported(p)
	}

	acc, err := s.lookupAccount(p)
	if err != nil {
		return err
	}

	spool, mimeType, err := spoolContent(src)
	if err != nil {
		return err
	}
	defer func() {
		spool.Close()
		os.Remove(spool.Name())
	}()

	var uploaded *drive.Item
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		if _, seekErr := spool.Seek(0, io.SeekStart); seekErr != nil {
			return drive.NewError(drive.ErrLocalIO, p.String(), "cannot rewind temporary file: %v", seekErr)
		}

		if hint := p.IDHint(); hint != "" {
			item, innerErr := s.gateway.UploadByRef(ctx, token, drive.ItemRef{ItemID: hint}, spool, mimeType)
			uploaded = item
			return innerErr
		}

		if parentRel := p.RelativeParentPath(); parentRel != "" {
			parent, innerErr := s.gateway.ItemByPath(ctx, token, parentRel)
			if innerErr != nil {
				return rewriteNotFound(innerErr, vpath.New(p.ParentPath()))
			}
			if !parent.Folder {
				return drive.NewError(drive.ErrTypeMismatch, p.ParentPath(), "%s is a file, not a folder", p.ParentPath())
			}
		}

		item, innerErr := s.gateway.Upload(ctx, token, p.RelativePath(), spool, mimeType)
		uploaded = item
		return innerErr
	})
	if err != nil {
		return rewriteNotFound(err, p)
	}

	if uploaded != nil && uploaded.ID != "" {
		s.cache.Insert(p.String(), drive.ItemRef{ItemID: uploaded.ID}.Key())
	}
	return nil
}

// spoolContent copies src to a temporary file and sniffs the content type
// from the spooled bytes.
func spoolContent(src io.Reader) (*os.File, string, error) {
	spool, err := os.CreateTemp("", "onedrivefs-put-")
	if err != nil {
		return nil, "", drive.NewError(drive.ErrLocalIO, "", "cannot create temporary file: %v", err)
	}

	if _, err := io.Copy(spool, src); err != nil {
		spool.Close()
		os.Remove(spool.Name())
		return nil, "", drive.NewError(drive.ErrLocalIO, "", "cannot spool content: %v", err)
	}

	mimeType := defaultMimeType
	if detected, err := mimetype.DetectFile(spool.Name()); err == nil {
		mimeType = detected.String()
	}
	return spool, mimeType, nil
}
