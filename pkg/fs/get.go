package fs

import (
	"context"
	"io"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// Get streams a file's content to w and returns its mime type and size.
func (s *Session) Get(ctx context.Context, raw string, w io.Writer) (string, int64, error) {
	mimeType, n, err := s.get(ctx, raw, w)
	return mimeType, n, s.observe("get", err)
}

func (s *Session) get(ctx context.Context, raw string, w io.Writer) (string, int64, error) {
	p, err := parsePath(raw)
	if err != nil {
		return "", 0, err
	}
	logger.Debug("get %s (%s)", p.String(), p.Zone())

	switch p.Zone() {
	case vpath.ZoneRoot:
		// The synthetic root holds no file; there is nothing to deny
		// access to.
		return "", 0, notFound(p)

	case vpath.ZoneNewAccount, vpath.ZoneAccountRoot:
		return "", 0, drive.NewError(drive.ErrAccessDenied, p.String(), "%s cannot be fetched", p.String())

	case vpath.ZoneSharedWithMeRoot, vpath.ZoneSharedDrivesRoot, vpath.ZoneSharedDrive:
		return "", 0, drive.NewError(drive.ErrTypeMismatch, p.String(), "%s is a folder, not a file", p.String())

	case vpath.ZoneTrashRoot, vpath.ZoneTrashed:
		return "", 0, trashUnsupported(p)
	}

	acc, err := s.lookupAccount(p)
	if err != nil {
		return "", 0, err
	}

	var (
		mimeType string
		written  int64
	)
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		item, innerErr := s.fetchItem(ctx, token, p, resolveFile)
		if innerErr != nil {
			return innerErr
		}

		mimeType = item.MimeType
		if mimeType == "" {
			mimeType = mimeTypeForName(item.Name)
		}

		written, innerErr = s.gateway.Download(ctx, token, item, w)
		return innerErr
	})
	if err != nil {
		return "", 0, err
	}
	return mimeType, written, nil
}
