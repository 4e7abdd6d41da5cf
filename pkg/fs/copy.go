package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
)

// Copy copies an item to a new location within one account's personal
// content. The provider performs the copy server-side and asynchronously;
// the gateway waits for completion. Cross-account copies come back as
// unsupported so the caller can emulate them with a read and a write.
func (s *Session) Copy(ctx context.Context, srcRaw, destRaw string) error {
	return s.observe("copy", s.copyItem(ctx, srcRaw, destRaw))
}

func (s *Session) copyItem(ctx context.Context, srcRaw, destRaw string) error {
	src, dest, acc, err := s.transferEndpoints(srcRaw, destRaw, "copied")
	if err != nil {
		return err
	}
	logger.Debug("copy %s -> %s", src.String(), dest.String())

	var copied *drive.Item
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		item, innerErr := s.gateway.ItemByPath(ctx, token, src.RelativePath())
		if innerErr != nil {
			return rewriteNotFound(innerErr, src)
		}

		item, innerErr = s.gateway.Copy(ctx, token, item.Ref(), dest.Filename(),
			drive.ParentAPIPath(dest.RelativeParentPath()))
		copied = item
		return innerErr
	})
	if err != nil {
		if drive.IsCode(err, drive.ErrAlreadyExists) {
			return drive.NewError(drive.ErrAlreadyExists, dest.String(), "%s already exists", dest.String())
		}
		return err
	}

	if copied != nil && copied.ID != "" {
		s.cache.Insert(dest.String(), drive.ItemRef{ItemID: copied.ID}.Key())
	}
	return nil
}
