package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// Delete removes an item. Deleting an account root forgets the account
// locally and leaves its remote data untouched. A folder with children is
// refused unless recurse is set; the remote call is only issued once the
// emptiness check has passed.
func (s *Session) Delete(ctx context.Context, raw string, recurse bool) error {
	return s.observe("delete", s.delete(ctx, raw, recurse))
}

func (s *Session) delete(ctx context.Context, raw string, recurse bool) error {
	p, err := parsePath(raw)
	if err != nil {
		return err
	}
	logger.Debug("delete %s (%s) recurse=%v", p.String(), p.Zone(), recurse)

	switch p.Zone() {
	case vpath.ZoneRoot, vpath.ZoneNewAccount:
		return notFound(p)

	case vpath.ZoneSharedWithMeRoot, vpath.ZoneSharedWithMeTopLevel, vpath.ZoneSharedWithMe:
		return sharedWithMeReadOnly(p, "removed")

	case vpath.ZoneSharedDrivesRoot, vpath.ZoneSharedDrive:
		return sharedDrivesReadOnly(p)

	case vpath.ZoneTrashRoot, vpath.ZoneTrashed:
		return trashUnsupported(p)
	}

	acc, err := s.lookupAccount(p)
	if err != nil {
		return err
	}

	if p.Zone() == vpath.ZoneAccountRoot {
		logger.Info("forgetting account %s", acc.Name)
		if err := s.accounts.Remove(acc.Name); err != nil {
			return drive.NewError(drive.ErrLocalIO, p.String(), "cannot remove account %s: %v", acc.Name, err)
		}
		delete(s.rootIDs, acc.Name)
		return nil
	}

	err = s.withAuthRetry(ctx, acc, func(token string) error {
		item, innerErr := s.gateway.ItemByPath(ctx, token, p.RelativePath())
		if innerErr != nil {
			return rewriteNotFound(innerErr, p)
		}

		ref := item.Ref()
		if item.Folder && !recurse {
			children, innerErr := s.gateway.Children(ctx, token, ref)
			if innerErr != nil {
				return innerErr
			}
			if len(children) > 0 {
				return drive.NewError(drive.ErrNotEmpty, p.String(), "%s is a folder and is not empty", p.String())
			}
		}

		return s.gateway.Delete(ctx, token, ref)
	})
	if err != nil {
		return err
	}

	s.cache.Remove(p.String())
	return nil
}
