package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/account"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// Rename renames and/or moves an item within one account's personal
// content. Both the renaming and the reparenting half are optional; when
// source and destination coincide the call succeeds without touching the
// remote store.
func (s *Session) Rename(ctx context.Context, srcRaw, destRaw string) error {
	return s.observe("rename", s.rename(ctx, srcRaw, destRaw))
}

func (s *Session) rename(ctx context.Context, srcRaw, destRaw string) error {
	src, dest, acc, err := s.transferEndpoints(srcRaw, destRaw, "renamed")
	if err != nil {
		return err
	}
	logger.Debug("rename %s -> %s", src.String(), dest.String())

	newName := ""
	if src.Filename() != dest.Filename() {
		newName = dest.Filename()
	}
	newParent := ""
	if src.RelativeParentPath() != dest.RelativeParentPath() {
		newParent = drive.ParentAPIPath(dest.RelativeParentPath())
	}
	if newName == "" && newParent == "" {
		return nil
	}

	var renamed *drive.Item
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		item, innerErr := s.gateway.ItemByPath(ctx, token, src.RelativePath())
		if innerErr != nil {
			return rewriteNotFound(innerErr, src)
		}

		item, innerErr = s.gateway.Update(ctx, token, item.Ref(), newName, newParent)
		renamed = item
		return innerErr
	})
	if err != nil {
		if drive.IsCode(err, drive.ErrAlreadyExists) {
			return drive.NewError(drive.ErrAlreadyExists, dest.String(), "%s already exists", dest.String())
		}
		return err
	}

	s.cache.Remove(src.String())
	if renamed != nil && renamed.ID != "" {
		s.cache.Insert(dest.String(), drive.ItemRef{ItemID: renamed.ID}.Key())
	}
	return nil
}

// transferEndpoints parses and validates the two endpoints of a rename or
// copy: same account on both sides, personal content only, and a
// destination outside the synthetic layers. Cross-account transfers are
// reported as unsupported so callers can fall back to copying content
// through the client.
func (s *Session) transferEndpoints(srcRaw, destRaw, action string) (src, dest vpath.Path, acc account.Account, err error) {
	src, err = parsePath(srcRaw)
	if err != nil {
		return src, dest, acc, err
	}
	dest, err = parsePath(destRaw)
	if err != nil {
		return src, dest, acc, err
	}

	// The synthetic root names no item at all, so it fails as missing
	// before any account or policy consideration.
	for _, p := range []vpath.Path{src, dest} {
		if p.Zone() == vpath.ZoneRoot {
			return src, dest, acc, notFound(p)
		}
	}

	if src.Account() == "" || src.Account() != dest.Account() {
		return src, dest, acc, drive.NewError(drive.ErrUnsupported, dest.String(),
			"Files cannot be moved between accounts directly.")
	}

	for _, p := range []vpath.Path{src, dest} {
		switch p.Zone() {
		case vpath.ZoneNewAccount, vpath.ZoneAccountRoot,
			vpath.ZoneSharedWithMeRoot, vpath.ZoneSharedDrivesRoot:
			return src, dest, acc, drive.NewError(drive.ErrAccessDenied, p.String(),
				"%s cannot be %s", p.String(), action)
		case vpath.ZoneSharedWithMeTopLevel, vpath.ZoneSharedWithMe:
			return src, dest, acc, sharedWithMeReadOnly(p, action)
		case vpath.ZoneSharedDrive:
			return src, dest, acc, sharedDrivesReadOnly(p)
		case vpath.ZoneTrashRoot, vpath.ZoneTrashed:
			return src, dest, acc, trashUnsupported(p)
		}
	}

	acc, err = s.lookupAccount(src)
	return src, dest, acc, err
}
