package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// Mkdir creates a folder. The parent must already exist and be a folder;
// intermediate folders are not created.
func (s *Session) Mkdir(ctx context.Context, raw string) error {
	return s.observe("mkdir", s.mkdir(ctx, raw))
}

func (s *Session) mkdir(ctx context.Context, raw string) error {
	p, err := parsePath(raw)
	if err != nil {
		return err
	}
	logger.Debug("mkdir %s (%s)", p.String(), p.Zone())

	switch p.Zone() {
	case vpath.ZoneRoot, vpath.ZoneNewAccount, vpath.ZoneAccountRoot:
		return notFound(p)

	case vpath.ZoneSharedWithMeRoot, vpath.ZoneSharedWithMeTopLevel, vpath.ZoneSharedWithMe:
		return sharedWithMeReadOnly(p, "created")

	case vpath.ZoneSharedDrivesRoot, vpath.ZoneSharedDrive:
		return sharedDrivesReadOnly(p)

	case vpath.ZoneTrashRoot, vpath.ZoneTrashed:
		return trashUnsupported(p)
	}

	acc, err := s.lookupAccount(p)
	if err != nil {
		return err
	}

	var created *drive.Item
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		parent, innerErr := s.resolve(ctx, token, vpath.New(p.ParentPath()), resolveFolder)
		if innerErr != nil {
			return innerErr
		}

		item, innerErr := s.gateway.CreateFolder(ctx, token, parent, p.Filename())
		created = item
		return innerErr
	})
	if err != nil {
		if drive.IsCode(err, drive.ErrAlreadyExists) {
			return drive.NewError(drive.ErrAlreadyExists, p.String(), "%s already exists", p.String())
		}
		return err
	}

	if created != nil && created.ID != "" {
		s.cache.Insert(p.String(), drive.ItemRef{ItemID: created.ID}.Key())
	}
	return nil
}
