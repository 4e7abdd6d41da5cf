package fs

import (
	"context"
	"strings"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// resolveKind constrains the kind of item a resolution must produce.
// Enforcement happens only on the resolution that actually fetches the
// item: cache hits are advisory identifiers with no kind attached.
type resolveKind int

const (
	resolveAny resolveKind = iota
	resolveFile
	resolveFolder
)

// resolve maps a virtual path to the remote reference addressing it,
// consulting the path cache first and populating it on success.
//
// The returned reference is zero for paths that have no single backing
// remote identifier (the Shared Drives root). The synthetic root and the
// new-account path never reach here; verbs handle those zones before
// resolving.
func (s *Session) resolve(ctx context.Context, token string, p vpath.Path, kind resolveKind) (drive.ItemRef, error) {
	if p.IsRoot() {
		return drive.ItemRef{}, drive.NewError(drive.ErrInvalidPath, p.String(), "cannot resolve the root path")
	}

	if key, ok := s.cache.Lookup(p.String()); ok {
		s.metrics.CacheHit()
		logger.Debug("resolved %s from cache", p.String())
		return drive.ParseKey(key), nil
	}
	s.metrics.CacheMiss()

	switch p.Zone() {
	case vpath.ZoneAccountRoot, vpath.ZoneTrashRoot, vpath.ZoneSharedWithMeRoot:
		id, err := s.rootFolderID(ctx, token, p.Account())
		if err != nil {
			return drive.ItemRef{}, err
		}
		return drive.ItemRef{ItemID: id}, nil

	case vpath.ZoneSharedDrivesRoot:
		// The Shared Drives directory is synthetic; there is no remote
		// folder behind it.
		return drive.ItemRef{}, nil

	case vpath.ZoneSharedDrive:
		return s.resolveSharedDrive(ctx, token, p)

	case vpath.ZoneSharedWithMeTopLevel, vpath.ZoneSharedWithMe:
		return s.resolveSharedWithMe(ctx, token, p, kind)

	case vpath.ZoneTopLevel, vpath.ZonePersonal:
		return s.resolvePersonal(ctx, token, p, kind)

	case vpath.ZoneTrashed:
		return drive.ItemRef{}, notFound(p)

	default:
		return drive.ItemRef{}, drive.NewError(drive.ErrInvalidPath, p.String(), "cannot resolve %s", p.String())
	}
}

// rootFolderID returns the account drive's root folder identifier, fetching
// it at most once per session.
func (s *Session) rootFolderID(ctx context.Context, token, accountName string) (string, error) {
	if id, ok := s.rootIDs[accountName]; ok {
		return id, nil
	}

	item, err := s.gateway.ItemByPath(ctx, token, "")
	if err != nil {
		return "", err
	}

	s.rootIDs[accountName] = item.ID
	return item.ID, nil
}

// resolvePersonal resolves ordinary account content with a single
// path-addressed lookup instead of walking segment by segment. The fetched
// item's kind is checked before the cache learns about it, so a mismatch
// leaves no entry behind.
func (s *Session) resolvePersonal(ctx context.Context, token string, p vpath.Path, kind resolveKind) (drive.ItemRef, error) {
	item, err := s.gateway.ItemByPath(ctx, token, p.RelativePath())
	if err != nil {
		return drive.ItemRef{}, rewriteNotFound(err, p)
	}

	if err := checkKind(item, kind, p); err != nil {
		return drive.ItemRef{}, err
	}

	ref := drive.ItemRef{ItemID: item.ID}
	s.cache.Insert(p.String(), ref.Key())
	return ref, nil
}

// resolveSharedDrive resolves /<account>/Shared Drives/<drive>, where the
// last segment is either a drive identifier or a display name. A direct
// lookup by identifier is attempted first; when that fails the drive list
// is enumerated and matched by name. Both the id-keyed and name-keyed
// paths end up cached pointing at the same drive.
func (s *Session) resolveSharedDrive(ctx context.Context, token string, p vpath.Path) (drive.ItemRef, error) {
	acct := p.Account()
	nameOrID := p.Filename()

	ref := drive.ItemRef{DriveID: nameOrID, ItemID: drive.RootAlias}
	if _, err := s.gateway.ItemByRef(ctx, token, ref); err == nil {
		s.cache.Insert(vpath.SharedDrivePath(acct, nameOrID), ref.Key())
		return ref, nil
	} else if drive.IsCode(err, drive.ErrAuthFailed) {
		return drive.ItemRef{}, err
	}

	drives, err := s.gateway.SharedDrives(ctx, token)
	if err != nil {
		return drive.ItemRef{}, err
	}
	s.cacheSharedDrives(acct, drives)

	if key, ok := s.cache.Lookup(p.String()); ok {
		return drive.ParseKey(key), nil
	}
	return drive.ItemRef{}, notFound(p)
}

// cacheSharedDrives records every listed drive under both its identifier
// and its display name.
func (s *Session) cacheSharedDrives(acct string, drives []drive.Info) {
	for _, d := range drives {
		if d.ID == "" {
			continue
		}
		key := drive.ItemRef{DriveID: d.ID, ItemID: drive.RootAlias}.Key()
		s.cache.Insert(vpath.SharedDrivePath(acct, d.ID), key)
		if d.Name != "" {
			s.cache.Insert(vpath.SharedDrivePath(acct, d.Name), key)
		}
	}
}

// resolveSharedWithMe resolves paths below the Shared With Me root. The
// share root (third segment) must map to a composite drive/item reference;
// anything deeper is resolved relative to that root inside the foreign
// drive.
func (s *Session) resolveSharedWithMe(ctx context.Context, token string, p vpath.Path, kind resolveKind) (drive.ItemRef, error) {
	acct := p.Account()
	sharePath := vpath.SharedWithMePath(acct, p.Segment(2))

	key, ok := s.cache.Lookup(sharePath)
	if !ok {
		items, err := s.gateway.SharedWithMe(ctx, token)
		if err != nil {
			return drive.ItemRef{}, err
		}
		s.cacheSharedWithMe(acct, items)
		if key, ok = s.cache.Lookup(sharePath); !ok {
			return drive.ItemRef{}, notFound(p)
		}
	}

	root := drive.ParseKey(key)
	if !root.Composite() {
		// A share root without its owning drive cannot be addressed.
		return drive.ItemRef{}, notFound(p)
	}

	if p.Len() == 3 {
		s.cache.Insert(p.String(), root.Key())
		return root, nil
	}

	rel := strings.Join(p.Segments()[3:], "/")
	item, err := s.gateway.DriveItemByPath(ctx, token, root, rel)
	if err != nil {
		return drive.ItemRef{}, rewriteNotFound(err, p)
	}
	if err := checkKind(item, kind, p); err != nil {
		return drive.ItemRef{}, err
	}

	ref := item.Ref()
	if ref.DriveID == "" {
		ref.DriveID = root.DriveID
	}
	s.cache.Insert(p.String(), ref.Key())
	return ref, nil
}

// cacheSharedWithMe records each share root under its display name. Shares
// without a composite remote reference are skipped; they cannot be
// addressed later.
func (s *Session) cacheSharedWithMe(acct string, items []drive.Item) {
	for _, it := range items {
		ref := it.Ref()
		if !ref.Composite() || it.Name == "" {
			continue
		}
		s.cache.Insert(vpath.SharedWithMePath(acct, it.Name), ref.Key())
	}
}

// checkKind verifies a fetched item against the kind the caller requires.
func checkKind(item *drive.Item, kind resolveKind, p vpath.Path) error {
	switch {
	case kind == resolveFolder && !item.Folder:
		return drive.NewError(drive.ErrTypeMismatch, p.String(), "%s is a file, not a folder", p.String())
	case kind == resolveFile && item.Folder:
		return drive.NewError(drive.ErrTypeMismatch, p.String(), "%s is a folder, not a file", p.String())
	}
	return nil
}

func notFound(p vpath.Path) error {
	return drive.NewError(drive.ErrNotFound, p.String(), "%s does not exist", p.String())
}

// rewriteNotFound pins the virtual path onto not-found errors coming back
// from the gateway, which only knows drive-relative paths.
func rewriteNotFound(err error, p vpath.Path) error {
	if drive.IsCode(err, drive.ErrNotFound) {
		return notFound(p)
	}
	return err
}
