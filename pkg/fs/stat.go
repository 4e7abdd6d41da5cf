package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// Stat returns the entry for a single virtual path. The synthetic layers
// (root, new-account, account roots, the Shared With Me and Shared Drives
// directories) stat without any remote call.
func (s *Session) Stat(ctx context.Context, raw string) (*Entry, error) {
	e, err := s.stat(ctx, raw)
	return e, s.observe("stat", err)
}

func (s *Session) stat(ctx context.Context, raw string) (*Entry, error) {
	p, err := parsePath(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("stat %s (%s)", p.String(), p.Zone())

	switch p.Zone() {
	case vpath.ZoneRoot:
		e := rootEntry()
		return &e, nil

	case vpath.ZoneNewAccount:
		e := newAccountEntry()
		return &e, nil

	case vpath.ZoneTrashRoot, vpath.ZoneTrashed:
		return nil, trashUnsupported(p)
	}

	acc, err := s.lookupAccount(p)
	if err != nil {
		return nil, err
	}

	switch p.Zone() {
	case vpath.ZoneAccountRoot:
		e := accountEntry(acc.Name)
		return &e, nil

	case vpath.ZoneSharedWithMeRoot:
		e := sharedWithMeEntry()
		return &e, nil

	case vpath.ZoneSharedDrivesRoot:
		e := sharedDrivesEntry()
		return &e, nil
	}

	var entry Entry
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		item, innerErr := s.fetchItem(ctx, token, p, resolveAny)
		if innerErr != nil {
			return innerErr
		}
		entry = entryFromItem(item)
		if p.Zone() == vpath.ZoneSharedDrive {
			// A drive's root item is named "root"; the entry keeps the
			// name the path addressed it by.
			entry.Name = p.Filename()
			entry.DisplayName = p.Filename()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// fetchItem fetches the remote item behind a path. Personal content is
// fetched with a single path-addressed call; everything else resolves to a
// reference first. The cache learns the path on success.
func (s *Session) fetchItem(ctx context.Context, token string, p vpath.Path, kind resolveKind) (*drive.Item, error) {
	if p.IsPersonal() {
		item, err := s.gateway.ItemByPath(ctx, token, p.RelativePath())
		if err != nil {
			return nil, rewriteNotFound(err, p)
		}
		if err := checkKind(item, kind, p); err != nil {
			return nil, err
		}
		s.cache.Insert(p.String(), drive.ItemRef{ItemID: item.ID}.Key())
		return item, nil
	}

	ref, err := s.resolve(ctx, token, p, kind)
	if err != nil {
		return nil, err
	}
	item, err := s.gateway.ItemByRef(ctx, token, ref)
	if err != nil {
		return nil, rewriteNotFound(err, p)
	}
	if err := checkKind(item, kind, p); err != nil {
		return nil, err
	}
	return item, nil
}
