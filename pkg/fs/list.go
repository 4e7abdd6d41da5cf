package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// List returns the directory entries for a virtual path.
//
// Listing the synthetic root with no accounts configured, or listing the
// reserved new-account path, starts the account-creation flow and returns
// a *Redirect pointing at the new account.
func (s *Session) List(ctx context.Context, raw string) ([]Entry, error) {
	entries, err := s.list(ctx, raw)
	return entries, s.observe("list", err)
}

func (s *Session) list(ctx context.Context, raw string) ([]Entry, error) {
	p, err := parsePath(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("list %s (%s)", p.String(), p.Zone())

	switch p.Zone() {
	case vpath.ZoneRoot:
		names := s.accounts.Names()
		if len(names) == 0 {
			return nil, s.createAccount(ctx)
		}
		entries := make([]Entry, 0, len(names)+1)
		for _, name := range names {
			entries = append(entries, accountEntry(name))
		}
		return append(entries, newAccountEntry()), nil

	case vpath.ZoneNewAccount:
		return nil, s.createAccount(ctx)

	case vpath.ZoneTrashRoot, vpath.ZoneTrashed:
		return nil, trashUnsupported(p)
	}

	acc, err := s.lookupAccount(p)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		var innerErr error
		entries, innerErr = s.listRemote(ctx, token, p)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Session) listRemote(ctx context.Context, token string, p vpath.Path) ([]Entry, error) {
	switch p.Zone() {
	case vpath.ZoneAccountRoot:
		children, err := s.gateway.Children(ctx, token, drive.ItemRef{})
		if err != nil {
			return nil, err
		}
		entries := []Entry{sharedWithMeEntry(), sharedDrivesEntry()}
		return append(entries, s.entriesForChildren(p, children)...), nil

	case vpath.ZoneSharedWithMeRoot:
		items, err := s.gateway.SharedWithMe(ctx, token)
		if err != nil {
			return nil, err
		}
		s.cacheSharedWithMe(p.Account(), items)
		entries := make([]Entry, 0, len(items))
		for i := range items {
			entries = append(entries, entryFromItem(&items[i]))
		}
		return entries, nil

	case vpath.ZoneSharedDrivesRoot:
		drives, err := s.gateway.SharedDrives(ctx, token)
		if err != nil {
			return nil, err
		}
		s.cacheSharedDrives(p.Account(), drives)
		entries := make([]Entry, 0, len(drives))
		for _, d := range drives {
			entries = append(entries, sharedDriveEntry(d))
		}
		return entries, nil

	case vpath.ZoneSharedDrive, vpath.ZoneSharedWithMeTopLevel, vpath.ZoneSharedWithMe:
		ref, err := s.resolve(ctx, token, p, resolveFolder)
		if err != nil {
			return nil, err
		}
		children, err := s.gateway.Children(ctx, token, ref)
		if err != nil {
			return nil, rewriteNotFound(err, p)
		}
		return s.entriesForChildren(p, children), nil

	default:
		children, err := s.gateway.ChildrenByPath(ctx, token, p.RelativePath())
		if err != nil {
			return nil, rewriteNotFound(err, p)
		}
		return s.entriesForChildren(p, children), nil
	}
}

// entriesForChildren converts listed children to entries, teaching the
// cache each child's path along the way.
func (s *Session) entriesForChildren(parent vpath.Path, children []drive.Item) []Entry {
	prefix := parent.String()
	if prefix == "/" {
		prefix = ""
	}

	entries := make([]Entry, 0, len(children))
	for i := range children {
		it := &children[i]
		if it.Name != "" {
			s.cache.Insert(prefix+"/"+it.Name, it.Ref().Key())
		}
		entries = append(entries, entryFromItem(it))
	}
	return entries
}

// createAccount runs the interactive account-creation flow and redirects
// to the new account's root.
func (s *Session) createAccount(ctx context.Context) error {
	acc, err := s.accounts.Create(ctx)
	if err != nil {
		return drive.NewError(drive.ErrRemote, "", "account creation failed: %v", err)
	}
	if !acc.Valid() {
		return drive.NewError(drive.ErrUnsupported, "",
			"This installation cannot add accounts interactively. Configure accounts in the accounts file.")
	}
	logger.Info("created account %s", acc.Name)
	return &Redirect{Target: vpath.Scheme + ":/" + acc.Name}
}
