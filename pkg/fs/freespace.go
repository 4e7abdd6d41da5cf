package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// FreeSpace reports the storage quota of the account a path belongs to.
// Quotas are account-wide, so any path under an account answers the same.
func (s *Session) FreeSpace(ctx context.Context, raw string) (*drive.Quota, error) {
	q, err := s.freeSpace(ctx, raw)
	return q, s.observe("freespace", err)
}

func (s *Session) freeSpace(ctx context.Context, raw string) (*drive.Quota, error) {
	p, err := parsePath(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("freespace %s", p.String())

	switch p.Zone() {
	case vpath.ZoneRoot:
		// The synthetic root spans all accounts and has no quota of its
		// own; answer trivially with an unknown quota.
		return &drive.Quota{Total: 0, Remaining: -1}, nil

	case vpath.ZoneNewAccount:
		return nil, drive.NewError(drive.ErrInvalidPath, p.String(), "%s has no storage quota", p.String())
	}

	acc, err := s.lookupAccount(p)
	if err != nil {
		return nil, err
	}

	var quota *drive.Quota
	err = s.withAuthRetry(ctx, acc, func(token string) error {
		var innerErr error
		quota, innerErr = s.gateway.Quota(ctx, token)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return quota, nil
}
