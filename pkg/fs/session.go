// Package fs implements the filesystem verbs the worker exposes over a
// set of OneDrive accounts: list, stat, get, put, mkdir, delete, rename,
// copy, mimetype and free-space.
//
// Each verb parses and classifies its virtual path, consults the per-zone
// policy, resolves the path to a remote identifier and performs the remote
// calls. All per-worker state (account directory, gateway, path cache,
// root-folder memo) is owned by the Session; nothing is process-global.
//
// Concurrency model: one Session serves one client connection and runs one
// verb at a time to completion. The Session performs no locking; workers
// wanting parallelism run multiple Sessions, each with its own cache, and
// accept the resulting staleness.
package fs

import (
	"context"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/account"
	"github.com/onedrivefs/onedrivefs/pkg/cache"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/metrics"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

// Session is one worker instance's view of the virtual filesystem.
type Session struct {
	accounts account.Directory
	gateway  drive.Gateway
	cache    cache.PathCache

	// rootIDs memoizes each account's top-level folder identifier.
	// Populated lazily on first need, never invalidated.
	rootIDs map[string]string

	metrics metrics.SessionMetrics
}

// NewSession builds a session over the given collaborators. A nil metrics
// argument disables observation.
func NewSession(accounts account.Directory, gateway drive.Gateway, pathCache cache.PathCache, m metrics.SessionMetrics) *Session {
	if m == nil {
		m = metrics.NewSessionMetrics()
	}
	return &Session{
		accounts: accounts,
		gateway:  &instrumentedGateway{next: gateway, m: m},
		cache:    pathCache,
		rootIDs:  make(map[string]string),
		metrics:  m,
	}
}

// Redirect is returned by verbs that complete by sending the caller to a
// different URL (the new-account flow). It is a control-flow signal, not a
// failure.
type Redirect struct {
	// Target is the URL the caller should retry against.
	Target string
}

func (r *Redirect) Error() string {
	return "redirect to " + r.Target
}

// lookupAccount fetches the account a path belongs to, failing when the
// account segment does not name a configured account.
func (s *Session) lookupAccount(p vpath.Path) (account.Account, error) {
	name := p.Account()
	acc := s.accounts.Account(name)
	if !acc.Valid() {
		return acc, drive.NewError(drive.ErrUnknownAccount, p.String(),
			"%s isn't a known OneDrive account", name)
	}
	return acc, nil
}

// withAuthRetry runs fn with the account's token, and on an authentication
// failure refreshes the credential once and reruns fn with the new token.
// A second authentication failure is terminal. fn must be safe to run
// twice: verbs perform no mutation before their remote calls succeed.
func (s *Session) withAuthRetry(ctx context.Context, acc account.Account, fn func(token string) error) error {
	err := fn(acc.AccessToken)
	if err == nil || !drive.IsCode(err, drive.ErrAuthFailed) {
		return err
	}

	s.metrics.AuthRefresh()
	logger.Debug("authentication failed for %s, refreshing credential", acc.Name)

	refreshed, refreshErr := s.accounts.Refresh(ctx, acc)
	if refreshErr != nil || refreshed.AccessToken == "" {
		logger.Warn("credential refresh for %s failed: %v", acc.Name, refreshErr)
		return err
	}

	return fn(refreshed.AccessToken)
}

// observe records a completed verb invocation and passes the error through.
func (s *Session) observe(verb string, err error) error {
	outcome := "ok"
	if err != nil {
		if _, ok := err.(*Redirect); ok {
			outcome = "redirect"
		} else {
			outcome = drive.CodeOf(err).String()
		}
	}
	s.metrics.ObserveOp(verb, outcome)
	return err
}

// parsePath parses a raw URL into a virtual path, mapping parse failures
// into the domain error taxonomy.
func parsePath(raw string) (vpath.Path, error) {
	p, err := vpath.Parse(raw)
	if err != nil {
		return vpath.Path{}, drive.NewError(drive.ErrInvalidPath, raw, "%v", err)
	}
	return p, nil
}

// Zone policy helpers. The classification itself lives in vpath; these
// encode which rejections the policy table shares between verbs.

// trashUnsupported rejects operations on the trash subtree. Trash support
// is stubbed uniformly across all verbs.
func trashUnsupported(p vpath.Path) error {
	return drive.NewError(drive.ErrUnsupported, p.String(), "Trash is not supported yet.")
}

// sharedDrivesReadOnly rejects mutations under Shared Drives. Listing and
// stat are supported; everything that writes is not.
func sharedDrivesReadOnly(p vpath.Path) error {
	return drive.NewError(drive.ErrUnsupported, p.String(), "Shared drives are read-only.")
}

// sharedWithMeReadOnly rejects mutations on shared-with-me items.
func sharedWithMeReadOnly(p vpath.Path, action string) error {
	return drive.NewError(drive.ErrUnsupported, p.String(),
		"Only personal OneDrive content can be %s for now.", action)
}
