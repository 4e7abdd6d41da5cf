// Package vpath parses and classifies virtual OneDrive paths.
//
// Every inbound URL of the form onedrive:/<account>/<path> is parsed into a
// Path: an immutable sequence of segments with the trailing slash stripped
// and empty segments removed. The Zone of a Path is computed by a single
// total function over the segment count and the second segment, so no two
// zone categories can ever both apply to the same path.
package vpath

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the URL scheme handled by the worker.
const Scheme = "onedrive"

// Reserved segment names. SharedWithMeDir and SharedDrivesDir are synthetic
// directories under every account root; TrashDir and NewAccountDir are
// reserved names recognized by classification.
const (
	SharedWithMeDir = "Shared With Me"
	SharedDrivesDir = "Shared Drives"
	TrashDir        = "trash"
	NewAccountDir   = "new-account"
)

// Zone identifies the semantic category of a virtual path. Exactly one zone
// applies to any path.
type Zone int

const (
	// ZoneRoot is the synthetic top level listing accounts (no segments).
	ZoneRoot Zone = iota

	// ZoneNewAccount is the reserved one-segment "new-account" path.
	ZoneNewAccount

	// ZoneAccountRoot is a one-segment path naming an account.
	ZoneAccountRoot

	// ZoneSharedWithMeRoot is /<account>/Shared With Me.
	ZoneSharedWithMeRoot

	// ZoneSharedWithMeTopLevel is a direct child of the Shared With Me
	// root (exactly three segments). It is flagged separately because it
	// has no intermediate parent to resolve against: the child itself is
	// a share root.
	ZoneSharedWithMeTopLevel

	// ZoneSharedWithMe is any path nested below the Shared With Me root
	// deeper than the top level.
	ZoneSharedWithMe

	// ZoneSharedDrivesRoot is /<account>/Shared Drives.
	ZoneSharedDrivesRoot

	// ZoneSharedDrive is /<account>/Shared Drives/<drive>, where <drive>
	// may be either the drive's display name or its raw identifier.
	ZoneSharedDrive

	// ZoneTrashRoot is /<account>/trash.
	ZoneTrashRoot

	// ZoneTrashed is any path nested below the trash root.
	ZoneTrashed

	// ZoneTopLevel is an ordinary two-segment path: a direct child of an
	// account root that is not one of the reserved directories.
	ZoneTopLevel

	// ZonePersonal is every other nested path under an account.
	ZonePersonal
)

func (z Zone) String() string {
	switch z {
	case ZoneRoot:
		return "root"
	case ZoneNewAccount:
		return "new-account"
	case ZoneAccountRoot:
		return "account-root"
	case ZoneSharedWithMeRoot:
		return "shared-with-me-root"
	case ZoneSharedWithMeTopLevel:
		return "shared-with-me-top-level"
	case ZoneSharedWithMe:
		return "shared-with-me"
	case ZoneSharedDrivesRoot:
		return "shared-drives-root"
	case ZoneSharedDrive:
		return "shared-drive"
	case ZoneTrashRoot:
		return "trash-root"
	case ZoneTrashed:
		return "trashed"
	case ZoneTopLevel:
		return "top-level"
	case ZonePersonal:
		return "personal"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// Path is an immutable parsed virtual path. Two Paths with the same segment
// sequence are equivalent regardless of whether the original URL carried a
// trailing slash.
type Path struct {
	segments []string
	idHint   string
}

// Parse accepts either a full onedrive:/ URL or a bare path and returns the
// parsed Path. The optional "id" query parameter is captured as an
// identifier hint that operations may use to skip path resolution.
func Parse(raw string) (Path, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Path{}, fmt.Errorf("invalid path %q: %w", raw, err)
	}
	if u.Scheme != "" && u.Scheme != Scheme {
		return Path{}, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}

	p := u.Path
	// URLs of the form onedrive:/foo parse with an opaque part instead of
	// a path; treat it the same.
	if p == "" && u.Opaque != "" {
		p = u.Opaque
	}

	return Path{
		segments: splitSegments(p),
		idHint:   u.Query().Get("id"),
	}, nil
}

// New builds a Path directly from a slash-separated path string, without
// URL parsing. Used internally when synthesizing paths for cache keys.
func New(path string) Path {
	return Path{segments: splitSegments(path)}
}

func splitSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Zone classifies the path. This is the only place zone membership is
// decided; all predicates below derive from it.
func (p Path) Zone() Zone {
	switch n := len(p.segments); {
	case n == 0:
		return ZoneRoot
	case n == 1:
		if p.segments[0] == NewAccountDir {
			return ZoneNewAccount
		}
		return ZoneAccountRoot
	case n == 2:
		switch p.segments[1] {
		case SharedWithMeDir:
			return ZoneSharedWithMeRoot
		case SharedDrivesDir:
			return ZoneSharedDrivesRoot
		case TrashDir:
			return ZoneTrashRoot
		default:
			return ZoneTopLevel
		}
	default:
		switch p.segments[1] {
		case SharedWithMeDir:
			if n == 3 {
				return ZoneSharedWithMeTopLevel
			}
			return ZoneSharedWithMe
		case SharedDrivesDir:
			if n == 3 {
				return ZoneSharedDrive
			}
			return ZonePersonal
		case TrashDir:
			return ZoneTrashed
		default:
			return ZonePersonal
		}
	}
}

// IsRoot reports whether the path is the synthetic root.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// IsSharedWithMe reports whether the path is anywhere below the Shared With
// Me root (top level included).
func (p Path) IsSharedWithMe() bool {
	z := p.Zone()
	return z == ZoneSharedWithMe || z == ZoneSharedWithMeTopLevel
}

// IsPersonal reports whether the path addresses ordinary account content:
// a top-level child or a deeper nested path outside the reserved subtrees.
func (p Path) IsPersonal() bool {
	z := p.Zone()
	return z == ZoneTopLevel || z == ZonePersonal
}

// Account returns the account segment, or "" for the root and the reserved
// new-account path.
func (p Path) Account() string {
	switch p.Zone() {
	case ZoneRoot, ZoneNewAccount:
		return ""
	default:
		return p.segments[0]
	}
}

// Filename returns the last segment, or "" for the root.
func (p Path) Filename() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// ParentPath returns all segments except the last as a leading-slash path,
// or "" for the root.
func (p Path) ParentPath() string {
	if len(p.segments) == 0 {
		return ""
	}
	return "/" + strings.Join(p.segments[:len(p.segments)-1], "/")
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segment returns segment i. Panics if out of range, like slice indexing.
func (p Path) Segment(i int) string {
	return p.segments[i]
}

// RelativePath returns the segments after the account joined with slashes:
// the path of the item relative to the account's drive root. Empty for the
// root and account-root paths.
func (p Path) RelativePath() string {
	if len(p.segments) < 2 {
		return ""
	}
	return strings.Join(p.segments[1:], "/")
}

// RelativeParentPath returns the drive-relative path of the parent
// directory, or "" when the parent is the drive root itself.
func (p Path) RelativeParentPath() string {
	if len(p.segments) <= 2 {
		return ""
	}
	return strings.Join(p.segments[1:len(p.segments)-1], "/")
}

// IDHint returns the remote identifier carried in the "id" query parameter,
// or "" when absent.
func (p Path) IDHint() string {
	return p.idHint
}

// String renders the path in canonical leading-slash form with no trailing
// slash. The root renders as "/".
func (p Path) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}

// SharedDrivePath builds the canonical path of a shared drive entry, used
// to key the cache by both drive name and drive identifier.
func SharedDrivePath(account, drive string) string {
	return fmt.Sprintf("/%s/%s/%s", account, SharedDrivesDir, drive)
}

// SharedWithMePath builds the canonical path of a share root under an
// account's Shared With Me directory.
func SharedWithMePath(account, name string) string {
	return fmt.Sprintf("/%s/%s/%s", account, SharedWithMeDir, name)
}
