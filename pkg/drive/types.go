// Package drive defines the domain model for items stored in a OneDrive
// account and the Gateway interface the worker uses to reach the remote
// store.
//
// The worker never trusts its own state: the remote store is authoritative
// and everything here describes remote items as last observed. Identity is
// carried by opaque remote identifiers; items visible from an account that
// does not own them additionally need the owning drive's identifier, which
// is what ItemRef models.
package drive

import (
	"fmt"
	"strings"
	"time"
)

// Item is a file or folder as reported by the remote store.
type Item struct {
	// ID is the opaque remote identifier within its drive.
	ID string

	// Name is the display name (the last path segment).
	Name string

	// DriveID is the drive owning the item, when reported.
	DriveID string

	// RemoteDriveID and RemoteItemID are set on shared-with-me listings,
	// where the item is a reference into another user's drive.
	RemoteDriveID string
	RemoteItemID  string

	// ParentID is the identifier of the containing folder, when reported.
	ParentID string

	// MimeType is the provider-reported content type; empty for folders
	// and for providers that omit it.
	MimeType string

	// DownloadURL is a short-lived pre-signed content URL, when present.
	DownloadURL string

	// WebURL is the browser-facing URL of the item.
	WebURL string

	// Folder reports whether the item is a directory.
	Folder bool

	// Size in bytes; zero for folders.
	Size int64

	Created  time.Time
	Modified time.Time

	CreatedBy      string
	LastModifiedBy string
}

// RootAlias is the provider's symbolic identifier for a drive's root
// folder, usable as an ItemRef.ItemID to address the root of a drive whose
// root item identifier is not known.
const RootAlias = "root"

// ItemRef addresses a remote item, optionally qualified by the drive that
// owns it. A bare item identifier is ambiguous across drives, so items that
// live in another user's drive must carry both halves.
type ItemRef struct {
	// DriveID is the owning drive; empty means the account's own drive.
	DriveID string

	// ItemID is the item identifier within the drive.
	ItemID string
}

// IsZero reports whether the reference is empty. The empty reference
// represents "no parent" at the account-root boundary and the synthetic
// Shared Drives root, which has no single backing remote identifier.
func (r ItemRef) IsZero() bool {
	return r.DriveID == "" && r.ItemID == ""
}

// Composite reports whether the reference carries an owning drive.
func (r ItemRef) Composite() bool {
	return r.DriveID != ""
}

// Key renders the reference as a cache value: "driveId|itemId" for
// composite references, the bare item identifier otherwise.
func (r ItemRef) Key() string {
	if r.DriveID == "" {
		return r.ItemID
	}
	return r.DriveID + "|" + r.ItemID
}

// ParseKey parses a cache value produced by Key.
func ParseKey(key string) ItemRef {
	if i := strings.IndexByte(key, '|'); i >= 0 {
		return ItemRef{DriveID: key[:i], ItemID: key[i+1:]}
	}
	return ItemRef{ItemID: key}
}

// Ref returns the reference addressing this item, preferring the remote
// drive/item pair when the item is a share reference.
func (it Item) Ref() ItemRef {
	if it.RemoteDriveID != "" && it.RemoteItemID != "" {
		return ItemRef{DriveID: it.RemoteDriveID, ItemID: it.RemoteItemID}
	}
	return ItemRef{DriveID: it.DriveID, ItemID: it.ID}
}

// Info names a drive shared with the account.
type Info struct {
	ID   string
	Name string
}

// Quota reports the account drive's storage totals in bytes. Remaining is
// negative when the provider does not report it.
type Quota struct {
	Total     int64
	Remaining int64
}

func (q Quota) String() string {
	return fmt.Sprintf("total=%d remaining=%d", q.Total, q.Remaining)
}
