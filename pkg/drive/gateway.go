package drive

import (
	"context"
	"io"
)

// Gateway is the remote store the worker talks to.
//
// Every call takes a bearer token; the gateway holds no credentials of its
// own. Callers own the refresh-and-retry policy: the gateway maps HTTP
// 401/403 to ErrAuthFailed and never retries internally (see the session's
// single refresh-retry).
//
// Path parameters are drive-relative paths (segments after the account,
// slash-joined, no leading slash). An empty relative path addresses the
// drive root.
//
// Implementations are not required to be safe for concurrent use; the
// worker issues one call at a time.
type Gateway interface {
	// ItemByPath resolves an item in the account's own drive by relative
	// path. The empty path resolves the drive root itself.
	ItemByPath(ctx context.Context, token, relPath string) (*Item, error)

	// ItemByRef resolves an item by reference, in the account's own drive
	// when ref is not composite.
	ItemByRef(ctx context.Context, token string, ref ItemRef) (*Item, error)

	// DriveItemByPath resolves a path relative to an item in a foreign
	// drive. Used to descend below a share root.
	DriveItemByPath(ctx context.Context, token string, root ItemRef, relPath string) (*Item, error)

	// Children lists the direct children of an item. A zero ref lists the
	// account drive's root children.
	Children(ctx context.Context, token string, ref ItemRef) ([]Item, error)

	// ChildrenByPath lists the direct children of a folder in the
	// account's own drive by relative path.
	ChildrenByPath(ctx context.Context, token, relPath string) ([]Item, error)

	// SharedWithMe lists the items other users have shared with the
	// account. Each returned item carries RemoteDriveID/RemoteItemID.
	SharedWithMe(ctx context.Context, token string) ([]Item, error)

	// SharedDrives lists the document libraries / drives shared with the
	// account.
	SharedDrives(ctx context.Context, token string) ([]Info, error)

	// Download streams the item's content to w and returns the number of
	// bytes written. When the item carries a pre-signed DownloadURL the
	// gateway tries it anonymously first and falls back to an
	// authenticated content request.
	Download(ctx context.Context, token string, item *Item, w io.Writer) (int64, error)

	// Upload creates or replaces content at a relative path in the
	// account's own drive and returns the resulting item.
	Upload(ctx context.Context, token, relPath string, src io.Reader, mimeType string) (*Item, error)

	// UploadByRef replaces the content of an existing item.
	UploadByRef(ctx context.Context, token string, ref ItemRef, src io.Reader, mimeType string) (*Item, error)

	// CreateFolder creates a child folder under parent and returns it.
	CreateFolder(ctx context.Context, token string, parent ItemRef, name string) (*Item, error)

	// Delete removes an item.
	Delete(ctx context.Context, token string, ref ItemRef) error

	// Update renames and/or moves an item. newName is ignored when empty;
	// newParentPath is a provider-form parent path ("/drive/root:" or
	// "/drive/root:/a/b") and is ignored when empty.
	Update(ctx context.Context, token string, ref ItemRef, newName, newParentPath string) (*Item, error)

	// Copy copies an item to a new name under a provider-form parent
	// path. The provider performs copies asynchronously; implementations
	// wait for completion and return the copied item when the provider
	// reports it.
	Copy(ctx context.Context, token string, src ItemRef, destName, destParentPath string) (*Item, error)

	// Quota fetches the account drive's storage totals.
	Quota(ctx context.Context, token string) (*Quota, error)
}

// ParentAPIPath renders a drive-relative parent path in the provider form
// expected by Update and Copy: "/drive/root:" for the drive root, else
// "/drive/root:/a/b".
func ParentAPIPath(relParent string) string {
	if relParent == "" {
		return "/drive/root:"
	}
	return "/drive/root:/" + relParent
}
