package fs

import (
	"bytes"
	"context"
	"io"
	"sort"
	"testing"

	"github.com/onedrivefs/onedrivefs/pkg/account"
	"github.com/onedrivefs/onedrivefs/pkg/cache"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/metrics"
)

// fakeGateway is an in-memory Gateway with per-operation call counting.
// Items in the account's own drive are addressed by relative path; items
// in foreign drives by reference.
type fakeGateway struct {
	// byPath holds own-drive items by relative path ("" is the root).
	byPath map[string]*drive.Item

	// byRef holds items addressable by reference.
	byRef map[drive.ItemRef]*drive.Item

	// childrenOf holds children lists keyed by ItemRef.Key() ("" for the
	// own drive root).
	childrenOf map[string][]drive.Item

	// foreign holds foreign-drive items keyed by root.Key() + ":" + relPath.
	foreign map[string]*drive.Item

	shared []drive.Item
	drives []drive.Info
	quota  drive.Quota

	// content holds file bytes by item identifier.
	content map[string][]byte

	// uploads records the body written by Upload/UploadByRef, keyed by
	// relative path or ref key.
	uploads map[string][]byte

	deleted []drive.ItemRef

	// authFailures makes the next N calls fail authentication.
	authFailures int

	calls     map[string]int
	lastToken string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		byPath:     map[string]*drive.Item{"": {ID: "root-id", Name: "root", Folder: true}},
		byRef:      make(map[drive.ItemRef]*drive.Item),
		childrenOf: make(map[string][]drive.Item),
		foreign:    make(map[string]*drive.Item),
		content:    make(map[string][]byte),
		uploads:    make(map[string][]byte),
		calls:      make(map[string]int),
	}
}

func (g *fakeGateway) addFile(relPath, id string, body []byte) *drive.Item {
	item := &drive.Item{ID: id, Name: lastSegment(relPath), Size: int64(len(body)), MimeType: "text/plain"}
	g.byPath[relPath] = item
	g.content[id] = body
	return item
}

func (g *fakeGateway) addFolder(relPath, id string) *drive.Item {
	item := &drive.Item{ID: id, Name: lastSegment(relPath), Folder: true}
	g.byPath[relPath] = item
	return item
}

func lastSegment(relPath string) string {
	for i := len(relPath) - 1; i >= 0; i-- {
		if relPath[i] == '/' {
			return relPath[i+1:]
		}
	}
	return relPath
}

func (g *fakeGateway) gate(op, token string) error {
	g.calls[op]++
	g.lastToken = token
	if g.authFailures > 0 {
		g.authFailures--
		return drive.NewError(drive.ErrAuthFailed, "", "authentication failed (HTTP 401)")
	}
	return nil
}

func (g *fakeGateway) ItemByPath(ctx context.Context, token, relPath string) (*drive.Item, error) {
	if err := g.gate("item_by_path", token); err != nil {
		return nil, err
	}
	if item, ok := g.byPath[relPath]; ok {
		return item, nil
	}
	return nil, drive.NewError(drive.ErrNotFound, relPath, "item does not exist")
}

func (g *fakeGateway) ItemByRef(ctx context.Context, token string, ref drive.ItemRef) (*drive.Item, error) {
	if err := g.gate("item_by_ref", token); err != nil {
		return nil, err
	}
	if item, ok := g.byRef[ref]; ok {
		return item, nil
	}
	return nil, drive.NewError(drive.ErrNotFound, ref.Key(), "item does not exist")
}

func (g *fakeGateway) DriveItemByPath(ctx context.Context, token string, root drive.ItemRef, relPath string) (*drive.Item, error) {
	if err := g.gate("drive_item_by_path", token); err != nil {
		return nil, err
	}
	if item, ok := g.foreign[root.Key()+":"+relPath]; ok {
		return item, nil
	}
	return nil, drive.NewError(drive.ErrNotFound, relPath, "item does not exist")
}

func (g *fakeGateway) Children(ctx context.Context, token string, ref drive.ItemRef) ([]drive.Item, error) {
	if err := g.gate("children", token); err != nil {
		return nil, err
	}
	return g.childrenOf[ref.Key()], nil
}

func (g *fakeGateway) ChildrenByPath(ctx context.Context, token, relPath string) ([]drive.Item, error) {
	if err := g.gate("children_by_path", token); err != nil {
		return nil, err
	}
	if _, ok := g.byPath[relPath]; !ok {
		return nil, drive.NewError(drive.ErrNotFound, relPath, "item does not exist")
	}
	var out []drive.Item
	for _, it := range g.childrenOf[relPath] {
		out = append(out, it)
	}
	return out, nil
}

func (g *fakeGateway) SharedWithMe(ctx context.Context, token string) ([]drive.Item, error) {
	if err := g.gate("shared_with_me", token); err != nil {
		return nil, err
	}
	return g.shared, nil
}

func (g *fakeGateway) SharedDrives(ctx context.Context, token string) ([]drive.Info, error) {
	if err := g.gate("shared_drives", token); err != nil {
		return nil, err
	}
	return g.drives, nil
}

func (g *fakeGateway) Download(ctx context.Context, token string, item *drive.Item, w io.Writer) (int64, error) {
	if err := g.gate("download", token); err != nil {
		return 0, err
	}
	body, ok := g.content[item.ID]
	if !ok {
		return 0, drive.NewError(drive.ErrNotFound, item.Name, "no content")
	}
	n, err := w.Write(body)
	return int64(n), err
}

func (g *fakeGateway) Upload(ctx context.Context, token, relPath string, src io.Reader, mimeType string) (*drive.Item, error) {
	if err := g.gate("upload", token); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, err
	}
	g.uploads[relPath] = buf.Bytes()
	return &drive.Item{ID: "up-" + relPath, Name: lastSegment(relPath), Size: int64(buf.Len()), MimeType: mimeType}, nil
}

func (g *fakeGateway) UploadByRef(ctx context.Context, token string, ref drive.ItemRef, src io.Reader, mimeType string) (*drive.Item, error) {
	if err := g.gate("upload_by_ref", token); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, err
	}
	g.uploads[ref.Key()] = buf.Bytes()
	return &drive.Item{ID: ref.ItemID, Size: int64(buf.Len()), MimeType: mimeType}, nil
}

func (g *fakeGateway) CreateFolder(ctx context.Context, token string, parent drive.ItemRef, name string) (*drive.Item, error) {
	if err := g.gate("create_folder", token); err != nil {
		return nil, err
	}
	for _, child := range g.childrenOf[parent.Key()] {
		if child.Name == name {
			return nil, drive.NewError(drive.ErrAlreadyExists, name, "item already exists")
		}
	}
	return &drive.Item{ID: "folder-" + name, Name: name, Folder: true}, nil
}

func (g *fakeGateway) Delete(ctx context.Context, token string, ref drive.ItemRef) error {
	if err := g.gate("delete", token); err != nil {
		return err
	}
	g.deleted = append(g.deleted, ref)
	return nil
}

func (g *fakeGateway) Update(ctx context.Context, token string, ref drive.ItemRef, newName, newParentPath string) (*drive.Item, error) {
	if err := g.gate("update", token); err != nil {
		return nil, err
	}
	name := newName
	if name == "" {
		name = "unchanged"
	}
	return &drive.Item{ID: ref.ItemID, Name: name}, nil
}

func (g *fakeGateway) Copy(ctx context.Context, token string, src drive.ItemRef, destName, destParentPath string) (*drive.Item, error) {
	if err := g.gate("copy", token); err != nil {
		return nil, err
	}
	return &drive.Item{ID: "copy-of-" + src.ItemID, Name: destName}, nil
}

func (g *fakeGateway) Quota(ctx context.Context, token string) (*drive.Quota, error) {
	if err := g.gate("quota", token); err != nil {
		return nil, err
	}
	q := g.quota
	return &q, nil
}

// fakeDirectory is an in-memory account.Directory.
type fakeDirectory struct {
	accounts  map[string]account.Account
	created   account.Account
	createErr error
	refreshes int
	removed   []string
}

func newFakeDirectory(names ...string) *fakeDirectory {
	d := &fakeDirectory{accounts: make(map[string]account.Account)}
	for _, name := range names {
		d.accounts[name] = account.Account{Name: name, AccessToken: "token-" + name, RefreshToken: "refresh-" + name}
	}
	return d
}

func (d *fakeDirectory) Account(name string) account.Account {
	return d.accounts[name]
}

func (d *fakeDirectory) Create(ctx context.Context) (account.Account, error) {
	return d.created, d.createErr
}

func (d *fakeDirectory) Refresh(ctx context.Context, acc account.Account) (account.Account, error) {
	d.refreshes++
	acc.AccessToken = "fresh-token"
	d.accounts[acc.Name] = acc
	return acc, nil
}

func (d *fakeDirectory) Remove(name string) error {
	delete(d.accounts, name)
	d.removed = append(d.removed, name)
	return nil
}

func (d *fakeDirectory) Names() []string {
	var names []string
	for name := range d.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newTestSession wires a session over the fakes with an account "alice".
func newTestSession(t *testing.T, gw *fakeGateway) (*Session, *fakeDirectory) {
	t.Helper()
	dir := newFakeDirectory("alice")
	s := NewSession(dir, gw, cache.NewMemory(), metrics.NewSessionMetrics())
	return s, dir
}
