package fs

import (
	iofs "io/fs"
	"mime"
	"path/filepath"
	"time"

	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/vpath"
)

const (
	folderMimeType  = "inode/directory"
	defaultMimeType = "application/octet-stream"
)

// Entry is one directory entry or stat result.
type Entry struct {
	Name        string
	DisplayName string
	Folder      bool
	Size        int64
	Access      iofs.FileMode
	MimeType    string
	Icon        string

	Created  time.Time
	Modified time.Time

	RemoteID       string
	WebURL         string
	CreatedBy      string
	LastModifiedBy string
}

// entryFromItem maps a remote item to a directory entry. The remote side
// carries no mime type for folders, and for files the type reported by the
// service is authoritative; when it is absent the extension decides.
func entryFromItem(item *drive.Item) Entry {
	e := Entry{
		Name:           item.Name,
		DisplayName:    item.Name,
		Folder:         item.Folder,
		Size:           item.Size,
		MimeType:       item.MimeType,
		Created:        item.Created,
		Modified:       item.Modified,
		RemoteID:       item.ID,
		WebURL:         item.WebURL,
		CreatedBy:      item.CreatedBy,
		LastModifiedBy: item.LastModifiedBy,
	}

	if e.Folder {
		e.Access = 0o700 | iofs.ModeDir
		e.MimeType = folderMimeType
	} else {
		e.Access = 0o600
		if e.MimeType == "" {
			e.MimeType = mimeTypeForName(item.Name)
		}
	}
	return e
}

// mimeTypeForName guesses a file's mime type from its extension.
func mimeTypeForName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultMimeType
}

// Synthetic entries for the virtual layers above each account's content.

func rootEntry() Entry {
	return Entry{
		Name:     "/",
		Folder:   true,
		Access:   0o700 | iofs.ModeDir,
		MimeType: folderMimeType,
		Icon:     "folder-onedrive",
	}
}

func accountEntry(name string) Entry {
	return Entry{
		Name:     name,
		Folder:   true,
		Access:   0o700 | iofs.ModeDir,
		MimeType: folderMimeType,
		Icon:     "im-msn",
	}
}

func newAccountEntry() Entry {
	return Entry{
		Name:        vpath.NewAccountDir,
		DisplayName: "New account",
		Folder:      true,
		Access:      0o700 | iofs.ModeDir,
		MimeType:    folderMimeType,
		Icon:        "list-add-user",
	}
}

func sharedWithMeEntry() Entry {
	return Entry{
		Name:     vpath.SharedWithMeDir,
		Folder:   true,
		Access:   0o500 | iofs.ModeDir,
		MimeType: folderMimeType,
		Icon:     "folder-publicshare",
	}
}

func sharedDrivesEntry() Entry {
	return Entry{
		Name:     vpath.SharedDrivesDir,
		Folder:   true,
		Access:   0o500 | iofs.ModeDir,
		MimeType: folderMimeType,
		Icon:     "folder-publicshare",
	}
}

func sharedDriveEntry(info drive.Info) Entry {
	name := info.Name
	if name == "" {
		name = info.ID
	}
	return Entry{
		Name:        name,
		DisplayName: name,
		Folder:      true,
		Access:      0o500 | iofs.ModeDir,
		MimeType:    folderMimeType,
		Icon:        "folder-publicshare",
		RemoteID:    info.ID,
	}
}
