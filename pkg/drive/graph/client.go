// Package graph implements drive.Gateway against the Microsoft Graph API.
//
// The client is a thin transport: it shapes requests, decodes driveItem
// payloads and maps HTTP failures into the drive error taxonomy. It holds
// no credentials and performs no retries; the refresh-and-retry policy
// lives in the session that calls it.
package graph

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/onedrivefs/onedrivefs/pkg/drive"
)

// DefaultEndpoint is the production Microsoft Graph base URL.
const DefaultEndpoint = "https://graph.microsoft.com/v1.0"

// Config controls the HTTP transport.
type Config struct {
	// Endpoint overrides the Graph base URL (used by tests and sovereign
	// clouds). Defaults to DefaultEndpoint.
	Endpoint string

	// Timeout bounds each HTTP request. Zero means no client timeout.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string
}

// Client implements drive.Gateway over HTTPS.
type Client struct {
	http *resty.Client
}

// New creates a Graph client.
func New(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{http: c}
}

// ============================================================================
// Wire format
// ============================================================================

// wireItem is the subset of the Graph driveItem resource the worker uses.
type wireItem struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Size            int64         `json:"size"`
	WebURL          string        `json:"webUrl"`
	DownloadURL     string        `json:"@microsoft.graph.downloadUrl"`
	CreatedDateTime time.Time     `json:"createdDateTime"`
	ModifiedTime    time.Time     `json:"lastModifiedDateTime"`
	File            *wireFile     `json:"file"`
	Folder          *wireFolder   `json:"folder"`
	ParentRef       *wireItemRef  `json:"parentReference"`
	RemoteItem      *wireRemote   `json:"remoteItem"`
	CreatedBy       *wireIdentity `json:"createdBy"`
	LastModifiedBy  *wireIdentity `json:"lastModifiedBy"`
}

type wireFile struct {
	MimeType string `json:"mimeType"`
}

type wireFolder struct {
	ChildCount int `json:"childCount"`
}

type wireItemRef struct {
	DriveID string `json:"driveId"`
	ID      string `json:"id"`
	Path    string `json:"path"`
}

type wireRemote struct {
	ID        string       `json:"id"`
	Size      int64        `json:"size"`
	File      *wireFile    `json:"file"`
	Folder    *wireFolder  `json:"folder"`
	ParentRef *wireItemRef `json:"parentReference"`
}

type wireIdentity struct {
	User struct {
		DisplayName string `json:"displayName"`
	} `json:"user"`
}

type wireItemList struct {
	Value    []wireItem `json:"value"`
	NextLink string     `json:"@odata.nextLink"`
}

type wireDrive struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Quota *struct {
		Total     int64 `json:"total"`
		Remaining int64 `json:"remaining"`
	} `json:"quota"`
}

type wireDriveList struct {
	Value []wireDrive `json:"value"`
}

type wireError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (w wireItem) toItem() drive.Item {
	item := drive.Item{
		ID:          w.ID,
		Name:        w.Name,
		Size:        w.Size,
		WebURL:      w.WebURL,
		DownloadURL: w.DownloadURL,
		Created:     w.CreatedDateTime,
		Modified:    w.ModifiedTime,
		Folder:      w.Folder != nil,
	}
	if w.File != nil {
		item.MimeType = w.File.MimeType
	}
	if w.ParentRef != nil {
		item.DriveID = w.ParentRef.DriveID
		item.ParentID = w.ParentRef.ID
	}
	if w.RemoteItem != nil {
		item.RemoteItemID = w.RemoteItem.ID
		if w.RemoteItem.ParentRef != nil {
			item.RemoteDriveID = w.RemoteItem.ParentRef.DriveID
		}
		if w.RemoteItem.Folder != nil {
			item.Folder = true
		}
		if w.RemoteItem.Size > 0 {
			item.Size = w.RemoteItem.Size
		}
	}
	if w.CreatedBy != nil {
		item.CreatedBy = w.CreatedBy.User.DisplayName
	}
	if w.LastModifiedBy != nil {
		item.LastModifiedBy = w.LastModifiedBy.User.DisplayName
	}
	return item
}

// ============================================================================
// Request helpers
// ============================================================================

// itemURL renders the items endpoint for a reference: the account's own
// drive when the reference is not composite.
func itemURL(ref drive.ItemRef) string {
	if ref.DriveID != "" {
		// "root" is the Graph alias for a drive's root folder and has its
		// own endpoint form.
		if ref.ItemID == drive.RootAlias {
			return fmt.Sprintf("/drives/%s/root", url.PathEscape(ref.DriveID))
		}
		return fmt.Sprintf("/drives/%s/items/%s", url.PathEscape(ref.DriveID), url.PathEscape(ref.ItemID))
	}
	return fmt.Sprintf("/me/drive/items/%s", url.PathEscape(ref.ItemID))
}

// rootPathURL renders the path-addressed endpoint below the account drive
// root. suffix is appended inside the path form (e.g. ":/children").
func rootPathURL(relPath, suffix string) string {
	if relPath == "" {
		if suffix == "" {
			return "/me/drive/root"
		}
		return "/me/drive/root/" + strings.TrimPrefix(suffix, ":/")
	}
	return "/me/drive/root:/" + escapePath(relPath) + suffix
}

// escapePath escapes each segment of a drive-relative path, keeping the
// slashes.
func escapePath(relPath string) string {
	segments := strings.Split(relPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// apiError converts a failed resty response into a domain error, pulling
// the provider's message out of the error payload when present.
func apiError(resp *resty.Response, path string) error {
	var we wireError
	message := ""
	if err := json.Unmarshal(resp.Body(), &we); err == nil && we.Error.Message != "" {
		message = we.Error.Message
		if we.Error.Code != "" {
			message = we.Error.Code + ": " + message
		}
	}
	return drive.FromStatus(resp.StatusCode(), path, message)
}
