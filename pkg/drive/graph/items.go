package graph

import (
	"context"
	"fmt"
	"net/url"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
)

// getItem performs a GET expected to return a single driveItem.
func (c *Client) getItem(ctx context.Context, token, endpoint, path string) (*drive.Item, error) {
	var w wireItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&w).
		Get(endpoint)
	if err != nil {
		return nil, drive.NewError(drive.ErrRemote, path, "remote request failed: %v", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, path)
	}

	item := w.toItem()
	return &item, nil
}

// listItems performs GET requests following @odata.nextLink pagination and
// returns the concatenated children.
func (c *Client) listItems(ctx context.Context, token, endpoint, path string) ([]drive.Item, error) {
	var items []drive.Item
	next := endpoint

	for next != "" {
		var w wireItemList
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetResult(&w).
			Get(next)
		if err != nil {
			return nil, drive.NewError(drive.ErrRemote, path, "remote request failed: %v", err)
		}
		if resp.IsError() {
			return nil, apiError(resp, path)
		}

		for _, wi := range w.Value {
			items = append(items, wi.toItem())
		}
		next = w.NextLink
	}

	return items, nil
}

func (c *Client) ItemByPath(ctx context.Context, token, relPath string) (*drive.Item, error) {
	return c.getItem(ctx, token, rootPathURL(relPath, ""), "/"+relPath)
}

func (c *Client) ItemByRef(ctx context.Context, token string, ref drive.ItemRef) (*drive.Item, error) {
	return c.getItem(ctx, token, itemURL(ref), ref.Key())
}

func (c *Client) DriveItemByPath(ctx context.Context, token string, root drive.ItemRef, relPath string) (*drive.Item, error) {
	endpoint := fmt.Sprintf("%s:/%s:", itemURL(root), escapePath(relPath))
	return c.getItem(ctx, token, endpoint, relPath)
}

func (c *Client) Children(ctx context.Context, token string, ref drive.ItemRef) ([]drive.Item, error) {
	endpoint := "/me/drive/root/children"
	if !ref.IsZero() {
		endpoint = itemURL(ref) + "/children"
	}
	return c.listItems(ctx, token, endpoint, ref.Key())
}

func (c *Client) ChildrenByPath(ctx context.Context, token, relPath string) ([]drive.Item, error) {
	return c.listItems(ctx, token, rootPathURL(relPath, ":/children"), "/"+relPath)
}

func (c *Client) SharedWithMe(ctx context.Context, token string) ([]drive.Item, error) {
	return c.listItems(ctx, token, "/me/drive/sharedWithMe", "")
}

func (c *Client) SharedDrives(ctx context.Context, token string) ([]drive.Info, error) {
	var w wireDriveList
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&w).
		Get("/me/drives")
	if err != nil {
		return nil, drive.NewError(drive.ErrRemote, "", "remote request failed: %v", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "")
	}

	drives := make([]drive.Info, 0, len(w.Value))
	for _, d := range w.Value {
		drives = append(drives, drive.Info{ID: d.ID, Name: d.Name})
	}
	return drives, nil
}

func (c *Client) CreateFolder(ctx context.Context, token string, parent drive.ItemRef, name string) (*drive.Item, error) {
	endpoint := "/me/drive/root/children"
	if !parent.IsZero() {
		endpoint = itemURL(parent) + "/children"
	}

	var w wireItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]any{
			"name":                              name,
			"folder":                            map[string]any{},
			"@microsoft.graph.conflictBehavior": "fail",
		}).
		SetResult(&w).
		Post(endpoint)
	if err != nil {
		return nil, drive.NewError(drive.ErrRemote, name, "remote request failed: %v", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, name)
	}

	item := w.toItem()
	return &item, nil
}

func (c *Client) Delete(ctx context.Context, token string, ref drive.ItemRef) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(itemURL(ref))
	if err != nil {
		return drive.NewError(drive.ErrRemote, ref.Key(), "remote request failed: %v", err)
	}
	if resp.IsError() {
		return apiError(resp, ref.Key())
	}
	return nil
}

func (c *Client) Update(ctx context.Context, token string, ref drive.ItemRef, newName, newParentPath string) (*drive.Item, error) {
	body := map[string]any{}
	if newName != "" {
		body["name"] = newName
	}
	if newParentPath != "" {
		body["parentReference"] = map[string]string{"path": newParentPath}
	}

	var w wireItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(&w).
		Patch(itemURL(ref))
	if err != nil {
		return nil, drive.NewError(drive.ErrRemote, ref.Key(), "remote request failed: %v", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, ref.Key())
	}

	item := w.toItem()
	return &item, nil
}

func (c *Client) Quota(ctx context.Context, token string) (*drive.Quota, error) {
	var w wireDrive
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&w).
		Get("/me/drive")
	if err != nil {
		return nil, drive.NewError(drive.ErrRemote, "", "remote request failed: %v", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "")
	}

	quota := &drive.Quota{Total: 0, Remaining: -1}
	if w.Quota != nil {
		quota.Total = w.Quota.Total
		quota.Remaining = w.Quota.Remaining
	} else {
		logger.Debug("drive %s reported no quota facet", w.ID)
	}
	return quota, nil
}

// monitorURL validates that a copy monitor location is an absolute URL
// before polling it.
func monitorURL(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil || !u.IsAbs() {
		return "", fmt.Errorf("invalid copy monitor location %q", location)
	}
	return location, nil
}
