package fs

import (
	"context"
	"io"

	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/metrics"
)

// instrumentedGateway counts every remote call by operation name before
// delegating. It adds no behavior and no retries.
type instrumentedGateway struct {
	next drive.Gateway
	m    metrics.SessionMetrics
}

func (g *instrumentedGateway) ItemByPath(ctx context.Context, token, relPath string) (*drive.Item, error) {
	g.m.GatewayCall("item_by_path")
	return g.next.ItemByPath(ctx, token, relPath)
}

func (g *instrumentedGateway) ItemByRef(ctx context.Context, token string, ref drive.ItemRef) (*drive.Item, error) {
	g.m.GatewayCall("item_by_ref")
	return g.next.ItemByRef(ctx, token, ref)
}

func (g *instrumentedGateway) DriveItemByPath(ctx context.Context, token string, root drive.ItemRef, relPath string) (*drive.Item, error) {
	g.m.GatewayCall("drive_item_by_path")
	return g.next.DriveItemByPath(ctx, token, root, relPath)
}

func (g *instrumentedGateway) Children(ctx context.Context, token string, ref drive.ItemRef) ([]drive.Item, error) {
	g.m.GatewayCall("children")
	return g.next.Children(ctx, token, ref)
}

func (g *instrumentedGateway) ChildrenByPath(ctx context.Context, token, relPath string) ([]drive.Item, error) {
	g.m.GatewayCall("children_by_path")
	return g.next.ChildrenByPath(ctx, token, relPath)
}

func (g *instrumentedGateway) SharedWithMe(ctx context.Context, token string) ([]drive.Item, error) {
	g.m.GatewayCall("shared_with_me")
	return g.next.SharedWithMe(ctx, token)
}

func (g *instrumentedGateway) SharedDrives(ctx context.Context, token string) ([]drive.Info, error) {
	g.m.GatewayCall("shared_drives")
	return g.next.SharedDrives(ctx, token)
}

func (g *instrumentedGateway) Download(ctx context.Context, token string, item *drive.Item, w io.Writer) (int64, error) {
	g.m.GatewayCall("download")
	return g.next.Download(ctx, token, item, w)
}

func (g *instrumentedGateway) Upload(ctx context.Context, token, relPath string, src io.Reader, mimeType string) (*drive.Item, error) {
	g.m.GatewayCall("upload")
	return g.next.Upload(ctx, token, relPath, src, mimeType)
}

func (g *instrumentedGateway) UploadByRef(ctx context.Context, token string, ref drive.ItemRef, src io.Reader, mimeType string) (*drive.Item, error) {
	g.m.GatewayCall("upload_by_ref")
	return g.next.UploadByRef(ctx, token, ref, src, mimeType)
}

func (g *instrumentedGateway) CreateFolder(ctx context.Context, token string, parent drive.ItemRef, name string) (*drive.Item, error) {
	g.m.GatewayCall("create_folder")
	return g.next.CreateFolder(ctx, token, parent, name)
}

func (g *instrumentedGateway) Delete(ctx context.Context, token string, ref drive.ItemRef) error {
	g.m.GatewayCall("delete")
	return g.next.Delete(ctx, token, ref)
}

func (g *instrumentedGateway) Update(ctx context.Context, token string, ref drive.ItemRef, newName, newParentPath string) (*drive.Item, error) {
	g.m.GatewayCall("update")
	return g.next.Update(ctx, token, ref, newName, newParentPath)
}

func (g *instrumentedGateway) Copy(ctx context.Context, token string, src drive.ItemRef, destName, destParentPath string) (*drive.Item, error) {
	g.m.GatewayCall("copy")
	return g.next.Copy(ctx, token, src, destName, destParentPath)
}

func (g *instrumentedGateway) Quota(ctx context.Context, token string) (*drive.Quota, error) {
	g.m.GatewayCall("quota")
	return g.next.Quota(ctx, token)
}
