package fs

import "context"

// MimeType returns the mime type of the item at a path. Synthetic folders
// and remote folders report "inode/directory"; files report the remote
// type with an extension-based fallback.
func (s *Session) MimeType(ctx context.Context, raw string) (string, error) {
	entry, err := s.stat(ctx, raw)
	if err != nil {
		return "", s.observe("mimetype", err)
	}
	return entry.MimeType, s.observe("mimetype", nil)
}
