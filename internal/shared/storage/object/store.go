package object

import (
	"context"
	"io"
)

// ObjectStore saves and retrieves binary objects such as uploaded resumes and exported reports.
type ObjectStore interface {
	// Save stores an upload under the owner's namespace with a random prefix.
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey stores content at a caller-chosen key, replacing any previous object.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
