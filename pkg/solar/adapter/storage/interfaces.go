// Package storage defines the object store the exporters and readers go through.
// Objects are addressed by a directory ("bucket") and a name inside it.
package storage

import (
	"context"
	"io"
)

// Store reads and writes whole objects.
type Store interface {
	// Upload writes data to objectName inside dir, creating dir when needed and replacing any existing object.
	Upload(ctx context.Context, dir, objectName string, data io.Reader, contentType string) error
	// Download opens objectName inside dir. The caller closes the returned reader.
	Download(ctx context.Context, dir, objectName string) (io.ReadCloser, error)
	// Type returns the store type, e.g. "local".
	Type() string
}
