// Package blob stores uploaded attachment files.
package blob

import (
	"context"
	"io"
)

// Store abstracts the attachment file backend.
type Store interface {
	// Save writes the reader's content under path and returns the public
	// URL and the number of bytes written.
	Save(ctx context.Context, path string, r io.Reader) (url string, size int64, err error)

	// Delete removes a stored file. Best-effort: deleting a file that is
	// already gone is not an error.
	Delete(ctx context.Context, path string) error

	// Open returns the content of a stored file for serving.
	Open(path string) (io.ReadSeekCloser, error)
}
