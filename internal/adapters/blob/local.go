package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harusports/teamsite/pkg/metrics"
)

// ErrInvalidPath rejects paths that would escape the store root.
var ErrInvalidPath = errors.New("invalid blob path")

// LocalStore implements Store on the local filesystem. Files live under
// root and are served by the HTTP layer under urlPrefix.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates a store rooted at dir. urlPrefix is the public
// path files are served under, e.g. "/files".
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{root: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Save writes the reader's content under path, creating parents.
func (s *LocalStore) Save(ctx context.Context, path string, r io.Reader) (string, int64, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", 0, fmt.Errorf("create attachment directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", 0, fmt.Errorf("create attachment file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", 0, fmt.Errorf("write attachment: %w", err)
	}

	metrics.RecordUploadBytes(n)
	return s.urlPrefix + "/" + filepath.ToSlash(filepath.Clean(path)), n, nil
}

// Delete removes a stored file, ignoring files already gone.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

// Open returns a stored file for serving.
func (s *LocalStore) Open(path string) (io.ReadSeekCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return f, nil
}

// resolve maps a store path to a filesystem path, rejecting traversal.
func (s *LocalStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" || strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return filepath.Join(s.root, clean), nil
}
