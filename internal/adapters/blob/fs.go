// Package blob provides a filesystem-backed implementation of the BlobStore
// port used for event images.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"gatherly/internal/domain"
)

type fsStore struct {
	dir string
}

// NewFSStore returns a BlobStore that writes files under dir, creating it if
// needed. Names are generated, never caller-supplied, so a stored name is
// always safe to join back onto dir.
func NewFSStore(dir string) (domain.BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create uploads dir: %v", domain.ErrStorage, err)
	}
	return &fsStore{dir: dir}, nil
}

func (s *fsStore) Store(ctx context.Context, content io.Reader, extension string) (string, error) {
	name := uuid.NewString()
	if ext := sanitizeExtension(extension); ext != "" {
		name += "." + ext
	}
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create blob file: %v", domain.ErrStorage, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: write blob: %v", domain.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: close blob: %v", domain.ErrStorage, err)
	}
	return name, nil
}

// Delete removes the named blob. A missing blob is a no-op.
func (s *fsStore) Delete(ctx context.Context, name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: invalid blob name %q", domain.ErrStorage, name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete blob: %v", domain.ErrStorage, err)
	}
	return nil
}

// sanitizeExtension keeps only alphanumeric characters of the hint, lowercased.
func sanitizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
