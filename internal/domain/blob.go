package domain

import (
	"context"
	"io"
)

// BlobStore stores event image bytes under a generated stable name.
// Delete of a name that does not exist is a no-op, not an error.
type BlobStore interface {
	Store(ctx context.Context, content io.Reader, extension string) (name string, err error)
	Delete(ctx context.Context, name string) error
}
