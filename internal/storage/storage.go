package storage

import (
	"context"
	"io"
)

// BlobStore uploads files and hands back a publicly reachable URL.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
