package outbound

import (
	"context"
	"io"
	"time"
)

// ArchiveStoragePort persists generated export archives.
type ArchiveStoragePort interface {
	// Put uploads an object.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// PresignGet returns a temporary download URL for key.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
