// Package storage provides named byte slots: small blobs addressed by key that
// back best-effort local state such as the newsletter subscriber list.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Load when nothing has been saved under the key.
var ErrNotFound = errors.New("storage: slot not found")

// Slot reads and writes whole values under a key. Implementations must be
// safe for concurrent use.
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Closer is implemented by slots holding a connection or file handle.
type Closer interface {
	Close() error
}

// Open selects a slot backend from a DSN:
//
//	memory:
//	file:<dir>
//	sqlite:<path>
//	redis://[user:pass@]host:port/db
//	s3://bucket/prefix
func Open(ctx context.Context, dsn string) (Slot, error) {
	switch {
	case dsn == "" || dsn == "memory:":
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "file:"):
		return NewFile(strings.TrimPrefix(dsn, "file:"))
	case strings.HasPrefix(dsn, "sqlite:"):
		return NewSQLite(strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return NewRedis(ctx, dsn, "thunderbolt:")
	case strings.HasPrefix(dsn, "s3://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(dsn, "s3://"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("storage: s3 dsn %q has no bucket", dsn)
		}
		return NewS3FromEnv(ctx, bucket, prefix)
	default:
		return nil, fmt.Errorf("storage: unsupported dsn %q", dsn)
	}
}

// Close closes slot if it holds resources.
func Close(slot Slot) error {
	if c, ok := slot.(Closer); ok {
		return c.Close()
	}
	return nil
}
