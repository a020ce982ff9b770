package repository

import "context"

// KV is a single-key medium holding the serialized collection.
// Get returns nil, nil when the key was never written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
