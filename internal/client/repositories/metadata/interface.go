// Package metadata is the client's durable key/value store. It survives
// process restarts and backs the offline action queue.
package metadata

import (
	"context"
)

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning nil deletes the key.
type UpdateFunc func(current []byte) ([]byte, error)

// Repository is a generic key/value contract. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// Update performs an atomic read-modify-write of one key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
