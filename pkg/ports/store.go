package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore defines the persistence needed by the settings store:
// put and get a string by key. Put overwrites the whole value.
type KeyValueStore interface {
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value atomically.
	Put(ctx context.Context, key, value string) error
}
