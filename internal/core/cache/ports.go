package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Cache is the durable key-value port used for client session state such as carts.
type Cache interface {
	// Get retrieves the value stored under key. Missing keys yield ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks if the backing service is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error
}
