// Package cache provides a small read-through cache port used for the
// product-list response. The catalog never changes after startup, so cached
// entries are never invalidated.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}
