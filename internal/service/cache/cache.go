package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// GetOrLoad returns the JSON value cached under key, or calls load and caches its result.
// Cache errors never fail the call; they only cost a reload.
func GetOrLoad[T any](ctx context.Context, c BytesCache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c != nil {
		if b, ok, err := c.GetBytes(ctx, key); err == nil && ok {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return v, nil
			}
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		if b, err := json.Marshal(v); err == nil {
			_ = c.SetBytes(ctx, key, b, ttl)
		}
	}
	return v, nil
}

// Key builds a namespaced cache key.
func Key(parts ...interface{}) string {
	k := "stockpulse"
	for _, p := range parts {
		k += fmt.Sprintf(":%v", p)
	}
	return k
}
