// Package cache keeps recently fetched bar series for a fixed time-to-live.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTTL is how long a cached entry stays valid.
const DefaultTTL = 300 * time.Second

// Store is a TTL key/value store. Get reports a miss with ok=false and a nil
// error; expired entries are misses.
type Store interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte) error
	Clear(ctx context.Context) error
	// Cleanup drops expired entries and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)
}

// Key hashes prefix and params into a stable cache key. Params are encoded as
// JSON, whose map keys are always sorted, so argument order never matters.
func Key(prefix string, params map[string]any) string {
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte(fmt.Sprint(params))
	}
	sum := md5.Sum([]byte(prefix + ":" + string(raw)))
	return hex.EncodeToString(sum[:])
}

// GetJSON loads and decodes one entry.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var out T
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return out, false, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out, true, nil
}

// SetJSON encodes and stores one entry.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.Set(ctx, key, raw)
}
