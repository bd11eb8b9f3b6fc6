// Package storage persists per-client state (carts, sessions, watcher snapshots)
// as opaque values under string keys. Values are replaced wholesale on every write.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// ErrDecode is returned by GetJSON when the stored value does not decode into dest.
var ErrDecode = errors.New("storage: undecodable value")

// Store is implemented by every backing driver.
// A ttl of zero means the value never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// GetJSON loads key into dest. ErrNotFound passes through untouched.
func GetJSON(ctx context.Context, s Store, key string, dest any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, key, err)
	}
	return nil
}

// PutJSON encodes value and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw, ttl)
}
