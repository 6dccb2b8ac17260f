// Package cache memoizes upstream responses with a bounded, expiring store.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a byte cache with a fixed entry lifetime.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key derives a stable key from its parts. Parts may hold credentials, so
// only their digest is kept.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return strings.Join([]string{"recipefinder", namespace, hex.EncodeToString(h.Sum(nil))}, ":")
}
