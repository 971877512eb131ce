package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Load when nothing is stored under a key.
var ErrNotFound = errors.New("store: key not found")

// Backend reads and writes opaque payloads by key.
//
// Available reports whether the backend can serve requests right now. It is
// asked on every Fallback operation and must not cache a stale answer for
// long; remote implementations ping with a short timeout.
type Backend interface {
	Name() string
	Available(ctx context.Context) bool
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}
