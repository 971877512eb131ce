package store

import (
	"context"
	"errors"
	"log/slog"
)

// Fallback prefers a remote backend and falls back to a local one.
//
// Remote availability is checked on every call, never cached, so an outage
// after startup silently reverts reads to local data. Remote write failures
// are logged and dropped; the local backend is not written in that case.
type Fallback struct {
	remote Backend
	local  Backend
	logger *slog.Logger
}

// NewFallback builds the strategy. remote may be nil when no remote store
// is configured.
func NewFallback(remote, local Backend, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{remote: remote, local: local, logger: logger}
}

func (f *Fallback) Name() string {
	if f.remote == nil {
		return f.local.Name()
	}
	return f.remote.Name() + "+" + f.local.Name()
}

func (f *Fallback) Available(ctx context.Context) bool {
	return f.local.Available(ctx) || f.remoteUp(ctx)
}

func (f *Fallback) Load(ctx context.Context, key string) ([]byte, error) {
	if f.remoteUp(ctx) {
		payload, err := f.remote.Load(ctx, key)
		if err == nil || errors.Is(err, ErrNotFound) {
			return payload, err
		}
		f.logger.Warn("remote load failed, reading local",
			"remote", f.remote.Name(), "key", key, "error", err)
	}
	return f.local.Load(ctx, key)
}

func (f *Fallback) Save(ctx context.Context, key string, payload []byte) error {
	if f.remoteUp(ctx) {
		if err := f.remote.Save(ctx, key, payload); err != nil {
			f.logger.Warn("remote save failed, change not persisted",
				"remote", f.remote.Name(), "key", key, "error", err)
		}
		return nil
	}
	return f.local.Save(ctx, key, payload)
}

// Active returns the backend the next call would use.
func (f *Fallback) Active(ctx context.Context) Backend {
	if f.remoteUp(ctx) {
		return f.remote
	}
	return f.local
}

func (f *Fallback) remoteUp(ctx context.Context) bool {
	return f.remote != nil && f.remote.Available(ctx)
}
