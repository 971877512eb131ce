package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// List stores a JSON array of T under a key on a Backend.
type List[T any] struct {
	backend Backend
	logger  *slog.Logger
}

// NewList creates a List over backend. A nil logger uses slog.Default().
func NewList[T any](backend Backend, logger *slog.Logger) *List[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &List[T]{backend: backend, logger: logger}
}

// Load returns the items stored under key.
//
// It never fails: an absent key, an unreachable backend and a payload that
// does not decode all produce an empty, non-nil slice. Everything except an
// absent key is logged.
func (l *List[T]) Load(ctx context.Context, key string) []T {
	items, err := l.LoadStrict(ctx, key)
	if err != nil {
		l.logger.Warn("load failed, using empty list",
			"backend", l.backend.Name(), "key", key, "error", err)
		return []T{}
	}
	return items
}

// LoadStrict is Load for callers that are about to write the list back.
// An absent key is still an empty list, but backend and decode errors are
// returned so a failed read never turns into an overwrite.
func (l *List[T]) LoadStrict(ctx context.Context, key string) ([]T, error) {
	payload, err := l.backend.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		l.logger.Debug("no stored data", "backend", l.backend.Name(), "key", key)
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q from %s: %w", key, l.backend.Name(), err)
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %q from %s: %w", key, l.backend.Name(), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the list stored under key.
func (l *List[T]) Save(ctx context.Context, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return l.backend.Save(ctx, key, payload)
}
