package store

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable is returned by Memory when it has been switched offline.
var ErrUnavailable = errors.New("store: backend unavailable")

// Memory is an in-process Backend. It can be switched offline or made to
// fail reads and writes, which lets tests exercise Fallback paths.
type Memory struct {
	mu        sync.RWMutex
	name      string
	data      map[string][]byte
	offline   bool
	failLoad  error
	failSave  error
	loadCalls int
	saveCalls int
}

// NewMemory creates an empty, available Memory backend.
func NewMemory(name string) *Memory {
	if name == "" {
		name = "memory"
	}
	return &Memory{name: name, data: make(map[string][]byte)}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Available(ctx context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.offline
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++

	if m.offline {
		return nil, ErrUnavailable
	}
	if m.failLoad != nil {
		return nil, m.failLoad
	}
	payload, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (m *Memory) Save(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++

	if m.offline {
		return ErrUnavailable
	}
	if m.failSave != nil {
		return m.failSave
	}
	m.data[key] = append([]byte(nil), payload...)
	return nil
}

// SetOffline toggles availability.
func (m *Memory) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

// FailLoads makes every Load return err. Pass nil to clear.
func (m *Memory) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = err
}

// FailSaves makes every Save return err. Pass nil to clear.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

// Put stores a raw payload, bypassing failure injection.
func (m *Memory) Put(key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), payload...)
}

// Raw returns the stored payload for key.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.data[key]
	return p, ok
}

// Calls reports how many Load and Save calls reached the backend.
func (m *Memory) Calls() (loads, saves int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadCalls, m.saveCalls
}
