// internal/infrastructure/storage/slot.go
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key holds nothing
var ErrNotFound = errors.New("storage: key not found")

// Slot is a durable named key holding one serialized value
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// MemorySlot keeps values in process memory
type MemorySlot struct {
	mu       sync.RWMutex
	values   map[string]string
	writeErr error
}

// NewMemorySlot creates an empty in-memory slot store
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string]string)}
}

// Get returns the value under key
func (m *MemorySlot) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key
func (m *MemorySlot) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[key] = value
	return nil
}

// Del removes key
func (m *MemorySlot) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.values, key)
	return nil
}

// FailWrites makes every later Set and Del return err; nil restores writes
func (m *MemorySlot) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}
