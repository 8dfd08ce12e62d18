package credential

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Backend.Get for a missing key.
var ErrNotFound = errors.New("credential: key not found")

// Backend is durable client-side key/value storage.
type Backend interface {
	Get(key string) ([]byte, error)
	// Put writes all entries or none of them.
	Put(entries map[string][]byte) error
	// Delete removes keys; missing keys are not an error.
	Delete(keys ...string) error
	Close() error
}

// MemoryBackend keeps values in process memory. It is meant for tests and
// for front ends that must not touch the disk.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Put(entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.values[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemoryBackend) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
