package persist

import (
	"context"
	"errors"
	"sync"
)

// ErrStoreClosed is returned for operations on a closed store.
var ErrStoreClosed = errors.New("persist: store closed")

// Store persists opaque snapshot bytes under a key. Implementations must
// be safe for concurrent use.
type Store interface {
	// Save persists a snapshot, overwriting any previous one under key.
	Save(ctx context.Context, key string, data []byte) error

	// Load retrieves a snapshot. Returns (nil, nil) when the key does not
	// exist.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes a snapshot. Not an error if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore keeps snapshots in process memory. Useful for tests and
// single-process applications.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	closed    bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

// Save stores a copy of data under key.
func (m *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.snapshots[key] = buf
	return nil
}

// Load returns a copy of the snapshot under key, or (nil, nil).
func (m *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	data, ok := m.snapshots[key]
	if !ok {
		return nil, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Delete removes the snapshot under key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	delete(m.snapshots, key)
	return nil
}

// Close marks the store closed. Further operations fail with
// ErrStoreClosed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.snapshots = nil
	return nil
}
