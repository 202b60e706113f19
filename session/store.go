package session

import (
	"context"
	"sync"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

// Store persists a single session under StorageKey. Load returns (nil, nil)
// when nothing is stored. Only the Manager writes to a Store.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// MemoryStore is the session-scoped store: it lives as long as the process.
type MemoryStore struct {
	mu     sync.Mutex
	cached *Session
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cached.clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = s.clone()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	return nil
}
