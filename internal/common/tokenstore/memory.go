package tokenstore

import (
	"context"
	"sync"

	"scan-dashboard/internal/models"
)

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	session *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, notFound()
	}
	s := *m.session
	return &s, nil
}

func (m *MemoryStore) Set(_ context.Context, session models.Session) error {
	if err := checkComplete(session); err != nil {
		return err
	}
	m.mu.Lock()
	m.session = &session
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}
