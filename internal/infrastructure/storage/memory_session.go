package storage

import (
	"context"
	"sync"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/repository"
)

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.SessionMode
}

// NewMemorySessionStore process-local session store; entries live until the process exits
func NewMemorySessionStore() repository.SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]entity.SessionMode),
	}
}

// GetMode returns the stored mode, ModeIdle for unknown users
func (m *memorySessionStore) GetMode(ctx context.Context, userID string) (entity.SessionMode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mode, exists := m.sessions[userID]
	if !exists {
		return entity.ModeIdle, nil
	}
	return mode, nil
}

// SetMode stores the mode for userID
func (m *memorySessionStore) SetMode(ctx context.Context, userID string, mode entity.SessionMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = mode
	return nil
}
