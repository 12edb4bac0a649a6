package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu      sync.RWMutex
	byToken map[string]Session
}

// NewMemoryStore builds an in-process session store for development and tests.
func NewMemoryStore() Store {
	return &memoryStore{byToken: make(map[string]Session)}
}

func (m *memoryStore) Create(_ context.Context, s Session) (Session, error) {
	s = withDefaults(s)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byToken[s.Token] = s
	return s, nil
}

func (m *memoryStore) FindByToken(_ context.Context, token string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) Delete(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	delete(m.byToken, token)
	return s, nil
}

func (m *memoryStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for tok, s := range m.byToken {
		if s.Expired(now) {
			delete(m.byToken, tok)
			n++
		}
	}
	return n, nil
}

func withDefaults(s Session) Session {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return s
}
