package activity

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []Activity
}

// NewMemoryRepository builds an in-memory activity log.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, a Activity) (Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, a)
	return a, nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID int64, limit, offset int) ([]Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Activity{}
	skipped := 0
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID != userID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, r.entries[i])
	}
	return out, nil
}
