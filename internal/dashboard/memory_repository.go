package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryKey struct {
	userID   int64
	dataType string
}

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[memoryKey]Data
}

// NewMemoryRepository builds an in-memory dashboard store.
func NewMemoryRepository() Repository {
	return &memoryRepository{entries: make(map[memoryKey]Data)}
}

func (r *memoryRepository) Get(_ context.Context, userID int64, dataType string) (Data, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[memoryKey{userID, dataType}]
	if !ok {
		return Data{}, ErrNotFound
	}
	return d, nil
}

func (r *memoryRepository) List(_ context.Context, userID int64) ([]Data, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Data{}
	for k, d := range r.entries {
		if k.userID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memoryRepository) Put(_ context.Context, userID int64, dataType string, data []byte) (Data, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	k := memoryKey{userID, dataType}
	d, ok := r.entries[k]
	if !ok {
		d = Data{ID: uuid.NewString(), UserID: userID, DataType: dataType, CreatedAt: now}
	}
	d.Data = append([]byte(nil), data...)
	d.UpdatedAt = now
	r.entries[k] = d
	return d, nil
}

func (r *memoryRepository) Delete(_ context.Context, userID int64, dataType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := memoryKey{userID, dataType}
	if _, ok := r.entries[k]; !ok {
		return ErrNotFound
	}
	delete(r.entries, k)
	return nil
}
