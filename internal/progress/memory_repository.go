package progress

import (
	"context"
	"sort"
	"sync"
	"time"
)

type key struct {
	userID   int64
	taskType string
	taskID   string
}

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records map[key]Progress
}

// NewMemoryRepository builds an in-memory progress store.
func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[key]Progress)}
}

func (r *memoryRepository) Get(_ context.Context, userID int64, taskType, taskID string) (Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.records[key{userID, taskType, taskID}]
	if !ok {
		return Progress{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) List(_ context.Context, userID int64) ([]Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Progress{}
	for k, p := range r.records {
		if k.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *memoryRepository) Upsert(_ context.Context, userID int64, u Update) (Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	k := key{userID, u.TaskType, u.TaskID}

	p, exists := r.records[k]
	if !exists {
		r.nextID++
		p = Progress{
			ID:        r.nextID,
			UserID:    userID,
			TaskType:  u.TaskType,
			TaskID:    u.TaskID,
			Status:    DefaultStatus,
			CreatedAt: now,
		}
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Percentage != nil {
		p.Percentage = *u.Percentage
	}
	if len(u.Metadata) > 0 {
		p.Metadata = u.Metadata
	}
	p.UpdatedAt = now
	r.records[k] = p
	return p, nil
}
