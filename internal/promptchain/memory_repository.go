package promptchain

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu     sync.RWMutex
	chains map[string]PromptChain
}

// NewMemoryRepository builds an in-memory prompt chain store.
func NewMemoryRepository() Repository {
	return &memoryRepository{chains: make(map[string]PromptChain)}
}

func (r *memoryRepository) nameTaken(name, exceptID string) bool {
	for id, pc := range r.chains {
		if pc.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(_ context.Context, pc PromptChain) (PromptChain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(pc.Name, "") {
		return PromptChain{}, ErrNameTaken
	}
	now := time.Now().UTC()
	pc.ID = uuid.NewString()
	pc.CreatedAt, pc.UpdatedAt = now, now
	r.chains[pc.ID] = pc
	return pc, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, p Patch) (PromptChain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pc, ok := r.chains[id]
	if !ok {
		return PromptChain{}, ErrNotFound
	}
	if p.Name != nil {
		if r.nameTaken(*p.Name, id) {
			return PromptChain{}, ErrNameTaken
		}
		pc.Name = *p.Name
	}
	if p.Description != nil {
		pc.Description = *p.Description
	}
	if len(p.Prompts) > 0 {
		pc.Prompts = p.Prompts
	}
	if p.IsActive != nil {
		pc.IsActive = *p.IsActive
	}
	pc.UpdatedAt = time.Now().UTC()
	r.chains[id] = pc
	return pc, nil
}

func (r *memoryRepository) GetByName(_ context.Context, name string) (PromptChain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pc := range r.chains {
		if pc.Name == name {
			return pc, nil
		}
	}
	return PromptChain{}, ErrNotFound
}

func (r *memoryRepository) ListActive(_ context.Context) ([]PromptChain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []PromptChain{}
	for _, pc := range r.chains {
		if pc.IsActive {
			out = append(out, pc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
