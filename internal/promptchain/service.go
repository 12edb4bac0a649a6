package promptchain

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/d0ughnat/Fruad-detection/internal/activity"
)

// Activity actions written by the prompt chain service.
const (
	ActionCreate = "PROMPT_CHAIN_CREATE"
	ActionUpdate = "PROMPT_CHAIN_UPDATE"
)

var (
	// ErrInvalid is returned when name or prompts are missing.
	ErrInvalid = errors.New("promptchain: name and prompts are required")
	// ErrPromptsNotArray is returned when prompts is not a JSON array.
	ErrPromptsNotArray = errors.New("promptchain: prompts must be an array")
)

// Recorder appends activity entries.
type Recorder interface {
	Record(ctx context.Context, userID int64, action, description string, metadata any) (activity.Activity, error)
}

// Service manages prompt chains.
type Service struct {
	repo     Repository
	activity Recorder
	logger   *slog.Logger
}

// NewService creates a prompt chain service.
func NewService(repo Repository, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activity: recorder, logger: logger}
}

// GetByName returns the chain with the given name.
func (s *Service) GetByName(ctx context.Context, name string) (PromptChain, error) {
	return s.repo.GetByName(ctx, name)
}

// ListActive returns every active chain.
func (s *Service) ListActive(ctx context.Context) ([]PromptChain, error) {
	return s.repo.ListActive(ctx)
}

// Create stores a new active chain on behalf of actorID.
func (s *Service) Create(ctx context.Context, actorID int64, name, description string, prompts json.RawMessage) (PromptChain, error) {
	if name == "" || len(prompts) == 0 || string(prompts) == "null" {
		return PromptChain{}, ErrInvalid
	}
	if !isArray(prompts) {
		return PromptChain{}, ErrPromptsNotArray
	}
	pc, err := s.repo.Create(ctx, PromptChain{Name: name, Description: description, Prompts: prompts, IsActive: true})
	if err != nil {
		return PromptChain{}, err
	}
	s.record(ctx, actorID, ActionCreate, "Created prompt chain: "+name, map[string]any{"name": name, "promptCount": promptCount(prompts)})
	return pc, nil
}

// Update patches the chain with the given id on behalf of actorID.
func (s *Service) Update(ctx context.Context, actorID int64, id string, p Patch) (PromptChain, error) {
	if len(p.Prompts) > 0 && !isArray(p.Prompts) {
		return PromptChain{}, ErrPromptsNotArray
	}
	pc, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return PromptChain{}, err
	}
	meta := map[string]any{"id": id}
	if p.Name != nil {
		meta["name"] = *p.Name
	}
	s.record(ctx, actorID, ActionUpdate, "Updated prompt chain: "+pc.Name, meta)
	return pc, nil
}

func (s *Service) record(ctx context.Context, userID int64, action, desc string, meta map[string]any) {
	if _, err := s.activity.Record(ctx, userID, action, desc, meta); err != nil {
		s.logger.Warn("promptchain.activity.failed", slog.String("action", action), slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func isArray(raw json.RawMessage) bool {
	var items []json.RawMessage
	return json.Unmarshal(raw, &items) == nil && items != nil
}
