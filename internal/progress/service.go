package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/d0ughnat/Fruad-detection/internal/activity"
)

// ActionUpdate is the activity written after every upsert.
const ActionUpdate = "PROGRESS_UPDATE"

// Recorder appends activity entries.
type Recorder interface {
	Record(ctx context.Context, userID int64, action, description string, metadata any) (activity.Activity, error)
}

// Service manages progress records.
type Service struct {
	repo     Repository
	activity Recorder
	logger   *slog.Logger
}

// NewService creates a progress service.
func NewService(repo Repository, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activity: recorder, logger: logger}
}

// Get returns one record, or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID int64, taskType, taskID string) (Progress, error) {
	return s.repo.Get(ctx, userID, taskType, taskID)
}

// List returns all of the user's records.
func (s *Service) List(ctx context.Context, userID int64) ([]Progress, error) {
	return s.repo.List(ctx, userID)
}

// Upsert stores the update and logs a PROGRESS_UPDATE activity.
func (s *Service) Upsert(ctx context.Context, userID int64, u Update) (Progress, error) {
	if u.TaskType == "" || u.TaskID == "" {
		return Progress{}, errors.New("progress: taskType and taskId are required")
	}
	p, err := s.repo.Upsert(ctx, userID, u)
	if err != nil {
		return Progress{}, err
	}

	metadata := map[string]any{"taskType": u.TaskType, "taskId": u.TaskID}
	if u.Status != nil {
		metadata["status"] = *u.Status
	}
	if u.Percentage != nil {
		metadata["percentage"] = *u.Percentage
	}
	desc := fmt.Sprintf("Updated progress for %s:%s", u.TaskType, u.TaskID)
	if _, err := s.activity.Record(ctx, userID, ActionUpdate, desc, metadata); err != nil {
		s.logger.Warn("progress.activity.failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	return p, nil
}
