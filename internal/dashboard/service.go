package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/d0ughnat/Fruad-detection/internal/activity"
)

// Activity actions written by the dashboard service.
const (
	ActionSave   = "DATA_SAVE"
	ActionDelete = "DATA_DELETE"
)

// Recorder appends activity entries.
type Recorder interface {
	Record(ctx context.Context, userID int64, action, description string, metadata any) (activity.Activity, error)
}

// ErrInvalid is returned when dataType or data is missing.
var ErrInvalid = errors.New("dashboard: dataType and data are required")

// Service manages saved dashboard data.
type Service struct {
	repo     Repository
	activity Recorder
	logger   *slog.Logger
}

// NewService creates a dashboard service.
func NewService(repo Repository, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activity: recorder, logger: logger}
}

// Get returns one entry, or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID int64, dataType string) (Data, error) {
	return s.repo.Get(ctx, userID, dataType)
}

// List returns every entry the user saved.
func (s *Service) List(ctx context.Context, userID int64) ([]Data, error) {
	return s.repo.List(ctx, userID)
}

// Save upserts an entry and logs DATA_SAVE.
func (s *Service) Save(ctx context.Context, userID int64, dataType string, data []byte) (Data, error) {
	if dataType == "" || len(data) == 0 || string(data) == "null" {
		return Data{}, ErrInvalid
	}
	d, err := s.repo.Put(ctx, userID, dataType, data)
	if err != nil {
		return Data{}, err
	}
	s.record(ctx, userID, ActionSave, "Saved dashboard data: "+dataType, dataType)
	return d, nil
}

// Delete removes an entry and logs DATA_DELETE.
func (s *Service) Delete(ctx context.Context, userID int64, dataType string) error {
	if err := s.repo.Delete(ctx, userID, dataType); err != nil {
		return err
	}
	s.record(ctx, userID, ActionDelete, "Deleted dashboard data: "+dataType, dataType)
	return nil
}

func (s *Service) record(ctx context.Context, userID int64, action, desc, dataType string) {
	if _, err := s.activity.Record(ctx, userID, action, desc, map[string]any{"dataType": dataType}); err != nil {
		s.logger.Warn("dashboard.activity.failed", slog.String("action", action), slog.Int64("user_id", userID), slog.Any("error", err))
	}
}
