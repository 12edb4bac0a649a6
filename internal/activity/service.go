package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
)

// ErrActionRequired is returned when an entry has no action.
var ErrActionRequired = errors.New("activity: action is required")

// Service records and lists activity. It is also the audit sink for the
// session lifecycle.
type Service struct {
	repo Repository
}

// NewService creates an activity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends an entry. metadata is marshalled to JSON when non-nil; a
// blank description defaults to "User performed <action>".
func (s *Service) Record(ctx context.Context, userID int64, action, description string, metadata any) (Activity, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return Activity{}, ErrActionRequired
	}
	if description == "" {
		description = "User performed " + action
	}
	a := Activity{UserID: userID, Action: action, Description: description}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return Activity{}, fmt.Errorf("encode metadata: %w", err)
		}
		if string(raw) != "null" {
			a.Metadata = raw
		}
	}
	return s.repo.Create(ctx, a)
}

// RecordAudit satisfies auth.AuditSink.
func (s *Service) RecordAudit(ctx context.Context, e auth.AuditEvent) error {
	var metadata any
	if len(e.Metadata) > 0 {
		metadata = e.Metadata
	}
	_, err := s.Record(ctx, e.UserID, e.Action, e.Description, metadata)
	return err
}

// List returns a page of the user's entries, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Activity, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
