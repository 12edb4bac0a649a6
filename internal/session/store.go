package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no session matches the token.
var ErrNotFound = errors.New("session: not found")

// Session binds an issued token to its owner until ExpiresAt.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Rows are created and removed whole; readers never
// observe a partially written session.
type Store interface {
	// Create persists a new session. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, s Session) (Session, error)
	// FindByToken returns the session for a token, expired or not.
	FindByToken(ctx context.Context, token string) (Session, error)
	// Delete removes the session for a token and returns what was removed.
	// ErrNotFound means nothing matched.
	Delete(ctx context.Context, token string) (Session, error)
	// PurgeExpired drops every session expired at now and reports how many.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
