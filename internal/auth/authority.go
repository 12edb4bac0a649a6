package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/session"
	"github.com/d0ughnat/Fruad-detection/internal/token"
)

// Principal is an authenticated caller. Only Authority.Validate produces one,
// and it is the only value data handlers accept as proof of identity.
type Principal struct {
	User      identity.User
	SessionID string
	ExpiresAt time.Time
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.User.Role == identity.RoleAdmin
}

// Authority is the store-backed validator that grants access to data.
type Authority struct {
	codec    *token.Codec
	sessions session.Store
	users    *identity.Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthority builds the authoritative validator.
func NewAuthority(codec *token.Codec, sessions session.Store, users *identity.Service, logger *slog.Logger) *Authority {
	return &Authority{codec: codec, sessions: sessions, users: users, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for session expiry.
func (a *Authority) WithClock(now func() time.Time) *Authority {
	a.now = now
	return a
}

// Validate grants access only when the token verifies and a live session row
// for it exists. An expired row is deleted on sight. The user record is read
// fresh so role and active changes apply immediately.
func (a *Authority) Validate(ctx context.Context, tok string) (Principal, error) {
	if tok == "" {
		return Principal{}, ErrSessionNotFound
	}
	fp := token.Fingerprint(tok)

	claims, verifyErr := a.codec.Verify(tok)

	sess, err := a.sessions.FindByToken(ctx, tok)
	rowFound := err == nil
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return Principal{}, fmt.Errorf("lookup session: %w", err)
	}

	if rowFound && sess.Expired(a.now()) {
		if _, err := a.sessions.Delete(ctx, tok); err != nil && !errors.Is(err, session.ErrNotFound) {
			a.logger.Warn("auth.session.cleanup_failed", slog.String("session_id", sess.ID), slog.Any("error", err))
		}
		a.logger.Info("auth.validate.denied", slog.String("reason", "session_expired"), slog.String("token", fp))
		return Principal{}, token.ErrTokenExpired
	}

	switch {
	case verifyErr != nil && rowFound:
		a.anomaly("session_without_valid_token", fp, sess.UserID, verifyErr)
		return Principal{}, verifyErr
	case verifyErr != nil:
		a.logger.Info("auth.validate.denied", slog.String("reason", reason(verifyErr)), slog.String("token", fp))
		return Principal{}, verifyErr
	case !rowFound:
		a.anomaly("valid_token_without_session", fp, claims.UserID, nil)
		return Principal{}, ErrSessionNotFound
	case claims.UserID != sess.UserID:
		a.anomaly("subject_mismatch", fp, sess.UserID, nil)
		return Principal{}, ErrSessionNotFound
	}

	user, err := a.users.Get(ctx, sess.UserID)
	if errors.Is(err, identity.ErrNotFound) {
		a.anomaly("session_owner_missing", fp, sess.UserID, nil)
		return Principal{}, ErrSessionNotFound
	}
	if err != nil {
		return Principal{}, fmt.Errorf("load user: %w", err)
	}
	if !user.Active {
		a.logger.Info("auth.validate.denied", slog.String("reason", "account_disabled"), slog.Int64("user_id", user.ID))
		return Principal{}, ErrAccountDisabled
	}

	return Principal{User: user, SessionID: sess.ID, ExpiresAt: sess.ExpiresAt}, nil
}

func (a *Authority) anomaly(kind, fingerprint string, userID int64, err error) {
	attrs := []any{
		slog.String("kind", kind),
		slog.String("token", fingerprint),
		slog.Int64("user_id", userID),
	}
	if err != nil {
		attrs = append(attrs, slog.String("reason", reason(err)))
	}
	a.logger.Warn("auth.session.anomaly", attrs...)
}

func reason(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, token.ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, token.ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	default:
		return "unknown"
	}
}
