package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/session"
	"github.com/d0ughnat/Fruad-detection/internal/token"
)

// Audit actions written by the lifecycle manager.
const (
	ActionLogin    = "LOGIN"
	ActionRegister = "REGISTER"
	ActionLogout   = "LOGOUT"
)

// AuditEvent is one append-only record of a security-relevant action.
type AuditEvent struct {
	UserID      int64
	Action      string
	Description string
	Metadata    map[string]any
}

// AuditSink receives audit events. Failures are logged by the caller and do
// not undo the action being audited.
type AuditSink interface {
	RecordAudit(ctx context.Context, event AuditEvent) error
}

// Result is returned by a successful login or registration.
type Result struct {
	User      identity.User
	Token     string
	ExpiresAt time.Time
}

// Service runs login, registration and logout.
type Service struct {
	users    *identity.Service
	sessions session.Store
	codec    *token.Codec
	audit    AuditSink
	logger   *slog.Logger
}

// NewService wires the lifecycle manager. audit may be nil.
func NewService(users *identity.Service, sessions session.Store, codec *token.Codec, audit AuditSink, logger *slog.Logger) *Service {
	return &Service{users: users, sessions: sessions, codec: codec, audit: audit, logger: logger}
}

// Login verifies credentials and opens a new session.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		s.logger.Info("auth.login.rejected", slog.String("reason", "invalid_credentials"))
		return Result{}, ErrInvalidCredentials
	}
	if err != nil {
		return Result{}, fmt.Errorf("authenticate: %w", err)
	}
	if !user.Active {
		s.logger.Info("auth.login.rejected", slog.String("reason", "account_disabled"), slog.Int64("user_id", user.ID))
		return Result{}, ErrAccountDisabled
	}

	res, err := s.openSession(ctx, user)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("auth.login.succeeded", slog.Int64("user_id", user.ID), slog.String("token", token.Fingerprint(res.Token)))
	s.record(ctx, AuditEvent{UserID: user.ID, Action: ActionLogin, Description: "User logged in"})
	return res, nil
}

// Register creates the account and opens its first session.
func (s *Service) Register(ctx context.Context, name, email, password string) (Result, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return Result{}, ErrMissingFields
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Result{}, ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return Result{}, ErrPasswordTooLong
	}
	user, err := s.users.Register(ctx, identity.NewUser{Name: name, Email: email, Password: password})
	switch {
	case errors.Is(err, identity.ErrEmailExists):
		return Result{}, ErrEmailTaken
	case errors.Is(err, identity.ErrMissingFields):
		return Result{}, ErrMissingFields
	case errors.Is(err, identity.ErrPasswordTooLong):
		return Result{}, ErrPasswordTooLong
	}
	if err != nil {
		return Result{}, fmt.Errorf("register: %w", err)
	}

	res, err := s.openSession(ctx, user)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("auth.register.succeeded", slog.Int64("user_id", user.ID), slog.String("token", token.Fingerprint(res.Token)))
	s.record(ctx, AuditEvent{UserID: user.ID, Action: ActionRegister, Description: "User registered"})
	return res, nil
}

// Logout deletes the session for tok. Unknown or empty tokens are a no-op.
func (s *Service) Logout(ctx context.Context, tok string) error {
	if tok == "" {
		return nil
	}
	sess, err := s.sessions.Delete(ctx, tok)
	if errors.Is(err, session.ErrNotFound) {
		s.logger.Debug("auth.logout.no_session", slog.String("token", token.Fingerprint(tok)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("auth.logout.succeeded", slog.Int64("user_id", sess.UserID), slog.String("session_id", sess.ID))
	s.record(ctx, AuditEvent{UserID: sess.UserID, Action: ActionLogout, Description: "User logged out"})
	return nil
}

func (s *Service) openSession(ctx context.Context, user identity.User) (Result, error) {
	tok, claims, err := s.codec.Issue(token.Subject{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return Result{}, fmt.Errorf("issue token: %w", err)
	}
	expires := claims.ExpiresAt.Time
	if _, err := s.sessions.Create(ctx, session.Session{UserID: user.ID, Token: tok, ExpiresAt: expires}); err != nil {
		return Result{}, fmt.Errorf("create session: %w", err)
	}
	return Result{User: user, Token: tok, ExpiresAt: expires}, nil
}

func (s *Service) record(ctx context.Context, event AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordAudit(ctx, event); err != nil {
		s.logger.Warn("auth.audit.failed",
			slog.String("action", event.Action),
			slog.Int64("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}
