package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using the sessions table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed session store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a session row.
func (p *PostgresStore) Create(ctx context.Context, s Session) (Session, error) {
	s = withDefaults(s)
	id, err := uuid.Parse(s.ID)
	if err != nil {
		return Session{}, fmt.Errorf("session id: %w", err)
	}
	_, err = p.db.Exec(ctx, `INSERT INTO sessions (id, user_id, token, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5)`, id, s.UserID, s.Token, s.ExpiresAt.UTC(), s.CreatedAt.UTC())
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

// FindByToken selects the session keyed by token.
func (p *PostgresStore) FindByToken(ctx context.Context, token string) (Session, error) {
	row := p.db.QueryRow(ctx, `SELECT id, user_id, token, expires_at, created_at FROM sessions WHERE token = $1`, token)
	return scanSession(row)
}

// Delete removes the session keyed by token in a single statement.
func (p *PostgresStore) Delete(ctx context.Context, token string) (Session, error) {
	row := p.db.QueryRow(ctx, `DELETE FROM sessions WHERE token = $1
        RETURNING id, user_id, token, expires_at, created_at`, token)
	return scanSession(row)
}

// PurgeExpired deletes every row whose expiry has passed.
func (p *PostgresStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := p.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanSession(row pgx.Row) (Session, error) {
	var (
		id uuid.UUID
		s  Session
	)
	err := row.Scan(&id, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	s.ID = id.String()
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}
