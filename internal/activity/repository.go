package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists activity entries.
type Repository interface {
	Create(ctx context.Context, a Activity) (Activity, error)
	// ListByUser returns entries newest first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Activity, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed activity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends an entry.
func (r *PostgresRepository) Create(ctx context.Context, a Activity) (Activity, error) {
	var metadata any
	if len(a.Metadata) > 0 {
		metadata = []byte(a.Metadata)
	}
	err := r.db.QueryRow(ctx, `INSERT INTO activities (user_id, action, description, metadata)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`, a.UserID, a.Action, a.Description, metadata).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

// ListByUser pages through a user's entries.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Activity, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, action, description, metadata, created_at
        FROM activities WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var (
			a        Activity
			metadata []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.Description, &metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Metadata = metadata
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
