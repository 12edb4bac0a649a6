package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("progress: not found")

// Repository persists progress records keyed by (user, task type, task id).
type Repository interface {
	Get(ctx context.Context, userID int64, taskType, taskID string) (Progress, error)
	// List returns the user's records, most recently updated first.
	List(ctx context.Context, userID int64) ([]Progress, error)
	Upsert(ctx context.Context, userID int64, u Update) (Progress, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed progress repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const progressColumns = `id, user_id, task_type, task_id, status, percentage, metadata, created_at, updated_at`

// Get fetches one record.
func (r *PostgresRepository) Get(ctx context.Context, userID int64, taskType, taskID string) (Progress, error) {
	row := r.db.QueryRow(ctx, `SELECT `+progressColumns+` FROM progress
        WHERE user_id = $1 AND task_type = $2 AND task_id = $3`, userID, taskType, taskID)
	p, err := scanProgress(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Progress{}, ErrNotFound
	}
	return p, err
}

// List fetches all records of a user.
func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]Progress, error) {
	rows, err := r.db.Query(ctx, `SELECT `+progressColumns+` FROM progress
        WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select progress: %w", err)
	}
	defer rows.Close()
	out := []Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Upsert creates or updates a record in one statement.
func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, u Update) (Progress, error) {
	var metadata any
	if len(u.Metadata) > 0 {
		metadata = []byte(u.Metadata)
	}
	row := r.db.QueryRow(ctx, `INSERT INTO progress (user_id, task_type, task_id, status, percentage, metadata)
        VALUES ($1, $2, $3, COALESCE($4::text, 'IN_PROGRESS'), COALESCE($5::int, 0), $6::jsonb)
        ON CONFLICT (user_id, task_type, task_id) DO UPDATE SET
            status = COALESCE($4::text, progress.status),
            percentage = COALESCE($5::int, progress.percentage),
            metadata = COALESCE($6::jsonb, progress.metadata),
            updated_at = now()
        RETURNING `+progressColumns, userID, u.TaskType, u.TaskID, u.Status, u.Percentage, metadata)
	p, err := scanProgress(row)
	if err != nil {
		return Progress{}, fmt.Errorf("upsert progress: %w", err)
	}
	return p, nil
}

func scanProgress(row pgx.Row) (Progress, error) {
	var (
		p        Progress
		metadata []byte
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.TaskType, &p.TaskID, &p.Status, &p.Percentage, &metadata, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Progress{}, err
	}
	p.Metadata = metadata
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
