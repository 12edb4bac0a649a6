package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when the user has no data of the requested type.
var ErrNotFound = errors.New("dashboard: not found")

// Repository is a key-value store keyed by user id and data type.
type Repository interface {
	Get(ctx context.Context, userID int64, dataType string) (Data, error)
	// List returns the user's entries, most recently updated first.
	List(ctx context.Context, userID int64) ([]Data, error)
	Put(ctx context.Context, userID int64, dataType string, data []byte) (Data, error)
	Delete(ctx context.Context, userID int64, dataType string) error
}

// PostgresRepository implements Repository on the dashboard_data table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed dashboard repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const dataColumns = `id::text, user_id, data_type, data, created_at, updated_at`

// Get fetches one entry.
func (r *PostgresRepository) Get(ctx context.Context, userID int64, dataType string) (Data, error) {
	row := r.db.QueryRow(ctx, `SELECT `+dataColumns+` FROM dashboard_data WHERE user_id = $1 AND data_type = $2`, userID, dataType)
	d, err := scanData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Data{}, ErrNotFound
	}
	return d, err
}

// List fetches all entries of a user.
func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]Data, error) {
	rows, err := r.db.Query(ctx, `SELECT `+dataColumns+` FROM dashboard_data WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select dashboard data: %w", err)
	}
	defer rows.Close()
	out := []Data{}
	for rows.Next() {
		d, err := scanData(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Put upserts an entry.
func (r *PostgresRepository) Put(ctx context.Context, userID int64, dataType string, data []byte) (Data, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO dashboard_data (user_id, data_type, data)
        VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (user_id, data_type) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
        RETURNING `+dataColumns, userID, dataType, data)
	d, err := scanData(row)
	if err != nil {
		return Data{}, fmt.Errorf("upsert dashboard data: %w", err)
	}
	return d, nil
}

// Delete removes an entry.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64, dataType string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM dashboard_data WHERE user_id = $1 AND data_type = $2`, userID, dataType)
	if err != nil {
		return fmt.Errorf("delete dashboard data: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanData(row pgx.Row) (Data, error) {
	var (
		d   Data
		raw []byte
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.DataType, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return Data{}, err
	}
	d.Data = raw
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return d, nil
}
