package promptchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no chain matches.
	ErrNotFound = errors.New("promptchain: not found")
	// ErrNameTaken is returned when another chain already uses the name.
	ErrNameTaken = errors.New("promptchain: name already exists")
)

// Repository persists prompt chains.
type Repository interface {
	Create(ctx context.Context, pc PromptChain) (PromptChain, error)
	Update(ctx context.Context, id string, p Patch) (PromptChain, error)
	GetByName(ctx context.Context, name string) (PromptChain, error)
	// ListActive returns active chains, most recently updated first.
	ListActive(ctx context.Context) ([]PromptChain, error)
}

// PostgresRepository implements Repository on the prompt_chains table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed prompt chain repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const chainColumns = `id, name, description, prompts, is_active, created_at, updated_at`

// Create inserts a chain.
func (r *PostgresRepository) Create(ctx context.Context, pc PromptChain) (PromptChain, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO prompt_chains (id, name, description, prompts, is_active)
        VALUES ($1, $2, $3, $4::jsonb, $5)
        RETURNING `+chainColumns, uuid.New(), pc.Name, pc.Description, []byte(pc.Prompts), pc.IsActive)
	out, err := scanChain(row)
	if err != nil {
		return PromptChain{}, mapWriteErr(err)
	}
	return out, nil
}

// Update applies a patch.
func (r *PostgresRepository) Update(ctx context.Context, id string, p Patch) (PromptChain, error) {
	chainID, err := uuid.Parse(id)
	if err != nil {
		return PromptChain{}, ErrNotFound
	}
	var prompts any
	if len(p.Prompts) > 0 {
		prompts = []byte(p.Prompts)
	}
	row := r.db.QueryRow(ctx, `UPDATE prompt_chains SET
            name = COALESCE($2::text, name),
            description = COALESCE($3::text, description),
            prompts = COALESCE($4::jsonb, prompts),
            is_active = COALESCE($5::boolean, is_active),
            updated_at = now()
        WHERE id = $1
        RETURNING `+chainColumns, chainID, p.Name, p.Description, prompts, p.IsActive)
	out, err := scanChain(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PromptChain{}, ErrNotFound
	}
	if err != nil {
		return PromptChain{}, mapWriteErr(err)
	}
	return out, nil
}

// GetByName fetches a chain by its unique name.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (PromptChain, error) {
	out, err := scanChain(r.db.QueryRow(ctx, `SELECT `+chainColumns+` FROM prompt_chains WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return PromptChain{}, ErrNotFound
	}
	return out, err
}

// ListActive fetches active chains.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]PromptChain, error) {
	rows, err := r.db.Query(ctx, `SELECT `+chainColumns+` FROM prompt_chains WHERE is_active ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select prompt chains: %w", err)
	}
	defer rows.Close()
	out := []PromptChain{}
	for rows.Next() {
		pc, err := scanChain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

func scanChain(row pgx.Row) (PromptChain, error) {
	var (
		pc      PromptChain
		id      uuid.UUID
		desc    *string
		prompts []byte
	)
	if err := row.Scan(&id, &pc.Name, &desc, &prompts, &pc.IsActive, &pc.CreatedAt, &pc.UpdatedAt); err != nil {
		return PromptChain{}, err
	}
	pc.ID = id.String()
	if desc != nil {
		pc.Description = *desc
	}
	pc.Prompts = prompts
	pc.CreatedAt = pc.CreatedAt.UTC()
	pc.UpdatedAt = pc.UpdatedAt.UTC()
	return pc, nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrNameTaken
	}
	return fmt.Errorf("write prompt chain: %w", err)
}
