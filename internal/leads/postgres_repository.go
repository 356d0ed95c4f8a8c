package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DB is the slice of pgxpool.Pool the repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Save inserts a new row.
func (r *PostgresRepository) Save(ctx context.Context, lead *Lead) (*Lead, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (id, full_name, phone, email, address, message, action, product_id, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING processed, created_at
	`
	var (
		processed bool
		createdAt time.Time
	)
	if err := r.db.QueryRow(ctx, query,
		id,
		lead.FullName,
		lead.Phone,
		lead.Email,
		lead.Address,
		lead.Message,
		string(lead.Action),
		lead.ProductID,
		lead.Source,
	).Scan(&processed, &createdAt); err != nil {
		return nil, &PersistenceError{Err: fmt.Errorf("leads: insert failed: %w", err)}
	}

	stored := *lead
	stored.ID = id.String()
	stored.Processed = processed
	stored.CreatedAt = createdAt
	return &stored, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id::text, full_name, phone, email, address, message, action, product_id::text, source, processed, created_at
		FROM leads
		WHERE id = $1
	`
	var (
		lead   Lead
		action string
	)
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&lead.ID,
		&lead.FullName,
		&lead.Phone,
		&lead.Email,
		&lead.Address,
		&lead.Message,
		&action,
		&lead.ProductID,
		&lead.Source,
		&lead.Processed,
		&lead.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	lead.Action = Action(action)
	return &lead, nil
}
