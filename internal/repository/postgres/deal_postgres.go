package postgres

import (
	"context"
	"database/sql"

	"dealdocs/internal/model"
	"dealdocs/internal/repository"
)

// DealPostgres is a PostgreSQL implementation of repository.DealRepository.
// Read-only: the deals table is owned by the wider CRM.
type DealPostgres struct {
	db *sql.DB
}

// NewDealPostgres creates a new DealPostgres repository.
func NewDealPostgres(db *sql.DB) *DealPostgres {
	return &DealPostgres{db: db}
}

var _ repository.DealRepository = (*DealPostgres)(nil)

// FindByID fetches a single deal by its ID.
func (r *DealPostgres) FindByID(ctx context.Context, id int64) (*model.Deal, error) {
	const q = `SELECT id, name, created_at FROM deals WHERE id = $1`
	var d model.Deal
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// Exists reports whether a deal row exists.
func (r *DealPostgres) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM deals WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListAll returns every deal in id order.
func (r *DealPostgres) ListAll(ctx context.Context) ([]model.Deal, error) {
	const q = `SELECT id, name, created_at FROM deals ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]model.Deal, 0)
	for rows.Next() {
		var d model.Deal
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deals, nil
}
