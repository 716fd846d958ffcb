package intake

import (
	"context"
	"fmt"

	"github.com/sitelog/intake/internal/platform/db"
	"github.com/sitelog/intake/internal/platform/httpx"
)

const entryColumns = `id, material_id, driver_id, supplier_id, project_id, plate_number, tonnage, quantity, unit, entry_date, created_at`

// Repository provides PostgreSQL backed persistence for entries.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// List returns every entry, newest first.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("intake: list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.MaterialID, &e.DriverID, &e.SupplierID, &e.ProjectID,
			&e.PlateNumber, &e.Tonnage, &e.Quantity, &e.Unit, &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("intake: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("intake: iterate entries: %w", err)
	}
	return entries, nil
}

// Create stores e and returns it with the database timestamp.
func (r *Repository) Create(ctx context.Context, e Entry) (Entry, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO entries (id, material_id, driver_id, supplier_id, project_id, plate_number, tonnage, quantity, unit, entry_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at`,
		e.ID, e.MaterialID, e.DriverID, e.SupplierID, e.ProjectID,
		e.PlateNumber, e.Tonnage, e.Quantity, e.Unit, e.EntryDate,
	).Scan(&e.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("intake: insert entry: %w", err)
	}
	return e, nil
}

// Delete removes the entry with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("intake: delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("intake: entry %s: %w", id, httpx.ErrNotFound)
	}
	return nil
}
