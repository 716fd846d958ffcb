package masterdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/sitelog/intake/internal/platform/db"
	"github.com/sitelog/intake/internal/platform/httpx"
)

// Repository persists reference entities in one table per kind.
type Repository struct {
	db db.Querier
	sb sq.StatementBuilderType
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func selectColumns(kind Kind) []string {
	plate := "'' AS default_plate"
	if kind == KindDriver {
		plate = "default_plate"
	}
	return []string{"id", "name", plate, "created_at"}
}

// List returns all entities of kind, newest first.
func (r *Repository) List(ctx context.Context, kind Kind) ([]Entity, error) {
	query, args, err := r.sb.Select(selectColumns(kind)...).
		From(kind.Table()).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("masterdata: build list %s: %w", kind, err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list %s: %w", kind, err)
	}
	defer rows.Close()

	entities := make([]Entity, 0)
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.DefaultPlate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("masterdata: scan %s: %w", kind, err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// FindByName returns the entity of kind named exactly name.
func (r *Repository) FindByName(ctx context.Context, kind Kind, name string) (Entity, error) {
	query, args, err := r.sb.Select(selectColumns(kind)...).
		From(kind.Table()).
		Where(sq.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return Entity{}, fmt.Errorf("masterdata: build find %s: %w", kind, err)
	}
	var e Entity
	err = r.db.QueryRow(ctx, query, args...).Scan(&e.ID, &e.Name, &e.DefaultPlate, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entity{}, fmt.Errorf("masterdata: %s %q: %w", kind, name, httpx.ErrNotFound)
		}
		return Entity{}, fmt.Errorf("masterdata: find %s: %w", kind, err)
	}
	return e, nil
}

// Create inserts e into the kind's table and returns it with its timestamp.
func (r *Repository) Create(ctx context.Context, kind Kind, e Entity) (Entity, error) {
	e.CreatedAt = time.Now().UTC()
	insert := r.sb.Insert(kind.Table())
	if kind == KindDriver {
		insert = insert.Columns("id", "name", "default_plate", "created_at").
			Values(e.ID, e.Name, e.DefaultPlate, e.CreatedAt)
	} else {
		e.DefaultPlate = ""
		insert = insert.Columns("id", "name", "created_at").
			Values(e.ID, e.Name, e.CreatedAt)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return Entity{}, fmt.Errorf("masterdata: build insert %s: %w", kind, err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if db.IsUniqueViolation(err) {
			return Entity{}, fmt.Errorf("masterdata: %s %q: %w", kind, e.Name, httpx.ErrDuplicate)
		}
		return Entity{}, fmt.Errorf("masterdata: insert %s: %w", kind, err)
	}
	return e, nil
}
