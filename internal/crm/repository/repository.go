// Package repository stores CRM interactions, notes and tasks in PostgreSQL.
package repository

import (
	"context"
	"fmt"

	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/db"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	customerNameSQL = `NULLIF(TRIM(CONCAT_WS(' ', u.first_name, u.last_name)), '')`
	agentNameSQL    = `NULLIF(TRIM(CONCAT_WS(' ', a.first_name, a.last_name)), '')`
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new CRM repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// writeError maps constraint failures on a CRM insert or update.
func writeError(err error, op string) error {
	if db.IsForeignKeyViolation(err) {
		return apperr.Validation("customer does not exist")
	}
	return fmt.Errorf("%s: %w", op, err)
}

// execOne runs a statement that must touch exactly one row.
func (r *Repo) execOne(ctx context.Context, notFound, op, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return writeError(err, op)
	}
	return requireRow(tag, notFound)
}

func requireRow(tag pgconn.CommandTag, notFound string) error {
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(notFound)
	}
	return nil
}
