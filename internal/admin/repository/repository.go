// Package repository stores admin settings and the audit trail, and reads the
// dashboard counts from the other contexts' tables.
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

const featureNotFound = "feature not found"

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new admin repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)
