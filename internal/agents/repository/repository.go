// Package repository stores agents in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	agentNotFound   = "agent not found"
	agentEmailTaken = "email already registered as agent"
)

const agentSelect = `
	SELECT a.id, a.email, a.first_name, a.last_name, a.phone, a.license_number, a.bio, a.role,
		a.status, a.max_customers,
		(SELECT COUNT(*) FROM users u
			WHERE u.assigned_agent_id = a.id AND u.role = 'customer' AND u.status = 'active') AS active_customers,
		a.created_at, a.updated_at
	FROM agents a`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agent repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, a Agent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO agents (
			id, email, first_name, last_name, phone, license_number, bio, role, status,
			max_customers, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.Email, a.FirstName, a.LastName, a.Phone, a.LicenseNumber, a.Bio, a.Role, a.Status,
		a.MaxCustomers, a.CreatedAt, a.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict(agentEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	a, err := scanAgent(r.pool.QueryRow(ctx, agentSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, apperr.NotFound(agentNotFound)
	}
	if err != nil {
		return Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

func (r *Repo) Update(ctx context.Context, a Agent) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE agents SET
			email = $2, first_name = $3, last_name = $4, phone = $5, license_number = $6, bio = $7,
			role = $8, max_customers = $9, updated_at = $10
		WHERE id = $1`,
		a.ID, a.Email, a.FirstName, a.LastName, a.Phone, a.LicenseNumber, a.Bio,
		a.Role, a.MaxCustomers, a.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict(agentEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(agentNotFound)
	}
	return nil
}

func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE agents SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update agent status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(agentNotFound)
	}
	return nil
}

// List returns agents newest first.
func (r *Repo) List(ctx context.Context, p ListParams) ([]Agent, int, error) {
	where := `
		WHERE ($1::text IS NULL OR a.status = $1)
		AND ($2::text IS NULL OR a.role = $2)
		AND ($3::text IS NULL OR a.email ILIKE '%' || $3 || '%' OR a.first_name ILIKE '%' || $3 || '%'
			OR a.last_name ILIKE '%' || $3 || '%' OR a.phone ILIKE '%' || $3 || '%')`
	args := []any{p.Status, p.Role, p.Search}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agents a`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count agents: %w", err)
	}

	rows, err := r.pool.Query(ctx, agentSelect+where+`
		ORDER BY a.created_at DESC, a.id
		LIMIT $4 OFFSET $5`, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]Agent, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate agents: %w", err)
	}
	return agents, total, nil
}

// Stats counts agents by status and the capacity of active agents.
func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM agents GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("count agents by status: %w", err)
	}
	defer rows.Close()

	s := Stats{ByStatus: make(map[string]int)}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan agent status count: %w", err)
		}
		s.ByStatus[status] = count
		s.Total += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate agent status counts: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		WITH load AS (`+agentSelect+` WHERE a.status = 'active')
		SELECT
			COALESCE(SUM(max_customers), 0)::int,
			COALESCE(SUM(active_customers), 0)::int,
			COUNT(*) FILTER (WHERE active_customers < max_customers)
		FROM load`,
	).Scan(&s.TotalCapacity, &s.AssignedCustomers, &s.AgentsWithCapacity)
	if err != nil {
		return Stats{}, fmt.Errorf("sum agent capacity: %w", err)
	}
	return s, nil
}

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Phone, &a.LicenseNumber, &a.Bio, &a.Role,
		&a.Status, &a.MaxCustomers, &a.ActiveCustomers, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}
