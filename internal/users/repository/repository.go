// Package repository stores customer and staff user accounts in PostgreSQL.
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
	userNotFound    = "user not found"
	emailRegistered = "email already registered"
	userColumns     = "id, email, first_name, last_name, phone, role, status, assigned_agent_id, created_at, updated_at"
)

// User is a stored account.
type User struct {
	ID              uuid.UUID
	Email           string
	FirstName       *string
	LastName        *string
	Phone           *string
	Role            string
	Status          string
	AssignedAgentID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListParams filters the user list. Search matches email, names and phone.
type ListParams struct {
	Status          *string
	Role            *string
	Search          *string
	AssignedAgentID *uuid.UUID
	Limit           int
	Offset          int
}

// Stats summarises the user base.
type Stats struct {
	Total        int
	NewToday     int
	NewThisWeek  int
	NewThisMonth int
	ByStatus     map[string]int
}

// Repository is the user store.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Update(ctx context.Context, u User) error
	SetStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	AssignAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID, at time.Time) error
	List(ctx context.Context, p ListParams) ([]User, int, error)
	Stats(ctx context.Context, dayStart, weekStart, monthStart time.Time) (Stats, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, u User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.FirstName, u.LastName, u.Phone, u.Role, u.Status, u.AssignedAgentID, u.CreatedAt, u.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict(emailRegistered)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound(userNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *Repo) Update(ctx context.Context, u User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET email = $2, first_name = $3, last_name = $4, phone = $5, role = $6, updated_at = $7
		WHERE id = $1`,
		u.ID, u.Email, u.FirstName, u.LastName, u.Phone, u.Role, u.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict(emailRegistered)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userNotFound)
	}
	return nil
}

func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userNotFound)
	}
	return nil
}

func (r *Repo) AssignAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET assigned_agent_id = $2, updated_at = $3 WHERE id = $1`, id, agentID, at)
	if err != nil {
		return fmt.Errorf("assign agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userNotFound)
	}
	return nil
}

// List returns users newest first.
func (r *Repo) List(ctx context.Context, p ListParams) ([]User, int, error) {
	where := `
		WHERE ($1::text IS NULL OR status = $1)
		AND ($2::text IS NULL OR role = $2)
		AND ($3::uuid IS NULL OR assigned_agent_id = $3)
		AND ($4::text IS NULL OR email ILIKE '%' || $4 || '%' OR first_name ILIKE '%' || $4 || '%'
			OR last_name ILIKE '%' || $4 || '%' OR phone ILIKE '%' || $4 || '%')`
	args := []any{p.Status, p.Role, p.AssignedAgentID, p.Search}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users`+where+`
		ORDER BY created_at DESC, id
		LIMIT $5 OFFSET $6`, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

func (r *Repo) Stats(ctx context.Context, dayStart, weekStart, monthStart time.Time) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE created_at >= $2),
			COUNT(*) FILTER (WHERE created_at >= $3)
		FROM users`, dayStart, weekStart, monthStart,
	).Scan(&s.Total, &s.NewToday, &s.NewThisWeek, &s.NewThisMonth)
	if err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM users GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("count users by status: %w", err)
	}
	defer rows.Close()

	s.ByStatus = make(map[string]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan user status count: %w", err)
		}
		s.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate user status counts: %w", err)
	}
	return s, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Role, &u.Status, &u.AssignedAgentID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
