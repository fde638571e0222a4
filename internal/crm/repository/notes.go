package repository

import (
	"context"
	"errors"
	"fmt"

	"homefinder_backend/internal/crm/domain"
	"homefinder_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const noteNotFound = "note not found"

const noteSelect = `
	SELECT n.id, n.customer_id, n.agent_id, n.title, n.content, n.category, n.is_pinned,
		n.is_important, n.is_private, n.created_at, n.updated_at, ` + agentNameSQL + `
	FROM customer_notes n
	LEFT JOIN agents a ON a.id = n.agent_id`

func (r *Repo) CreateNote(ctx context.Context, n domain.Note) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customer_notes (
			id, customer_id, agent_id, title, content, category, is_pinned, is_important,
			is_private, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.CustomerID, n.AgentID, n.Title, n.Content, n.Category, n.IsPinned, n.IsImportant,
		n.IsPrivate, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return writeError(err, "insert note")
	}
	return nil
}

func (r *Repo) GetNote(ctx context.Context, id uuid.UUID) (NoteView, error) {
	v, err := scanNote(r.pool.QueryRow(ctx, noteSelect+` WHERE n.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return NoteView{}, apperr.NotFound(noteNotFound)
	}
	if err != nil {
		return NoteView{}, fmt.Errorf("get note: %w", err)
	}
	return v, nil
}

func (r *Repo) UpdateNote(ctx context.Context, n domain.Note) error {
	return r.execOne(ctx, noteNotFound, "update note", `
		UPDATE customer_notes SET
			title = $2, content = $3, category = $4, is_pinned = $5, is_important = $6,
			is_private = $7, updated_at = $8
		WHERE id = $1`,
		n.ID, n.Title, n.Content, n.Category, n.IsPinned, n.IsImportant, n.IsPrivate, n.UpdatedAt,
	)
}

func (r *Repo) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return r.execOne(ctx, noteNotFound, "delete note", `DELETE FROM customer_notes WHERE id = $1`, id)
}

// ListNotes returns pinned notes first, newest first within each group.
func (r *Repo) ListNotes(ctx context.Context, f NoteFilter) ([]NoteView, int, error) {
	where := `
		WHERE ($1::uuid IS NULL OR n.customer_id = $1)
		AND ($2::uuid IS NULL OR n.agent_id = $2)
		AND ($3::text IS NULL OR n.category = $3)
		AND ($4::boolean IS NULL OR n.is_pinned = $4)`
	args := []any{f.CustomerID, f.AgentID, f.Category, f.IsPinned}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer_notes n`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	rows, err := r.pool.Query(ctx, noteSelect+where+`
		ORDER BY n.is_pinned DESC, n.created_at DESC, n.id
		LIMIT $5 OFFSET $6`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	items := make([]NoteView, 0)
	for rows.Next() {
		v, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan note: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notes: %w", err)
	}
	return items, total, nil
}

func scanNote(row pgx.Row) (NoteView, error) {
	var v NoteView
	err := row.Scan(
		&v.ID, &v.CustomerID, &v.AgentID, &v.Title, &v.Content, &v.Category, &v.IsPinned,
		&v.IsImportant, &v.IsPrivate, &v.CreatedAt, &v.UpdatedAt, &v.AgentName,
	)
	return v, err
}
