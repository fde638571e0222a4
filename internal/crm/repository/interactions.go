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

const interactionNotFound = "interaction not found"

const interactionSelect = `
	SELECT i.id, i.customer_id, i.agent_id, i.property_id, i.interaction_type, i.subject,
		i.description, i.outcome, i.duration_minutes, i.scheduled_at, i.completed_at,
		i.follow_up_required, i.follow_up_date, i.follow_up_notes, i.created_at, i.updated_at,
		` + customerNameSQL + `, ` + agentNameSQL + `
	FROM customer_interactions i
	LEFT JOIN users u ON u.id = i.customer_id
	LEFT JOIN agents a ON a.id = i.agent_id`

func (r *Repo) CreateInteraction(ctx context.Context, i domain.Interaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customer_interactions (
			id, customer_id, agent_id, property_id, interaction_type, subject, description, outcome,
			duration_minutes, scheduled_at, completed_at, follow_up_required, follow_up_date,
			follow_up_notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		i.ID, i.CustomerID, i.AgentID, i.PropertyID, string(i.Type), i.Subject, i.Description, i.Outcome,
		i.DurationMinutes, i.ScheduledAt, i.CompletedAt, i.FollowUpRequired, i.FollowUpDate,
		i.FollowUpNotes, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return writeError(err, "insert interaction")
	}
	return nil
}

func (r *Repo) GetInteraction(ctx context.Context, id uuid.UUID) (InteractionView, error) {
	v, err := scanInteraction(r.pool.QueryRow(ctx, interactionSelect+` WHERE i.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return InteractionView{}, apperr.NotFound(interactionNotFound)
	}
	if err != nil {
		return InteractionView{}, fmt.Errorf("get interaction: %w", err)
	}
	return v, nil
}

func (r *Repo) UpdateInteraction(ctx context.Context, i domain.Interaction) error {
	return r.execOne(ctx, interactionNotFound, "update interaction", `
		UPDATE customer_interactions SET
			subject = $2, description = $3, outcome = $4, duration_minutes = $5, completed_at = $6,
			follow_up_required = $7, follow_up_date = $8, follow_up_notes = $9, updated_at = $10
		WHERE id = $1`,
		i.ID, i.Subject, i.Description, i.Outcome, i.DurationMinutes, i.CompletedAt,
		i.FollowUpRequired, i.FollowUpDate, i.FollowUpNotes, i.UpdatedAt,
	)
}

func (r *Repo) DeleteInteraction(ctx context.Context, id uuid.UUID) error {
	return r.execOne(ctx, interactionNotFound, "delete interaction", `DELETE FROM customer_interactions WHERE id = $1`, id)
}

func (r *Repo) ListInteractions(ctx context.Context, f InteractionFilter) ([]InteractionView, int, error) {
	where := `
		WHERE ($1::uuid IS NULL OR i.customer_id = $1)
		AND ($2::uuid IS NULL OR i.agent_id = $2)
		AND ($3::text IS NULL OR i.interaction_type = $3)`
	args := []any{f.CustomerID, f.AgentID, f.Type}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer_interactions i`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count interactions: %w", err)
	}

	rows, err := r.pool.Query(ctx, interactionSelect+where+`
		ORDER BY i.created_at DESC, i.id
		LIMIT $4 OFFSET $5`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	items := make([]InteractionView, 0)
	for rows.Next() {
		v, err := scanInteraction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan interaction: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate interactions: %w", err)
	}
	return items, total, nil
}

func scanInteraction(row pgx.Row) (InteractionView, error) {
	var (
		v       InteractionView
		kind    string
		outcome *string
	)
	err := row.Scan(
		&v.ID, &v.CustomerID, &v.AgentID, &v.PropertyID, &kind, &v.Subject,
		&v.Description, &outcome, &v.DurationMinutes, &v.ScheduledAt, &v.CompletedAt,
		&v.FollowUpRequired, &v.FollowUpDate, &v.FollowUpNotes, &v.CreatedAt, &v.UpdatedAt,
		&v.CustomerName, &v.AgentName,
	)
	if err != nil {
		return InteractionView{}, err
	}
	v.Type = domain.InteractionType(kind)
	if outcome != nil {
		o := domain.Outcome(*outcome)
		v.Outcome = &o
	}
	return v, nil
}
