package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const activityColumns = "id, user_id, action, entity_type, entity_id, details, ip_address, created_at"

func (r *Repo) CreateActivity(ctx context.Context, a Activity) error {
	details := a.Details
	if details == nil {
		details = map[string]any{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_logs (`+activityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.Action, a.EntityType, a.EntityID, details, a.IPAddress, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListActivity returns entries newest first.
func (r *Repo) ListActivity(ctx context.Context, f ActivityFilter) ([]Activity, int, error) {
	where := `
		WHERE ($1::uuid IS NULL OR user_id = $1)
		AND ($2::text IS NULL OR action = $2)
		AND ($3::text IS NULL OR entity_type = $3)
		AND ($4::text IS NULL OR entity_id = $4)
		AND ($5::timestamptz IS NULL OR created_at >= $5)`
	args := []any{f.UserID, f.Action, f.EntityType, f.EntityID, f.Since}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+activityColumns+` FROM activity_logs`+where+`
		ORDER BY created_at DESC, id
		LIMIT $6 OFFSET $7`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate activity: %w", err)
	}
	return items, total, nil
}

func scanActivity(row pgx.Row) (Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.UserID, &a.Action, &a.EntityType, &a.EntityID, &a.Details, &a.IPAddress, &a.CreatedAt)
	return a, err
}
