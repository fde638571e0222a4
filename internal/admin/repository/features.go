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
)

const featureColumns = `id, feature_key, name, description, category, is_enabled, display_order,
	enabled_by, enabled_at, created_at, updated_at`

// ListFeatures returns toggles ordered by category, display order and key.
func (r *Repo) ListFeatures(ctx context.Context, f FeatureFilter) ([]Feature, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+featureColumns+` FROM feature_settings
		WHERE ($1::text IS NULL OR category = $1)
		AND ($2::boolean IS NULL OR is_enabled = $2)
		ORDER BY category, display_order, feature_key`, f.Category, f.IsEnabled)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()

	items := make([]Feature, 0)
	for rows.Next() {
		item, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return items, nil
}

func (r *Repo) GetFeature(ctx context.Context, key string) (Feature, error) {
	f, err := scanFeature(r.pool.QueryRow(ctx, `SELECT `+featureColumns+` FROM feature_settings WHERE feature_key = $1`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return Feature{}, apperr.NotFound(featureNotFound)
	}
	if err != nil {
		return Feature{}, fmt.Errorf("get feature: %w", err)
	}
	return f, nil
}

func (r *Repo) CreateFeature(ctx context.Context, f Feature) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO feature_settings (`+featureColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		f.ID, f.FeatureKey, f.Name, f.Description, f.Category, f.IsEnabled, f.DisplayOrder,
		f.EnabledBy, f.EnabledAt, f.CreatedAt, f.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict("feature key already exists")
	}
	if err != nil {
		return fmt.Errorf("insert feature: %w", err)
	}
	return nil
}

func (r *Repo) UpdateFeature(ctx context.Context, f Feature) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE feature_settings
		SET name = $2, description = $3, category = $4, is_enabled = $5, display_order = $6, updated_at = $7
		WHERE feature_key = $1`,
		f.FeatureKey, f.Name, f.Description, f.Category, f.IsEnabled, f.DisplayOrder, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(featureNotFound)
	}
	return nil
}

func (r *Repo) SetFeatureEnabled(ctx context.Context, key string, enabled bool, by *uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE feature_settings
		SET is_enabled = $2, enabled_by = $3, enabled_at = $4, updated_at = $4
		WHERE feature_key = $1`, key, enabled, by, at)
	if err != nil {
		return fmt.Errorf("toggle feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(featureNotFound)
	}
	return nil
}

func (r *Repo) DeleteFeature(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feature_settings WHERE feature_key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(featureNotFound)
	}
	return nil
}

func (r *Repo) InsertFeatureIfAbsent(ctx context.Context, f Feature) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO feature_settings (`+featureColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (feature_key) DO NOTHING`,
		f.ID, f.FeatureKey, f.Name, f.Description, f.Category, f.IsEnabled, f.DisplayOrder,
		f.EnabledBy, f.EnabledAt, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("seed feature %s: %w", f.FeatureKey, err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanFeature(row pgx.Row) (Feature, error) {
	var f Feature
	err := row.Scan(
		&f.ID, &f.FeatureKey, &f.Name, &f.Description, &f.Category, &f.IsEnabled, &f.DisplayOrder,
		&f.EnabledBy, &f.EnabledAt, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}
