package repository

import (
	"context"
	"fmt"
	"time"

	"homefinder_backend/internal/crm/domain"
)

// Counts reads the dashboard counters. The statements run independently and
// are not snapshot-isolated.
func (r *Repo) Counts(ctx context.Context, now time.Time) (Counts, error) {
	var c Counts

	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE follow_up_required AND follow_up_date <= $2)
		FROM customer_interactions`, domain.DayStart(now), now,
	).Scan(&c.TotalInteractions, &c.InteractionsToday, &c.FollowUpsDue)
	if err != nil {
		return Counts{}, fmt.Errorf("count interactions: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status IN ('pending', 'in_progress') AND due_date < $1)
		FROM customer_tasks`, now,
	).Scan(&c.PendingTasks, &c.OverdueTasks)
	if err != nil {
		return Counts{}, fmt.Errorf("count tasks: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(deal_value), 0)::bigint,
			COUNT(*) FILTER (WHERE stage NOT IN ('closed_won', 'closed_lost'))
		FROM customer_pipeline`,
	).Scan(&c.PipelineValue, &c.CustomersInPipeline)
	if err != nil {
		return Counts{}, fmt.Errorf("count pipeline: %w", err)
	}

	return c, nil
}
