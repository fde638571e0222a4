package repository

import (
	"context"
	"fmt"
	"time"
)

func (r *Repo) CountCustomers(ctx context.Context) (int, int, error) {
	var total, active int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM users WHERE role = 'customer'`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count customers: %w", err)
	}
	return total, active, nil
}

func (r *Repo) CountAgents(ctx context.Context) (int, int, error) {
	var total, active int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM agents`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count agents: %w", err)
	}
	return total, active, nil
}

func (r *Repo) CountInquiries(ctx context.Context) (int, int, error) {
	var total, unread int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'new')
		FROM inquiries`).Scan(&total, &unread)
	if err != nil {
		return 0, 0, fmt.Errorf("count inquiries: %w", err)
	}
	return total, unread, nil
}

func (r *Repo) CountProperties(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return total, nil
}

// PipelineMonth counts entries created since monthStart and deals won since
// monthStart, with the won deal value total.
func (r *Repo) PipelineMonth(ctx context.Context, monthStart time.Time) (int, int, int64, error) {
	var leads, conversions int
	var revenue int64
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE stage = 'closed_won' AND last_stage_change >= $1),
			COALESCE(SUM(deal_value) FILTER (WHERE stage = 'closed_won' AND last_stage_change >= $1), 0)::bigint
		FROM customer_pipeline`, monthStart).Scan(&leads, &conversions, &revenue)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("count pipeline month: %w", err)
	}
	return leads, conversions, revenue, nil
}
