package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homefinder_backend/internal/pipeline/analytics"
	"homefinder_backend/internal/pipeline/domain"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	entryNotFoundMessage      = "pipeline entry not found"
	customerNotInPipeline     = "customer not in pipeline"
	customerAlreadyInPipeline = "customer already in pipeline"
)

const entryColumns = `
	p.id, p.customer_id, p.assigned_agent_id, p.stage, p.previous_stage, p.stage_entered_at,
	p.last_stage_change, p.expected_close_date, p.deal_value, p.probability, p.lost_reason,
	p.lost_to_competitor, p.lead_source, p.created_at, p.updated_at`

const viewColumns = entryColumns + `,
	NULLIF(TRIM(CONCAT_WS(' ', u.first_name, u.last_name)), ''), u.email,
	NULLIF(TRIM(CONCAT_WS(' ', a.first_name, a.last_name)), '')`

const viewFrom = `
	FROM customer_pipeline p
	LEFT JOIN users u ON u.id = p.customer_id
	LEFT JOIN agents a ON a.id = p.assigned_agent_id`

const insertHistorySQL = `
	INSERT INTO pipeline_stage_history (id, pipeline_id, from_stage, to_stage, changed_at)
	VALUES ($1, $2, $3, $4, $5)`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new pipeline repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts the entry and its first history row in one transaction.
func (r *Repo) Create(ctx context.Context, e domain.Entry, initial domain.StageChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create pipeline entry: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO customer_pipeline (
			id, customer_id, assigned_agent_id, stage, previous_stage, stage_entered_at,
			last_stage_change, expected_close_date, deal_value, probability, lost_reason,
			lost_to_competitor, lead_source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		e.ID, e.CustomerID, e.AssignedAgentID, string(e.Stage), e.PreviousStage, e.StageEnteredAt,
		e.LastStageChange, e.ExpectedCloseDate, e.DealValue, e.Probability, e.LostReason,
		e.LostToCompetitor, e.LeadSource, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return apperr.Conflict(customerAlreadyInPipeline)
		case db.IsForeignKeyViolation(err):
			return apperr.Validation("customer does not exist")
		}
		return fmt.Errorf("insert pipeline entry: %w", err)
	}

	if err := insertHistory(ctx, tx, initial); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit pipeline entry: %w", err)
	}
	return nil
}

// Update writes every mutable column and the optional history row atomically.
func (r *Repo) Update(ctx context.Context, e domain.Entry, change *domain.StageChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update pipeline entry: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE customer_pipeline SET
			assigned_agent_id = $2, stage = $3, previous_stage = $4, stage_entered_at = $5,
			last_stage_change = $6, expected_close_date = $7, deal_value = $8, probability = $9,
			lost_reason = $10, lost_to_competitor = $11, lead_source = $12, updated_at = $13
		WHERE id = $1`,
		e.ID, e.AssignedAgentID, string(e.Stage), e.PreviousStage, e.StageEnteredAt,
		e.LastStageChange, e.ExpectedCloseDate, e.DealValue, e.Probability,
		e.LostReason, e.LostToCompetitor, e.LeadSource, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pipeline entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entryNotFoundMessage)
	}

	if change != nil {
		if err := insertHistory(ctx, tx, *change); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit pipeline update: %w", err)
	}
	return nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, c domain.StageChange) error {
	if _, err := tx.Exec(ctx, insertHistorySQL, c.ID, c.PipelineID, c.FromStage, string(c.ToStage), c.ChangedAt); err != nil {
		return fmt.Errorf("insert stage history: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by its id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM customer_pipeline p WHERE p.id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Entry{}, apperr.NotFound(entryNotFoundMessage)
		}
		return domain.Entry{}, fmt.Errorf("get pipeline entry: %w", err)
	}
	return e, nil
}

// GetByCustomerID retrieves the entry for a customer.
func (r *Repo) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (domain.Entry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM customer_pipeline p WHERE p.customer_id = $1`, customerID)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Entry{}, apperr.NotFound(customerNotInPipeline)
		}
		return domain.Entry{}, fmt.Errorf("get pipeline entry by customer: %w", err)
	}
	return e, nil
}

// GetView retrieves an entry with its display fields.
func (r *Repo) GetView(ctx context.Context, id uuid.UUID) (EntryView, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+viewColumns+viewFrom+` WHERE p.id = $1`, id)
	v, err := scanView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EntryView{}, apperr.NotFound(entryNotFoundMessage)
		}
		return EntryView{}, fmt.Errorf("get pipeline view: %w", err)
	}
	return v, nil
}

// List returns one page of the board, most recent stage entries first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]EntryView, int, error) {
	var stageParam *string
	if params.Stage != nil {
		s := string(*params.Stage)
		stageParam = &s
	}

	filter := `
		WHERE ($1::text IS NULL OR p.stage = $1)
		  AND ($2::uuid IS NULL OR p.assigned_agent_id = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer_pipeline p`+filter, stageParam, params.AssignedAgentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pipeline entries: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+viewColumns+viewFrom+filter+`
		ORDER BY p.stage_entered_at DESC, p.id
		LIMIT $3 OFFSET $4`, stageParam, params.AssignedAgentID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pipeline entries: %w", err)
	}
	defer rows.Close()

	items := make([]EntryView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pipeline entry: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pipeline entries: %w", err)
	}
	return items, total, nil
}

// History returns the stage changes of an entry, oldest first.
func (r *Repo) History(ctx context.Context, pipelineID uuid.UUID) ([]domain.StageChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, pipeline_id, from_stage, to_stage, changed_at
		FROM pipeline_stage_history
		WHERE pipeline_id = $1
		ORDER BY changed_at, id`, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("list stage history: %w", err)
	}
	defer rows.Close()

	out := make([]domain.StageChange, 0)
	for rows.Next() {
		var c domain.StageChange
		var to string
		if err := rows.Scan(&c.ID, &c.PipelineID, &c.FromStage, &to, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan stage history: %w", err)
		}
		c.ToStage = domain.Stage(to)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Aggregates reads the counts and sums behind the dashboard. Each query runs
// on its own; the result is not a consistent snapshot.
func (r *Repo) Aggregates(ctx context.Context, monthStart time.Time) (analytics.Aggregates, error) {
	out := analytics.Aggregates{StageCounts: make(map[domain.Stage]int)}

	rows, err := r.pool.Query(ctx, `SELECT stage, COUNT(*) FROM customer_pipeline GROUP BY stage`)
	if err != nil {
		return analytics.Aggregates{}, fmt.Errorf("count pipeline stages: %w", err)
	}
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			rows.Close()
			return analytics.Aggregates{}, fmt.Errorf("scan stage count: %w", err)
		}
		out.StageCounts[domain.Stage(stage)] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return analytics.Aggregates{}, fmt.Errorf("iterate stage counts: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(deal_value), 0)::bigint, COUNT(deal_value)
		FROM customer_pipeline`).Scan(&out.DealValueSum, &out.DealValueCount)
	if err != nil {
		return analytics.Aggregates{}, fmt.Errorf("sum deal values: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE stage = $2 AND last_stage_change >= $1),
			COALESCE(SUM(deal_value) FILTER (WHERE stage = $2 AND last_stage_change >= $1), 0)::bigint,
			AVG(EXTRACT(EPOCH FROM (last_stage_change - created_at)) / 86400.0)
				FILTER (WHERE stage = $2 AND last_stage_change IS NOT NULL)::float8
		FROM customer_pipeline`, monthStart, string(domain.StageClosedWon),
	).Scan(&out.LeadsThisMonth, &out.ConversionsThisMonth, &out.RevenueThisMonth, &out.AvgDaysToClose)
	if err != nil {
		return analytics.Aggregates{}, fmt.Errorf("monthly pipeline rollup: %w", err)
	}

	return out, nil
}

func scanEntry(row pgx.Row) (domain.Entry, error) {
	var e domain.Entry
	var stage string
	err := row.Scan(
		&e.ID, &e.CustomerID, &e.AssignedAgentID, &stage, &e.PreviousStage, &e.StageEnteredAt,
		&e.LastStageChange, &e.ExpectedCloseDate, &e.DealValue, &e.Probability, &e.LostReason,
		&e.LostToCompetitor, &e.LeadSource, &e.CreatedAt, &e.UpdatedAt,
	)
	e.Stage = domain.Stage(stage)
	return e, err
}

func scanView(row pgx.Row) (EntryView, error) {
	var v EntryView
	var stage string
	err := row.Scan(
		&v.ID, &v.CustomerID, &v.AssignedAgentID, &stage, &v.PreviousStage, &v.StageEnteredAt,
		&v.LastStageChange, &v.ExpectedCloseDate, &v.DealValue, &v.Probability, &v.LostReason,
		&v.LostToCompetitor, &v.LeadSource, &v.CreatedAt, &v.UpdatedAt,
		&v.CustomerName, &v.CustomerEmail, &v.AgentName,
	)
	v.Stage = domain.Stage(stage)
	return v, err
}
