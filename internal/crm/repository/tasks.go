package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homefinder_backend/internal/crm/domain"
	"homefinder_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskNotFound = "task not found"

const taskSelect = `
	SELECT t.id, t.customer_id, t.assigned_agent_id, t.property_id, t.title, t.description,
		t.priority, t.status, t.due_date, t.reminder_date, t.completed_at, t.task_type,
		t.created_at, t.updated_at, ` + customerNameSQL + `, ` + agentNameSQL + `
	FROM customer_tasks t
	LEFT JOIN users u ON u.id = t.customer_id
	LEFT JOIN agents a ON a.id = t.assigned_agent_id`

const priorityRankSQL = `CASE t.priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END`

func (r *Repo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customer_tasks (
			id, customer_id, assigned_agent_id, property_id, title, description, priority, status,
			due_date, reminder_date, completed_at, task_type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.ID, t.CustomerID, t.AssignedAgentID, t.PropertyID, t.Title, t.Description,
		string(t.Priority), string(t.Status), t.DueDate, t.ReminderDate, t.CompletedAt, t.TaskType,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return writeError(err, "insert task")
	}
	return nil
}

func (r *Repo) GetTask(ctx context.Context, id uuid.UUID) (TaskView, error) {
	v, err := scanTask(r.pool.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return TaskView{}, apperr.NotFound(taskNotFound)
	}
	if err != nil {
		return TaskView{}, fmt.Errorf("get task: %w", err)
	}
	return v, nil
}

func (r *Repo) UpdateTask(ctx context.Context, t domain.Task) error {
	return r.execOne(ctx, taskNotFound, "update task", `
		UPDATE customer_tasks SET
			assigned_agent_id = $2, title = $3, description = $4, priority = $5, status = $6,
			due_date = $7, reminder_date = $8, completed_at = $9, task_type = $10, updated_at = $11
		WHERE id = $1`,
		t.ID, t.AssignedAgentID, t.Title, t.Description, string(t.Priority), string(t.Status),
		t.DueDate, t.ReminderDate, t.CompletedAt, t.TaskType, t.UpdatedAt,
	)
}

func (r *Repo) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return r.execOne(ctx, taskNotFound, "delete task", `DELETE FROM customer_tasks WHERE id = $1`, id)
}

// ListTasks orders by due date with undated tasks last, then by priority.
func (r *Repo) ListTasks(ctx context.Context, f TaskFilter) ([]TaskView, int, error) {
	where := `
		WHERE ($1::uuid IS NULL OR t.customer_id = $1)
		AND ($2::uuid IS NULL OR t.assigned_agent_id = $2)
		AND ($3::text IS NULL OR t.status = $3)
		AND ($4::text IS NULL OR t.priority = $4)
		AND ($5::timestamptz IS NULL OR t.due_date <= $5)`
	args := []any{f.CustomerID, f.AssignedAgentID, f.Status, f.Priority, f.DueBefore}

	return r.listTasks(ctx, "list tasks", where, `t.due_date ASC NULLS LAST, `+priorityRankSQL+` DESC, t.id`, args, f.Limit, f.Offset)
}

// ListOverdueTasks returns open tasks due before now, soonest first.
func (r *Repo) ListOverdueTasks(ctx context.Context, now time.Time, agentID *uuid.UUID, limit, offset int) ([]TaskView, int, error) {
	where := `
		WHERE t.due_date < $1
		AND t.status IN ('pending', 'in_progress')
		AND ($2::uuid IS NULL OR t.assigned_agent_id = $2)`
	args := []any{now, agentID}

	return r.listTasks(ctx, "list overdue tasks", where, `t.due_date ASC, t.id`, args, limit, offset)
}

func (r *Repo) listTasks(ctx context.Context, op, where, orderBy string, args []any, limit, offset int) ([]TaskView, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer_tasks t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT $%d OFFSET $%d", taskSelect, where, orderBy, n+1, n+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]TaskView, 0)
	for rows.Next() {
		v, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tasks: %w", err)
	}
	return items, total, nil
}

func scanTask(row pgx.Row) (TaskView, error) {
	var (
		v        TaskView
		priority string
		status   string
	)
	err := row.Scan(
		&v.ID, &v.CustomerID, &v.AssignedAgentID, &v.PropertyID, &v.Title, &v.Description,
		&priority, &status, &v.DueDate, &v.ReminderDate, &v.CompletedAt, &v.TaskType,
		&v.CreatedAt, &v.UpdatedAt, &v.CustomerName, &v.AssignedAgentName,
	)
	if err != nil {
		return TaskView{}, err
	}
	v.Priority = domain.TaskPriority(priority)
	v.Status = domain.TaskStatus(status)
	return v, nil
}
