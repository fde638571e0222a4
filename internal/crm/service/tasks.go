package service

import (
	"context"
	"time"

	"homefinder_backend/internal/crm/domain"
	"homefinder_backend/internal/crm/repository"
	"homefinder_backend/internal/crm/transport"
	"homefinder_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListTasks returns tasks by due date, undated last, then by priority.
func (s *Service) ListTasks(ctx context.Context, req transport.ListTasksRequest) (transport.TaskListResponse, error) {
	customerID, err := optionalID(req.CustomerID, "customer id")
	if err != nil {
		return transport.TaskListResponse{}, err
	}
	agentID, err := optionalID(req.AssignedAgentID, "agent id")
	if err != nil {
		return transport.TaskListResponse{}, err
	}
	limit, offset := page(req.Limit, req.Offset)

	items, total, err := s.repo.ListTasks(ctx, repository.TaskFilter{
		CustomerID:      customerID,
		AssignedAgentID: agentID,
		Status:          optional(req.Status),
		Priority:        optional(req.Priority),
		DueBefore:       req.DueBefore,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return transport.TaskListResponse{}, err
	}
	return s.taskList(items, total, limit, offset), nil
}

// ListOverdueTasks returns open tasks past their due date.
func (s *Service) ListOverdueTasks(ctx context.Context, req transport.ListOverdueTasksRequest) (transport.TaskListResponse, error) {
	agentID, err := optionalID(req.AssignedAgentID, "agent id")
	if err != nil {
		return transport.TaskListResponse{}, err
	}
	limit, offset := page(req.Limit, req.Offset)

	items, total, err := s.repo.ListOverdueTasks(ctx, s.now(), agentID, limit, offset)
	if err != nil {
		return transport.TaskListResponse{}, err
	}
	return s.taskList(items, total, limit, offset), nil
}

// CreateTask creates a pending task. Priority defaults to medium.
func (s *Service) CreateTask(ctx context.Context, req transport.CreateTaskRequest) (transport.TaskResponse, error) {
	now := s.now()
	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.TaskPriority(req.Priority)
	}

	t := domain.Task{
		ID:              uuid.New(),
		CustomerID:      req.CustomerID,
		AssignedAgentID: req.AssignedAgentID,
		PropertyID:      req.PropertyID,
		Title:           sanitize.Text(req.Title),
		Description:     sanitize.TextPtr(req.Description),
		Priority:        priority,
		Status:          domain.TaskPending,
		DueDate:         req.DueDate,
		ReminderDate:    req.ReminderDate,
		TaskType:        req.TaskType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return transport.TaskResponse{}, err
	}

	s.log.Info("task created", "id", t.ID, "priority", t.Priority)
	return s.GetTask(ctx, t.ID)
}

// GetTask returns one task.
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (transport.TaskResponse, error) {
	v, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	return toTaskResponse(v, s.now()), nil
}

// UpdateTask applies a partial update. A move to completed stamps the
// completion time unless one is already set.
func (s *Service) UpdateTask(ctx context.Context, id uuid.UUID, req transport.UpdateTaskRequest) (transport.TaskResponse, error) {
	v, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	now := s.now()
	t := v.Task
	if req.Title != nil {
		t.Title = sanitize.Text(*req.Title)
	}
	if req.Description != nil {
		t.Description = sanitize.TextPtr(req.Description)
	}
	if req.Priority != nil {
		t.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.AssignedAgentID != nil {
		t.AssignedAgentID = req.AssignedAgentID
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.ReminderDate != nil {
		t.ReminderDate = req.ReminderDate
	}
	if req.CompletedAt != nil {
		t.CompletedAt = req.CompletedAt
	}
	if req.TaskType != nil {
		t.TaskType = req.TaskType
	}
	if req.Status != nil {
		t.SetStatus(domain.TaskStatus(*req.Status), now)
	}
	t.UpdatedAt = now

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return transport.TaskResponse{}, err
	}
	v.Task = t
	return toTaskResponse(v, now), nil
}

// CompleteTask marks a task completed now.
func (s *Service) CompleteTask(ctx context.Context, id uuid.UUID) (transport.SuccessResponse, error) {
	v, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return transport.SuccessResponse{}, err
	}

	now := s.now()
	t := v.Task
	t.Complete(now)
	t.UpdatedAt = now
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return transport.SuccessResponse{}, err
	}

	s.log.Info("task completed", "id", t.ID)
	return transport.SuccessResponse{Success: true}, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTask(ctx, id)
}

func (s *Service) taskList(items []repository.TaskView, total, limit, offset int) transport.TaskListResponse {
	now := s.now()
	resp := make([]transport.TaskResponse, 0, len(items))
	for _, v := range items {
		resp = append(resp, toTaskResponse(v, now))
	}
	return transport.TaskListResponse{Total: total, Items: resp, Limit: limit, Offset: offset}
}

func toTaskResponse(v repository.TaskView, now time.Time) transport.TaskResponse {
	return transport.TaskResponse{
		ID:                v.ID,
		CustomerID:        v.CustomerID,
		AssignedAgentID:   v.AssignedAgentID,
		PropertyID:        v.PropertyID,
		Title:             v.Title,
		Description:       v.Description,
		Priority:          string(v.Priority),
		Status:            string(v.Status),
		DueDate:           v.DueDate,
		ReminderDate:      v.ReminderDate,
		CompletedAt:       v.CompletedAt,
		TaskType:          v.TaskType,
		IsOverdue:         v.IsOverdue(now),
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
		CustomerName:      v.CustomerName,
		AssignedAgentName: v.AssignedAgentName,
	}
}
