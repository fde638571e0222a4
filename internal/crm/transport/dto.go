// Package transport holds the request and response shapes of the CRM API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListInteractionsRequest filters interactions.
type ListInteractionsRequest struct {
	CustomerID      string `form:"customerId" validate:"omitempty,uuid"`
	AgentID         string `form:"agentId" validate:"omitempty,uuid"`
	InteractionType string `form:"interactionType" validate:"omitempty,interaction_type"`
	Limit           int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset          int    `form:"offset" validate:"omitempty,min=0"`
}

// CreateInteractionRequest logs a customer touchpoint.
type CreateInteractionRequest struct {
	CustomerID       uuid.UUID  `json:"customerId" validate:"required"`
	AgentID          *uuid.UUID `json:"agentId"`
	PropertyID       *string    `json:"propertyId" validate:"omitempty,len=16,hexadecimal"`
	InteractionType  string     `json:"interactionType" validate:"omitempty,interaction_type"`
	Subject          *string    `json:"subject" validate:"omitempty,max=255"`
	Description      string     `json:"description" validate:"required,min=1"`
	Outcome          *string    `json:"outcome" validate:"omitempty,interaction_outcome"`
	DurationMinutes  *int       `json:"durationMinutes" validate:"omitempty,min=0"`
	ScheduledAt      *time.Time `json:"scheduledAt"`
	CompletedAt      *time.Time `json:"completedAt"`
	FollowUpRequired bool       `json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate"`
	FollowUpNotes    *string    `json:"followUpNotes"`
}

// UpdateInteractionRequest is a partial update.
type UpdateInteractionRequest struct {
	Subject          *string    `json:"subject" validate:"omitempty,max=255"`
	Description      *string    `json:"description" validate:"omitempty,min=1"`
	Outcome          *string    `json:"outcome" validate:"omitempty,interaction_outcome"`
	DurationMinutes  *int       `json:"durationMinutes" validate:"omitempty,min=0"`
	CompletedAt      *time.Time `json:"completedAt"`
	FollowUpRequired *bool      `json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate"`
	FollowUpNotes    *string    `json:"followUpNotes"`
}

// InteractionResponse is the read projection of an interaction.
type InteractionResponse struct {
	ID               uuid.UUID  `json:"id"`
	CustomerID       uuid.UUID  `json:"customerId"`
	AgentID          *uuid.UUID `json:"agentId,omitempty"`
	PropertyID       *string    `json:"propertyId,omitempty"`
	InteractionType  string     `json:"interactionType"`
	Subject          *string    `json:"subject,omitempty"`
	Description      string     `json:"description"`
	Outcome          *string    `json:"outcome,omitempty"`
	DurationMinutes  *int       `json:"durationMinutes,omitempty"`
	ScheduledAt      *time.Time `json:"scheduledAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	FollowUpRequired bool       `json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate,omitempty"`
	FollowUpNotes    *string    `json:"followUpNotes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	CustomerName     *string    `json:"customerName,omitempty"`
	AgentName        *string    `json:"agentName,omitempty"`
}

// InteractionListResponse is one page of interactions.
type InteractionListResponse struct {
	Total  int                   `json:"total"`
	Items  []InteractionResponse `json:"items"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// ListNotesRequest filters notes.
type ListNotesRequest struct {
	CustomerID string `form:"customerId" validate:"omitempty,uuid"`
	AgentID    string `form:"agentId" validate:"omitempty,uuid"`
	Category   string `form:"category" validate:"omitempty,max=50"`
	IsPinned   *bool  `form:"isPinned"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

// CreateNoteRequest adds a note to a customer.
type CreateNoteRequest struct {
	CustomerID  uuid.UUID  `json:"customerId" validate:"required"`
	AgentID     *uuid.UUID `json:"agentId"`
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Content     string     `json:"content" validate:"required,min=1"`
	Category    *string    `json:"category" validate:"omitempty,max=50"`
	IsPinned    bool       `json:"isPinned"`
	IsImportant bool       `json:"isImportant"`
	IsPrivate   bool       `json:"isPrivate"`
}

// UpdateNoteRequest is a partial update.
type UpdateNoteRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Content     *string `json:"content" validate:"omitempty,min=1"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	IsPinned    *bool   `json:"isPinned"`
	IsImportant *bool   `json:"isImportant"`
	IsPrivate   *bool   `json:"isPrivate"`
}

// NoteResponse is the read projection of a note.
type NoteResponse struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  uuid.UUID  `json:"customerId"`
	AgentID     *uuid.UUID `json:"agentId,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Content     string     `json:"content"`
	Category    *string    `json:"category,omitempty"`
	IsPinned    bool       `json:"isPinned"`
	IsImportant bool       `json:"isImportant"`
	IsPrivate   bool       `json:"isPrivate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	AgentName   *string    `json:"agentName,omitempty"`
}

// NoteListResponse is one page of notes.
type NoteListResponse struct {
	Total  int            `json:"total"`
	Items  []NoteResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListTasksRequest filters tasks.
type ListTasksRequest struct {
	CustomerID      string     `form:"customerId" validate:"omitempty,uuid"`
	AssignedAgentID string     `form:"assignedAgentId" validate:"omitempty,uuid"`
	Status          string     `form:"status" validate:"omitempty,task_status"`
	Priority        string     `form:"priority" validate:"omitempty,task_priority"`
	DueBefore       *time.Time `form:"dueBefore" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit           int        `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset          int        `form:"offset" validate:"omitempty,min=0"`
}

// ListOverdueTasksRequest filters the overdue list.
type ListOverdueTasksRequest struct {
	AssignedAgentID string `form:"assignedAgentId" validate:"omitempty,uuid"`
	Limit           int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset          int    `form:"offset" validate:"omitempty,min=0"`
}

// CreateTaskRequest creates a task.
type CreateTaskRequest struct {
	CustomerID      *uuid.UUID `json:"customerId"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId"`
	PropertyID      *string    `json:"propertyId" validate:"omitempty,len=16,hexadecimal"`
	Title           string     `json:"title" validate:"required,min=1,max=255"`
	Description     *string    `json:"description"`
	Priority        string     `json:"priority" validate:"omitempty,task_priority"`
	DueDate         *time.Time `json:"dueDate"`
	ReminderDate    *time.Time `json:"reminderDate"`
	TaskType        *string    `json:"taskType" validate:"omitempty,max=50"`
}

// UpdateTaskRequest is a partial update.
type UpdateTaskRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string    `json:"description"`
	Priority        *string    `json:"priority" validate:"omitempty,task_priority"`
	Status          *string    `json:"status" validate:"omitempty,task_status"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId"`
	DueDate         *time.Time `json:"dueDate"`
	ReminderDate    *time.Time `json:"reminderDate"`
	CompletedAt     *time.Time `json:"completedAt"`
	TaskType        *string    `json:"taskType" validate:"omitempty,max=50"`
}

// TaskResponse is the read projection of a task.
type TaskResponse struct {
	ID                uuid.UUID  `json:"id"`
	CustomerID        *uuid.UUID `json:"customerId,omitempty"`
	AssignedAgentID   *uuid.UUID `json:"assignedAgentId,omitempty"`
	PropertyID        *string    `json:"propertyId,omitempty"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	ReminderDate      *time.Time `json:"reminderDate,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	TaskType          *string    `json:"taskType,omitempty"`
	IsOverdue         bool       `json:"isOverdue"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	CustomerName      *string    `json:"customerName,omitempty"`
	AssignedAgentName *string    `json:"assignedAgentName,omitempty"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Total  int            `json:"total"`
	Items  []TaskResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// SuccessResponse acknowledges a mutation without a body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// StatsResponse is the CRM dashboard.
type StatsResponse struct {
	TotalInteractions   int   `json:"totalInteractions"`
	InteractionsToday   int   `json:"interactionsToday"`
	PendingTasks        int   `json:"pendingTasks"`
	OverdueTasks        int   `json:"overdueTasks"`
	FollowUpsDue        int   `json:"followUpsDue"`
	PipelineValue       int64 `json:"pipelineValue"`
	CustomersInPipeline int   `json:"customersInPipeline"`
}
