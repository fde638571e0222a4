package repository

import (
	"context"
	"time"

	"homefinder_backend/internal/crm/domain"

	"github.com/google/uuid"
)

// InteractionView adds display names to an interaction.
type InteractionView struct {
	domain.Interaction
	CustomerName *string
	AgentName    *string
}

// NoteView adds the author's name to a note.
type NoteView struct {
	domain.Note
	AgentName *string
}

// TaskView adds display names to a task.
type TaskView struct {
	domain.Task
	CustomerName      *string
	AssignedAgentName *string
}

// InteractionFilter narrows the interaction list.
type InteractionFilter struct {
	CustomerID *uuid.UUID
	AgentID    *uuid.UUID
	Type       *string
	Limit      int
	Offset     int
}

// NoteFilter narrows the note list.
type NoteFilter struct {
	CustomerID *uuid.UUID
	AgentID    *uuid.UUID
	Category   *string
	IsPinned   *bool
	Limit      int
	Offset     int
}

// TaskFilter narrows the task list.
type TaskFilter struct {
	CustomerID      *uuid.UUID
	AssignedAgentID *uuid.UUID
	Status          *string
	Priority        *string
	DueBefore       *time.Time
	Limit           int
	Offset          int
}

// Counts backs the CRM dashboard.
type Counts struct {
	TotalInteractions   int
	InteractionsToday   int
	PendingTasks        int
	OverdueTasks        int
	FollowUpsDue        int
	PipelineValue       int64
	CustomersInPipeline int
}

// InteractionRepository persists customer interactions.
type InteractionRepository interface {
	CreateInteraction(ctx context.Context, i domain.Interaction) error
	GetInteraction(ctx context.Context, id uuid.UUID) (InteractionView, error)
	UpdateInteraction(ctx context.Context, i domain.Interaction) error
	DeleteInteraction(ctx context.Context, id uuid.UUID) error
	ListInteractions(ctx context.Context, f InteractionFilter) ([]InteractionView, int, error)
}

// NoteRepository persists customer notes.
type NoteRepository interface {
	CreateNote(ctx context.Context, n domain.Note) error
	GetNote(ctx context.Context, id uuid.UUID) (NoteView, error)
	UpdateNote(ctx context.Context, n domain.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
	ListNotes(ctx context.Context, f NoteFilter) ([]NoteView, int, error)
}

// TaskRepository persists tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, t domain.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (TaskView, error)
	UpdateTask(ctx context.Context, t domain.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListTasks(ctx context.Context, f TaskFilter) ([]TaskView, int, error)
	ListOverdueTasks(ctx context.Context, now time.Time, agentID *uuid.UUID, limit, offset int) ([]TaskView, int, error)
}

// StatsReader reads the dashboard counters.
type StatsReader interface {
	Counts(ctx context.Context, now time.Time) (Counts, error)
}

// Repository combines every CRM store.
type Repository interface {
	InteractionRepository
	NoteRepository
	TaskRepository
	StatsReader
}
