// Package domain holds the CRM record types: interactions, notes and tasks.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// InteractionType classifies a customer touchpoint.
type InteractionType string

const (
	InteractionPhoneCall      InteractionType = "phone_call"
	InteractionEmail          InteractionType = "email"
	InteractionSMS            InteractionType = "sms"
	InteractionInPerson       InteractionType = "in_person"
	InteractionVideoCall      InteractionType = "video_call"
	InteractionPropertyTour   InteractionType = "property_tour"
	InteractionOpenHouse      InteractionType = "open_house"
	InteractionDocumentSent   InteractionType = "document_sent"
	InteractionOfferSubmitted InteractionType = "offer_submitted"
	InteractionContractSigned InteractionType = "contract_signed"
	InteractionOther          InteractionType = "other"
)

var interactionTypes = []InteractionType{
	InteractionPhoneCall, InteractionEmail, InteractionSMS, InteractionInPerson,
	InteractionVideoCall, InteractionPropertyTour, InteractionOpenHouse, InteractionDocumentSent,
	InteractionOfferSubmitted, InteractionContractSigned, InteractionOther,
}

// IsKnownInteractionType reports whether s names an interaction type.
func IsKnownInteractionType(s string) bool {
	return slices.Contains(interactionTypes, InteractionType(s))
}

// Outcome is the result of an interaction.
type Outcome string

const (
	OutcomePositive       Outcome = "positive"
	OutcomeNeutral        Outcome = "neutral"
	OutcomeNegative       Outcome = "negative"
	OutcomeFollowUpNeeded Outcome = "follow_up_needed"
	OutcomeNoAnswer       Outcome = "no_answer"
	OutcomeLeftVoicemail  Outcome = "left_voicemail"
)

// IsKnownOutcome reports whether s names an interaction outcome.
func IsKnownOutcome(s string) bool {
	switch Outcome(s) {
	case OutcomePositive, OutcomeNeutral, OutcomeNegative, OutcomeFollowUpNeeded, OutcomeNoAnswer, OutcomeLeftVoicemail:
		return true
	}
	return false
}

// TaskPriority orders tasks with equal due dates.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Rank is 1 for low through 4 for urgent, 0 when unknown.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

// IsKnownTaskPriority reports whether s names a task priority.
func IsKnownTaskPriority(s string) bool {
	return TaskPriority(s).Rank() > 0
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
	TaskOverdue    TaskStatus = "overdue"
)

// IsKnownTaskStatus reports whether s names a task status.
func IsKnownTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled, TaskOverdue:
		return true
	}
	return false
}

// IsOpen reports whether a task with this status still counts toward overdue work.
func (s TaskStatus) IsOpen() bool {
	return s == TaskPending || s == TaskInProgress
}

// Interaction is a logged customer touchpoint.
type Interaction struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	AgentID          *uuid.UUID
	PropertyID       *string
	Type             InteractionType
	Subject          *string
	Description      string
	Outcome          *Outcome
	DurationMinutes  *int
	ScheduledAt      *time.Time
	CompletedAt      *time.Time
	FollowUpRequired bool
	FollowUpDate     *time.Time
	FollowUpNotes    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Note is free text an agent keeps about a customer.
type Note struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	AgentID     *uuid.UUID
	Title       *string
	Content     string
	Category    *string
	IsPinned    bool
	IsImportant bool
	IsPrivate   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task is a to-do item, optionally tied to a customer or a listing.
type Task struct {
	ID              uuid.UUID
	CustomerID      *uuid.UUID
	AssignedAgentID *uuid.UUID
	PropertyID      *string
	Title           string
	Description     *string
	Priority        TaskPriority
	Status          TaskStatus
	DueDate         *time.Time
	ReminderDate    *time.Time
	CompletedAt     *time.Time
	TaskType        *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetStatus changes the status. Moving to completed stamps CompletedAt the
// first time only.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	if status == TaskCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
}

// Complete marks the task done at now, overwriting any earlier completion time.
func (t *Task) Complete(now time.Time) {
	t.Status = TaskCompleted
	t.CompletedAt = &now
}

// IsOverdue reports whether the task is open and past its due date at now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status.IsOpen() && t.DueDate != nil && t.DueDate.Before(now)
}

// DayStart returns midnight UTC of the day containing now.
func DayStart(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
