package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLostDetailsOutsideLost is returned when lost reason or competitor is set
// on an entry that does not end up in closed_lost.
var ErrLostDetailsOutsideLost = errors.New("lost reason and competitor are only allowed in the closed_lost stage")

// Entry is a customer's pipeline record. There is at most one per customer.
type Entry struct {
	ID                uuid.UUID
	CustomerID        uuid.UUID
	AssignedAgentID   *uuid.UUID
	Stage             Stage
	PreviousStage     *string
	StageEnteredAt    time.Time
	LastStageChange   *time.Time
	ExpectedCloseDate *time.Time
	DealValue         *int64
	Probability       int
	LostReason        *string
	LostToCompetitor  *string
	LeadSource        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StageChange is one row of an entry's stage history.
type StageChange struct {
	ID         uuid.UUID
	PipelineID uuid.UUID
	FromStage  *string
	ToStage    Stage
	ChangedAt  time.Time
}

// NewEntry starts a customer in stage (new_lead when empty).
func NewEntry(customerID uuid.UUID, stage Stage, now time.Time) Entry {
	if stage == "" {
		stage = StageNewLead
	}
	return Entry{
		ID:             uuid.New(),
		CustomerID:     customerID,
		Stage:          stage,
		StageEnteredAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// InitialChange is the history row recorded when the entry is created.
func (e Entry) InitialChange() StageChange {
	return StageChange{ID: uuid.New(), PipelineID: e.ID, ToStage: e.Stage, ChangedAt: e.StageEnteredAt}
}

// TransitionTo moves the entry to stage and returns the history row to
// record. Any stage may follow any other. Requesting the current stage is a
// no-op and returns nil. Leaving closed_lost clears the lost details.
func (e *Entry) TransitionTo(stage Stage, now time.Time) *StageChange {
	if stage == e.Stage {
		return nil
	}

	from := string(e.Stage)
	changedAt := now
	e.PreviousStage = &from
	e.Stage = stage
	e.StageEnteredAt = now
	e.LastStageChange = &changedAt
	e.UpdatedAt = now
	if stage != StageClosedLost {
		e.LostReason = nil
		e.LostToCompetitor = nil
	}

	return &StageChange{ID: uuid.New(), PipelineID: e.ID, FromStage: &from, ToStage: stage, ChangedAt: now}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Stage             *Stage
	AssignedAgentID   *uuid.UUID
	ExpectedCloseDate *time.Time
	DealValue         *int64
	Probability       *int
	LostReason        *string
	LostToCompetitor  *string
	LeadSource        *string
}

// Apply updates the entry from p. The stage moves first so lost details are
// checked against the resulting stage. The returned change is nil when the
// stage did not move.
func (e *Entry) Apply(p Patch, now time.Time) (*StageChange, error) {
	resulting := e.Stage
	if p.Stage != nil {
		resulting = *p.Stage
	}
	if (p.LostReason != nil || p.LostToCompetitor != nil) && resulting != StageClosedLost {
		return nil, ErrLostDetailsOutsideLost
	}

	var change *StageChange
	if p.Stage != nil {
		change = e.TransitionTo(*p.Stage, now)
	}

	if p.AssignedAgentID != nil {
		e.AssignedAgentID = p.AssignedAgentID
	}
	if p.ExpectedCloseDate != nil {
		e.ExpectedCloseDate = p.ExpectedCloseDate
	}
	if p.DealValue != nil {
		e.DealValue = p.DealValue
	}
	if p.Probability != nil {
		e.Probability = *p.Probability
	}
	if p.LostReason != nil {
		e.LostReason = p.LostReason
	}
	if p.LostToCompetitor != nil {
		e.LostToCompetitor = p.LostToCompetitor
	}
	if p.LeadSource != nil {
		e.LeadSource = p.LeadSource
	}
	e.UpdatedAt = now
	return change, nil
}
