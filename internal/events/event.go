package events

import (
	"time"

	"github.com/google/uuid"
)

// InquirySubmitted fires after a contact-form inquiry is persisted.
type InquirySubmitted struct {
	BaseEvent
	InquiryID       uuid.UUID `json:"inquiryId"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	Message         string    `json:"message"`
	InquiryType     string    `json:"inquiryType"`
	PropertyID      *string   `json:"propertyId,omitempty"`
	PropertyAddress *string   `json:"propertyAddress,omitempty"`
	PropertyPrice   *int64    `json:"propertyPrice,omitempty"`
}

func (InquirySubmitted) EventName() string { return "inquiries.submitted" }

// PipelineEntryCreated fires when a customer enters the sales pipeline.
type PipelineEntryCreated struct {
	BaseEvent
	EntryID    uuid.UUID  `json:"entryId"`
	CustomerID uuid.UUID  `json:"customerId"`
	Stage      string     `json:"stage"`
	ActorID    *uuid.UUID `json:"actorId,omitempty"`
}

func (PipelineEntryCreated) EventName() string { return "pipeline.entry_created" }

// PipelineStageChanged fires after an effective stage transition is stored.
type PipelineStageChanged struct {
	BaseEvent
	EntryID       uuid.UUID  `json:"entryId"`
	CustomerID    uuid.UUID  `json:"customerId"`
	PreviousStage string     `json:"previousStage"`
	Stage         string     `json:"stage"`
	ChangedAt     time.Time  `json:"changedAt"`
	ActorID       *uuid.UUID `json:"actorId,omitempty"`
}

func (PipelineStageChanged) EventName() string { return "pipeline.stage_changed" }

// PropertyImportCompleted fires when a guarded bulk import finishes.
type PropertyImportCompleted struct {
	BaseEvent
	StartedAt     time.Time     `json:"startedAt"`
	Loaded        int           `json:"loaded"`
	Skipped       int           `json:"skipped"`
	Rejected      int           `json:"rejected"`
	Lost          int           `json:"lost"`
	Files         int           `json:"files"`
	FileErrors    int           `json:"fileErrors"`
	Batches       int           `json:"batches"`
	FailedBatches int           `json:"failedBatches"`
	Elapsed       time.Duration `json:"elapsed"`
	ReportKey     string        `json:"reportKey,omitempty"`
	Err           string        `json:"error,omitempty"`
}

func (PropertyImportCompleted) EventName() string { return "properties.import_completed" }
