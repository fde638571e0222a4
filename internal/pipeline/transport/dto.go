// Package transport holds the request and response shapes of the pipeline API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListEntriesRequest filters the pipeline board.
type ListEntriesRequest struct {
	Stage           string `form:"stage" validate:"omitempty,pipeline_stage"`
	AssignedAgentID string `form:"assignedAgentId" validate:"omitempty,uuid"`
	Limit           int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset          int    `form:"offset" validate:"omitempty,min=0"`
}

// CreateEntryRequest adds a customer to the pipeline.
type CreateEntryRequest struct {
	CustomerID        uuid.UUID  `json:"customerId" validate:"required"`
	AssignedAgentID   *uuid.UUID `json:"assignedAgentId"`
	Stage             string     `json:"stage" validate:"omitempty,pipeline_stage"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	DealValue         *int64     `json:"dealValue" validate:"omitempty,min=0"`
	Probability       *int       `json:"probability" validate:"omitempty,min=0,max=100"`
	LeadSource        *string    `json:"leadSource" validate:"omitempty,max=100"`
}

// UpdateEntryRequest is a partial update; absent fields are left unchanged.
type UpdateEntryRequest struct {
	Stage             *string    `json:"stage" validate:"omitempty,pipeline_stage"`
	AssignedAgentID   *uuid.UUID `json:"assignedAgentId"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	DealValue         *int64     `json:"dealValue" validate:"omitempty,min=0"`
	Probability       *int       `json:"probability" validate:"omitempty,min=0,max=100"`
	LostReason        *string    `json:"lostReason" validate:"omitempty,max=500"`
	LostToCompetitor  *string    `json:"lostToCompetitor" validate:"omitempty,max=255"`
	LeadSource        *string    `json:"leadSource" validate:"omitempty,max=100"`
}

// UpdateStageRequest is the query of the by-customer stage endpoint.
type UpdateStageRequest struct {
	Stage string `form:"stage" validate:"required"`
}

// EntryResponse is the read projection of a pipeline entry.
type EntryResponse struct {
	ID                uuid.UUID  `json:"id"`
	CustomerID        uuid.UUID  `json:"customerId"`
	AssignedAgentID   *uuid.UUID `json:"assignedAgentId,omitempty"`
	Stage             string     `json:"stage"`
	PreviousStage     *string    `json:"previousStage,omitempty"`
	StageEnteredAt    time.Time  `json:"stageEnteredAt"`
	LastStageChange   *time.Time `json:"lastStageChange,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	DealValue         *int64     `json:"dealValue,omitempty"`
	Probability       int        `json:"probability"`
	LostReason        *string    `json:"lostReason,omitempty"`
	LostToCompetitor  *string    `json:"lostToCompetitor,omitempty"`
	LeadSource        *string    `json:"leadSource,omitempty"`
	IsClosed          bool       `json:"isClosed"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	CustomerName      *string    `json:"customerName,omitempty"`
	CustomerEmail     *string    `json:"customerEmail,omitempty"`
	AssignedAgentName *string    `json:"assignedAgentName,omitempty"`
}

// EntryListResponse is one page of the pipeline board.
type EntryListResponse struct {
	Total  int             `json:"total"`
	Items  []EntryResponse `json:"items"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// StageUpdateResponse confirms a by-customer stage change.
type StageUpdateResponse struct {
	Success bool   `json:"success"`
	Stage   string `json:"stage"`
	Changed bool   `json:"changed"`
}

// StageChangeResponse is one stage history row.
type StageChangeResponse struct {
	ID        uuid.UUID `json:"id"`
	FromStage *string   `json:"fromStage,omitempty"`
	ToStage   string    `json:"toStage"`
	ChangedAt time.Time `json:"changedAt"`
}

// StageHistoryResponse lists an entry's stage changes, oldest first.
type StageHistoryResponse struct {
	PipelineID uuid.UUID             `json:"pipelineId"`
	Items      []StageChangeResponse `json:"items"`
}

// StatsResponse is the pipeline dashboard.
type StatsResponse struct {
	TotalLeads           int            `json:"totalLeads"`
	LeadsByStage         map[string]int `json:"leadsByStage"`
	TotalDealValue       int64          `json:"totalDealValue"`
	AvgDealValue         float64        `json:"avgDealValue"`
	ConversionRate       float64        `json:"conversionRate"`
	LeadsThisMonth       int            `json:"leadsThisMonth"`
	ConversionsThisMonth int            `json:"conversionsThisMonth"`
	RevenueThisMonth     int64          `json:"revenueThisMonth"`
	AvgDaysToClose       *float64       `json:"avgDaysToClose"`
	MonthStart           time.Time      `json:"monthStart"`
}
