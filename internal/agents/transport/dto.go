// Package transport holds the request and response shapes of the agent API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListAgentsRequest filters the agent list.
type ListAgentsRequest struct {
	Status string `form:"status" validate:"omitempty,agent_status"`
	Role   string `form:"role" validate:"omitempty,agent_role"`
	Search string `form:"search" validate:"omitempty,max=100"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}

// CreateAgentRequest registers an agent.
type CreateAgentRequest struct {
	Email         string  `json:"email" validate:"required,email,max=255"`
	FirstName     string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName      string  `json:"lastName" validate:"required,min=1,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	LicenseNumber *string `json:"licenseNumber" validate:"omitempty,max=50"`
	Bio           *string `json:"bio" validate:"omitempty,max=2000"`
	Role          string  `json:"role" validate:"omitempty,agent_role"`
	Status        string  `json:"status" validate:"omitempty,agent_status"`
	MaxCustomers  *int    `json:"maxCustomers" validate:"omitempty,min=1,max=500"`
}

// UpdateAgentRequest is a partial update.
type UpdateAgentRequest struct {
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName     *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName      *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	LicenseNumber *string `json:"licenseNumber" validate:"omitempty,max=50"`
	Bio           *string `json:"bio" validate:"omitempty,max=2000"`
	Role          *string `json:"role" validate:"omitempty,agent_role"`
	MaxCustomers  *int    `json:"maxCustomers" validate:"omitempty,min=1,max=500"`
}

// UpdateStatusRequest is the query of the status endpoint.
type UpdateStatusRequest struct {
	Status string `form:"status" validate:"required"`
}

// AssignCustomerRequest assigns a customer to an agent.
type AssignCustomerRequest struct {
	AgentID    uuid.UUID `json:"agentId" validate:"required"`
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
}

// AgentResponse is the read projection of an agent.
type AgentResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	Phone           *string   `json:"phone,omitempty"`
	LicenseNumber   *string   `json:"licenseNumber,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	IsActive        bool      `json:"isActive"`
	MaxCustomers    int       `json:"maxCustomers"`
	ActiveCustomers int       `json:"activeCustomers"`
	HasCapacity     bool      `json:"hasCapacity"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AgentListResponse is one page of agents.
type AgentListResponse struct {
	Total  int             `json:"total"`
	Items  []AgentResponse `json:"items"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// StatusResponse confirms a status change.
type StatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// AssignCustomerResponse confirms an assignment.
type AssignCustomerResponse struct {
	Success    bool      `json:"success"`
	AgentID    uuid.UUID `json:"agentId"`
	CustomerID uuid.UUID `json:"customerId"`
}

// StatsResponse summarises the agent roster.
type StatsResponse struct {
	TotalAgents        int            `json:"totalAgents"`
	ActiveAgents       int            `json:"activeAgents"`
	AgentsByStatus     map[string]int `json:"agentsByStatus"`
	TotalCapacity      int            `json:"totalCapacity"`
	AssignedCustomers  int            `json:"assignedCustomers"`
	AgentsWithCapacity int            `json:"agentsWithCapacity"`
}
