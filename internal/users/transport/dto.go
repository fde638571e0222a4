// Package transport holds the request and response shapes of the user API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListUsersRequest filters the user list.
type ListUsersRequest struct {
	Status          string `form:"status" validate:"omitempty,user_status"`
	Role            string `form:"role" validate:"omitempty,user_role"`
	Search          string `form:"search" validate:"omitempty,max=100"`
	AssignedAgentID string `form:"assignedAgentId" validate:"omitempty,uuid"`
	Limit           int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset          int    `form:"offset" validate:"omitempty,min=0"`
}

// CreateUserRequest registers an account.
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Role      string  `json:"role" validate:"omitempty,user_role"`
	Status    string  `json:"status" validate:"omitempty,user_status"`
}

// UpdateUserRequest is a partial update.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Role      *string `json:"role" validate:"omitempty,user_role"`
}

// UpdateStatusRequest is the query of the status endpoint.
type UpdateStatusRequest struct {
	Status string `form:"status" validate:"required"`
}

// AssignAgentRequest is the query of the assign-agent endpoint. An empty
// agentId clears the assignment.
type AssignAgentRequest struct {
	AgentID string `form:"agentId" validate:"omitempty,uuid"`
}

// UserResponse is the read projection of a user.
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       *string    `json:"firstName,omitempty"`
	LastName        *string    `json:"lastName,omitempty"`
	FullName        string     `json:"fullName"`
	Phone           *string    `json:"phone,omitempty"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	IsActive        bool       `json:"isActive"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Total  int            `json:"total"`
	Items  []UserResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// StatusResponse confirms a status change.
type StatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// AssignAgentResponse confirms an agent assignment.
type AssignAgentResponse struct {
	Success         bool       `json:"success"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId"`
}

// StatsResponse summarises the user base.
type StatsResponse struct {
	TotalUsers    int            `json:"totalUsers"`
	ActiveUsers   int            `json:"activeUsers"`
	InactiveUsers int            `json:"inactiveUsers"`
	NewToday      int            `json:"newUsersToday"`
	NewThisWeek   int            `json:"newUsersThisWeek"`
	NewThisMonth  int            `json:"newUsersThisMonth"`
	UsersByStatus map[string]int `json:"usersByStatus"`
}
