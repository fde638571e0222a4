package adapters

import (
	"context"

	"homefinder_backend/internal/users/service"

	"github.com/google/uuid"
)

// CustomerAssigner adapts the user service for agent customer assignment.
type CustomerAssigner struct {
	users *service.Service
}

func NewCustomerAssigner(users *service.Service) *CustomerAssigner {
	return &CustomerAssigner{users: users}
}

func (a *CustomerAssigner) AssignCustomer(ctx context.Context, customerID, agentID uuid.UUID) error {
	_, err := a.users.AssignAgent(ctx, customerID, &agentID)
	return err
}
