// Package agents provides the agent roster bounded context module.
package agents

import (
	"homefinder_backend/internal/agents/handler"
	"homefinder_backend/internal/agents/repository"
	"homefinder_backend/internal/agents/service"
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the agents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the agents module.
func NewModule(pool *pgxpool.Pool, assigner service.CustomerAssigner, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterStringEnum("agent_status", service.IsKnownStatus); err != nil {
		return nil, err
	}
	if err := val.RegisterStringEnum("agent_role", service.IsKnownRole); err != nil {
		return nil, err
	}

	svc := service.New(repository.New(pool), assigner, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agents"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts agent routes. Staff can read the roster and assign
// customers; roster changes are admin only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	staff := ctx.Staff.Group("/agents")
	staff.GET("", m.handler.List)
	staff.GET("/stats", m.handler.Stats)
	staff.GET("/:id", m.handler.Get)
	staff.POST("/assign-customer", m.handler.AssignCustomer)

	admin := ctx.Admin.Group("/agents")
	admin.POST("", m.handler.Create)
	admin.PATCH("/:id", m.handler.Update)
	admin.PATCH("/:id/status", m.handler.UpdateStatus)
	admin.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
