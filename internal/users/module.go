// Package users provides the user account bounded context module.
package users

import (
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/internal/users/handler"
	"homefinder_backend/internal/users/repository"
	"homefinder_backend/internal/users/service"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the users bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the users module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterStringEnum("user_status", service.IsKnownStatus); err != nil {
		return nil, err
	}
	if err := val.RegisterStringEnum("user_role", service.IsKnownRole); err != nil {
		return nil, err
	}

	svc := service.New(repository.New(pool), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts user routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Staff.Group("/users")
	g.GET("", m.handler.List)
	g.GET("/stats", m.handler.Stats)
	g.POST("", m.handler.Create)
	g.GET("/:id", m.handler.Get)
	g.PATCH("/:id", m.handler.Update)
	g.PATCH("/:id/status", m.handler.UpdateStatus)
	g.PATCH("/:id/assign-agent", m.handler.AssignAgent)
	g.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
