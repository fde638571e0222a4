// Package inquiries provides the contact-form inquiry bounded context module.
package inquiries

import (
	"homefinder_backend/internal/events"
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/internal/inquiries/handler"
	"homefinder_backend/internal/inquiries/repository"
	"homefinder_backend/internal/inquiries/service"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the inquiries bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the inquiries module.
func NewModule(pool *pgxpool.Pool, properties service.PropertyLookup, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterStringEnum("inquiry_status", service.IsKnownStatus); err != nil {
		return nil, err
	}
	if err := val.RegisterStringEnum("inquiry_type", service.IsKnownType); err != nil {
		return nil, err
	}

	svc := service.New(repository.New(pool), properties, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "inquiries"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public contact form and the admin inbox.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/inquiries/contact", ctx.PublicFormLimiter.RateLimit(), m.handler.Contact)

	admin := ctx.Admin.Group("/inquiries")
	admin.GET("", m.handler.List)
	admin.GET("/stats", m.handler.Stats)
	admin.GET("/:id", m.handler.Get)
	admin.PATCH("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
