// Package pipeline provides the customer sales pipeline bounded context module.
package pipeline

import (
	"homefinder_backend/internal/events"
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/internal/pipeline/domain"
	"homefinder_backend/internal/pipeline/handler"
	"homefinder_backend/internal/pipeline/repository"
	"homefinder_backend/internal/pipeline/service"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pipeline bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the pipeline module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterStringEnum("pipeline_stage", domain.IsKnownStage); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "pipeline"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts pipeline routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Staff.Group("/crm/pipeline")
	g.GET("", m.handler.List)
	g.GET("/stats", m.handler.Stats)
	g.POST("", m.handler.Create)
	g.GET("/:id", m.handler.Get)
	g.PATCH("/:id", m.handler.Update)
	g.GET("/:id/history", m.handler.History)
	g.PATCH("/customer/:customerId/stage", m.handler.UpdateStageByCustomer)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
