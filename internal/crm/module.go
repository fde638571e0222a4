// Package crm provides the customer interaction, note and task bounded context module.
package crm

import (
	"homefinder_backend/internal/crm/domain"
	"homefinder_backend/internal/crm/handler"
	"homefinder_backend/internal/crm/repository"
	"homefinder_backend/internal/crm/service"
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the CRM bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the CRM module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) (*Module, error) {
	enums := map[string]func(string) bool{
		"task_status":         domain.IsKnownTaskStatus,
		"task_priority":       domain.IsKnownTaskPriority,
		"interaction_type":    domain.IsKnownInteractionType,
		"interaction_outcome": domain.IsKnownOutcome,
	}
	for tag, isKnown := range enums {
		if err := val.RegisterStringEnum(tag, isKnown); err != nil {
			return nil, err
		}
	}

	svc := service.New(repository.New(pool), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "crm"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts CRM routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Staff.Group("/crm")
	g.GET("/stats", m.handler.Stats)

	g.GET("/interactions", m.handler.ListInteractions)
	g.POST("/interactions", m.handler.CreateInteraction)
	g.GET("/interactions/:id", m.handler.GetInteraction)
	g.PATCH("/interactions/:id", m.handler.UpdateInteraction)
	g.DELETE("/interactions/:id", m.handler.DeleteInteraction)

	g.GET("/notes", m.handler.ListNotes)
	g.POST("/notes", m.handler.CreateNote)
	g.PATCH("/notes/:id", m.handler.UpdateNote)
	g.DELETE("/notes/:id", m.handler.DeleteNote)

	g.GET("/tasks", m.handler.ListTasks)
	g.GET("/tasks/overdue", m.handler.ListOverdueTasks)
	g.POST("/tasks", m.handler.CreateTask)
	g.PATCH("/tasks/:id", m.handler.UpdateTask)
	g.PATCH("/tasks/:id/complete", m.handler.CompleteTask)
	g.DELETE("/tasks/:id", m.handler.DeleteTask)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
