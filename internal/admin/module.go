// Package admin provides the admin console bounded context module.
package admin

import (
	"homefinder_backend/internal/admin/handler"
	"homefinder_backend/internal/admin/repository"
	"homefinder_backend/internal/admin/service"
	"homefinder_backend/internal/events"
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the admin bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the admin module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterStringEnum("feature_key", service.IsValidFeatureKey); err != nil {
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
	return "admin"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterHandlers subscribes the activity trail to audited domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.PipelineEntryCreated{}.EventName(), m.service)
	bus.Subscribe(events.PipelineStageChanged{}.EventName(), m.service)
	bus.Subscribe(events.PropertyImportCompleted{}.EventName(), m.service)
}

// RegisterRoutes mounts the admin console under /api/v1/admin.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/stats", m.handler.Dashboard)

	features := ctx.Admin.Group("/features")
	features.GET("", m.handler.ListFeatures)
	features.POST("", m.handler.CreateFeature)
	features.POST("/seed", m.handler.SeedFeatures)
	features.GET("/:key", m.handler.GetFeature)
	features.PATCH("/:key", m.handler.UpdateFeature)
	features.PATCH("/:key/toggle", m.handler.ToggleFeature)
	features.DELETE("/:key", m.handler.DeleteFeature)

	activity := ctx.Admin.Group("/activity")
	activity.GET("", m.handler.ListActivity)
	activity.POST("", m.handler.CreateActivity)
	activity.GET("/recent", m.handler.RecentActivity)

	imports := ctx.Admin.Group("/imports")
	imports.POST("", m.handler.EnqueueImport)
	imports.GET("/reports", m.handler.ListImportReports)
	imports.GET("/reports/download", m.handler.DownloadImportReport)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
