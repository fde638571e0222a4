// Package properties provides the property catalogue bounded context module.
package properties

import (
	apphttp "homefinder_backend/internal/http"
	"homefinder_backend/internal/properties/handler"
	"homefinder_backend/internal/properties/repository"
	"homefinder_backend/internal/properties/service"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the properties bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the properties module.
func NewModule(pool *pgxpool.Pool, siteURL string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, siteURL, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "properties"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository; the importer writes through it.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts property routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read-only endpoints
	ctx.V1.GET("/properties", m.handler.List)
	ctx.V1.GET("/properties/stats/overview", m.handler.Overview)
	ctx.V1.GET("/properties/:id", m.handler.Get)
	ctx.V1.GET("/properties/:id/qrcode", m.handler.QRCode)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
