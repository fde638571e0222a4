package http

import (
	"homefinder_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine.
	Engine *gin.Engine
	// V1 is the public /api/v1 route group.
	V1 *gin.RouterGroup
	// Protected requires a verified identity-provider token.
	Protected *gin.RouterGroup
	// Staff is Protected restricted to the agent and admin roles.
	Staff *gin.RouterGroup
	// Admin is the /api/v1/admin group restricted to the admin role.
	Admin *gin.RouterGroup
	// PublicFormLimiter throttles anonymous form submissions.
	PublicFormLimiter *httpkit.IPRateLimiter
}
