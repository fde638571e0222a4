package handler

import (
	"net/http"

	"homefinder_backend/internal/properties/service"
	"homefinder_backend/internal/properties/transport"
	"homefinder_backend/platform/httpkit"
	"homefinder_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid property id"
)

// Handler handles HTTP requests for listings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new property handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List searches listings.
// GET /api/v1/properties
func (h *Handler) List(c *gin.Context) {
	var req transport.ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves a listing by identity key.
// GET /api/v1/properties/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Overview returns catalogue statistics.
// GET /api/v1/properties/stats/overview
func (h *Handler) Overview(c *gin.Context) {
	result, err := h.svc.Overview(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// QRCode renders a PNG linking to the listing page.
// GET /api/v1/properties/:id/qrcode
func (h *Handler) QRCode(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	var req transport.QRCodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	png, err := h.svc.QRCode(c.Request.Context(), id, req.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

// propertyID accepts only well-formed identity keys so malformed ids never reach the database.
func propertyID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if len(id) != 16 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return "", false
	}
	for _, r := range id {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
			return "", false
		}
	}
	return id, true
}
