package handler

import (
	"net/http"

	"homefinder_backend/internal/pipeline/service"
	"homefinder_backend/internal/pipeline/transport"
	"homefinder_backend/platform/httpkit"
	"homefinder_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest    = "invalid request"
	msgValidationFailed  = "validation failed"
	msgInvalidID         = "invalid pipeline id"
	msgInvalidCustomerID = "invalid customer id"
)

// Handler handles HTTP requests for the sales pipeline.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new pipeline handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns the pipeline board.
// GET /api/v1/crm/pipeline
func (h *Handler) List(c *gin.Context) {
	var req transport.ListEntriesRequest
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

// Stats returns the pipeline dashboard. Counts are read without a shared
// snapshot and may straddle a concurrent stage change.
// GET /api/v1/crm/pipeline/stats
func (h *Handler) Stats(c *gin.Context) {
	result, err := h.svc.StatsResponse(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get returns one pipeline entry.
// GET /api/v1/crm/pipeline/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create adds a customer to the pipeline.
// POST /api/v1/crm/pipeline
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req, httpkit.ActorID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update patches a pipeline entry.
// PATCH /api/v1/crm/pipeline/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req, httpkit.ActorID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateStageByCustomer moves a customer's entry to the stage in the query.
// PATCH /api/v1/crm/pipeline/customer/:customerId/stage?stage=
func (h *Handler) UpdateStageByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCustomerID, nil)
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateStageByCustomer(c.Request.Context(), customerID, req.Stage, httpkit.ActorID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// History lists an entry's stage changes.
// GET /api/v1/crm/pipeline/:id/history
func (h *Handler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.History(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
