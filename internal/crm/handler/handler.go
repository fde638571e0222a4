package handler

import (
	"net/http"

	"homefinder_backend/internal/crm/service"
	"homefinder_backend/internal/crm/transport"
	"homefinder_backend/platform/httpkit"
	"homefinder_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for CRM records.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new CRM handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// bindQuery binds and validates query parameters, writing the error response on failure.
func (h *Handler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

// bindJSON binds and validates a JSON body, writing the error response on failure.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func respond(c *gin.Context, status int, payload any, err error) {
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, status, payload)
}

// Stats returns the CRM dashboard.
// GET /api/v1/crm/stats
func (h *Handler) Stats(c *gin.Context) {
	result, err := h.svc.Stats(c.Request.Context())
	respond(c, http.StatusOK, result, err)
}

// GET /api/v1/crm/interactions
func (h *Handler) ListInteractions(c *gin.Context) {
	var req transport.ListInteractionsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListInteractions(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// GET /api/v1/crm/interactions/:id
func (h *Handler) GetInteraction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetInteraction(c.Request.Context(), id)
	respond(c, http.StatusOK, result, err)
}

// POST /api/v1/crm/interactions
func (h *Handler) CreateInteraction(c *gin.Context) {
	var req transport.CreateInteractionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateInteraction(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// PATCH /api/v1/crm/interactions/:id
func (h *Handler) UpdateInteraction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.UpdateInteractionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateInteraction(c.Request.Context(), id, req)
	respond(c, http.StatusOK, result, err)
}

// DELETE /api/v1/crm/interactions/:id
func (h *Handler) DeleteInteraction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.svc.DeleteInteraction(c.Request.Context(), id)
	respond(c, http.StatusOK, transport.SuccessResponse{Success: true}, err)
}

// GET /api/v1/crm/notes
func (h *Handler) ListNotes(c *gin.Context) {
	var req transport.ListNotesRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListNotes(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// POST /api/v1/crm/notes
func (h *Handler) CreateNote(c *gin.Context) {
	var req transport.CreateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateNote(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// PATCH /api/v1/crm/notes/:id
func (h *Handler) UpdateNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.UpdateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateNote(c.Request.Context(), id, req)
	respond(c, http.StatusOK, result, err)
}

// DELETE /api/v1/crm/notes/:id
func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.svc.DeleteNote(c.Request.Context(), id)
	respond(c, http.StatusOK, transport.SuccessResponse{Success: true}, err)
}

// GET /api/v1/crm/tasks
func (h *Handler) ListTasks(c *gin.Context) {
	var req transport.ListTasksRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListTasks(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// GET /api/v1/crm/tasks/overdue
func (h *Handler) ListOverdueTasks(c *gin.Context) {
	var req transport.ListOverdueTasksRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListOverdueTasks(c.Request.Context(), req)
	respond(c, http.StatusOK, result, err)
}

// POST /api/v1/crm/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req transport.CreateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateTask(c.Request.Context(), req)
	respond(c, http.StatusCreated, result, err)
}

// PATCH /api/v1/crm/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.UpdateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateTask(c.Request.Context(), id, req)
	respond(c, http.StatusOK, result, err)
}

// PATCH /api/v1/crm/tasks/:id/complete
func (h *Handler) CompleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.CompleteTask(c.Request.Context(), id)
	respond(c, http.StatusOK, result, err)
}

// DELETE /api/v1/crm/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.svc.DeleteTask(c.Request.Context(), id)
	respond(c, http.StatusOK, transport.SuccessResponse{Success: true}, err)
}
