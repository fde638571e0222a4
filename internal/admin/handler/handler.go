package handler

import (
	"fmt"
	"net/http"
	"path"

	"homefinder_backend/internal/admin/service"
	"homefinder_backend/internal/admin/transport"
	"homefinder_backend/platform/httpkit"
	"homefinder_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	reportContentType   = "application/json"
)

// Handler handles HTTP requests for the admin console.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new admin handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GET /api/v1/admin/stats
func (h *Handler) Dashboard(c *gin.Context) {
	result, err := h.svc.Dashboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/admin/features
func (h *Handler) ListFeatures(c *gin.Context) {
	var req transport.ListFeaturesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListFeatures(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/admin/features/:key
func (h *Handler) GetFeature(c *gin.Context) {
	result, err := h.svc.GetFeature(c.Request.Context(), c.Param("key"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/admin/features
func (h *Handler) CreateFeature(c *gin.Context) {
	var req transport.CreateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateFeature(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// PATCH /api/v1/admin/features/:key
func (h *Handler) UpdateFeature(c *gin.Context) {
	var req transport.UpdateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateFeature(c.Request.Context(), c.Param("key"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PATCH /api/v1/admin/features/:key/toggle
func (h *Handler) ToggleFeature(c *gin.Context) {
	var req transport.ToggleFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ToggleFeature(c.Request.Context(), c.Param("key"), *req.IsEnabled, httpkit.ActorID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/admin/features/:key
func (h *Handler) DeleteFeature(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.DeleteFeature(c.Request.Context(), c.Param("key"))) {
		return
	}
	httpkit.OK(c, gin.H{"message": "feature deleted"})
}

// POST /api/v1/admin/features/seed
func (h *Handler) SeedFeatures(c *gin.Context) {
	result, err := h.svc.SeedFeatures(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/admin/activity
func (h *Handler) ListActivity(c *gin.Context) {
	var req transport.ListActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListActivity(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/admin/activity/recent
func (h *Handler) RecentActivity(c *gin.Context) {
	var req transport.RecentActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.RecentActivity(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/admin/activity
func (h *Handler) CreateActivity(c *gin.Context) {
	var req transport.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateActivity(c.Request.Context(), req, httpkit.ActorID(c), c.ClientIP())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// POST /api/v1/admin/imports
func (h *Handler) EnqueueImport(c *gin.Context) {
	result, err := h.svc.EnqueueImport(c.Request.Context(), httpkit.ActorID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, result)
}

// GET /api/v1/admin/imports/reports
func (h *Handler) ListImportReports(c *gin.Context) {
	var req struct {
		Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListImportReports(c.Request.Context(), req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/admin/imports/reports/download?key=
func (h *Handler) DownloadImportReport(c *gin.Context) {
	var req transport.DownloadReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	body, err := h.svc.OpenImportReport(c.Request.Context(), req.Key)
	if httpkit.HandleError(c, err) {
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, reportContentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, path.Base(req.Key)),
	})
}
