package transport

import (
	"time"

	"homefinder_backend/internal/adapters/storage"

	"github.com/google/uuid"
)

type DashboardStatsResponse struct {
	TotalCustomers       int   `json:"totalCustomers"`
	ActiveCustomers      int   `json:"activeCustomers"`
	TotalAgents          int   `json:"totalAgents"`
	ActiveAgents         int   `json:"activeAgents"`
	TotalInquiries       int   `json:"totalInquiries"`
	NewInquiries         int   `json:"newInquiries"`
	TotalProperties      int   `json:"totalProperties"`
	LeadsThisMonth       int   `json:"leadsThisMonth"`
	ConversionsThisMonth int   `json:"conversionsThisMonth"`
	RevenueThisMonth     int64 `json:"revenueThisMonth"`
}

type ListFeaturesRequest struct {
	Category  string `form:"category" validate:"omitempty,max=50"`
	IsEnabled *bool  `form:"isEnabled"`
}

type CreateFeatureRequest struct {
	FeatureKey   string  `json:"featureKey" validate:"required,min=2,max=100,feature_key"`
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category     string  `json:"category" validate:"omitempty,max=50"`
	IsEnabled    *bool   `json:"isEnabled,omitempty"`
	DisplayOrder int     `json:"displayOrder" validate:"min=0"`
}

type UpdateFeatureRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category     *string `json:"category,omitempty" validate:"omitempty,max=50"`
	IsEnabled    *bool   `json:"isEnabled,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

type ToggleFeatureRequest struct {
	IsEnabled *bool `json:"isEnabled" validate:"required"`
}

type FeatureResponse struct {
	ID           uuid.UUID  `json:"id"`
	FeatureKey   string     `json:"featureKey"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	Category     string     `json:"category"`
	IsEnabled    bool       `json:"isEnabled"`
	DisplayOrder int        `json:"displayOrder"`
	EnabledBy    *uuid.UUID `json:"enabledBy,omitempty"`
	EnabledAt    *time.Time `json:"enabledAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type FeatureListResponse struct {
	Items []FeatureResponse `json:"items"`
	Total int               `json:"total"`
}

type SeedFeaturesResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

type ListActivityRequest struct {
	UserID     string `form:"userId" validate:"omitempty,uuid"`
	Action     string `form:"action" validate:"omitempty,max=100"`
	EntityType string `form:"entityType" validate:"omitempty,max=50"`
	EntityID   string `form:"entityId" validate:"omitempty,max=100"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

type RecentActivityRequest struct {
	Hours int `form:"hours" validate:"omitempty,min=1,max=720"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type CreateActivityRequest struct {
	Action     string         `json:"action" validate:"required,min=1,max=100"`
	EntityType string         `json:"entityType" validate:"omitempty,max=50"`
	EntityID   string         `json:"entityId" validate:"omitempty,max=100"`
	Details    map[string]any `json:"details,omitempty"`
}

type ActivityResponse struct {
	ID         uuid.UUID      `json:"id"`
	UserID     *uuid.UUID     `json:"userId,omitempty"`
	Action     string         `json:"action"`
	EntityType *string        `json:"entityType,omitempty"`
	EntityID   *string        `json:"entityId,omitempty"`
	Details    map[string]any `json:"details"`
	IPAddress  *string        `json:"ipAddress,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type ActivityListResponse struct {
	Items  []ActivityResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type EnqueueImportResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

type ImportReport struct {
	storage.ObjectInfo
	DownloadURL string     `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

type ImportReportListResponse struct {
	Items []ImportReport `json:"items"`
}

type DownloadReportRequest struct {
	Key string `form:"key" validate:"required,max=300"`
}
