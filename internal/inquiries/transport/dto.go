package transport

import (
	"time"

	"github.com/google/uuid"
)

// ContactRequest is the public contact form. Field names follow the web
// client.
type ContactRequest struct {
	Name            string  `json:"name" validate:"required,min=2,max=255"`
	Email           string  `json:"email" validate:"required,email,max=255"`
	Phone           string  `json:"phone" validate:"required,min=10,max=50"`
	Message         string  `json:"message" validate:"required,min=10,max=2000"`
	PropertyID      string  `json:"propertyId" validate:"required,max=16"`
	PropertyAddress *string `json:"propertyAddress,omitempty" validate:"omitempty,max=500"`
	PropertyPrice   *int64  `json:"propertyPrice,omitempty" validate:"omitempty,min=0"`
	InquiryType     string  `json:"inquiryType,omitempty" validate:"omitempty,inquiry_type"`
}

type ContactResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	InquiryID uuid.UUID `json:"inquiryId"`
}

type ListInquiriesRequest struct {
	Status      string `form:"status" validate:"omitempty,inquiry_status"`
	InquiryType string `form:"inquiryType" validate:"omitempty,inquiry_type"`
	PropertyID  string `form:"propertyId" validate:"omitempty,max=16"`
	Limit       int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset      int    `form:"offset" validate:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,inquiry_status"`
}

type InquiryResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	Message         string     `json:"message"`
	InquiryType     string     `json:"inquiryType"`
	PropertyID      *string    `json:"propertyId,omitempty"`
	PropertyAddress *string    `json:"propertyAddress,omitempty"`
	PropertyPrice   *int64     `json:"propertyPrice,omitempty"`
	Status          string     `json:"status"`
	EmailSent       bool       `json:"emailSent"`
	EmailSentAt     *time.Time `json:"emailSentAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type InquiryListResponse struct {
	Items  []InquiryResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type StatsResponse struct {
	TotalInquiries     int `json:"totalInquiries"`
	NewInquiries       int `json:"newInquiries"`
	RespondedInquiries int `json:"respondedInquiries"`
	TourRequests       int `json:"tourRequests"`
	OfferInquiries     int `json:"offerInquiries"`
	EmailsSent         int `json:"emailsSent"`
}
