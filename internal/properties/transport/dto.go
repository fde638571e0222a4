// Package transport holds the request and response shapes of the properties API.
package transport

import (
	"time"

	"homefinder_backend/internal/properties/domain"
)

// ListPropertiesRequest holds the listing search query.
type ListPropertiesRequest struct {
	City         string   `form:"city" validate:"omitempty,max=100"`
	State        string   `form:"state" validate:"omitempty,max=50"`
	ZipCode      string   `form:"zipCode" validate:"omitempty,max=20"`
	MinPrice     *int64   `form:"minPrice" validate:"omitempty,min=0"`
	MaxPrice     *int64   `form:"maxPrice" validate:"omitempty,min=0"`
	MinBeds      *int     `form:"minBeds" validate:"omitempty,min=0"`
	MinBaths     *float64 `form:"minBaths" validate:"omitempty,min=0"`
	PropertyType string   `form:"propertyType" validate:"omitempty,max=50"`
	Status       string   `form:"status" validate:"omitempty,max=50"`
	Geohash      string   `form:"geohash" validate:"omitempty,max=12,alphanum"`
	Limit        int      `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset       int      `form:"offset" validate:"omitempty,min=0"`
}

// PricePointResponse is one price history entry.
type PricePointResponse struct {
	Date  string `json:"date,omitempty"`
	Price int64  `json:"price"`
}

// PropertyResponse is the read projection of a listing.
type PropertyResponse struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	StreetAddress    *string              `json:"streetAddress,omitempty"`
	City             *string              `json:"city,omitempty"`
	State            *string              `json:"state,omitempty"`
	ZipCode          *string              `json:"zipCode,omitempty"`
	FormattedAddress string               `json:"formattedAddress"`
	Price            int64                `json:"price"`
	Beds             *int                 `json:"beds,omitempty"`
	Baths            *float64             `json:"baths,omitempty"`
	Sqft             *int                 `json:"sqft,omitempty"`
	LotSqft          *int                 `json:"lotSqft,omitempty"`
	YearBuilt        *int                 `json:"yearBuilt,omitempty"`
	HOAFee           *int                 `json:"hoaFee,omitempty"`
	PropertyType     string               `json:"propertyType"`
	Status           string               `json:"status"`
	Latitude         *float64             `json:"latitude,omitempty"`
	Longitude        *float64             `json:"longitude,omitempty"`
	Geohash          *string              `json:"geohash,omitempty"`
	Description      *string              `json:"description,omitempty"`
	Image            *string              `json:"image,omitempty"`
	AltPhotos        []string             `json:"altPhotos"`
	AgentName        *string              `json:"agentName,omitempty"`
	PropertyURL      *string              `json:"propertyUrl,omitempty"`
	MLSNumber        *string              `json:"mlsNumber,omitempty"`
	PriceHistory     []PricePointResponse `json:"priceHistory"`
	IsFeatured       bool                 `json:"isFeatured"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// PropertyListResponse is one page of listings.
type PropertyListResponse struct {
	Total  int                `json:"total"`
	Items  []PropertyResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// StateCountResponse is the listing count for one state.
type StateCountResponse struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// OverviewResponse summarises the catalogue.
type OverviewResponse struct {
	TotalProperties   int                  `json:"totalProperties"`
	AveragePrice      float64              `json:"averagePrice"`
	PropertiesByState []StateCountResponse `json:"propertiesByState"`
}

// QRCodeRequest sizes the generated PNG.
type QRCodeRequest struct {
	Size int `form:"size" validate:"omitempty,min=128,max=1024"`
}

// ToPropertyResponse builds the read projection.
func ToPropertyResponse(p domain.Property) PropertyResponse {
	history := make([]PricePointResponse, 0, len(p.PriceHistory))
	for _, point := range p.PriceHistory {
		history = append(history, PricePointResponse{Date: point.Date, Price: point.Price})
	}
	photos := p.AltPhotos
	if photos == nil {
		photos = []string{}
	}

	return PropertyResponse{
		ID:               p.ID,
		Title:            p.Title,
		StreetAddress:    p.StreetAddress,
		City:             p.City,
		State:            p.State,
		ZipCode:          p.ZipCode,
		FormattedAddress: p.FormattedAddress(),
		Price:            p.Price,
		Beds:             p.Beds,
		Baths:            p.Baths,
		Sqft:             p.Sqft,
		LotSqft:          p.LotSqft,
		YearBuilt:        p.YearBuilt,
		HOAFee:           p.HOAFee,
		PropertyType:     p.PropertyType,
		Status:           p.Status,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Geohash:          p.Geohash,
		Description:      p.Description,
		Image:            p.Image,
		AltPhotos:        photos,
		AgentName:        p.AgentName,
		PropertyURL:      p.PropertyURL,
		MLSNumber:        p.MLSNumber,
		PriceHistory:     history,
		IsFeatured:       p.IsFeatured,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
