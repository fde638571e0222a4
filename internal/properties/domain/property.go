// Package domain holds the property listing model shared by the importer and
// the read API.
package domain

import (
	"time"

	"github.com/mmcloughlin/geohash"
)

const (
	// DefaultPropertyType is used when the source record has no type.
	DefaultPropertyType = "House"
	// DefaultStatus is used when the source record has no listing status.
	DefaultStatus = "Active"
	// DefaultTitle is used when the source record has no street address.
	DefaultTitle = "Property"
	// MaxAltPhotos caps the alternate photo list kept per listing.
	MaxAltPhotos = 10
	// GeohashPrecision is the stored geohash length (about 5m cells).
	GeohashPrecision = 9
)

// PricePoint is one dated entry in a listing's price history.
type PricePoint struct {
	Date  string `json:"date"`
	Price int64  `json:"price"`
}

// Property is a persisted listing. ID is the 16 hex character identity key.
type Property struct {
	ID            string
	Title         string
	StreetAddress *string
	City          *string
	State         *string
	ZipCode       *string
	Price         int64
	Beds          *int
	Baths         *float64
	Sqft          *int
	LotSqft       *int
	YearBuilt     *int
	HOAFee        *int
	PropertyType  string
	Status        string
	Latitude      *float64
	Longitude     *float64
	Geohash       *string
	Description   *string
	Image         *string
	AltPhotos     []string
	AgentName     *string
	PropertyURL   *string
	MLSNumber     *string
	PriceHistory  []PricePoint
	IsFeatured    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FormattedAddress joins the address parts that are present.
func (p Property) FormattedAddress() string {
	out := ""
	for _, part := range []*string{p.StreetAddress, p.City, p.State, p.ZipCode} {
		if part == nil || *part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += *part
	}
	return out
}

// EncodeGeohash returns the stored-precision geohash for a coordinate pair,
// or nil when either coordinate is missing.
func EncodeGeohash(lat, lon *float64) *string {
	if lat == nil || lon == nil {
		return nil
	}
	hash := geohash.EncodeWithPrecision(*lat, *lon, GeohashPrecision)
	return &hash
}
