package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"homefinder_backend/internal/properties/domain"
	"homefinder_backend/platform/sanitize"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrRecordRejected marks a record that cannot become a listing. Rejected
// records are dropped and counted, never loaded or skipped.
var ErrRecordRejected = errors.New("record rejected")

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRecordRejected, fmt.Sprintf(format, args...))
}

// NormalizePrice coerces a source price to whole dollars. Strings may carry a
// currency symbol and thousands separators ("$450,000" is 450000). Missing
// values return 0.
func NormalizePrice(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case json.Number:
		return parsePriceText(v.String())
	case float64:
		return wholeDollars(v)
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(v))
		if cleaned == "" {
			return 0, nil
		}
		return parsePriceText(cleaned)
	default:
		return 0, fmt.Errorf("unsupported price type %T", value)
	}
}

func parsePriceText(text string) (int64, error) {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	return wholeDollars(f)
}

// wholeDollars truncates f. Non-finite and out-of-range values are errors
// because converting them to int64 is implementation-defined.
func wholeDollars(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("price %v is not a finite number", f)
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("price %v out of range", f)
	}
	return int64(f), nil
}

// Convert maps a validated source record onto a listing keyed by id.
func Convert(l Listing, id string) (domain.Property, error) {
	price, err := NormalizePrice(l["list_price"])
	if err != nil {
		return domain.Property{}, reject("%v", err)
	}
	if price <= 0 {
		return domain.Property{}, reject("missing or non-positive price")
	}

	p := domain.Property{
		ID:            id,
		Title:         domain.DefaultTitle,
		StreetAddress: l.optText("street_address"),
		City:          l.optText("city"),
		State:         l.optText("state"),
		ZipCode:       l.optText("zip_code"),
		Price:         price,
		PropertyType:  label(l.text("property_type"), domain.DefaultPropertyType),
		Status:        label(l.text("status"), domain.DefaultStatus),
		Image:         l.optText("primary_photo"),
		AltPhotos:     altPhotos(l["photos"]),
		AgentName:     agentName(l["agent"]),
		PropertyURL:   l.optText("property_url"),
		MLSNumber:     l.optText("mls_id"),
	}
	if p.StreetAddress != nil {
		p.Title = *p.StreetAddress
	}
	if desc := sanitize.Text(l.text("text")); desc != "" {
		p.Description = &desc
	}

	ints := []struct {
		key string
		dst **int
	}{
		{"beds", &p.Beds},
		{"sqft", &p.Sqft},
		{"lot_sqft", &p.LotSqft},
		{"year_built", &p.YearBuilt},
		{"hoa_fee", &p.HOAFee},
	}
	for _, field := range ints {
		value, err := l.optInt(field.key)
		if err != nil {
			return domain.Property{}, reject("%v", err)
		}
		*field.dst = value
	}

	floats := []struct {
		key string
		dst **float64
	}{
		{"full_baths", &p.Baths},
		{"latitude", &p.Latitude},
		{"longitude", &p.Longitude},
	}
	for _, field := range floats {
		value, err := l.optFloat(field.key)
		if err != nil {
			return domain.Property{}, reject("%v", err)
		}
		*field.dst = value
	}
	p.Geohash = domain.EncodeGeohash(p.Latitude, p.Longitude)

	history, err := priceHistory(l["price_history"])
	if err != nil {
		return domain.Property{}, reject("%v", err)
	}
	p.PriceHistory = history

	return p, nil
}

// label turns source enum text such as "SINGLE_FAMILY" into "Single Family".
func label(raw, fallback string) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
	if raw == "" {
		return fallback
	}
	return cases.Title(language.English).String(raw)
}

func altPhotos(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	photos := make([]string, 0, min(len(items), domain.MaxAltPhotos))
	for _, item := range items {
		if len(photos) == domain.MaxAltPhotos {
			break
		}
		if url, ok := item.(string); ok && strings.TrimSpace(url) != "" {
			photos = append(photos, strings.TrimSpace(url))
		}
	}
	return photos
}

func agentName(value any) *string {
	agent, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return Listing(agent).optText("name")
}

func priceHistory(value any) ([]domain.PricePoint, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, nil
	}
	history := make([]domain.PricePoint, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("price_history[%d]: not an object", i)
		}
		price, err := NormalizePrice(entry["price"])
		if err != nil {
			return nil, fmt.Errorf("price_history[%d]: %w", i, err)
		}
		history = append(history, domain.PricePoint{
			Date:  Listing(entry).text("date"),
			Price: price,
		})
	}
	return history, nil
}
