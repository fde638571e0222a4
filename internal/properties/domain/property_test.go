package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestFormattedAddressSkipsMissingParts(t *testing.T) {
	p := Property{
		StreetAddress: strPtr("12 Oak St"),
		City:          strPtr("Austin"),
		ZipCode:       strPtr("78701"),
	}

	if got := p.FormattedAddress(); got != "12 Oak St, Austin, 78701" {
		t.Fatalf("unexpected address %q", got)
	}
}

func TestEncodeGeohash(t *testing.T) {
	lat, lon := 30.2672, -97.7431

	hash := EncodeGeohash(&lat, &lon)
	if hash == nil || len(*hash) != GeohashPrecision {
		t.Fatalf("expected %d character geohash, got %v", GeohashPrecision, hash)
	}
	if (*hash)[:3] != "9v6" {
		t.Fatalf("expected Austin to fall in cell 9v6, got %s", *hash)
	}
	if EncodeGeohash(&lat, nil) != nil {
		t.Fatal("expected nil geohash without longitude")
	}
}
