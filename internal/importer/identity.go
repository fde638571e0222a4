package importer

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// KeyLength is the number of hex characters in an identity key.
const KeyLength = 16

// keyCandidate derives a hash seed from a listing, or "" when it cannot.
type keyCandidate func(Listing) string

// Resolver computes the deterministic identity key of a listing. Candidates
// are tried in order and the first non-empty seed is hashed.
type Resolver struct {
	candidates []keyCandidate
}

// NewResolver returns a resolver whose last-resort candidate appends token()
// to the location seed. A nil token uses the first 8 characters of a UUIDv4.
func NewResolver(token func() string) *Resolver {
	if token == nil {
		token = func() string { return uuid.NewString()[:8] }
	}
	return &Resolver{
		candidates: []keyCandidate{
			listingIDSeed,
			locationSeed,
			func(l Listing) string { return locationParts(l) + "-" + token() },
		},
	}
}

// Key returns the 16 lowercase hex character identity key for l.
// Null and missing fields both hash as empty text, so location keys match
// earlier loads only when no location field was null.
func (r *Resolver) Key(l Listing) string {
	for _, candidate := range r.candidates {
		if seed := candidate(l); seed != "" {
			return digest(seed)
		}
	}
	return digest(locationParts(l))
}

// listingIDSeed uses the external MLS id when the source provides one.
func listingIDSeed(l Listing) string {
	return l.text("mls_id")
}

// locationSeed uses address and coordinates, but only when at least one of
// street, city or zip is present.
func locationSeed(l Listing) string {
	if l.text("street_address") == "" && l.text("city") == "" && l.text("zip_code") == "" {
		return ""
	}
	return locationParts(l)
}

func locationParts(l Listing) string {
	parts := []string{
		l.text("street_address"),
		l.text("city"),
		l.text("zip_code"),
		l.text("latitude"),
		l.text("longitude"),
		l.text("property_url"),
	}
	return strings.ToLower(strings.Join(parts, "-"))
}

func digest(seed string) string {
	sum := md5.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])[:KeyLength]
}
