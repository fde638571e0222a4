// Package importer bulk-loads scraped listing files into the property store.
//
// Files live under states/<region>/<area>.json and hold either a JSON array of
// listing objects or a single object. Every record is validated, converted,
// given a deterministic identity key, checked against the store and appended
// to a bounded batch that is committed in one transaction.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Listing is one raw source record, decoded with json.Number for numerics.
type Listing map[string]any

// decodeRecords parses a file body into its records. A top-level array yields
// its elements; a top-level object yields itself.
func decodeRecords(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode listing file: %w", err)
	}

	switch typed := doc.(type) {
	case []any:
		return typed, nil
	case map[string]any:
		return []any{typed}, nil
	default:
		return nil, fmt.Errorf("decode listing file: unexpected top-level %T", doc)
	}
}

// text returns the field as trimmed text. Numbers use the text form earlier
// loaders hashed; missing, null and structured values give "".
func (l Listing) text(key string) string {
	switch v := l[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return numberText(v)
	case float64:
		return numberText(json.Number(strconv.FormatFloat(v, 'f', -1, 64)))
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// optText is text with "" mapped to nil.
func (l Listing) optText(key string) *string {
	if value := l.text(key); value != "" {
		return &value
	}
	return nil
}

// optFloat reads a numeric field. Numeric strings are accepted; NaN and
// infinities are not.
func (l Listing) optFloat(key string) (*float64, error) {
	var (
		f   float64
		err error
	)
	switch v := l[key].(type) {
	case nil:
		return nil, nil
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return nil, fmt.Errorf("%s: unexpected %T", key, v)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%s: %v is not a finite number", key, f)
	}
	if r, ok := fieldRanges[key]; ok && (f < r.min || f > r.max) {
		return nil, fmt.Errorf("%s: %v outside [%v, %v]", key, f, r.min, r.max)
	}
	return &f, nil
}

// optInt reads a numeric field and truncates it to an int.
func (l Listing) optInt(key string) (*int, error) {
	f, err := l.optFloat(key)
	if err != nil || f == nil {
		return nil, err
	}
	n := int(*f)
	return &n, nil
}

type valueRange struct{ min, max float64 }

// fieldRanges match the properties column types. Numeric strings skip the
// schema bounds, so they are checked again here after parsing.
var fieldRanges = map[string]valueRange{
	"beds":       {0, 1000},
	"full_baths": {0, 999.9},
	"sqft":       {0, math.MaxInt32},
	"lot_sqft":   {0, math.MaxInt32},
	"year_built": {0, 9999},
	"hoa_fee":    {0, math.MaxInt32},
	"latitude":   {-90, 90},
	"longitude":  {-180, 180},
}

// numberText renders n the way a float-aware loader printed it: integers as
// digits, fractional values in shortest form with at least one decimal.
func numberText(n json.Number) string {
	raw := n.String()
	if !strings.ContainsAny(raw, ".eE") {
		return raw
	}
	f, err := n.Float64()
	if err != nil {
		return raw
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
