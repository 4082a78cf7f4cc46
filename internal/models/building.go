package models

import "strings"

// Default attribute values used when a footprint has no matching PLUTO
// record, or when the matching record is missing a field.
const (
	DefaultZoning = "Residential"
	DefaultValue  = 500000.0
)

// Placeholder footprint dimensions. Point geometries carry no footprint
// to measure, so these are fixed constants rather than computed values.
const (
	PlaceholderArea   = 500.0
	PlaceholderWidth  = 20.0
	PlaceholderLength = 25.0
)

// Building is the flattened result of joining a building footprint feature
// with its PLUTO parcel attributes. Buildings are reconstructed on every
// fetch and never persisted; ID is the position in the current fetch and is
// not stable across fetches.
type Building struct {
	Geometry Geometry `json:"geometry"`
	Address  string   `json:"address"`
	Zoning   string   `json:"zoning"`
	Height   float64  `json:"height"`
	Value    float64  `json:"value"`
	Area     float64  `json:"area"`
	Width    float64  `json:"width"`
	Length   float64  `json:"length"`
	ID       int      `json:"id"`
}

// FieldValue is a tagged union of the value types a filterable building
// attribute can hold. Exactly one of Number/Text is meaningful, selected
// by IsText.
type FieldValue struct {
	Text   string
	Number float64
	IsText bool
}

// AttributeValue looks up a building attribute by its JSON name and returns
// its value as a FieldValue. The attribute set is an explicit enumeration;
// geometry is deliberately not filterable. Returns false for any name
// outside the enumeration, which callers treat as a non-match.
func (b Building) AttributeValue(name string) (FieldValue, bool) {
	switch strings.ToLower(name) {
	case "id":
		return FieldValue{Number: float64(b.ID)}, true
	case "height":
		return FieldValue{Number: b.Height}, true
	case "address":
		return FieldValue{Text: b.Address, IsText: true}, true
	case "zoning":
		return FieldValue{Text: b.Zoning, IsText: true}, true
	case "value":
		return FieldValue{Number: b.Value}, true
	case "area":
		return FieldValue{Number: b.Area}, true
	case "width":
		return FieldValue{Number: b.Width}, true
	case "length":
		return FieldValue{Number: b.Length}, true
	default:
		return FieldValue{}, false
	}
}
