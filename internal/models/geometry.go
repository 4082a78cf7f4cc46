package models

import (
	"encoding/json"
	"fmt"
)

// Geometry is a GeoJSON geometry carried through the system unmodified.
// The open-data API returns a mix of Point, Polygon, and MultiPolygon
// shapes; we never reinterpret coordinates, so they are kept as raw JSON
// and re-emitted byte-for-byte in API responses.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// DefaultGeometry returns the placeholder geometry used when a feature
// record carries no geometry at all.
func DefaultGeometry() Geometry {
	return Geometry{
		Type:        "Point",
		Coordinates: json.RawMessage(`[0,0]`),
	}
}

// MarshalJSON implements json.Marshaler for API responses.
// Emits a GeoJSON-compliant object for frontend consumption.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if g.Type == "" {
		g = DefaultGeometry()
	}
	obj := struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}{
		Type:        g.Type,
		Coordinates: g.Coordinates,
	}
	return json.Marshal(obj)
}

// UnmarshalJSON implements json.Unmarshaler for parsing upstream GeoJSON.
// Coordinates are validated as JSON but otherwise passed through.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var obj struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to unmarshal geometry: %w", err)
	}

	g.Type = obj.Type
	g.Coordinates = obj.Coordinates
	return nil
}
