package opendata

import (
	"encoding/json"

	"github.com/skylinehq/skyline/api/internal/models"
)

// SampleBuildings returns the fixed two-record fallback set served when the
// open-data API is unreachable. Availability over freshness: downstream
// filtering and the frontend scene always have something to render.
func SampleBuildings() []models.Building {
	return []models.Building{
		{
			ID: 0,
			Geometry: models.Geometry{
				Type:        "Point",
				Coordinates: json.RawMessage(`[-73.853456066604, 40.86366044155]`),
			},
			Height:  14.29,
			Address: "2044580014",
			Zoning:  "R6",
			Value:   500000.0,
			Area:    500.0,
			Width:   20.0,
			Length:  25.0,
		},
		{
			ID: 1,
			Geometry: models.Geometry{
				Type:        "Point",
				Coordinates: json.RawMessage(`[-74.135976948371, 40.635751973763]`),
			},
			Height:  8.64260519,
			Address: "5010820061",
			Zoning:  "C4-4A",
			Value:   750000.0,
			Area:    600.0,
			Width:   25.0,
			Length:  24.0,
		},
	}
}
