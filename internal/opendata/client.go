package opendata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/skylinehq/skyline/api/internal/config"
	"github.com/skylinehq/skyline/api/internal/logger"
	"github.com/skylinehq/skyline/api/internal/models"
)

// ErrUpstream marks a network or HTTP-level failure talking to the open-data
// API, as opposed to a malformed response body. Upstream failures are masked
// by sample data; body failures propagate to the caller.
var ErrUpstream = errors.New("open data upstream failure")

// BuildingSource supplies the current set of building records.
type BuildingSource interface {
	// FetchBuildings returns the joined footprint+PLUTO building set.
	// The policy is fail-open: when the remote API is unreachable it
	// returns a fixed sample set instead of an error, so downstream
	// logic always has data to operate on.
	FetchBuildings(ctx context.Context) ([]models.Building, error)
}

// Client fetches building footprints and PLUTO parcel attributes from the
// NYC Open Data API and joins them by parcel key (BBL) into flat building
// records. No caching, no pagination beyond the configured limit, no retries.
type Client struct {
	httpClient    *http.Client
	log           *logger.Logger
	footprintsURL string
	plutoURL      string
	limit         int
}

// NewClient creates an open-data client from configuration.
func NewClient(cfg config.OpenDataConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		log:           log.WithComponent("opendata"),
		footprintsURL: cfg.FootprintsURL,
		plutoURL:      cfg.PlutoURL,
		limit:         cfg.Limit,
	}
}

// footprintFeature is one GeoJSON feature from the building footprints
// endpoint. base_bbl is the parcel key joining it to a PLUTO record.
type footprintFeature struct {
	Geometry   *models.Geometry `json:"geometry"`
	Properties struct {
		BaseBBL    string     `json:"base_bbl"`
		HeightRoof *flexFloat `json:"height_roof"`
	} `json:"properties"`
}

type footprintCollection struct {
	Features []footprintFeature `json:"features"`
}

// plutoRecord is one parcel attribute record from the PLUTO endpoint.
type plutoRecord struct {
	BBL       string     `json:"bbl"`
	Address   string     `json:"address"`
	ZoneDist1 string     `json:"zonedist1"`
	AssessVal *flexFloat `json:"assessval"`
}

// FetchBuildings fetches both endpoints, joins by BBL, and maps each pair
// into a Building. Feature order from the remote API determines ID
// assignment. A feature with no matching PLUTO record still produces a
// building using fallback attribute values; no record is dropped.
func (c *Client) FetchBuildings(ctx context.Context) ([]models.Building, error) {
	features, err := c.fetchFootprints(ctx)
	if err != nil {
		if errors.Is(err, ErrUpstream) {
			c.log.Warn("Footprints fetch failed, serving sample data", map[string]interface{}{
				"error": err.Error(),
			})
			return SampleBuildings(), nil
		}
		return nil, err
	}

	pluto, err := c.fetchPluto(ctx)
	if err != nil {
		if errors.Is(err, ErrUpstream) {
			c.log.Warn("PLUTO fetch failed, serving sample data", map[string]interface{}{
				"error": err.Error(),
			})
			return SampleBuildings(), nil
		}
		return nil, err
	}

	buildings := make([]models.Building, 0, len(features))
	for idx, feature := range features {
		bbl := feature.Properties.BaseBBL
		if bbl == "" {
			bbl = "Unknown"
		}

		building := models.Building{
			ID:       idx,
			Geometry: models.DefaultGeometry(),
			Zoning:   models.DefaultZoning,
			Address:  bbl,
			Value:    models.DefaultValue,
			Area:     models.PlaceholderArea,
			Width:    models.PlaceholderWidth,
			Length:   models.PlaceholderLength,
		}
		if feature.Geometry != nil {
			building.Geometry = *feature.Geometry
		}
		if feature.Properties.HeightRoof != nil {
			building.Height = float64(*feature.Properties.HeightRoof)
		}

		if record, ok := pluto[bbl]; ok {
			if record.Address != "" {
				building.Address = record.Address
			}
			if record.ZoneDist1 != "" {
				building.Zoning = record.ZoneDist1
			}
			if record.AssessVal != nil {
				building.Value = float64(*record.AssessVal)
			}
		}

		buildings = append(buildings, building)
	}

	c.log.Info("Fetched building data", map[string]interface{}{
		"buildings":     len(buildings),
		"pluto_records": len(pluto),
	})

	return buildings, nil
}

// fetchFootprints retrieves the bounded footprint feature collection.
// Transport errors and non-2xx responses are upstream failures.
func (c *Client) fetchFootprints(ctx context.Context) ([]footprintFeature, error) {
	body, err := c.get(ctx, c.footprintsURL)
	if err != nil {
		return nil, err
	}

	var collection footprintCollection
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode footprints response: %w", err)
	}

	return collection.Features, nil
}

// fetchPluto retrieves the bounded PLUTO record set keyed by BBL.
// A non-2xx response degrades to an empty map (buildings keep their
// fallback attributes); only transport errors are upstream failures.
func (c *Client) fetchPluto(ctx context.Context) (map[string]plutoRecord, error) {
	body, err := c.get(ctx, c.plutoURL)
	if err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) {
			c.log.Warn("PLUTO endpoint returned non-2xx, joining without attributes", map[string]interface{}{
				"status": statusErr.code,
			})
			return map[string]plutoRecord{}, nil
		}
		return nil, err
	}

	var records []plutoRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode PLUTO response: %w", err)
	}

	byBBL := make(map[string]plutoRecord, len(records))
	for _, record := range records {
		byBBL[record.BBL] = record
	}

	return byBBL, nil
}

// statusError is a non-2xx upstream response. It wraps ErrUpstream so
// callers can treat it as a network-class failure by default while still
// being able to single it out.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d from open data API", e.code)
}

func (e *statusError) Unwrap() error {
	return ErrUpstream
}

// get issues one bounded GET and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid open data URL %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("$limit", strconv.Itoa(c.limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build open data request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrUpstream, err)
	}

	return body, nil
}

// flexFloat decodes a JSON number or a numeric string. The open-data API
// serves numeric columns as JSON strings on some endpoints and as numbers
// on others.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", s, err)
	}

	*f = flexFloat(value)
	return nil
}
