package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skylinehq/skyline/api/internal/filter"
	"github.com/skylinehq/skyline/api/internal/llm"
	"github.com/skylinehq/skyline/api/internal/logger"
	"github.com/skylinehq/skyline/api/internal/models"
	"github.com/skylinehq/skyline/api/internal/opendata"
)

// Service-level errors
var (
	ErrEmptyQuery = errors.New("query is required")
)

// BuildingService defines the business logic for building data and
// natural-language queries.
type BuildingService interface {
	// ListBuildings returns the current building set from the open-data
	// source (or its sample fallback).
	ListBuildings(ctx context.Context) ([]models.Building, error)

	// Query interprets a free-text query into filter criteria and returns
	// the matching buildings in fetch order.
	// Returns ErrEmptyQuery for a blank query.
	// Returns llm.ErrMissingAPIKey when no model credential is configured.
	// Returns *llm.ParseError when the model output is not a valid filter.
	Query(ctx context.Context, query string) ([]models.Building, error)
}

// buildingService is the concrete implementation of BuildingService.
type buildingService struct {
	source      opendata.BuildingSource
	interpreter llm.Interpreter
	log         *logger.Logger
}

// NewBuildingService creates a new instance of BuildingService.
func NewBuildingService(source opendata.BuildingSource, interpreter llm.Interpreter, log *logger.Logger) BuildingService {
	return &buildingService{
		source:      source,
		interpreter: interpreter,
		log:         log,
	}
}

// ListBuildings fetches the full joined building set.
func (s *buildingService) ListBuildings(ctx context.Context) ([]models.Building, error) {
	buildings, err := s.source.FetchBuildings(ctx)
	if err != nil {
		s.log.Error("Failed to fetch building data", err, nil)
		return nil, fmt.Errorf("failed to fetch building data: %w", err)
	}

	return buildings, nil
}

// Query runs the interpret-fetch-filter pipeline: the model turns the query
// into criteria, the source supplies the current building set, and the
// evaluator narrows it.
func (s *buildingService) Query(ctx context.Context, query string) ([]models.Building, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	criteria, err := s.interpreter.Interpret(ctx, query)
	if err != nil {
		s.log.Warn("Query interpretation failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil, err
	}

	s.log.Info("Query interpreted", map[string]interface{}{
		"query":     query,
		"attribute": criteria.Attribute,
		"operator":  criteria.Operator,
		"value":     criteria.Value,
	})

	buildings, err := s.source.FetchBuildings(ctx)
	if err != nil {
		s.log.Error("Failed to fetch building data for query", err, map[string]interface{}{
			"query": query,
		})
		return nil, fmt.Errorf("failed to fetch building data: %w", err)
	}

	matched := filter.Apply(criteria, buildings)

	s.log.Info("Query evaluated", map[string]interface{}{
		"query":   query,
		"total":   len(buildings),
		"matched": len(matched),
	})

	return matched, nil
}
