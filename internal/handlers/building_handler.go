package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/skylinehq/skyline/api/internal/errors"
	"github.com/skylinehq/skyline/api/internal/llm"
	"github.com/skylinehq/skyline/api/internal/middleware"
	"github.com/skylinehq/skyline/api/internal/services"
)

// BuildingHandler handles building data and query HTTP requests.
type BuildingHandler struct {
	service services.BuildingService
}

// NewBuildingHandler creates a new BuildingHandler instance.
func NewBuildingHandler(service services.BuildingService) *BuildingHandler {
	return &BuildingHandler{
		service: service,
	}
}

// QueryRequest is the request body for the query endpoint.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// List handles GET /api/buildings.
// Returns the full joined building set as a JSON array.
func (h *BuildingHandler) List(c *gin.Context) {
	buildings, err := h.service.ListBuildings(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to fetch building data", err)
		return
	}

	c.JSON(http.StatusOK, buildings)
}

// Query handles POST /api/query.
// The free-text query is interpreted into filter criteria by the language
// model, applied to the current building set, and the matching subset is
// returned in fetch order.
func (h *BuildingHandler) Query(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Query is required", nil)
		return
	}

	if log != nil {
		log.Info("Processing query request", map[string]interface{}{
			"query": req.Query,
		})
	}

	buildings, err := h.service.Query(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			apierrors.BadRequest(c, "Query is required", nil)
			return
		}
		if errors.Is(err, llm.ErrMissingAPIKey) {
			apierrors.MissingCredential(c, "Missing GEMINI_API_KEY")
			return
		}
		var parseErr *llm.ParseError
		if errors.As(err, &parseErr) {
			apierrors.UnparseableModelOutput(c, "Failed to parse LLM response", parseErr.Raw)
			return
		}
		apierrors.InternalServerError(c, "Failed to fetch building data", err)
		return
	}

	c.JSON(http.StatusOK, buildings)
}
