package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/skylinehq/skyline/api/internal/errors"
	"github.com/skylinehq/skyline/api/internal/services"
)

// ProjectHandler handles saved-project HTTP requests.
type ProjectHandler struct {
	service services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

// SaveProjectRequest is the request body for saving a project.
// Filters is checked for presence separately: an empty array is a valid
// project, a missing or non-array value is not.
type SaveProjectRequest struct {
	Username    string  `json:"username" binding:"required"`
	ProjectName string  `json:"projectName" binding:"required"`
	Filters     []int64 `json:"filters"`
}

// ProjectIDParam binds the numeric project id path parameter. Any integer
// binds; an id with no matching row surfaces from the store as not-found
// (get) or a no-op (delete).
type ProjectIDParam struct {
	ID int64 `uri:"id"`
}

// MessageResponse is the generic success payload for write operations.
type MessageResponse struct {
	Message string `json:"message"`
}

// FiltersResponse is the payload for a single project's filter list.
type FiltersResponse struct {
	Filters []int64 `json:"filters"`
}

// Save handles POST /api/projects.
func (h *ProjectHandler) Save(c *gin.Context) {
	var req SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	// A request without a filters array is rejected; "filters": [] is fine.
	if req.Filters == nil {
		apierrors.BadRequest(c, "Filters must be an array of building IDs", nil)
		return
	}

	if err := h.service.SaveProject(c.Request.Context(), req.Username, req.ProjectName, req.Filters); err != nil {
		apierrors.InternalServerError(c, "Failed to save project", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Project saved",
	})
}

// ListByUser handles GET /api/projects/:username.
func (h *ProjectHandler) ListByUser(c *gin.Context) {
	username := c.Param("username")

	projects, err := h.service.ListProjects(c.Request.Context(), username)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load projects", err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetFilters handles GET /api/project/:id.
func (h *ProjectHandler) GetFilters(c *gin.Context) {
	var param ProjectIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		apierrors.BadRequest(c, "Project id must be an integer", nil)
		return
	}

	filters, err := h.service.GetProjectFilters(c.Request.Context(), param.ID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load project filters", err)
		return
	}

	c.JSON(http.StatusOK, FiltersResponse{
		Filters: filters,
	})
}

// Delete handles DELETE /api/project/:id.
// Deleting an id that does not exist still succeeds.
func (h *ProjectHandler) Delete(c *gin.Context) {
	var param ProjectIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		apierrors.BadRequest(c, "Project id must be an integer", nil)
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), param.ID); err != nil {
		apierrors.InternalServerError(c, "Failed to delete project", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Project deleted",
	})
}
