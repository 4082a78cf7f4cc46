package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/skylinehq/skyline/api/internal/logger"
	"github.com/skylinehq/skyline/api/internal/models"
	"github.com/skylinehq/skyline/api/internal/repository"
)

// ErrProjectNotFound is returned when no project exists with the given id.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService defines the business logic for saved projects.
type ProjectService interface {
	// SaveProject persists a new project row. Duplicate names under the
	// same user are permitted.
	SaveProject(ctx context.Context, username, projectName string, filters []int64) error

	// ListProjects returns every project saved under the username, empty
	// slice when there are none.
	ListProjects(ctx context.Context, username string) ([]models.ProjectSummary, error)

	// GetProjectFilters returns the stored filter list for one project.
	// Returns ErrProjectNotFound when the id is unknown.
	GetProjectFilters(ctx context.Context, projectID int64) ([]int64, error)

	// DeleteProject removes the project. Deleting an unknown id is a no-op.
	DeleteProject(ctx context.Context, projectID int64) error
}

// projectService is the concrete implementation of ProjectService.
type projectService struct {
	repo repository.ProjectRepository
	log  *logger.Logger
}

// NewProjectService creates a new instance of ProjectService.
func NewProjectService(repo repository.ProjectRepository, log *logger.Logger) ProjectService {
	return &projectService{
		repo: repo,
		log:  log,
	}
}

func (s *projectService) SaveProject(ctx context.Context, username, projectName string, filters []int64) error {
	if err := s.repo.Create(ctx, username, projectName, filters); err != nil {
		s.log.Error("Failed to save project", err, map[string]interface{}{
			"username":     username,
			"project_name": projectName,
		})
		return fmt.Errorf("failed to save project: %w", err)
	}

	s.log.Info("Project saved", map[string]interface{}{
		"username":     username,
		"project_name": projectName,
		"filter_count": len(filters),
	})

	return nil
}

func (s *projectService) ListProjects(ctx context.Context, username string) ([]models.ProjectSummary, error) {
	projects, err := s.repo.ListByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to list projects", err, map[string]interface{}{
			"username": username,
		})
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

func (s *projectService) GetProjectFilters(ctx context.Context, projectID int64) ([]int64, error) {
	filters, err := s.repo.GetFilters(ctx, projectID)
	if err != nil {
		s.log.Error("Failed to load project filters", err, map[string]interface{}{
			"project_id": projectID,
		})
		return nil, fmt.Errorf("failed to load project filters: %w", err)
	}

	// Repository returns nil, nil when no row found - transform to domain error
	if filters == nil {
		s.log.Debug("Project not found", map[string]interface{}{
			"project_id": projectID,
		})
		return nil, ErrProjectNotFound
	}

	return filters, nil
}

func (s *projectService) DeleteProject(ctx context.Context, projectID int64) error {
	if err := s.repo.Delete(ctx, projectID); err != nil {
		s.log.Error("Failed to delete project", err, map[string]interface{}{
			"project_id": projectID,
		})
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.log.Info("Project deleted", map[string]interface{}{
		"project_id": projectID,
	})

	return nil
}
