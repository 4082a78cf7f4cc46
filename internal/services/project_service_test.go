package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skylinehq/skyline/api/internal/logger"
	"github.com/skylinehq/skyline/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProjectRepository is a mock implementation of repository.ProjectRepository for testing
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, username, projectName string, filters []int64) error {
	args := m.Called(ctx, username, projectName, filters)
	return args.Error(0)
}

func (m *MockProjectRepository) ListByUsername(ctx context.Context, username string) ([]models.ProjectSummary, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	summaries, ok := args.Get(0).([]models.ProjectSummary)
	if !ok {
		return nil, args.Error(1)
	}
	return summaries, args.Error(1)
}

func (m *MockProjectRepository) GetFilters(ctx context.Context, projectID int64) ([]int64, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	filters, ok := args.Get(0).([]int64)
	if !ok {
		return nil, args.Error(1)
	}
	return filters, args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, projectID int64) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func TestSaveProject_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectRepository)
	log := logger.New("test")
	service := NewProjectService(mockRepo, log)

	ctx := context.Background()
	filters := []int64{1, 2, 3}
	mockRepo.On("Create", ctx, "alice", "tall buildings", filters).Return(nil)

	// Act
	err := service.SaveProject(ctx, "alice", "tall buildings", filters)

	// Assert
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSaveProject_DuplicateNamesPermitted(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectRepository)
	log := logger.New("test")
	service := NewProjectService(mockRepo, log)

	ctx := context.Background()
	filters := []int64{4}
	mockRepo.On("Create", ctx, "alice", "tall buildings", filters).Return(nil).Twice()

	// Act: same user, same name, twice
	require.NoError(t, service.SaveProject(ctx, "alice", "tall buildings", filters))
	require.NoError(t, service.SaveProject(ctx, "alice", "tall buildings", filters))

	// Assert
	mockRepo.AssertExpectations(t)
}

func TestListProjects_EmptyForUnknownUser(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectRepository)
	log := logger.New("test")
	service := NewProjectService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("ListByUsername", ctx, "nobody").Return([]models.ProjectSummary{}, nil)

	// Act
	projects, err := service.ListProjects(ctx, "nobody")

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestGetProjectFilters_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectRepository)
	log := logger.New("test")
	service := NewProjectService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("GetFilters", ctx, int64(7)).Return([]int64{1, 2, 3}, nil)

	// Act
	filters, err := service.GetProjectFilters(ctx, 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, filters)
}

func TestGetProjectFilters_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectRepository)
	log := logger.New("test")
	service := NewProjectService(mockRepo, log)

	ctx := context.Background()
	// Repository returns nil, nil when no row found
	mockRepo.On("GetFilters", ctx, int64(404)).Return(nil, nil)

	// Act
	filters, err := service.GetProjectFilters(ctx, 404)

	// Assert
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.Nil(t, filters)
}

func TestGetProjectFilters_RepositoryError(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectRepository)
	log := logger.New("test")
	service := NewProjectService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("GetFilters", ctx, int64(7)).Return(nil, errors.New("connection lost"))

	// Act
	_, err := service.GetProjectFilters(ctx, 7)

	// Assert
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrProjectNotFound)
}

func TestDeleteProject_IdempotentForUnknownID(t *testing.T) {
	// Arrange
	mockRepo := new(MockProjectRepository)
	log := logger.New("test")
	service := NewProjectService(mockRepo, log)

	ctx := context.Background()
	// Deleting a missing row is a repository no-op, so a second delete
	// succeeds the same way the first did
	mockRepo.On("Delete", ctx, int64(9)).Return(nil).Twice()

	// Act & Assert
	require.NoError(t, service.DeleteProject(ctx, 9))
	require.NoError(t, service.DeleteProject(ctx, 9))
	mockRepo.AssertExpectations(t)
}
