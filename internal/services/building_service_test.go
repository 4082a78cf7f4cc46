package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skylinehq/skyline/api/internal/llm"
	"github.com/skylinehq/skyline/api/internal/logger"
	"github.com/skylinehq/skyline/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBuildingSource is a mock implementation of opendata.BuildingSource for testing
type MockBuildingSource struct {
	mock.Mock
}

func (m *MockBuildingSource) FetchBuildings(ctx context.Context) ([]models.Building, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	buildings, ok := args.Get(0).([]models.Building)
	if !ok {
		return nil, args.Error(1)
	}
	return buildings, args.Error(1)
}

// MockInterpreter is a mock implementation of llm.Interpreter for testing
type MockInterpreter struct {
	mock.Mock
}

func (m *MockInterpreter) Interpret(ctx context.Context, query string) (models.FilterCriteria, error) {
	args := m.Called(ctx, query)
	criteria, _ := args.Get(0).(models.FilterCriteria)
	return criteria, args.Error(1)
}

func TestListBuildings_Success(t *testing.T) {
	// Arrange
	mockSource := new(MockBuildingSource)
	mockInterpreter := new(MockInterpreter)
	log := logger.New("test")
	service := NewBuildingService(mockSource, mockInterpreter, log)

	ctx := context.Background()
	expected := []models.Building{{ID: 0, Height: 50}, {ID: 1, Height: 150}}
	mockSource.On("FetchBuildings", ctx).Return(expected, nil)

	// Act
	buildings, err := service.ListBuildings(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, expected, buildings)
	mockSource.AssertExpectations(t)
}

func TestListBuildings_FetchError(t *testing.T) {
	// Arrange
	mockSource := new(MockBuildingSource)
	mockInterpreter := new(MockInterpreter)
	log := logger.New("test")
	service := NewBuildingService(mockSource, mockInterpreter, log)

	ctx := context.Background()
	mockSource.On("FetchBuildings", ctx).Return(nil, errors.New("decode failed"))

	// Act
	buildings, err := service.ListBuildings(ctx)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, buildings)
	mockSource.AssertExpectations(t)
}

func TestQuery_EndToEnd(t *testing.T) {
	// Arrange
	mockSource := new(MockBuildingSource)
	mockInterpreter := new(MockInterpreter)
	log := logger.New("test")
	service := NewBuildingService(mockSource, mockInterpreter, log)

	ctx := context.Background()
	query := "height > 100"

	mockInterpreter.On("Interpret", ctx, query).Return(models.FilterCriteria{
		Attribute: "height",
		Operator:  ">",
		Value:     100.0,
	}, nil)
	mockSource.On("FetchBuildings", ctx).Return([]models.Building{
		{ID: 0, Height: 50},
		{ID: 1, Height: 150},
	}, nil)

	// Act
	matched, err := service.Query(ctx, query)

	// Assert
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, 1, matched[0].ID)
	assert.Equal(t, 150.0, matched[0].Height)
	mockInterpreter.AssertExpectations(t)
	mockSource.AssertExpectations(t)
}

func TestQuery_EmptyQuery(t *testing.T) {
	// Arrange
	mockSource := new(MockBuildingSource)
	mockInterpreter := new(MockInterpreter)
	log := logger.New("test")
	service := NewBuildingService(mockSource, mockInterpreter, log)

	// Act
	matched, err := service.Query(context.Background(), "   ")

	// Assert
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Nil(t, matched)
	// Neither collaborator should be called for an empty query
	mockInterpreter.AssertNotCalled(t, "Interpret")
	mockSource.AssertNotCalled(t, "FetchBuildings")
}

func TestQuery_MissingAPIKeyPassesThrough(t *testing.T) {
	// Arrange
	mockSource := new(MockBuildingSource)
	mockInterpreter := new(MockInterpreter)
	log := logger.New("test")
	service := NewBuildingService(mockSource, mockInterpreter, log)

	ctx := context.Background()
	mockInterpreter.On("Interpret", ctx, "height > 100").
		Return(models.FilterCriteria{}, llm.ErrMissingAPIKey)

	// Act
	_, err := service.Query(ctx, "height > 100")

	// Assert
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
	mockSource.AssertNotCalled(t, "FetchBuildings")
}

func TestQuery_ParseErrorPassesThrough(t *testing.T) {
	// Arrange
	mockSource := new(MockBuildingSource)
	mockInterpreter := new(MockInterpreter)
	log := logger.New("test")
	service := NewBuildingService(mockSource, mockInterpreter, log)

	ctx := context.Background()
	parseErr := &llm.ParseError{Err: errors.New("invalid character"), Raw: "not json"}
	mockInterpreter.On("Interpret", ctx, "gibberish").
		Return(models.FilterCriteria{}, parseErr)

	// Act
	_, err := service.Query(ctx, "gibberish")

	// Assert
	var got *llm.ParseError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "not json", got.Raw)
	mockSource.AssertNotCalled(t, "FetchBuildings")
}

func TestQuery_FetchErrorAfterInterpretation(t *testing.T) {
	// Arrange
	mockSource := new(MockBuildingSource)
	mockInterpreter := new(MockInterpreter)
	log := logger.New("test")
	service := NewBuildingService(mockSource, mockInterpreter, log)

	ctx := context.Background()
	mockInterpreter.On("Interpret", ctx, "height > 100").Return(models.FilterCriteria{
		Attribute: "height",
		Operator:  ">",
		Value:     100.0,
	}, nil)
	mockSource.On("FetchBuildings", ctx).Return(nil, errors.New("decode failed"))

	// Act
	_, err := service.Query(ctx, "height > 100")

	// Assert
	assert.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrMissingAPIKey)
	mockSource.AssertExpectations(t)
}
