package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/skylinehq/skyline/api/internal/database"
	"github.com/skylinehq/skyline/api/internal/models"
)

// ProjectRepository defines the interface for project persistence.
type ProjectRepository interface {
	// Create inserts one project row. Filters are serialized as a JSON
	// array in a text column. Duplicate names under the same user are
	// permitted; there is no update-in-place.
	Create(ctx context.Context, username, projectName string, filters []int64) error

	// ListByUsername returns all projects saved under the username.
	// Returns an empty slice (not an error) when the user has none.
	// A row whose stored filter text fails to deserialize is returned
	// with an empty filter list rather than failing the whole listing.
	ListByUsername(ctx context.Context, username string) ([]models.ProjectSummary, error)

	// GetFilters returns the deserialized filter list for one project.
	// Returns nil, nil if no row has that id (not an error).
	// Returns error only for actual database or deserialization failures.
	GetFilters(ctx context.Context, projectID int64) ([]int64, error)

	// Delete removes the project row if present. Deleting a non-existent
	// id is a no-op, not an error.
	Delete(ctx context.Context, projectID int64) error
}

// projectRepository is the concrete implementation of ProjectRepository.
type projectRepository struct {
	db *database.Database
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *database.Database) ProjectRepository {
	return &projectRepository{
		db: db,
	}
}

// Create serializes the filter list to JSON and inserts a single row.
func (r *projectRepository) Create(ctx context.Context, username, projectName string, filters []int64) error {
	if filters == nil {
		filters = []int64{}
	}

	serialized, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("failed to serialize filters: %w", err)
	}

	query := `
		INSERT INTO projects (username, project_name, filters)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Pool.Exec(ctx, query, username, projectName, string(serialized)); err != nil {
		return fmt.Errorf("failed to insert project for user %q: %w", username, err)
	}

	return nil
}

// ListByUsername returns every project row saved under the username, in
// insertion order.
func (r *projectRepository) ListByUsername(ctx context.Context, username string) ([]models.ProjectSummary, error) {
	query := `
		SELECT id, project_name, filters
		FROM projects
		WHERE username = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects for user %q: %w", username, err)
	}
	defer rows.Close()

	var results []models.ProjectSummary

	for rows.Next() {
		var summary models.ProjectSummary
		var filtersJSON string

		if err := rows.Scan(&summary.ID, &summary.Name, &filtersJSON); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}

		// Corrupt filter text degrades to an empty list for this row only.
		if err := json.Unmarshal([]byte(filtersJSON), &summary.Filters); err != nil {
			summary.Filters = []int64{}
		}
		if summary.Filters == nil {
			summary.Filters = []int64{}
		}

		results = append(results, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	// Return empty slice if no projects found (not an error)
	if results == nil {
		results = []models.ProjectSummary{}
	}

	return results, nil
}

// GetFilters returns the deserialized filter list for one row, or nil, nil
// when the id is unknown.
func (r *projectRepository) GetFilters(ctx context.Context, projectID int64) ([]int64, error) {
	query := `SELECT filters FROM projects WHERE id = $1`

	var filtersJSON string
	err := r.db.Pool.QueryRow(ctx, query, projectID).Scan(&filtersJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query filters for project %d: %w", projectID, err)
	}

	var filters []int64
	if err := json.Unmarshal([]byte(filtersJSON), &filters); err != nil {
		return nil, fmt.Errorf("failed to deserialize filters for project %d: %w", projectID, err)
	}
	if filters == nil {
		filters = []int64{}
	}

	return filters, nil
}

// Delete removes the row if present; a missing id deletes zero rows and
// succeeds.
func (r *projectRepository) Delete(ctx context.Context, projectID int64) error {
	query := `DELETE FROM projects WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, projectID); err != nil {
		return fmt.Errorf("failed to delete project %d: %w", projectID, err)
	}

	return nil
}
