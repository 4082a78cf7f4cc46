package llm

import (
	"context"

	"github.com/skylinehq/skyline/api/internal/models"
)

// Static is a deterministic Interpreter that returns a fixed result.
// It stands in for the remote model wherever network access or model
// non-determinism is unwanted (tests, local development without a key).
type Static struct {
	Criteria models.FilterCriteria
	Err      error
}

// Interpret returns the configured criteria or error, ignoring the query.
func (s *Static) Interpret(_ context.Context, _ string) (models.FilterCriteria, error) {
	if s.Err != nil {
		return models.FilterCriteria{}, s.Err
	}
	return s.Criteria, nil
}
