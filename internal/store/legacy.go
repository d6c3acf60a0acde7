package store

import (
	"context"

	"github.com/issacasimov/labstore/internal/domain"
	"github.com/issacasimov/labstore/internal/migrate"
)

// Compatibility shims for callers still speaking the legacy "requests"
// vocabulary. Each applies the same field remapping as the load-time
// migration to its ad hoc input; the underlying collection is always
// componentIssues.

// Requests returns all issue records. Alias for Issues.
func (s *Store) Requests(ctx context.Context) []domain.ComponentIssue {
	return s.Issues(ctx)
}

// AddRequest converts a legacy request and stores it as an issue.
func (s *Store) AddRequest(ctx context.Context, request domain.Request) error {
	return s.AddIssue(ctx, migrate.ConvertRequest(request))
}

// UpdateRequest converts a legacy request and updates the issue with the
// same id. An unknown id is a silent no-op.
func (s *Store) UpdateRequest(ctx context.Context, request domain.Request) error {
	return s.UpdateIssue(ctx, migrate.ConvertRequest(request))
}
