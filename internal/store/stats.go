package store

import (
	"context"

	"github.com/issacasimov/labstore/internal/domain"
)

// Stats computes the derived statistics view over the current document.
// Nothing is mutated; the aggregation is recomputed fresh on every call.
func (s *Store) Stats(ctx context.Context) domain.SystemStats {
	return s.Load(ctx).ComputeStats(s.clock.Now())
}
