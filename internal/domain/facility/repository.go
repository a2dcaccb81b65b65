package facility

import "context"

type Repository interface {
	// Create persists the facility record (at most one per deployment).
	Create(ctx context.Context, f *Facility) error

	// Get returns the deployment's facility record.
	Get(ctx context.Context) (*Facility, error)
}
