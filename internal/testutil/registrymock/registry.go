package registrymock

import (
	"context"

	domain "warehouse-facility/internal/domain/registry"
)

var _ domain.Registry = (*Registry)(nil)

// Registry is a function-backed mock that satisfies registry.Registry and
// records every applied batch.
type Registry struct {
	ApplyFn func(ctx context.Context, ops []domain.Op) error

	// Batches collects every Apply call in order.
	Batches [][]domain.Op
}

func (m *Registry) Apply(ctx context.Context, ops []domain.Op) error {
	m.Batches = append(m.Batches, ops)
	if m.ApplyFn != nil {
		return m.ApplyFn(ctx, ops)
	}
	return nil
}

// Ops flattens all recorded batches.
func (m *Registry) Ops() []domain.Op {
	var out []domain.Op
	for _, b := range m.Batches {
		out = append(out, b...)
	}
	return out
}

func (m *Registry) Reset() { m.Batches = nil }
