package facilitymock

import (
	"context"

	domain "warehouse-facility/internal/domain/facility"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies facility.Repository.
type Repo struct {
	CreateFn func(ctx context.Context, f *domain.Facility) error
	GetFn    func(ctx context.Context) (*domain.Facility, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.Facility) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context) (*domain.Facility, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return nil, domain.ErrNotFound
}
