package pledgemock

import (
	"context"

	domain "warehouse-facility/internal/domain/pledge"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies pledge.Repository.
// Only methods you need are included; unfilled ones return ErrNotFound
// or no-op.
type Repo struct {
	CreateFn                 func(ctx context.Context, p *domain.Pledge) error
	GetByPledgeIDFn          func(ctx context.Context, pledgeID string) (*domain.Pledge, error)
	GetByPledgeIDForUpdateFn func(ctx context.Context, pledgeID string) (*domain.Pledge, error)
	SaveFn                   func(ctx context.Context, p *domain.Pledge) error
	ListIDsFn                func(ctx context.Context) ([]string, error)
	ListFn                   func(ctx context.Context) ([]domain.Pledge, error)
	ListActiveByAssetIDsFn   func(ctx context.Context, assetIDs []string) ([]domain.Pledge, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Pledge) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPledgeID(ctx context.Context, pledgeID string) (*domain.Pledge, error) {
	if m.GetByPledgeIDFn != nil {
		return m.GetByPledgeIDFn(ctx, pledgeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByPledgeIDForUpdate(ctx context.Context, pledgeID string) (*domain.Pledge, error) {
	if m.GetByPledgeIDForUpdateFn != nil {
		return m.GetByPledgeIDForUpdateFn(ctx, pledgeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, p *domain.Pledge) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListIDs(ctx context.Context) ([]string, error) {
	if m.ListIDsFn != nil {
		return m.ListIDsFn(ctx)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context) ([]domain.Pledge, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) ListActiveByAssetIDs(ctx context.Context, assetIDs []string) ([]domain.Pledge, error) {
	if m.ListActiveByAssetIDsFn != nil {
		return m.ListActiveByAssetIDsFn(ctx, assetIDs)
	}
	return nil, nil
}
