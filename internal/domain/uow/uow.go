package uow

import (
	"context"

	"warehouse-facility/internal/domain/facility"
	"warehouse-facility/internal/domain/pledge"
	"warehouse-facility/internal/domain/registry"
)

// Repos bundles everything a transition touches, bound to one transaction.
// The registry rides inside the unit of work so settlement effects and the
// pledge state write commit together or not at all.
type Repos struct {
	Facilities facility.Repository
	Pledges    pledge.Repository
	Registry   registry.Registry
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the pledge row first, then pass it in
	WithinPledgeTx(ctx context.Context, pledgeID string, fn func(r Repos, p *pledge.Pledge) error) error
}
