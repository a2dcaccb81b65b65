package uowmock

import (
	"context"
	"errors"

	"warehouse-facility/internal/domain/pledge"
	"warehouse-facility/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented. Passthrough builds a UoW that simply invokes the
// callback against fixed repos, which is what most engine tests want.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPledgeTxFn func(ctx context.Context, pledgeID string, fn func(r uow.Repos, p *pledge.Pledge) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs callbacks directly against r, loading the pledge with
// GetByPledgeIDForUpdate for WithinPledgeTx, with no transaction semantics.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinPledgeTxFn: func(ctx context.Context, pledgeID string, fn func(uow.Repos, *pledge.Pledge) error) error {
			p, err := r.Pledges.GetByPledgeIDForUpdate(ctx, pledgeID)
			if err != nil {
				return err
			}
			return fn(r, p)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinPledgeTx(ctx context.Context, pledgeID string, fn func(r uow.Repos, p *pledge.Pledge) error) error {
	if m.WithinPledgeTxFn != nil {
		return m.WithinPledgeTxFn(ctx, pledgeID, fn)
	}
	return errUnimplemented
}
