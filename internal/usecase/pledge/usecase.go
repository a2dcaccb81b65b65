package pledge

import (
	"context"
	"errors"
	"time"

	domain "warehouse-facility/internal/domain/pledge"
	"warehouse-facility/internal/domain/uow"
	"warehouse-facility/internal/settlement"
)

// Usecase is the pledge transition engine. Every transition runs inside a
// unit of work: caller authorization, the state guard, the pledge write and
// the settlement op batch all commit together or not at all.
type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx}
}

// Propose creates a pledge in the proposed state and escrows the
// asset-pool marker. Only the facility originator may propose; the total
// advance is recomputed from the declared asset values and must match the
// caller-supplied amount exactly.
func (u *Usecase) Propose(ctx context.Context, caller string, in ProposeInput) (*PledgeDTO, error) {
	if len(in.Assets) == 0 {
		return nil, domain.ErrEmptyAssetSet
	}
	assetIDs := make([]string, 0, len(in.Assets))
	for _, a := range in.Assets {
		if a.Value <= 0 {
			return nil, domain.ErrInvalidAssetValue
		}
		assetIDs = append(assetIDs, a.ID)
	}

	var dto *PledgeDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Facilities.Get(ctx)
		if err != nil {
			return err
		}
		if caller != f.Originator {
			return domain.ErrUnauthorized
		}

		// Reject id reuse, including ids of terminal pledges.
		_, err = r.Pledges.GetByPledgeID(ctx, in.PledgeID)
		switch {
		case err == nil:
			return domain.ErrDuplicatePledge
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		// No asset may sit in more than one live pledge.
		active, err := r.Pledges.ListActiveByAssetIDs(ctx, assetIDs)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return domain.ErrAssetAlreadyPledged
		}

		p := &domain.Pledge{
			PledgeID:         in.PledgeID,
			AssetMarkerDenom: in.AssetMarkerDenom,
			State:            domain.StateProposed,
			StateUpdatedAt:   time.Now().UTC(),
		}
		for _, a := range in.Assets {
			p.Assets = append(p.Assets, domain.Asset{AssetID: a.ID, Value: a.Value})
		}

		advance := f.AdvanceAmount(p.TotalValue())
		if advance <= 0 || advance != in.TotalAdvance {
			return domain.ErrInvalidAdvanceAmount
		}
		p.TotalAdvance = advance

		if err := r.Pledges.Create(ctx, p); err != nil {
			return err
		}
		if err := r.Registry.Apply(ctx, settlement.Propose(f, p)); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Accept transitions a proposed pledge to accepted. Only the warehouse may
// accept, and the attached funds must be exactly the pledge's total advance
// in the facility stablecoin; partial or excess funding is rejected.
func (u *Usecase) Accept(ctx context.Context, caller, pledgeID string, funds Funds) (*PledgeDTO, error) {
	var dto *PledgeDTO
	err := u.uow.WithinPledgeTx(ctx, pledgeID, func(r uow.Repos, p *domain.Pledge) error {
		f, err := r.Facilities.Get(ctx)
		if err != nil {
			return err
		}
		if caller != f.Warehouse {
			return domain.ErrUnauthorized
		}
		if p.State != domain.StateProposed {
			return domain.ErrInvalidState
		}
		if funds.Denom != f.StablecoinDenom || funds.Amount != p.TotalAdvance {
			return domain.ErrFundingMismatch
		}

		p.State = domain.StateAccepted
		p.StateUpdatedAt = time.Now().UTC()
		if err := r.Pledges.Save(ctx, p); err != nil {
			return err
		}
		if err := r.Registry.Apply(ctx, settlement.Accept(f, p)); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Cancel unwinds a proposed or accepted pledge. The refund set depends on
// how far the pledge progressed: collateral only from proposed, collateral
// plus the escrowed advance from accepted.
func (u *Usecase) Cancel(ctx context.Context, caller, pledgeID string) (*PledgeDTO, error) {
	var dto *PledgeDTO
	err := u.uow.WithinPledgeTx(ctx, pledgeID, func(r uow.Repos, p *domain.Pledge) error {
		f, err := r.Facilities.Get(ctx)
		if err != nil {
			return err
		}
		if caller != f.Originator {
			return domain.ErrUnauthorized
		}
		if !p.State.Active() {
			return domain.ErrInvalidState
		}
		fromAccepted := p.State == domain.StateAccepted

		p.State = domain.StateCancelled
		p.StateUpdatedAt = time.Now().UTC()
		if err := r.Pledges.Save(ctx, p); err != nil {
			return err
		}
		if err := r.Registry.Apply(ctx, settlement.Cancel(f, p, fromAccepted)); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Execute settles an accepted pledge: advance to the originator, encumbrance
// on the collateral marker, facility marker tokens minted and split.
func (u *Usecase) Execute(ctx context.Context, caller, pledgeID string) (*PledgeDTO, error) {
	var dto *PledgeDTO
	err := u.uow.WithinPledgeTx(ctx, pledgeID, func(r uow.Repos, p *domain.Pledge) error {
		f, err := r.Facilities.Get(ctx)
		if err != nil {
			return err
		}
		if caller != f.Originator {
			return domain.ErrUnauthorized
		}
		if p.State != domain.StateAccepted {
			return domain.ErrInvalidState
		}

		p.State = domain.StateExecuted
		p.StateUpdatedAt = time.Now().UTC()
		if err := r.Pledges.Save(ctx, p); err != nil {
			return err
		}
		if err := r.Registry.Apply(ctx, settlement.Execute(f, p)); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Close marks an executed pledge permanently closed after paydown and
// releases the encumbrance. Paydown economics live outside this service;
// only the terminal transition is handled here.
func (u *Usecase) Close(ctx context.Context, caller, pledgeID string) (*PledgeDTO, error) {
	var dto *PledgeDTO
	err := u.uow.WithinPledgeTx(ctx, pledgeID, func(r uow.Repos, p *domain.Pledge) error {
		f, err := r.Facilities.Get(ctx)
		if err != nil {
			return err
		}
		if caller != f.Originator {
			return domain.ErrUnauthorized
		}
		if p.State != domain.StateExecuted {
			return domain.ErrInvalidState
		}

		p.State = domain.StateClosed
		p.StateUpdatedAt = time.Now().UTC()
		if err := r.Pledges.Save(ctx, p); err != nil {
			return err
		}
		if err := r.Registry.Apply(ctx, settlement.Close(f, p)); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, pledgeID string) (*PledgeDTO, error) {
	p, err := u.repo.GetByPledgeID(ctx, pledgeID)
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) ListIDs(ctx context.Context) ([]string, error) {
	return u.repo.ListIDs(ctx)
}

func (u *Usecase) List(ctx context.Context) ([]PledgeDTO, error) {
	ps, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PledgeDTO, 0, len(ps))
	for i := range ps {
		out = append(out, *toDTO(&ps[i]))
	}
	return out, nil
}

func toDTO(p *domain.Pledge) *PledgeDTO {
	dto := &PledgeDTO{
		PledgeID:         p.PledgeID,
		AssetMarkerDenom: p.AssetMarkerDenom,
		TotalAdvance:     p.TotalAdvance,
		State:            string(p.State),
		StateUpdatedAt:   p.StateUpdatedAt,
		CreatedAt:        p.CreatedAt,
	}
	for _, a := range p.Assets {
		dto.Assets = append(dto.Assets, AssetDTO{ID: a.AssetID, Value: a.Value})
	}
	return dto
}
