package facility

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "warehouse-facility/internal/domain/facility"
	"warehouse-facility/internal/domain/uow"
	"warehouse-facility/internal/settlement"
	"warehouse-facility/pkg/id"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx}
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

func validate(in InstantiateInput) error {
	var invalid []string

	if in.BindName == "" {
		invalid = append(invalid, "bind_name")
	}
	if in.ContractName == "" {
		invalid = append(invalid, "contract_name")
	}
	if in.Originator == "" {
		invalid = append(invalid, "facility.originator")
	}
	if in.Warehouse == "" || in.Warehouse == in.Originator {
		invalid = append(invalid, "facility.warehouse")
	}
	if in.EscrowMarker == "" {
		invalid = append(invalid, "facility.escrow_marker")
	}
	if in.MarkerDenom == "" {
		invalid = append(invalid, "facility.marker_denom")
	}
	if in.StablecoinDenom == "" || in.StablecoinDenom == in.MarkerDenom {
		invalid = append(invalid, "facility.stablecoin_denom")
	}
	if in.AdvanceRate.Cmp(zero) <= 0 || in.AdvanceRate.Cmp(hundred) > 0 {
		invalid = append(invalid, "facility.advance_rate")
	}
	if in.PaydownRate.Cmp(zero) < 0 || in.PaydownRate.Cmp(hundred) > 0 {
		invalid = append(invalid, "facility.paydown_rate")
	}

	if len(invalid) > 0 {
		return &InvalidFieldsError{Fields: invalid}
	}
	return nil
}

// Instantiate creates the deployment's single facility record and issues the
// facility marker supply split between the counterparties. Rejected if a
// facility already exists.
func (u *Usecase) Instantiate(ctx context.Context, caller string, in InstantiateInput) (*FacilityDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	var dto *FacilityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Facilities.Get(ctx)
		switch {
		case err == nil:
			return domain.ErrAlreadyExists
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		f := &domain.Facility{
			FacilityID:      id.NewID32(),
			BindName:        in.BindName,
			ContractName:    in.ContractName,
			Admin:           caller,
			Originator:      in.Originator,
			Warehouse:       in.Warehouse,
			EscrowMarker:    in.EscrowMarker,
			MarkerDenom:     in.MarkerDenom,
			StablecoinDenom: in.StablecoinDenom,
			AdvanceRate:     in.AdvanceRate,
			PaydownRate:     in.PaydownRate,
		}
		if err := r.Facilities.Create(ctx, f); err != nil {
			return err
		}
		if err := r.Registry.Apply(ctx, settlement.Instantiate(f)); err != nil {
			return err
		}
		dto = toDTO(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) GetFacilityInfo(ctx context.Context) (*FacilityDTO, error) {
	f, err := u.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toDTO(f), nil
}

func (u *Usecase) GetContractInfo(ctx context.Context) (*ContractInfoDTO, error) {
	f, err := u.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &ContractInfoDTO{
		Admin:           f.Admin,
		BindName:        f.BindName,
		ContractName:    f.ContractName,
		ContractType:    domain.ContractType,
		ContractVersion: domain.ContractVersion,
		Facility:        *toDTO(f),
	}, nil
}

func toDTO(f *domain.Facility) *FacilityDTO {
	return &FacilityDTO{
		FacilityID:      f.FacilityID,
		BindName:        f.BindName,
		ContractName:    f.ContractName,
		Originator:      f.Originator,
		Warehouse:       f.Warehouse,
		EscrowMarker:    f.EscrowMarker,
		MarkerDenom:     f.MarkerDenom,
		StablecoinDenom: f.StablecoinDenom,
		AdvanceRate:     f.AdvanceRate,
		PaydownRate:     f.PaydownRate,
		CreatedAt:       f.CreatedAt,
	}
}
