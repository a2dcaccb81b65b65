package mysql

import (
	"context"

	ledger "warehouse-facility/internal/adapter/registry"
	"warehouse-facility/internal/domain/pledge"
	"warehouse-facility/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Facilities: &FacilityRepository{db: tx},
		Pledges:    &PledgeRepository{db: tx},
		Registry:   ledger.NewLedger(tx),
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinPledgeTx(ctx context.Context, pledgeID string, fn func(r uow.Repos, p *pledge.Pledge) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the pledge row up-front to prevent races
		p, err := r.Pledges.GetByPledgeIDForUpdate(ctx, pledgeID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
