package mysql

import (
	"context"
	"errors"

	pledgeDomain "warehouse-facility/internal/domain/pledge"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PledgeRepository struct{ db *gorm.DB }

func NewPledgeRepository(db *gorm.DB) *PledgeRepository { return &PledgeRepository{db: db} }

func (r *PledgeRepository) Create(ctx context.Context, p *pledgeDomain.Pledge) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PledgeRepository) Save(ctx context.Context, p *pledgeDomain.Pledge) error {
	return r.db.WithContext(ctx).Omit("Assets").Save(p).Error
}

func (r *PledgeRepository) GetByPledgeID(ctx context.Context, pledgeID string) (*pledgeDomain.Pledge, error) {
	return r.getByPledgeID(ctx, pledgeID, false)
}

func (r *PledgeRepository) GetByPledgeIDForUpdate(ctx context.Context, pledgeID string) (*pledgeDomain.Pledge, error) {
	return r.getByPledgeID(ctx, pledgeID, true)
}

func (r *PledgeRepository) getByPledgeID(ctx context.Context, pledgeID string, forUpdate bool) (*pledgeDomain.Pledge, error) {
	tx := r.db.WithContext(ctx)
	// sqlite (tests) has no FOR UPDATE; its transactions lock the whole file.
	if forUpdate && r.db.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out pledgeDomain.Pledge
	res := tx.Preload("Assets").Where("pledge_id = ?", pledgeID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, pledgeDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *PledgeRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	res := r.db.WithContext(ctx).
		Model(&pledgeDomain.Pledge{}).
		Order("id ASC").
		Pluck("pledge_id", &ids)
	return ids, res.Error
}

func (r *PledgeRepository) List(ctx context.Context) ([]pledgeDomain.Pledge, error) {
	var out []pledgeDomain.Pledge
	res := r.db.WithContext(ctx).
		Preload("Assets").
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PledgeRepository) ListActiveByAssetIDs(ctx context.Context, assetIDs []string) ([]pledgeDomain.Pledge, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}
	var out []pledgeDomain.Pledge
	res := r.db.WithContext(ctx).
		Distinct("pledges.*").
		Joins("JOIN pledge_assets pa ON pa.pledge_ref = pledges.id").
		Where("pa.asset_id IN ? AND pledges.state IN ?", assetIDs,
			[]pledgeDomain.State{pledgeDomain.StateProposed, pledgeDomain.StateAccepted}).
		Find(&out)
	return out, res.Error
}
