package mysql

import (
	"context"
	"errors"

	facilityDomain "warehouse-facility/internal/domain/facility"

	"gorm.io/gorm"
)

type FacilityRepository struct{ db *gorm.DB }

func NewFacilityRepository(db *gorm.DB) *FacilityRepository { return &FacilityRepository{db: db} }

func (r *FacilityRepository) Create(ctx context.Context, f *facilityDomain.Facility) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FacilityRepository) Get(ctx context.Context) (*facilityDomain.Facility, error) {
	var out facilityDomain.Facility
	res := r.db.WithContext(ctx).Order("id ASC").First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, facilityDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}
