package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
)

type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	// FindByID is tenant-scoped; returns (nil, nil) when no match exists.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Location, error)
	Update(ctx context.Context, l *model.Location) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) Create(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true", tenantID).
		Order("name ASC").
		Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *locationRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Location{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}
