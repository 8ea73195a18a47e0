package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
)

type AllocationRepository interface {
	Create(ctx context.Context, a *model.Allocation) error
	ListByLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) ([]model.Allocation, error)
	// SumQuantityByLineItem totals QuantityAllocated over non-cancelled
	// allocations of a line item. Returns 0 when none exist.
	SumQuantityByLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) (int, error)
	DB() *gorm.DB
}

type allocationRepo struct{ db *gorm.DB }

func NewAllocationRepository(db *gorm.DB) AllocationRepository { return &allocationRepo{db: db} }

func (r *allocationRepo) DB() *gorm.DB { return r.db }

func (r *allocationRepo) Create(ctx context.Context, a *model.Allocation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *allocationRepo) ListByLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) ([]model.Allocation, error) {
	var allocations []model.Allocation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND line_item_id = ?", tenantID, lineItemID).
		Order("created_at ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *allocationRepo) SumQuantityByLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) (int, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Allocation{}).
		Where("tenant_id = ? AND line_item_id = ? AND status <> 'CANCELLED'", tenantID, lineItemID).
		Select("COALESCE(SUM(quantity_allocated), 0)").
		Scan(&sum).Error
	return int(sum), err
}
