package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
)

// PurchaseOrderRepository defines the data access contract for purchase orders
// and their line items.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	// FindByID is tenant-scoped and preloads line items; returns (nil, nil)
	// when no match exists.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrder, error)
	// FindLineItemByID is tenant-scoped; returns (nil, nil) when no match exists.
	FindLineItemByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrderLineItem, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) DB() *gorm.DB { return r.db }

func (r *purchaseOrderRepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	// Line items are inserted in the same statement via the association
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepo) FindLineItemByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrderLineItem, error) {
	var item model.PurchaseOrderLineItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *purchaseOrderRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	var orders []model.PurchaseOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("LineItems").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *purchaseOrderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("status", status).Error
}
