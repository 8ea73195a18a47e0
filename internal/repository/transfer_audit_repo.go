package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
)

type TransferAuditRepository interface {
	Create(ctx context.Context, a *model.TransferAudit) error
	ListByTransfer(ctx context.Context, tenantID, transferID uuid.UUID) ([]model.TransferAudit, error)
}

type transferAuditRepo struct{ db *gorm.DB }

func NewTransferAuditRepository(db *gorm.DB) TransferAuditRepository {
	return &transferAuditRepo{db: db}
}

func (r *transferAuditRepo) Create(ctx context.Context, a *model.TransferAudit) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *transferAuditRepo) ListByTransfer(ctx context.Context, tenantID, transferID uuid.UUID) ([]model.TransferAudit, error) {
	var audits []model.TransferAudit
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND transfer_id = ?", tenantID, transferID).
		Order("occurred_at ASC").
		Find(&audits).Error
	return audits, err
}
