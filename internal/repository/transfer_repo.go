package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
)

// TransferRepository defines the data access contract for transfer requests.
type TransferRepository interface {
	Create(ctx context.Context, t *model.TransferRequest) error
	// FindByID is tenant-scoped; returns (nil, nil) when no match exists.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.TransferRequest, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.TransferFilter) ([]model.TransferRequest, int64, error)
	// UpdateWithStatusCheck saves the snapshot only if the stored row is still
	// in expectedStatus. Returns conflict=true when another writer moved the
	// transfer first; the caller decides whether to reload and retry.
	UpdateWithStatusCheck(ctx context.Context, t *model.TransferRequest, expectedStatus model.TransferStatus) (conflict bool, err error)
	// FindStale returns transfers of the given priority stuck in REQUESTED
	// since before the cutoff. Used by the escalation cron.
	FindStale(ctx context.Context, priority string, cutoff time.Time) ([]model.TransferRequest, error)
	DB() *gorm.DB
}

type transferRepo struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) TransferRepository { return &transferRepo{db: db} }

func (r *transferRepo) DB() *gorm.DB { return r.db }

func (r *transferRepo) Create(ctx context.Context, t *model.TransferRequest) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transferRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.TransferRequest, error) {
	var t model.TransferRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transferRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.TransferFilter) ([]model.TransferRequest, int64, error) {
	var transfers []model.TransferRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TransferRequest{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&transfers).Error
	return transfers, total, err
}

func (r *transferRepo) UpdateWithStatusCheck(ctx context.Context, t *model.TransferRequest, expectedStatus model.TransferStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TransferRequest{}).
		Where("id = ? AND tenant_id = ? AND status = ?", t.ID, t.TenantID, expectedStatus).
		Select("*").Omit("id", "tenant_id", "created_at").
		Updates(t)
	if res.Error != nil {
		return false, res.Error
	}
	// Zero rows means the guard clause did not match: concurrent transition.
	return res.RowsAffected == 0, nil
}

func (r *transferRepo) FindStale(ctx context.Context, priority string, cutoff time.Time) ([]model.TransferRequest, error) {
	var transfers []model.TransferRequest
	err := r.db.WithContext(ctx).
		Where("priority = ? AND status = ? AND requested_at < ?", priority, model.TransferRequested, cutoff).
		Order("requested_at ASC").
		Find(&transfers).Error
	return transfers, err
}
