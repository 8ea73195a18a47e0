package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
)

type PurchaseOrderService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error)
}

type purchaseOrderService struct {
	repo repository.PurchaseOrderRepository
}

func NewPurchaseOrderService(repo repository.PurchaseOrderRepository) PurchaseOrderService {
	return &purchaseOrderService{repo: repo}
}

func (s *purchaseOrderService) Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	po := &model.PurchaseOrder{
		TenantID:    tenantID,
		OrderNumber: req.OrderNumber,
		Supplier:    req.Supplier,
		Status:      "OPEN",
		CreatedBy:   userID,
	}

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, engine.NewValidationError("invalid product_id: %s", item.ProductID)
		}
		if item.QuantityOrdered <= 0 {
			return nil, engine.NewValidationError("Ordered quantity must be greater than zero")
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.QuantityOrdered)))
		po.LineItems = append(po.LineItems, model.PurchaseOrderLineItem{
			TenantID:        tenantID,
			ProductID:       pid,
			QuantityOrdered: item.QuantityOrdered,
			UnitPrice:       item.UnitPrice,
			LineTotal:       lineTotal,
		})
	}

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, err
	}
	return purchaseOrderToResponse(po), nil
}

func (s *purchaseOrderService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, engine.NewNotFoundError("Purchase order not found")
	}
	return purchaseOrderToResponse(po), nil
}

func (s *purchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *purchaseOrderToResponse(&orders[i]))
	}
	return &dto.PurchaseOrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func purchaseOrderToResponse(po *model.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.LineItemResponse, 0, len(po.LineItems))
	for _, li := range po.LineItems {
		items = append(items, dto.LineItemResponse{
			ID:              li.ID.String(),
			PurchaseOrderID: li.PurchaseOrderID.String(),
			ProductID:       li.ProductID.String(),
			QuantityOrdered: li.QuantityOrdered,
			UnitPrice:       li.UnitPrice,
			LineTotal:       li.LineTotal,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:          po.ID.String(),
		OrderNumber: po.OrderNumber,
		Supplier:    po.Supplier,
		Status:      po.Status,
		Items:       items,
		CreatedAt:   po.CreatedAt.Format(time.RFC3339),
	}
}
