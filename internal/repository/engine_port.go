package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
)

// enginePort adapts the GORM repositories to the allocation engine's
// read-only port.
type enginePort struct {
	orders      PurchaseOrderRepository
	allocations AllocationRepository
}

var _ engine.RepositoryPort = (*enginePort)(nil)

func NewEnginePort(orders PurchaseOrderRepository, allocations AllocationRepository) engine.RepositoryPort {
	return &enginePort{orders: orders, allocations: allocations}
}

func (p *enginePort) GetLineItemByID(ctx context.Context, id, tenantID uuid.UUID) (*model.PurchaseOrderLineItem, error) {
	return p.orders.FindLineItemByID(ctx, tenantID, id)
}

func (p *enginePort) SumAllocatedQuantity(ctx context.Context, lineItemID, tenantID uuid.UUID) (int, error) {
	return p.allocations.SumQuantityByLineItem(ctx, tenantID, lineItemID)
}
