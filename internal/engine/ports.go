package engine

import (
	"context"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"

	"github.com/google/uuid"
)

// RepositoryPort is the read surface the allocation engine needs. The engine
// depends on this interface, not on the concrete GORM repositories, so the
// core can be tested against simple in-memory fakes with no database.
//
// Failures from the port propagate to the caller unmodified — the engine
// never retries or swallows I/O errors.
type RepositoryPort interface {
	// GetLineItemByID returns (nil, nil) when no line item exists for the
	// tenant. A non-nil error is an I/O failure, never "absent".
	GetLineItemByID(ctx context.Context, id, tenantID uuid.UUID) (*model.PurchaseOrderLineItem, error)

	// SumAllocatedQuantity returns the tenant-scoped sum of QuantityAllocated
	// over all allocations of the line item (0 when there are none).
	SumAllocatedQuantity(ctx context.Context, lineItemID, tenantID uuid.UUID) (int, error)
}
