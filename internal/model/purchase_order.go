package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder groups the line items ordered from a supplier in one go.
// Orders are created upstream; the allocation engine only ever reads them.
type PurchaseOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderNumber string    `gorm:"not null;uniqueIndex:idx_tenant_order_number"`
	// uniqueIndex shares the tenant column so numbers only need to be unique per tenant
	Supplier  string `gorm:"not null"`
	Status    string `gorm:"type:varchar(20);not null;default:'OPEN'"` // OPEN | RECEIVED | CLOSED
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	LineItems []PurchaseOrderLineItem `gorm:"foreignKey:PurchaseOrderID"`
}

// PurchaseOrderLineItem is one product row on a purchase order.
// QuantityOrdered is the hard ceiling for the sum of its allocations.
// TenantID is denormalized from the parent order so tenant-scoped reads
// never need a join.
type PurchaseOrderLineItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityOrdered int             `gorm:"not null"` // always > 0, validated at creation
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides GORM's default pluralization.
func (PurchaseOrderLineItem) TableName() string { return "purchase_order_line_items" }
