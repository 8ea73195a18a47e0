package model

import (
	"time"

	"github.com/google/uuid"
)

// Allocation assigns part of a line item's ordered quantity to one
// destination location. Invariant: for any line item, the sum of
// QuantityAllocated over its allocations never exceeds QuantityOrdered —
// enforced by the allocation engine before every insert.
type Allocation struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index"`
	LineItemID        uuid.UUID `gorm:"type:uuid;not null;index"`
	LocationID        uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityAllocated int       `gorm:"not null"` // always > 0
	QuantityReceived  int       `gorm:"not null;default:0"`
	Status            string    `gorm:"type:varchar(20);not null;default:'PENDING'"` // PENDING | RECEIVED | CANCELLED
	CreatedBy         uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
