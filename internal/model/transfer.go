package model

import (
	"time"

	"github.com/google/uuid"
)

// TransferStatus is the state-machine state of a transfer request.
type TransferStatus string

const (
	TransferRequested TransferStatus = "REQUESTED"
	TransferApproved  TransferStatus = "APPROVED"
	TransferRejected  TransferStatus = "REJECTED"
	TransferShipped   TransferStatus = "SHIPPED"
	TransferReceived  TransferStatus = "RECEIVED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// Transfer priorities.
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// TransferRequest moves a product quantity between two locations of a tenant.
// Status only ever changes through the transfer state machine; each
// transition stamps its actor/timestamp pair below.
// Invariants: QuantityShipped <= QuantityRequested,
// QuantityReceived <= QuantityShipped.
type TransferRequest struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID              uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProductID             uuid.UUID      `gorm:"type:uuid;not null;index"`
	SourceLocationID      uuid.UUID      `gorm:"type:uuid;not null"`
	DestinationLocationID uuid.UUID      `gorm:"type:uuid;not null"`
	QuantityRequested     int            `gorm:"not null"` // always > 0
	QuantityShipped       int            `gorm:"not null;default:0"`
	QuantityReceived      int            `gorm:"not null;default:0"`
	Status                TransferStatus `gorm:"type:varchar(20);not null;default:'REQUESTED';index"`
	Priority              string         `gorm:"type:varchar(10);not null;default:'NORMAL'"`

	RequestedBy uuid.UUID `gorm:"type:uuid;not null"`
	RequestedAt time.Time `gorm:"not null"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	RejectedBy  *uuid.UUID `gorm:"type:uuid"`
	RejectedAt  *time.Time
	ShippedBy   *uuid.UUID `gorm:"type:uuid"`
	ShippedAt   *time.Time
	ReceivedBy  *uuid.UUID `gorm:"type:uuid"`
	ReceivedAt  *time.Time
	CancelledBy *uuid.UUID `gorm:"type:uuid"`
	CancelledAt *time.Time

	CancellationReason *string
	RejectionReason    *string
	// VarianceReason explains a received quantity below the shipped quantity
	VarianceReason *string
	Notes          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization.
func (TransferRequest) TableName() string { return "transfer_requests" }
