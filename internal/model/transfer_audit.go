package model

import (
	"time"

	"github.com/google/uuid"
)

// TransferAudit records one state-machine transition of a transfer.
// Rows are written asynchronously by the audit worker and are immutable.
type TransferAudit struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	TransferID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ActorID    uuid.UUID      `gorm:"type:uuid;not null"`
	FromStatus TransferStatus `gorm:"type:varchar(20);not null"`
	ToStatus   TransferStatus `gorm:"type:varchar(20);not null"`
	Reason     *string
	IPAddress  *string
	UserAgent  *string
	OccurredAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

// TableName overrides GORM's default pluralization.
func (TransferAudit) TableName() string { return "transfer_audits" }
