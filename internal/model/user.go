package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores tenant-scoped system users with role-based access.
// Role: "operator" | "manager" | "admin"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_username"`
	Username     string    `gorm:"not null;uniqueIndex:idx_tenant_username"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
