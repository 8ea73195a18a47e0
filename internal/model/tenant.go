package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated customer account. Every domain record carries a
// tenant id and every query is scoped to one.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"` // used in login requests
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
