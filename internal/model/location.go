package model

import (
	"time"

	"github.com/google/uuid"
)

// Location types. Commissaries and warehouses are typical transfer sources;
// restaurants and pop-ups are typical destinations.
const (
	LocationRestaurant = "RESTAURANT"
	LocationCommissary = "COMMISSARY"
	LocationPopUp      = "POP_UP"
	LocationWarehouse  = "WAREHOUSE"
)

// Location is a physical site belonging to a tenant: a restaurant, a
// commissary kitchen, a pop-up, or a warehouse.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Address   *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
