package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement type tags. Sales write negative quantity changes; purchases write
// positive ones; adjustments carry the caller's sign.
const (
	MovementSale       = "sale"
	MovementPurchase   = "purchase"
	MovementAdjustment = "adjustment"
)

// StockMovement records one quantity change to a product. Append-only audit
// log: never updated or deleted by the system.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"not null"` // sale | purchase | adjustment
	QuantityChange int       `gorm:"not null"`
	Reason         string
	// RefID points at the originating sale or purchase, if any.
	RefID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}
