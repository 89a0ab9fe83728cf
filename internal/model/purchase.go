package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a restocking order from a supplier. Immutable once created.
type Purchase struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// SupplierID is a soft reference — not enforced by the store.
	SupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes      *string
	CreatedAt  time.Time

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// PurchaseItem is one line of a purchase, priced at unit cost.
type PurchaseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	Cost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
