package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is an order with embedded line items. Immutable once created: the API
// exposes no update or delete for sales.
type Sale struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// CustomerID is a soft reference — not enforced by the store.
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes      *string
	CreatedAt  time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one line of a sale. SKU and Name are snapshots taken at sale
// time so later catalog edits do not rewrite history.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU       *string
	Name      *string
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
