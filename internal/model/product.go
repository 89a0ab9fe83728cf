package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry with stock on hand. Quantity is mutated only by
// the ledger service (sales, purchases, adjustments); the catalog PUT endpoint
// may overwrite it wholesale but writes no movement record.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU         string    `gorm:"column:sku;uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    *string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Quantity    int             `gorm:"not null;default:0"`
	// ReorderLevel is the low-stock alert threshold; 0 disables alerts.
	ReorderLevel int  `gorm:"not null;default:0"`
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
