package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	SKU          string          `json:"sku"           validate:"required,min=1,max=64"`
	Name         string          `json:"name"          validate:"required,min=1,max=200"`
	Description  *string         `json:"description"`
	Category     *string         `json:"category"`
	Price        decimal.Decimal `json:"price"         validate:"min=0"`
	Cost         decimal.Decimal `json:"cost"          validate:"min=0"`
	Quantity     int             `json:"quantity"      validate:"min=0"`
	ReorderLevel int             `json:"reorder_level" validate:"min=0"`
	// IsActive defaults to true when omitted.
	IsActive *bool `json:"is_active"`
}

// UpdateProductRequest replaces every field of the product, quantity included.
// Stock history stays in the movement log; a PUT does not append to it.
type UpdateProductRequest = CreateProductRequest

type AdjustStockRequest struct {
	// Delta is the signed quantity change; zero is rejected by `required`.
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// SearchFilter is bound from ?q=&limit= on the list endpoints. The query is a
// case-insensitive substring match (name/sku/category for products, name for
// customers and suppliers).
type SearchFilter struct {
	Q     string `form:"q"`
	Limit int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Category     *string         `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    string          `json:"created_at"`
}

type AdjustStockResponse struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
