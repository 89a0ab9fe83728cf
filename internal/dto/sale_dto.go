package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	SKU       *string `json:"sku"`
	Name      *string `json:"name"`
	Quantity  int     `json:"quantity"   validate:"required,min=1"`
	Price     decimal.Decimal `json:"price" validate:"min=0"`
	// LineTotal, when supplied, is preserved verbatim instead of being
	// recomputed as quantity * price.
	LineTotal *decimal.Decimal `json:"line_total"`
}

type RecordSaleRequest struct {
	CustomerID *string           `json:"customer_id" validate:"omitempty,uuid"`
	Items      []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
	Tax        *decimal.Decimal  `json:"tax"`
	Notes      *string           `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SaleResult is returned by POST /api/sales with the computed totals.
type SaleResult struct {
	ID       string          `json:"id"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	SKU       *string         `json:"sku"`
	Name      *string         `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID         string             `json:"id"`
	CustomerID *string            `json:"customer_id"`
	Items      []SaleItemResponse `json:"items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Tax        decimal.Decimal    `json:"tax"`
	Total      decimal.Decimal    `json:"total"`
	Notes      *string            `json:"notes"`
	CreatedAt  string             `json:"created_at"`
}
