package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	Cost      decimal.Decimal `json:"cost"       validate:"min=0"`
	// LineTotal, when supplied, is preserved verbatim instead of being
	// recomputed as quantity * cost.
	LineTotal *decimal.Decimal `json:"line_total"`
}

type RecordPurchaseRequest struct {
	SupplierID *string               `json:"supplier_id" validate:"omitempty,uuid"`
	Items      []PurchaseItemRequest `json:"items"       validate:"required,min=1,dive"`
	Tax        *decimal.Decimal      `json:"tax"`
	Notes      *string               `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PurchaseResult is returned by POST /api/purchases with the computed totals.
type PurchaseResult struct {
	ID       string          `json:"id"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type PurchaseItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID *string                `json:"supplier_id"`
	Items      []PurchaseItemResponse `json:"items"`
	Subtotal   decimal.Decimal        `json:"subtotal"`
	Tax        decimal.Decimal        `json:"tax"`
	Total      decimal.Decimal        `json:"total"`
	Notes      *string                `json:"notes"`
	CreatedAt  string                 `json:"created_at"`
}
