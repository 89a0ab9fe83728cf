package dto

// ─── Filter ──────────────────────────────────────────────────────────────────

// MovementFilter is bound from the query string of GET /api/movements.
type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type"       validate:"omitempty,oneof=sale purchase adjustment"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	Type           string  `json:"type"`
	QuantityChange int     `json:"quantity_change"`
	Reason         string  `json:"reason"`
	RefID          *string `json:"ref_id"`
	CreatedAt      string  `json:"created_at"`
}

// LowStockAlert is one entry of the alert feed produced by the worker pool
// when a product falls to or below its reorder level.
type LowStockAlert struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorder_level"`
	At           string `json:"at"` // RFC 3339
}
