package dto

import "github.com/shopspring/decimal"

// StatsResponse is the dashboard rollup: per-collection counts plus the total
// inventory value (sum of cost * quantity over all products).
type StatsResponse struct {
	Counts         StatsCounts     `json:"counts"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
}

type StatsCounts struct {
	Products  int64 `json:"products"`
	Customers int64 `json:"customers"`
	Suppliers int64 `json:"suppliers"`
	Sales     int64 `json:"sales"`
	Purchases int64 `json:"purchases"`
}
