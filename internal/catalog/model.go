package catalog

import "time"

// Product represents a catalog entry. StockQuantity is a cached,
// derived counter: transaction and repair-part writes increment it in
// place, and the stock reconciler rewrites it from the ledger.
type Product struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Category      *string   `json:"category,omitempty"`
	Price         float64   `json:"price"`
	Cost          float64   `json:"cost"`
	StockQuantity int64     `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
