package transactions

import "time"

// Type enumerates the ledger transaction kinds.
type Type string

const (
	// TypePurchase is goods bought into stock.
	TypePurchase Type = "purchase"
	// TypeSale is goods sold to a customer.
	TypeSale Type = "sale"
	// TypeReturn is a customer return reversing a prior sale.
	TypeReturn Type = "return"
)

// Transaction is one append-only ledger row. ProductID is nullable:
// rows entered before the catalog assigned an id carry only the
// free-text ProductName captured at entry time, which is why stock
// attribution matches on id OR name.
type Transaction struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Type        Type      `json:"type"`
	ProductID   *int64    `json:"product_id,omitempty"`
	ProductName string    `json:"product_name"`
	CustomerID  *int64    `json:"customer_id,omitempty"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Note        *string   `json:"note,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockDelta is the signed effect of this row on the cached counter.
func (t Transaction) StockDelta() int64 {
	switch t.Type {
	case TypeSale:
		return -t.Quantity
	default:
		return t.Quantity
	}
}
