package transactions

import "time"

type CreateTransactionRequest struct {
	Type        Type       `json:"type" validate:"required,oneof=purchase sale return"`
	ProductID   *int64     `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	ProductName string     `json:"product_name" validate:"required,max=200"`
	CustomerID  *int64     `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Quantity    int64      `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64    `json:"unit_price" validate:"gte=0"`
	Note        *string    `json:"note,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

type ListTransactionsRequest struct {
	Type      *Type      `json:"type,omitempty" validate:"omitempty,oneof=purchase sale return"`
	ProductID *int64     `json:"product_id,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Limit     int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int        `json:"offset" validate:"gte=0"`
}
