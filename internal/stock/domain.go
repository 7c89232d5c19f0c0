package stock

import (
	"errors"
	"time"
)

// EventKind enumerates ledger event kinds affecting stock.
type EventKind string

const (
	// EventPurchase represents goods bought into stock.
	EventPurchase EventKind = "purchase"
	// EventSale represents goods sold out of stock.
	EventSale EventKind = "sale"
	// EventReturn represents a customer return reversing a prior sale.
	EventReturn EventKind = "return"
	// EventRepairPart represents parts consumed by a repair job.
	EventRepairPart EventKind = "repair_part"
)

// LedgerEvent is one immutable stock-affecting record from the
// transaction log or the repair-parts log.
type LedgerEvent struct {
	Kind        EventKind
	ProductID   *int64
	ProductName string
	Quantity    int64
	OccurredAt  time.Time
}

// Product carries the identity and the cached counter this subsystem
// keeps consistent with the ledger.
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	StockQuantity int64  `json:"stock_quantity"`
}

// ProductIdentity is the pair of criteria a ledger event is matched
// against. Early transactions were recorded with only the product name,
// so both criteria are evaluated as a logical OR.
type ProductIdentity struct {
	ID   int64
	Name string
}

// Totals is the signed summation over a product's resolved events.
type Totals struct {
	Purchased     int64
	Sold          int64
	Returned      int64
	UsedInRepairs int64
}

// CalculatedStock derives the point-in-time total. The result may be
// negative (oversold or over-consumed inventory) and is never clamped.
func (t Totals) CalculatedStock() int64 {
	return t.Purchased - t.Sold + t.Returned - t.UsedInRepairs
}

// Breakdown is the drift detector output: purely informational, the
// caller decides whether to reconcile.
type Breakdown struct {
	Purchased       int64 `json:"total_purchased"`
	Sold            int64 `json:"total_sold"`
	Returned        int64 `json:"total_returned"`
	UsedInRepairs   int64 `json:"total_used_in_repairs"`
	CalculatedStock int64 `json:"calculated_stock"`
	CachedStock     int64 `json:"cached_stock"`
	// Difference is cached minus calculated; zero means consistent.
	Difference int64 `json:"difference"`
}

// Diagnostics bundles the product record with its drift breakdown.
type Diagnostics struct {
	Product   Product   `json:"product"`
	Breakdown Breakdown `json:"breakdown"`
}

// ReconcileResult reports a single-product reconcile.
type ReconcileResult struct {
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	CalculatedStock int64  `json:"calculated_stock"`
	PurchaseEvents  int    `json:"purchases"`
	RepairEvents    int    `json:"repairs"`
}

// ReconcileFailure records one product that could not be reconciled
// during a catalog-wide run.
type ReconcileFailure struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Reason      string `json:"reason"`
}

// BulkResult aggregates a catalog-wide reconcile. A per-product failure
// never aborts the batch; it is recorded here instead.
type BulkResult struct {
	SyncedCount int                `json:"synced_count"`
	TotalCount  int                `json:"total_count"`
	ErrorCount  int                `json:"error_count"`
	Errors      []ReconcileFailure `json:"errors"`
}

// ErrProductNotFound indicates the referenced product id does not exist.
var ErrProductNotFound = errors.New("stock: product not found")
