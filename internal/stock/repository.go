package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the ledger and writes the cached counter in PostgreSQL.
//
// Event attribution happens in SQL with the same OR the resolver
// expresses in process: a row matches when its product_id equals the
// product's id or its recorded product_name equals the product's
// current name, byte-for-byte.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProduct loads the product identity and its cached counter.
func (r *Repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, stock_quantity FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.StockQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// ListProducts returns every product in id order.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, stock_quantity FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.StockQuantity); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListEvents returns all ledger events attributable to the product:
// purchase/sale/return rows from the transaction log plus consumed
// parts from the repair log.
func (r *Repository) ListEvents(ctx context.Context, identity ProductIdentity) ([]LedgerEvent, error) {
	var events []LedgerEvent

	// Legacy rows may carry a NULL quantity; they count as zero
	// rather than poisoning the whole product's ledger read.
	rows, err := r.pool.Query(ctx, `SELECT type, product_id, product_name, COALESCE(quantity, 0), occurred_at
FROM transactions
WHERE product_id=$1 OR product_name=$2`, identity.ID, identity.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			ev   LedgerEvent
			kind string
		)
		if err := rows.Scan(&kind, &ev.ProductID, &ev.ProductName, &ev.Quantity, &ev.OccurredAt); err != nil {
			return nil, err
		}
		ev.Kind = EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	partRows, err := r.pool.Query(ctx, `SELECT product_id, product_name, COALESCE(quantity, 0), used_at
FROM repair_parts
WHERE product_id=$1 OR product_name=$2`, identity.ID, identity.Name)
	if err != nil {
		return nil, err
	}
	defer partRows.Close()
	for partRows.Next() {
		ev := LedgerEvent{Kind: EventRepairPart}
		if err := partRows.Scan(&ev.ProductID, &ev.ProductName, &ev.Quantity, &ev.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, partRows.Err()
}

// UpdateStockQuantity writes the recomputed counter. Plain UPDATE, no
// version check: the write-back contract is last-writer-wins.
func (r *Repository) UpdateStockQuantity(ctx context.Context, productID, quantity int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET stock_quantity=$2, updated_at=NOW() WHERE id=$1`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product %d: %w", productID, ErrProductNotFound)
	}
	return nil
}
