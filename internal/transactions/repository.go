package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplite/shoplite/internal/shared"
)

// Repository appends ledger rows and nudges the cached stock counter.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one transaction row.
func (r *Repository) Insert(ctx context.Context, t Transaction) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO transactions (code, type, product_id, product_name, customer_id, quantity, unit_price, note, occurred_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW()) RETURNING id`,
		t.Code, string(t.Type), t.ProductID, t.ProductName, t.CustomerID, t.Quantity, t.UnitPrice, t.Note, t.OccurredAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("transaction code %q: %w", t.Code, shared.ErrAlreadyExists)
		}
		return 0, err
	}
	return id, nil
}

// ApplyStockDelta increments the cached counter in place. This runs as
// its own statement after the ledger insert, not inside a shared
// transaction; the reconciler exists because this pair can come apart.
func (r *Repository) ApplyStockDelta(ctx context.Context, productID, delta int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = NOW() WHERE id=$1`, productID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns ledger rows newest first.
func (r *Repository) List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argPos := 1
	if req.Type != nil {
		where += fmt.Sprintf(" AND type = $%d", argPos)
		args = append(args, string(*req.Type))
		argPos++
	}
	if req.ProductID != nil {
		where += fmt.Sprintf(" AND product_id = $%d", argPos)
		args = append(args, *req.ProductID)
		argPos++
	}
	if req.From != nil {
		where += fmt.Sprintf(" AND occurred_at >= $%d", argPos)
		args = append(args, *req.From)
		argPos++
	}
	if req.To != nil {
		where += fmt.Sprintf(" AND occurred_at <= $%d", argPos)
		args = append(args, *req.To)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, code, type, product_id, product_name, customer_id, quantity, unit_price, note, occurred_at, created_at
FROM transactions %s ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var (
			t    Transaction
			kind string
		)
		if err := rows.Scan(&t.ID, &t.Code, &kind, &t.ProductID, &t.ProductName, &t.CustomerID, &t.Quantity, &t.UnitPrice, &t.Note, &t.OccurredAt, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		t.Type = Type(kind)
		list = append(list, t)
	}
	return list, total, rows.Err()
}
