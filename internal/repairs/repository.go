package repairs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplite/shoplite/internal/shared"
)

// Repository persists repairs and their parts in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const repairColumns = `id, code, customer_id, device, issue, status, fee, created_at, updated_at, picked_up_at`

func scanRepair(row pgx.Row) (Repair, error) {
	var rep Repair
	err := row.Scan(&rep.ID, &rep.Code, &rep.CustomerID, &rep.Device, &rep.Issue, &rep.Status, &rep.Fee, &rep.CreatedAt, &rep.UpdatedAt, &rep.PickedUpAt)
	return rep, err
}

// Get loads one repair by id.
func (r *Repository) Get(ctx context.Context, id int64) (Repair, error) {
	rep, err := scanRepair(r.pool.QueryRow(ctx, `SELECT `+repairColumns+` FROM repairs WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Repair{}, shared.ErrNotFound
		}
		return Repair{}, err
	}
	return rep, nil
}

// List returns repairs with a total count for pagination.
func (r *Repository) List(ctx context.Context, req ListRepairsRequest) ([]Repair, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argPos := 1

	if req.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}
	if req.CustomerID != nil {
		where += fmt.Sprintf(" AND customer_id = $%d", argPos)
		args = append(args, *req.CustomerID)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM repairs "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM repairs %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", repairColumns, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var repairs []Repair
	for rows.Next() {
		rep, err := scanRepair(rows)
		if err != nil {
			return nil, 0, err
		}
		repairs = append(repairs, rep)
	}
	return repairs, total, rows.Err()
}

// Create inserts a repair and returns its id.
func (r *Repository) Create(ctx context.Context, rep Repair) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO repairs (code, customer_id, device, issue, status, fee, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW()) RETURNING id`,
		rep.Code, rep.CustomerID, rep.Device, rep.Issue, rep.Status, rep.Fee).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("repair code %q: %w", rep.Code, shared.ErrAlreadyExists)
		}
		return 0, err
	}
	return id, nil
}

// UpdateStatus sets the status. picked_up also stamps picked_up_at.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	query := `UPDATE repairs SET status=$2, updated_at=NOW() WHERE id=$1`
	if status == StatusPickedUp {
		query = `UPDATE repairs SET status=$2, picked_up_at=NOW(), updated_at=NOW() WHERE id=$1`
	}
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// InsertPart records a consumed part and returns its id.
func (r *Repository) InsertPart(ctx context.Context, part RepairPart) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO repair_parts (repair_id, product_id, product_name, quantity, unit_cost, used_at)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		part.RepairID, part.ProductID, part.ProductName, part.Quantity, part.UnitCost, part.UsedAt).Scan(&id)
	return id, err
}

// ListParts returns the parts consumed by a repair.
func (r *Repository) ListParts(ctx context.Context, repairID int64) ([]RepairPart, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, repair_id, product_id, product_name, quantity, unit_cost, used_at
FROM repair_parts WHERE repair_id=$1 ORDER BY used_at, id`, repairID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []RepairPart
	for rows.Next() {
		var p RepairPart
		if err := rows.Scan(&p.ID, &p.RepairID, &p.ProductID, &p.ProductName, &p.Quantity, &p.UnitCost, &p.UsedAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// ApplyStockDelta adjusts the cached stock counter on products. This
// runs as its own statement after InsertPart, not in one transaction
// with it, so a crash between the two leaves the counter stale until
// the next reconcile.
func (r *Repository) ApplyStockDelta(ctx context.Context, productID int64, delta int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = NOW() WHERE id = $1`, productID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
