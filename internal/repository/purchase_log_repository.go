package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

// recentLogsLimit caps the purchase-log listing server-side.
const recentLogsLimit = 20

// PurchaseLogRepository handles the append-only purchase audit trail.
type PurchaseLogRepository interface {
	Insert(ctx context.Context, entry *domain.PurchaseLogEntry) error
	Recent(ctx context.Context) ([]domain.PurchaseLogEntry, error)
}

type purchaseLogRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseLogRepository returns a Postgres-backed implementation.
func NewPurchaseLogRepository(pool *pgxpool.Pool) PurchaseLogRepository {
	return &purchaseLogRepository{pool: pool}
}

func (r *purchaseLogRepository) Insert(ctx context.Context, entry *domain.PurchaseLogEntry) error {
	const query = `
        INSERT INTO purchase_logs (employee_id, item_id, product_name, quantity)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		entry.EmployeeID,
		entry.ItemID,
		entry.ProductName,
		entry.Quantity,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// Recent returns the latest entries with timestamps rendered in KST, newest
// first, capped at 20 rows.
func (r *purchaseLogRepository) Recent(ctx context.Context) ([]domain.PurchaseLogEntry, error) {
	const query = `
        SELECT id, employee_id, item_id, product_name, quantity,
               created_at AT TIME ZONE 'Asia/Seoul'
        FROM purchase_logs
        ORDER BY created_at DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, recentLogsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.PurchaseLogEntry
	for rows.Next() {
		var entry domain.PurchaseLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EmployeeID,
			&entry.ItemID,
			&entry.ProductName,
			&entry.Quantity,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
