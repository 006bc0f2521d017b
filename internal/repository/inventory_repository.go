package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

// InventoryRepository defines persistence access for stocked items.
type InventoryRepository interface {
	ListAll(ctx context.Context) ([]domain.InventoryItem, error)
	ListByFloor(ctx context.Context, floor domain.Floor) ([]domain.InventoryItem, error)
	ListByName(ctx context.Context, productName string) ([]domain.InventoryItem, error)
	GetByNameAndFloor(ctx context.Context, productName string, floor domain.Floor) (*domain.InventoryItem, error)
	Insert(ctx context.Context, item *domain.InventoryItem) error
	AssignItemID(ctx context.Context, rowID int64) error
	UpdateQuantity(ctx context.Context, productName string, floor domain.Floor, quantity int) error
	Delete(ctx context.Context, productName string, floor domain.Floor) error
}

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns a Postgres-backed implementation.
func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepository{pool: pool}
}

const inventoryColumns = `id, COALESCE(item_id, id), product_name, quantity, floor, created_at, updated_at`

func (r *inventoryRepository) ListAll(ctx context.Context) ([]domain.InventoryItem, error) {
	query := `
        SELECT ` + inventoryColumns + `
        FROM inventory ORDER BY floor, product_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *inventoryRepository) ListByFloor(ctx context.Context, floor domain.Floor) ([]domain.InventoryItem, error) {
	query := `
        SELECT ` + inventoryColumns + `
        FROM inventory WHERE floor=$1 ORDER BY product_name`

	rows, err := r.pool.Query(ctx, query, int(floor))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *inventoryRepository) ListByName(ctx context.Context, productName string) ([]domain.InventoryItem, error) {
	query := `
        SELECT ` + inventoryColumns + `
        FROM inventory WHERE product_name=$1 ORDER BY floor`

	rows, err := r.pool.Query(ctx, query, productName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *inventoryRepository) GetByNameAndFloor(ctx context.Context, productName string, floor domain.Floor) (*domain.InventoryItem, error) {
	query := `
        SELECT ` + inventoryColumns + `
        FROM inventory WHERE product_name=$1 AND floor=$2`

	var item domain.InventoryItem
	if err := r.pool.QueryRow(ctx, query, productName, int(floor)).Scan(
		&item.ID,
		&item.ItemID,
		&item.ProductName,
		&item.Quantity,
		&item.Floor,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Insert(ctx context.Context, item *domain.InventoryItem) error {
	const query = `
        INSERT INTO inventory (product_name, quantity, floor)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		item.ProductName,
		item.Quantity,
		int(item.Floor),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// AssignItemID sets the business key equal to the freshly created row id.
func (r *inventoryRepository) AssignItemID(ctx context.Context, rowID int64) error {
	const query = `UPDATE inventory SET item_id=$1 WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, rowID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepository) UpdateQuantity(ctx context.Context, productName string, floor domain.Floor, quantity int) error {
	const query = `
        UPDATE inventory SET quantity=$1, updated_at=NOW()
        WHERE product_name=$2 AND floor=$3`

	cmd, err := r.pool.Exec(ctx, query, quantity, productName, int(floor))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepository) Delete(ctx context.Context, productName string, floor domain.Floor) error {
	const query = `DELETE FROM inventory WHERE product_name=$1 AND floor=$2`

	cmd, err := r.pool.Exec(ctx, query, productName, int(floor))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(
			&item.ID,
			&item.ItemID,
			&item.ProductName,
			&item.Quantity,
			&item.Floor,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
