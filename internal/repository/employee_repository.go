package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
)

// EmployeeRepository handles persistence for employees.
type EmployeeRepository interface {
	Insert(ctx context.Context, employee *domain.Employee) error
	GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error)
	GetByName(ctx context.Context, name string) (*domain.Employee, error)
	DeleteByEmployeeID(ctx context.Context, employeeID string) error
	DeleteByName(ctx context.Context, name string) error
	List(ctx context.Context) ([]domain.Employee, error)
	RoleOf(ctx context.Context, employeeID string) (string, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Insert(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (employee_id, name, role, auth_user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		employee.EmployeeID,
		employee.Name,
		employee.Role,
		employee.AuthUserID,
	).Scan(&employee.ID, &employee.CreatedAt)
}

func (r *employeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	const query = `
        SELECT id, employee_id, name, role, auth_user_id, created_at
        FROM employees WHERE employee_id=$1`

	return r.scanOne(ctx, query, employeeID)
}

func (r *employeeRepository) GetByName(ctx context.Context, name string) (*domain.Employee, error) {
	const query = `
        SELECT id, employee_id, name, role, auth_user_id, created_at
        FROM employees WHERE name=$1`

	return r.scanOne(ctx, query, name)
}

func (r *employeeRepository) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	const query = `DELETE FROM employees WHERE employee_id=$1`
	return r.exec(ctx, query, employeeID)
}

func (r *employeeRepository) DeleteByName(ctx context.Context, name string) error {
	const query = `DELETE FROM employees WHERE name=$1`
	return r.exec(ctx, query, name)
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `
        SELECT id, employee_id, name, role, auth_user_id, created_at
        FROM employees ORDER BY employee_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.EmployeeID,
			&employee.Name,
			&employee.Role,
			&employee.AuthUserID,
			&employee.CreatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// RoleOf resolves the caller's role for session construction.
func (r *employeeRepository) RoleOf(ctx context.Context, employeeID string) (string, error) {
	const query = `SELECT role FROM employees WHERE employee_id=$1`

	var role string
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(&role); err != nil {
		return "", err
	}
	return role, nil
}

func (r *employeeRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&employee.ID,
		&employee.EmployeeID,
		&employee.Name,
		&employee.Role,
		&employee.AuthUserID,
		&employee.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) exec(ctx context.Context, query string, arg any) error {
	cmd, err := r.pool.Exec(ctx, query, arg)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
