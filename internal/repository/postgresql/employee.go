package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/garmentworks/payroll-backend-go/internal/domain/employee"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Column order matches employee.Employee field order for RowToStructByPos.
const employeeColumns = `id, name, salary_amount, is_active, created_at`

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	rows, err := GetQuerier(ctx, e.db).Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	employees, err := pgx.CollectRows(rows, pgx.RowToStructByPos[employee.Employee])
	if err != nil {
		return nil, fmt.Errorf("failed to scan active employees: %w", err)
	}
	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	rows, err := GetQuerier(ctx, e.db).Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	emp, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[employee.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}
