package postgresql

import (
	"context"
	"fmt"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
)

type employeeAdvanceRepository struct {
	db *database.DB
}

func NewEmployeeAdvanceRepository(db *database.DB) payroll.EmployeeAdvanceRepository {
	return &employeeAdvanceRepository{db: db}
}

// List implements payroll.EmployeeAdvanceRepository.
func (r *employeeAdvanceRepository) List(ctx context.Context) ([]payroll.EmployeeAdvance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, amount, date, note, created_at
		FROM employee_advances
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee advances: %w", err)
	}
	defer rows.Close()

	var advances []payroll.EmployeeAdvance
	for rows.Next() {
		var a payroll.EmployeeAdvance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Amount, &a.Date, &a.Note, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee advance: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee advances: %w", err)
	}

	return advances, nil
}

// Create implements payroll.EmployeeAdvanceRepository.
func (r *employeeAdvanceRepository) Create(ctx context.Context, advance payroll.EmployeeAdvance) (payroll.EmployeeAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_advances (employee_id, amount, date, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, employee_id, amount, date, note, created_at
	`

	var a payroll.EmployeeAdvance
	err := q.QueryRow(ctx, query, advance.EmployeeID, advance.Amount, advance.Date, advance.Note).Scan(
		&a.ID, &a.EmployeeID, &a.Amount, &a.Date, &a.Note, &a.CreatedAt,
	)
	if err != nil {
		return payroll.EmployeeAdvance{}, fmt.Errorf("failed to create employee advance: %w", err)
	}

	return a, nil
}
