package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeSalaryRepository struct {
	db *database.DB
}

func NewEmployeeSalaryRepository(db *database.DB) payroll.EmployeeSalaryRepository {
	return &employeeSalaryRepository{db: db}
}

const employeeSalaryColumns = `
	id, employee_id, employee_name, salary_month, gross_salary, advance, net_salary,
	paid, paid_date, paid_by_employee_id, created_at
`

func scanEmployeeSalary(row pgx.Row, s *payroll.EmployeeSalary) error {
	return row.Scan(
		&s.ID, &s.EmployeeID, &s.EmployeeName, &s.SalaryMonth, &s.GrossSalary, &s.Advance, &s.NetSalary,
		&s.Paid, &s.PaidDate, &s.PaidBy, &s.CreatedAt,
	)
}

func (r *employeeSalaryRepository) getOne(ctx context.Context, query string, args ...interface{}) (payroll.EmployeeSalary, error) {
	var s payroll.EmployeeSalary
	if err := scanEmployeeSalary(GetQuerier(ctx, r.db).QueryRow(ctx, query, args...), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryNotFound
		}
		return payroll.EmployeeSalary{}, fmt.Errorf("failed to get employee salary: %w", err)
	}
	return s, nil
}

// List implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) List(ctx context.Context) ([]payroll.EmployeeSalary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeSalaryColumns+` FROM employee_salaries ORDER BY salary_month DESC, employee_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee salaries: %w", err)
	}
	defer rows.Close()

	var salaries []payroll.EmployeeSalary
	for rows.Next() {
		var s payroll.EmployeeSalary
		if err := scanEmployeeSalary(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan employee salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee salaries: %w", err)
	}

	return salaries, nil
}

// GetByID implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) GetByID(ctx context.Context, id string) (payroll.EmployeeSalary, error) {
	return r.getOne(ctx, `SELECT `+employeeSalaryColumns+` FROM employee_salaries WHERE id = $1`, id)
}

// employeeMonthQuery matches "YYYY-MM" and legacy "YYYY-MM-DD" rows, canonical first.
const employeeMonthQuery = `SELECT ` + employeeSalaryColumns + ` FROM employee_salaries
	WHERE employee_id = $1 AND (salary_month = $2 OR salary_month LIKE $2 || '-%')
	ORDER BY (salary_month = $2) DESC, created_at
	LIMIT 1`

// GetByEmployeeMonth implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) GetByEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (payroll.EmployeeSalary, error) {
	return r.getOne(ctx, employeeMonthQuery, employeeID, salaryMonth)
}

// GetByEmployeeMonthForUpdate implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) GetByEmployeeMonthForUpdate(ctx context.Context, employeeID, salaryMonth string) (payroll.EmployeeSalary, error) {
	return r.getOne(ctx, employeeMonthQuery+` FOR UPDATE`, employeeID, salaryMonth)
}

// Create implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) Create(ctx context.Context, salary payroll.EmployeeSalary) (payroll.EmployeeSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_salaries (
			employee_id, employee_name, salary_month, gross_salary, advance, net_salary,
			paid, paid_date, paid_by_employee_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + employeeSalaryColumns

	var s payroll.EmployeeSalary
	err := scanEmployeeSalary(q.QueryRow(ctx, query,
		salary.EmployeeID, salary.EmployeeName, salary.SalaryMonth, salary.GrossSalary, salary.Advance, salary.NetSalary,
		salary.Paid, salary.PaidDate, salary.PaidBy,
	), &s)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryExists
		}
		return payroll.EmployeeSalary{}, fmt.Errorf("failed to create employee salary: %w", err)
	}

	return s, nil
}

// Update implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) Update(ctx context.Context, salary payroll.EmployeeSalary) (payroll.EmployeeSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_salaries
		SET employee_name = $1, salary_month = $2, gross_salary = $3, advance = $4, net_salary = $5
		WHERE id = $6
		RETURNING ` + employeeSalaryColumns

	var s payroll.EmployeeSalary
	err := scanEmployeeSalary(q.QueryRow(ctx, query,
		salary.EmployeeName, salary.SalaryMonth, salary.GrossSalary, salary.Advance, salary.NetSalary, salary.ID,
	), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryNotFound
		}
		if isUniqueViolation(err) {
			return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryExists
		}
		return payroll.EmployeeSalary{}, fmt.Errorf("failed to update employee salary: %w", err)
	}

	return s, nil
}

// UpdateGross implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) UpdateGross(ctx context.Context, id string, gross, net decimal.Decimal) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_salaries
		SET gross_salary = $1, net_salary = $2
		WHERE id = $3 AND paid = FALSE
	`

	tag, err := q.Exec(ctx, query, gross, net, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update employee gross salary: %w", err)
	}

	return tag.RowsAffected(), nil
}

// MarkPaid implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) MarkPaid(ctx context.Context, ids []string, paidBy *string, paidAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_salaries
		SET paid = TRUE, paid_date = $1, paid_by_employee_id = COALESCE($2, paid_by_employee_id)
		WHERE id = ANY($3::uuid[]) AND paid = FALSE
	`

	tag, err := q.Exec(ctx, query, paidAt, paidBy, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark employee salaries paid: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListPaidEmployeeIDs implements payroll.EmployeeSalaryRepository.
func (r *employeeSalaryRepository) ListPaidEmployeeIDs(ctx context.Context, salaryMonth string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT DISTINCT employee_id FROM employee_salaries
		 WHERE (salary_month = $1 OR salary_month LIKE $1 || '-%') AND paid = TRUE
		 ORDER BY employee_id`,
		salaryMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list paid employees: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan paid employees: %w", err)
	}

	return ids, nil
}
