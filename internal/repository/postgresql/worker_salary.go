package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workerSalaryRepository struct {
	db *database.DB
}

func NewWorkerSalaryRepository(db *database.DB) payroll.WorkerSalaryRepository {
	return &workerSalaryRepository{db: db}
}

const workerSalaryColumns = `
	id, worker_id, product_id, operation_id, pieces_done, amount_per_piece, total_amount,
	date, paid, paid_date, paid_by_employee_id, entered_by, created_by, created_at
`

func scanWorkerSalary(row pgx.Row, s *payroll.WorkerSalary) error {
	return row.Scan(
		&s.ID, &s.WorkerID, &s.ProductID, &s.OperationID, &s.PiecesDone, &s.AmountPerPiece, &s.TotalAmount,
		&s.Date, &s.Paid, &s.PaidDate, &s.PaidBy, &s.EnteredBy, &s.CreatedBy, &s.CreatedAt,
	)
}

// List implements payroll.WorkerSalaryRepository.
func (r *workerSalaryRepository) List(ctx context.Context, filter payroll.WorkerSalaryFilter) ([]payroll.WorkerSalary, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.WorkerID != nil {
		conditions = append(conditions, fmt.Sprintf("worker_id = $%d", argIdx))
		args = append(args, *filter.WorkerID)
		argIdx++
	}
	conditions, args, argIdx = appendDateRange(conditions, args, argIdx, "date", filter.DateRange)

	query := `SELECT ` + workerSalaryColumns + ` FROM worker_salaries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker salaries: %w", err)
	}
	defer rows.Close()

	var salaries []payroll.WorkerSalary
	for rows.Next() {
		var s payroll.WorkerSalary
		if err := scanWorkerSalary(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan worker salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate worker salaries: %w", err)
	}

	return salaries, nil
}

// Create implements payroll.WorkerSalaryRepository.
func (r *workerSalaryRepository) Create(ctx context.Context, salary payroll.WorkerSalary) (payroll.WorkerSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO worker_salaries (
			worker_id, product_id, operation_id, pieces_done, amount_per_piece, total_amount,
			date, paid, paid_date, paid_by_employee_id, entered_by, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + workerSalaryColumns

	var s payroll.WorkerSalary
	err := scanWorkerSalary(q.QueryRow(ctx, query,
		salary.WorkerID, salary.ProductID, salary.OperationID, salary.PiecesDone, salary.AmountPerPiece, salary.TotalAmount,
		salary.Date, salary.Paid, salary.PaidDate, salary.PaidBy, salary.EnteredBy, salary.CreatedBy,
	), &s)
	if err != nil {
		return payroll.WorkerSalary{}, fmt.Errorf("failed to create worker salary: %w", err)
	}

	return s, nil
}

// MarkPaid implements payroll.WorkerSalaryRepository.
func (r *workerSalaryRepository) MarkPaid(ctx context.Context, ids []string, paidBy *string, paidAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE worker_salaries
		SET paid = TRUE, paid_date = $1, paid_by_employee_id = COALESCE($2, paid_by_employee_id)
		WHERE id = ANY($3::uuid[]) AND paid = FALSE
	`

	tag, err := q.Exec(ctx, query, paidAt, paidBy, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark worker salaries paid: %w", err)
	}

	return tag.RowsAffected(), nil
}

// MarkPaidForWorker implements payroll.WorkerSalaryRepository.
func (r *workerSalaryRepository) MarkPaidForWorker(ctx context.Context, workerID string, dates payroll.DateRange, paidBy *string, paidAt time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"worker_id = $3", "paid = FALSE"}
	args := []interface{}{paidAt, paidBy, workerID}
	conditions, args, _ = appendDateRange(conditions, args, 4, "date", dates)

	query := `
		UPDATE worker_salaries
		SET paid = TRUE, paid_date = $1, paid_by_employee_id = COALESCE($2, paid_by_employee_id)
		WHERE ` + strings.Join(conditions, " AND ")

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark worker salaries paid for worker: %w", err)
	}

	return tag.RowsAffected(), nil
}

// UpdateByKey implements payroll.WorkerSalaryRepository.
func (r *workerSalaryRepository) UpdateByKey(ctx context.Context, key payroll.WorkKey, update payroll.WorkUpdate) (int64, error) {
	if update.IsEmpty() {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	var sets []string
	var args []interface{}
	argIdx := 1

	if update.PiecesDone != nil {
		sets = append(sets, fmt.Sprintf("pieces_done = $%d", argIdx))
		args = append(args, *update.PiecesDone)
		argIdx++
	}
	if update.AmountPerPiece != nil {
		sets = append(sets, fmt.Sprintf("amount_per_piece = $%d", argIdx))
		args = append(args, *update.AmountPerPiece)
		argIdx++
	}
	if update.TotalAmount != nil {
		sets = append(sets, fmt.Sprintf("total_amount = $%d", argIdx))
		args = append(args, *update.TotalAmount)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE worker_salaries
		SET %s
		WHERE worker_id = $%d AND operation_id = $%d AND date = $%d
	`, strings.Join(sets, ", "), argIdx, argIdx+1, argIdx+2)
	args = append(args, key.WorkerID, key.OperationID, key.Date)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update worker salary by key: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteByKey implements payroll.WorkerSalaryRepository.
// Every row sharing the key is removed, duplicates included.
func (r *workerSalaryRepository) DeleteByKey(ctx context.Context, key payroll.WorkKey) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM worker_salaries
		WHERE worker_id = $1 AND operation_id = $2 AND date = $3
	`

	tag, err := q.Exec(ctx, query, key.WorkerID, key.OperationID, key.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete worker salary by key: %w", err)
	}

	return tag.RowsAffected(), nil
}

// appendDateRange adds inclusive bounds on column for each non-nil end of dates.
func appendDateRange(conditions []string, args []interface{}, argIdx int, column string, dates payroll.DateRange) ([]string, []interface{}, int) {
	if dates.From != nil {
		conditions = append(conditions, fmt.Sprintf("%s >= $%d", column, argIdx))
		args = append(args, *dates.From)
		argIdx++
	}
	if dates.To != nil {
		conditions = append(conditions, fmt.Sprintf("%s <= $%d", column, argIdx))
		args = append(args, *dates.To)
		argIdx++
	}
	return conditions, args, argIdx
}
