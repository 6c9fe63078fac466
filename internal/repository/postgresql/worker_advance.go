package postgresql

import (
	"context"
	"fmt"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
)

type workerAdvanceRepository struct {
	db *database.DB
}

func NewWorkerAdvanceRepository(db *database.DB) payroll.WorkerAdvanceRepository {
	return &workerAdvanceRepository{db: db}
}

// List implements payroll.WorkerAdvanceRepository.
func (r *workerAdvanceRepository) List(ctx context.Context, workerID *string) ([]payroll.WorkerAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, worker_id, amount, date, note, created_at
		FROM worker_advances
		WHERE $1::uuid IS NULL OR worker_id = $1::uuid
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker advances: %w", err)
	}
	defer rows.Close()

	var advances []payroll.WorkerAdvance
	for rows.Next() {
		var a payroll.WorkerAdvance
		if err := rows.Scan(&a.ID, &a.WorkerID, &a.Amount, &a.Date, &a.Note, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker advance: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate worker advances: %w", err)
	}

	return advances, nil
}

// Create implements payroll.WorkerAdvanceRepository.
func (r *workerAdvanceRepository) Create(ctx context.Context, advance payroll.WorkerAdvance) (payroll.WorkerAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO worker_advances (worker_id, amount, date, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, worker_id, amount, date, note, created_at
	`

	var a payroll.WorkerAdvance
	err := q.QueryRow(ctx, query, advance.WorkerID, advance.Amount, advance.Date, advance.Note).Scan(
		&a.ID, &a.WorkerID, &a.Amount, &a.Date, &a.Note, &a.CreatedAt,
	)
	if err != nil {
		return payroll.WorkerAdvance{}, fmt.Errorf("failed to create worker advance: %w", err)
	}

	return a, nil
}
