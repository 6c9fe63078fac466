package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type productionOperationRepository struct {
	db *database.DB
}

func NewProductionOperationRepository(db *database.DB) payroll.ProductionOperationRepository {
	return &productionOperationRepository{db: db}
}

const productionOperationSelect = `
	SELECT po.id, po.production_id, po.operation_id, po.worker_id, po.worker_name,
		   po.pieces_done, po.earnings, po.date, po.entered_by, po.created_at,
		   o.name, o.amount_per_piece, p.product_id, pr.name
	FROM production_operation po
	LEFT JOIN operations o ON o.id = po.operation_id
	LEFT JOIN productions p ON p.id = po.production_id
	LEFT JOIN products pr ON pr.id = p.product_id
`

func scanProductionOperation(row pgx.Row, op *payroll.ProductionOperation) error {
	return row.Scan(
		&op.ID, &op.ProductionID, &op.OperationID, &op.WorkerID, &op.WorkerName,
		&op.PiecesDone, &op.Earnings, &op.Date, &op.EnteredBy, &op.CreatedAt,
		&op.OperationName, &op.AmountPerPiece, &op.ProductID, &op.ProductName,
	)
}

// List implements payroll.ProductionOperationRepository.
func (r *productionOperationRepository) List(ctx context.Context, filter payroll.ProductionOperationFilter) ([]payroll.ProductionOperation, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.WorkerID != nil {
		conditions = append(conditions, fmt.Sprintf("po.worker_id = $%d", argIdx))
		args = append(args, *filter.WorkerID)
		argIdx++
	}
	conditions, args, _ = appendDateRange(conditions, args, argIdx, "po.date", filter.DateRange)

	query := productionOperationSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY po.date DESC NULLS LAST, po.created_at"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list production operations: %w", err)
	}
	defer rows.Close()

	var ops []payroll.ProductionOperation
	for rows.Next() {
		var op payroll.ProductionOperation
		if err := scanProductionOperation(rows, &op); err != nil {
			return nil, fmt.Errorf("failed to scan production operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate production operations: %w", err)
	}

	return ops, nil
}

// GetByID implements payroll.ProductionOperationRepository.
func (r *productionOperationRepository) GetByID(ctx context.Context, id string) (payroll.ProductionOperation, error) {
	q := GetQuerier(ctx, r.db)

	var op payroll.ProductionOperation
	err := scanProductionOperation(q.QueryRow(ctx, productionOperationSelect+" WHERE po.id = $1", id), &op)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ProductionOperation{}, payroll.ErrProductionOperationNotFound
		}
		return payroll.ProductionOperation{}, fmt.Errorf("failed to get production operation: %w", err)
	}

	return op, nil
}

// Create implements payroll.ProductionOperationRepository.
func (r *productionOperationRepository) Create(ctx context.Context, op payroll.ProductionOperation) (payroll.ProductionOperation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO production_operation (
			production_id, operation_id, worker_id, worker_name, pieces_done, earnings, date, entered_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		op.ProductionID, op.OperationID, op.WorkerID, op.WorkerName, op.PiecesDone, op.Earnings, op.Date, op.EnteredBy,
	).Scan(&id)
	if err != nil {
		return payroll.ProductionOperation{}, fmt.Errorf("failed to create production operation: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update implements payroll.ProductionOperationRepository.
func (r *productionOperationRepository) Update(ctx context.Context, op payroll.ProductionOperation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE production_operation
		SET worker_id = $1, worker_name = $2, pieces_done = $3, earnings = $4, entered_by = COALESCE($5, entered_by)
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query, op.WorkerID, op.WorkerName, op.PiecesDone, op.Earnings, op.EnteredBy, op.ID)
	if err != nil {
		return fmt.Errorf("failed to update production operation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrProductionOperationNotFound
	}

	return nil
}

// Delete implements payroll.ProductionOperationRepository.
func (r *productionOperationRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM production_operation WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete production operation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrProductionOperationNotFound
	}

	return nil
}

// UpdateByKey implements payroll.ProductionOperationRepository.
func (r *productionOperationRepository) UpdateByKey(ctx context.Context, key payroll.WorkKey, update payroll.WorkUpdate) (int64, error) {
	if update.PiecesDone == nil && update.TotalAmount == nil {
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
	if update.TotalAmount != nil {
		sets = append(sets, fmt.Sprintf("earnings = $%d", argIdx))
		args = append(args, *update.TotalAmount)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE production_operation
		SET %s
		WHERE worker_id = $%d AND operation_id = $%d AND date = $%d
	`, strings.Join(sets, ", "), argIdx, argIdx+1, argIdx+2)
	args = append(args, key.WorkerID, key.OperationID, key.Date)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update production operation by key: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteByKey implements payroll.ProductionOperationRepository.
func (r *productionOperationRepository) DeleteByKey(ctx context.Context, key payroll.WorkKey) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM production_operation
		WHERE worker_id = $1 AND operation_id = $2 AND date = $3
	`

	tag, err := q.Exec(ctx, query, key.WorkerID, key.OperationID, key.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete production operation by key: %w", err)
	}

	return tag.RowsAffected(), nil
}
