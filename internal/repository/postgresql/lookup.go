package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type lookupRepository struct {
	db *database.DB
}

func NewLookupRepository(db *database.DB) payroll.LookupRepository {
	return &lookupRepository{db: db}
}

// ListWorkers implements payroll.LookupRepository.
func (r *lookupRepository) ListWorkers(ctx context.Context) ([]payroll.Worker, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, `SELECT id, name FROM workers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	workers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payroll.Worker, error) {
		var w payroll.Worker
		err := row.Scan(&w.ID, &w.Name)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workers: %w", err)
	}
	return workers, nil
}

// ListProducts implements payroll.LookupRepository.
func (r *lookupRepository) ListProducts(ctx context.Context) ([]payroll.Product, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, `SELECT id, name FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payroll.Product, error) {
		var p payroll.Product
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

// ListOperations implements payroll.LookupRepository.
func (r *lookupRepository) ListOperations(ctx context.Context) ([]payroll.Operation, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, `SELECT id, name, amount_per_piece FROM operations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	operations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payroll.Operation, error) {
		var o payroll.Operation
		err := row.Scan(&o.ID, &o.Name, &o.AmountPerPiece)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan operations: %w", err)
	}
	return operations, nil
}

// GetOperation implements payroll.LookupRepository.
func (r *lookupRepository) GetOperation(ctx context.Context, id string) (payroll.Operation, error) {
	var o payroll.Operation
	err := GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT id, name, amount_per_piece FROM operations WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.AmountPerPiece)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Operation{}, payroll.ErrOperationNotFound
		}
		return payroll.Operation{}, fmt.Errorf("failed to get operation: %w", err)
	}
	return o, nil
}
