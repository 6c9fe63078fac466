package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange bounds a query to from <= date <= to. Nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type WorkerSalaryFilter struct {
	WorkerID *string
	DateRange
}

type ProductionOperationFilter struct {
	WorkerID *string
	DateRange
}

// WorkUpdate carries the fields a quantity correction may change. Nil fields are left as is.
type WorkUpdate struct {
	PiecesDone     *int
	AmountPerPiece *decimal.Decimal
	TotalAmount    *decimal.Decimal
}

func (u WorkUpdate) IsEmpty() bool {
	return u.PiecesDone == nil && u.AmountPerPiece == nil && u.TotalAmount == nil
}

// WorkerSalaryRepository defines data access methods for worker salary rows.
type WorkerSalaryRepository interface {
	List(ctx context.Context, filter WorkerSalaryFilter) ([]WorkerSalary, error)
	Create(ctx context.Context, salary WorkerSalary) (WorkerSalary, error)

	// MarkPaid flips unpaid rows with the given ids to paid and returns the affected count
	MarkPaid(ctx context.Context, ids []string, paidBy *string, paidAt time.Time) (int64, error)

	// MarkPaidForWorker flips a worker's unpaid rows dated within the range to paid
	MarkPaidForWorker(ctx context.Context, workerID string, dates DateRange, paidBy *string, paidAt time.Time) (int64, error)

	UpdateByKey(ctx context.Context, key WorkKey, update WorkUpdate) (int64, error)
	DeleteByKey(ctx context.Context, key WorkKey) (int64, error)
}

// ProductionOperationRepository defines data access methods for logged piece work.
type ProductionOperationRepository interface {
	// List returns production rows joined to operation, production and product
	List(ctx context.Context, filter ProductionOperationFilter) ([]ProductionOperation, error)
	GetByID(ctx context.Context, id string) (ProductionOperation, error)
	Create(ctx context.Context, op ProductionOperation) (ProductionOperation, error)
	Update(ctx context.Context, op ProductionOperation) error
	Delete(ctx context.Context, id string) error

	// UpdateByKey mirrors a salary correction; the total maps onto earnings
	UpdateByKey(ctx context.Context, key WorkKey, update WorkUpdate) (int64, error)
	DeleteByKey(ctx context.Context, key WorkKey) (int64, error)
}

type WorkerAdvanceRepository interface {
	// List returns advances, optionally for one worker
	List(ctx context.Context, workerID *string) ([]WorkerAdvance, error)
	Create(ctx context.Context, advance WorkerAdvance) (WorkerAdvance, error)
}

// LookupRepository reads master data the payroll views resolve names and rates from.
type LookupRepository interface {
	ListWorkers(ctx context.Context) ([]Worker, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListOperations(ctx context.Context) ([]Operation, error)
	GetOperation(ctx context.Context, id string) (Operation, error)
}

type EmployeeSalaryRepository interface {
	List(ctx context.Context) ([]EmployeeSalary, error)
	GetByID(ctx context.Context, id string) (EmployeeSalary, error)

	// GetByEmployeeMonth also matches a legacy "YYYY-MM-DD" row for the month, preferring
	// the "YYYY-MM" row. Returns ErrEmployeeSalaryNotFound when no row exists
	GetByEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (EmployeeSalary, error)

	// GetByEmployeeMonthForUpdate locks the row until the surrounding transaction ends
	GetByEmployeeMonthForUpdate(ctx context.Context, employeeID, salaryMonth string) (EmployeeSalary, error)

	// Create returns ErrEmployeeSalaryExists on a duplicate (employee, month)
	Create(ctx context.Context, salary EmployeeSalary) (EmployeeSalary, error)
	Update(ctx context.Context, salary EmployeeSalary) (EmployeeSalary, error)

	// UpdateGross rewrites gross and net of an unpaid row. Paid rows are never touched.
	UpdateGross(ctx context.Context, id string, gross, net decimal.Decimal) (int64, error)

	MarkPaid(ctx context.Context, ids []string, paidBy *string, paidAt time.Time) (int64, error)
	ListPaidEmployeeIDs(ctx context.Context, salaryMonth string) ([]string, error)
}

type EmployeeAdvanceRepository interface {
	List(ctx context.Context) ([]EmployeeAdvance, error)
	Create(ctx context.Context, advance EmployeeAdvance) (EmployeeAdvance, error)
}

// Transactor runs fn inside one database transaction carried on ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
