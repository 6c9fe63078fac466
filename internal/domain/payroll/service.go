package payroll

import (
	"bytes"
	"context"
)

// WorkerPayrollService reconciles piece-rate work, salary lines and advances per worker.
type WorkerPayrollService interface {
	// GetWorkerSalaries returns the unified, deduplicated feed for all workers, newest first
	GetWorkerSalaries(ctx context.Context) ([]LedgerEntry, error)

	// GetWorkerOperations returns one worker's reconciled production and salary lines,
	// optionally limited to a month
	GetWorkerOperations(ctx context.Context, req WorkerOperationsRequest) ([]LedgerEntry, error)

	// GetWorkerMonthlySummary groups the unified feed for one month by worker
	GetWorkerMonthlySummary(ctx context.Context, req MonthRequest) ([]WorkerMonthlySummary, error)

	// ExportWorkerMonthlySummary renders the monthly summary as an XLSX workbook
	ExportWorkerMonthlySummary(ctx context.Context, req MonthRequest) (*bytes.Buffer, error)

	AddWorkerSalary(ctx context.Context, req AddWorkerSalaryRequest) (WorkerSalaryResponse, error)

	// ProcessWorkerPayments pays selected ledger lines. Salary lines are marked paid,
	// production lines are converted into paid salary lines. Items fail independently.
	ProcessWorkerPayments(ctx context.Context, req ProcessPaymentsRequest) (PaymentResult, error)

	MarkWorkerSalariesPaid(ctx context.Context, req MarkWorkerSalariesPaidRequest) (MarkPaidResult, error)

	UpdateWorkerSalaryByOps(ctx context.Context, req UpdateWorkerSalaryByOpsRequest) (SyncResult, error)
	DeleteWorkerSalary(ctx context.Context, req DeleteWorkerSalaryRequest) (SyncResult, error)

	AddWorkerAdvance(ctx context.Context, req AddAdvanceRequest) (LedgerEntryResponse, error)

	RecordProductionOperation(ctx context.Context, req RecordProductionOperationRequest) (ProductionOperationResponse, error)
	EditProductionOperation(ctx context.Context, req EditProductionOperationRequest) (ProductionOperationResponse, error)
	DeleteProductionOperation(ctx context.Context, id string) (SyncResult, error)
}

// EmployeePayrollService manages monthly salaries of salaried employees.
type EmployeePayrollService interface {
	// GetEmployeeSalaries returns salary rows with net pay recomputed from the advance ledger
	GetEmployeeSalaries(ctx context.Context) ([]EmployeeSalaryResponse, error)

	CreateEmployeeSalary(ctx context.Context, req CreateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)
	UpdateEmployeeSalary(ctx context.Context, req UpdateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)

	// GenerateEmployeeSalaries creates or refreshes the unpaid salary row of every active employee
	GenerateEmployeeSalaries(ctx context.Context, req GenerateSalariesRequest) (GenerateSalariesResponse, error)

	MarkEmployeeSalariesPaid(ctx context.Context, req MarkEmployeeSalariesPaidRequest) (MarkPaidResult, error)
	GetPaidEmployeeIDsForMonth(ctx context.Context, req MonthRequest) ([]string, error)

	// AddEmployeeAdvance records an advance and makes sure the month has a salary row to show it against
	AddEmployeeAdvance(ctx context.Context, req AddAdvanceRequest) (EmployeeAdvanceResponse, error)
}
