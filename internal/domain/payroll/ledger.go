package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerSource string

const (
	SourceSalary     LedgerSource = "salary"
	SourceProduction LedgerSource = "production"
	SourceAdvance    LedgerSource = "advance"
)

const (
	AdvanceProductName   = "ADVANCE"
	AdvanceOperationName = "Advance Payment"
)

// LedgerEntry is one line of a worker's unified payroll feed. Exactly one of
// Salary, Production or Advance is set, matching Source.
type LedgerEntry struct {
	ID             string
	Source         LedgerSource
	WorkerID       string
	WorkerName     string
	ProductID      *string
	ProductName    string
	OperationID    *string
	OperationName  string
	PiecesDone     int
	AmountPerPiece decimal.Decimal
	TotalAmount    decimal.Decimal
	Date           time.Time
	Paid           bool

	Salary     *SalaryDetails
	Production *ProductionDetails
	Advance    *AdvanceDetails
}

type SalaryDetails struct {
	PaidDate  *time.Time
	PaidBy    *string
	EnteredBy *string
	CreatedBy *string
}

type ProductionDetails struct {
	ProductionID *string
	Earnings     decimal.Decimal
	EnteredBy    *string
}

type AdvanceDetails struct {
	Amount decimal.Decimal
	Note   *string
}

// WorkerMonthlySummary aggregates one worker's ledger over a calendar month.
// Paid is true only when every contributing entry is paid.
type WorkerMonthlySummary struct {
	WorkerID     string
	WorkerName   string
	TotalPieces  int
	TotalAmount  decimal.Decimal
	TotalAdvance decimal.Decimal
	Paid         bool
	Entries      []LedgerEntry
}

// EmployeeSalaryView is an employee salary row joined with that month's advance ledger.
type EmployeeSalaryView struct {
	EmployeeSalary
	Year          int
	Month         int
	LedgerAdvance decimal.Decimal
	TotalAdvance  decimal.Decimal
}
