package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkerSalary - a payroll line for a piece-rate worker, entered by hand or
// converted from a production operation at payment time
type WorkerSalary struct {
	ID             string
	WorkerID       string
	ProductID      *string
	OperationID    *string
	PiecesDone     int
	AmountPerPiece decimal.Decimal
	TotalAmount    decimal.Decimal
	Date           time.Time
	Paid           bool
	PaidDate       *time.Time
	PaidBy         *string
	EnteredBy      *string
	CreatedBy      *string
	CreatedAt      time.Time
}

// ProductionOperation - one worker's logged pieces for an operation within a production
type ProductionOperation struct {
	ID           string
	ProductionID *string
	OperationID  *string
	WorkerID     *string
	WorkerName   *string
	PiecesDone   int
	Earnings     decimal.Decimal
	Date         *time.Time
	EnteredBy    *string
	CreatedAt    time.Time

	// Joined fields
	OperationName  *string
	AmountPerPiece decimal.NullDecimal
	ProductID      *string
	ProductName    *string
}

// WorkerAdvance - cash paid to a worker ahead of payroll
type WorkerAdvance struct {
	ID        string
	WorkerID  string
	Amount    decimal.Decimal
	Date      time.Time
	Note      *string
	CreatedAt time.Time
}

// EmployeeSalary - monthly salary row, unique per (employee, salary_month)
type EmployeeSalary struct {
	ID           string
	EmployeeID   string
	EmployeeName *string
	SalaryMonth  string
	GrossSalary  decimal.Decimal
	Advance      decimal.Decimal
	NetSalary    decimal.Decimal
	Paid         bool
	PaidDate     *time.Time
	PaidBy       *string
	CreatedAt    time.Time
}

// EmployeeAdvance - cash paid to an employee ahead of payroll
type EmployeeAdvance struct {
	ID         string
	EmployeeID string
	Amount     decimal.Decimal
	Date       time.Time
	Note       *string
	CreatedAt  time.Time
}

type Worker struct {
	ID   string
	Name string
}

type Product struct {
	ID   string
	Name string
}

type Operation struct {
	ID             string
	Name           string
	AmountPerPiece decimal.Decimal
}

// Lookups holds id keyed master data, built fresh for each request.
type Lookups struct {
	Workers    map[string]Worker
	Products   map[string]Product
	Operations map[string]Operation
}

func NewLookups(workers []Worker, products []Product, operations []Operation) Lookups {
	l := Lookups{
		Workers:    make(map[string]Worker, len(workers)),
		Products:   make(map[string]Product, len(products)),
		Operations: make(map[string]Operation, len(operations)),
	}
	for _, w := range workers {
		l.Workers[w.ID] = w
	}
	for _, p := range products {
		l.Products[p.ID] = p
	}
	for _, o := range operations {
		l.Operations[o.ID] = o
	}
	return l
}

func (l Lookups) WorkerName(id string) string {
	return l.Workers[id].Name
}

func (l Lookups) ProductName(id *string) string {
	if id == nil {
		return ""
	}
	return l.Products[*id].Name
}

func (l Lookups) OperationName(id *string) string {
	if id == nil {
		return ""
	}
	return l.Operations[*id].Name
}

// WorkKey identifies one unit of piece work: a worker, an operation and a calendar day.
type WorkKey struct {
	WorkerID    string
	OperationID string
	Date        time.Time
}
