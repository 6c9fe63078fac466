package payroll

import (
	"sort"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

const unknownWorkerName = "Unknown Worker"

// ReconcileInput is everything one reconciliation pass reads.
type ReconcileInput struct {
	Salaries    []payroll.WorkerSalary
	Productions []payroll.ProductionOperation
	Advances    []payroll.WorkerAdvance
	Lookups     payroll.Lookups
}

// dedupKey builds the (worker, operation, calendar day) key. ok is false when any part is missing.
// Pieces and amounts are deliberately not part of the key.
func dedupKey(workerID, operationID *string, date *time.Time) (string, bool) {
	if workerID == nil || *workerID == "" || operationID == nil || *operationID == "" || date == nil || date.IsZero() {
		return "", false
	}
	return *workerID + "|" + *operationID + "|" + utils.DateKey(*date), true
}

// Reconcile merges salary lines, production rows and advances into one feed,
// newest first. Each salary line consumes at most one production row with the
// same key, so N productions against M salaries leave max(0, N-M) productions.
func Reconcile(in ReconcileInput) []payroll.LedgerEntry {
	paidCount := make(map[string]int, len(in.Salaries))
	for i := range in.Salaries {
		s := &in.Salaries[i]
		if key, ok := dedupKey(&s.WorkerID, s.OperationID, &s.Date); ok {
			paidCount[key]++
		}
	}

	entries := make([]payroll.LedgerEntry, 0, len(in.Salaries)+len(in.Productions)+len(in.Advances))

	for _, p := range in.Productions {
		if key, ok := dedupKey(p.WorkerID, p.OperationID, p.Date); ok && paidCount[key] > 0 {
			paidCount[key]--
			continue
		}
		entries = append(entries, productionEntry(p, in.Lookups))
	}
	for _, s := range in.Salaries {
		entries = append(entries, salaryEntry(s, in.Lookups))
	}
	for _, a := range in.Advances {
		entries = append(entries, advanceEntry(a, in.Lookups))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	return entries
}

func workerName(l payroll.Lookups, id string, fallback *string) string {
	if name := l.WorkerName(id); name != "" {
		return name
	}
	if fallback != nil && *fallback != "" {
		return *fallback
	}
	return unknownWorkerName
}

func productionEntry(p payroll.ProductionOperation, l payroll.Lookups) payroll.LedgerEntry {
	var workerID string
	if p.WorkerID != nil {
		workerID = *p.WorkerID
	}

	rate := decimal.Zero
	switch {
	case p.AmountPerPiece.Valid:
		rate = p.AmountPerPiece.Decimal
	case p.OperationID != nil:
		rate = l.Operations[*p.OperationID].AmountPerPiece
	}

	productName := l.ProductName(p.ProductID)
	if p.ProductName != nil {
		productName = *p.ProductName
	}
	operationName := l.OperationName(p.OperationID)
	if p.OperationName != nil {
		operationName = *p.OperationName
	}

	var date time.Time
	if p.Date != nil {
		date = *p.Date
	}

	return payroll.LedgerEntry{
		ID:             p.ID,
		Source:         payroll.SourceProduction,
		WorkerID:       workerID,
		WorkerName:     workerName(l, workerID, p.WorkerName),
		ProductID:      p.ProductID,
		ProductName:    productName,
		OperationID:    p.OperationID,
		OperationName:  operationName,
		PiecesDone:     p.PiecesDone,
		AmountPerPiece: rate,
		TotalAmount:    rate.Mul(decimal.NewFromInt(int64(p.PiecesDone))),
		Date:           date,
		Paid:           false,
		Production: &payroll.ProductionDetails{
			ProductionID: p.ProductionID,
			Earnings:     p.Earnings,
			EnteredBy:    p.EnteredBy,
		},
	}
}

func salaryEntry(s payroll.WorkerSalary, l payroll.Lookups) payroll.LedgerEntry {
	return payroll.LedgerEntry{
		ID:             s.ID,
		Source:         payroll.SourceSalary,
		WorkerID:       s.WorkerID,
		WorkerName:     workerName(l, s.WorkerID, nil),
		ProductID:      s.ProductID,
		ProductName:    l.ProductName(s.ProductID),
		OperationID:    s.OperationID,
		OperationName:  l.OperationName(s.OperationID),
		PiecesDone:     s.PiecesDone,
		AmountPerPiece: s.AmountPerPiece,
		TotalAmount:    s.TotalAmount,
		Date:           s.Date,
		Paid:           s.Paid,
		Salary: &payroll.SalaryDetails{
			PaidDate:  s.PaidDate,
			PaidBy:    s.PaidBy,
			EnteredBy: s.EnteredBy,
			CreatedBy: s.CreatedBy,
		},
	}
}

func advanceEntry(a payroll.WorkerAdvance, l payroll.Lookups) payroll.LedgerEntry {
	operationName := payroll.AdvanceOperationName
	if a.Note != nil && *a.Note != "" {
		operationName = *a.Note
	}
	return payroll.LedgerEntry{
		ID:            a.ID,
		Source:        payroll.SourceAdvance,
		WorkerID:      a.WorkerID,
		WorkerName:    workerName(l, a.WorkerID, nil),
		ProductName:   payroll.AdvanceProductName,
		OperationName: operationName,
		TotalAmount:   a.Amount.Abs().Neg(),
		Date:          a.Date,
		Paid:          false,
		Advance: &payroll.AdvanceDetails{
			Amount: a.Amount,
			Note:   a.Note,
		},
	}
}

// SummarizeMonth groups the entries dated within the month by worker, ordered by worker name.
// Negative amounts net against earnings and also accumulate into TotalAdvance.
func SummarizeMonth(entries []payroll.LedgerEntry, year, month int) []payroll.WorkerMonthlySummary {
	byWorker := make(map[string]*payroll.WorkerMonthlySummary)
	var order []string

	for _, e := range entries {
		if !utils.InMonth(e.Date, year, month) {
			continue
		}
		s, ok := byWorker[e.WorkerID]
		if !ok {
			s = &payroll.WorkerMonthlySummary{
				WorkerID:     e.WorkerID,
				WorkerName:   e.WorkerName,
				TotalAmount:  decimal.Zero,
				TotalAdvance: decimal.Zero,
				Paid:         true,
			}
			byWorker[e.WorkerID] = s
			order = append(order, e.WorkerID)
		}

		s.TotalPieces += e.PiecesDone
		s.TotalAmount = s.TotalAmount.Add(e.TotalAmount)
		if e.TotalAmount.IsNegative() {
			s.TotalAdvance = s.TotalAdvance.Add(e.TotalAmount.Abs())
		}
		s.Paid = s.Paid && e.Paid
		s.Entries = append(s.Entries, e)
	}

	summaries := make([]payroll.WorkerMonthlySummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byWorker[id])
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].WorkerName != summaries[j].WorkerName {
			return summaries[i].WorkerName < summaries[j].WorkerName
		}
		return summaries[i].WorkerID < summaries[j].WorkerID
	})

	return summaries
}

// EmployeeSalaryViews recomputes net pay of every row from its stored advance
// plus the ledger advances of the same employee and month.
func EmployeeSalaryViews(salaries []payroll.EmployeeSalary, advances []payroll.EmployeeAdvance) []payroll.EmployeeSalaryView {
	ledger := make(map[string]decimal.Decimal)
	for _, a := range advances {
		key := payroll.AdvanceMonthKey(a.EmployeeID, a.Date)
		ledger[key] = ledger[key].Add(a.Amount)
	}

	views := make([]payroll.EmployeeSalaryView, 0, len(salaries))
	for _, s := range salaries {
		year, month := s.EffectiveMonth()
		monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		ledgerAdvance := ledger[payroll.AdvanceMonthKey(s.EmployeeID, monthStart)]
		totalAdvance := s.Advance.Add(ledgerAdvance)

		v := payroll.EmployeeSalaryView{
			EmployeeSalary: s,
			Year:           year,
			Month:          month,
			LedgerAdvance:  ledgerAdvance,
			TotalAdvance:   totalAdvance,
		}
		v.NetSalary = s.GrossSalary.Sub(totalAdvance)
		views = append(views, v)
	}
	return views
}

// GrossSalary is base minus one day's pay per absence, floored at zero and
// rounded to a whole unit. Leave days are paid.
func GrossSalary(base decimal.Decimal, absentDays, daysInMonth int) (gross, daily decimal.Decimal) {
	if daysInMonth <= 0 {
		return base.Round(0), decimal.Zero
	}
	daily = base.Div(decimal.NewFromInt(int64(daysInMonth)))
	deduction := daily.Mul(decimal.NewFromInt(int64(absentDays)))
	gross = decimal.Max(decimal.Zero, base.Sub(deduction)).Round(0)
	return gross, daily
}
