package payroll

import (
	"testing"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func production(id, worker, op string, date time.Time, pieces int) payroll.ProductionOperation {
	d := date
	return payroll.ProductionOperation{
		ID:          id,
		WorkerID:    str(worker),
		OperationID: str(op),
		Date:        &d,
		PiecesDone:  pieces,
	}
}

func salary(id, worker, op string, date time.Time, pieces int, rate int64, paid bool) payroll.WorkerSalary {
	return payroll.WorkerSalary{
		ID:             id,
		WorkerID:       worker,
		OperationID:    str(op),
		PiecesDone:     pieces,
		AmountPerPiece: dec(rate),
		TotalAmount:    dec(rate * int64(pieces)),
		Date:           date,
		Paid:           paid,
	}
}

func testLookups() payroll.Lookups {
	return payroll.NewLookups(
		[]payroll.Worker{{ID: workerA, Name: "Asha"}, {ID: workerB, Name: "Bilal"}},
		[]payroll.Product{{ID: product1, Name: "Shirt"}},
		[]payroll.Operation{
			{ID: operation1, Name: "Collar stitching", AmountPerPiece: dec(5)},
			{ID: operation2, Name: "Buttoning", AmountPerPiece: dec(2)},
		},
	)
}

func countSource(entries []payroll.LedgerEntry, src payroll.LedgerSource) int {
	n := 0
	for _, e := range entries {
		if e.Source == src {
			n++
		}
	}
	return n
}

func TestReconcile_DedupCount(t *testing.T) {
	d := day(2024, 3, 10)

	tests := []struct {
		name            string
		productions     int
		salaries        int
		wantProductions int
	}{
		{"no salary keeps all", 2, 0, 2},
		{"one salary suppresses one", 3, 1, 2},
		{"equal counts suppress all", 2, 2, 0},
		{"more salaries than productions", 1, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in ReconcileInput
			for i := 0; i < tt.productions; i++ {
				in.Productions = append(in.Productions, production("p", workerA, operation1, d, 10))
			}
			for i := 0; i < tt.salaries; i++ {
				in.Salaries = append(in.Salaries, salary("s", workerA, operation1, d, 10, 5, i%2 == 0))
			}
			in.Lookups = testLookups()

			entries := Reconcile(in)
			assert.Equal(t, tt.wantProductions, countSource(entries, payroll.SourceProduction))
			assert.Equal(t, tt.salaries, countSource(entries, payroll.SourceSalary))
		})
	}
}

func TestReconcile_KeyParts(t *testing.T) {
	d := day(2024, 3, 10)
	noWorker := production("p-no-worker", workerA, operation1, d, 4)
	noWorker.WorkerID = nil
	noDate := production("p-no-date", workerA, operation1, d, 4)
	noDate.Date = nil

	entries := Reconcile(ReconcileInput{
		Productions: []payroll.ProductionOperation{
			production("p-other-day", workerA, operation1, day(2024, 3, 11), 4),
			production("p-other-worker", workerB, operation1, d, 4),
			production("p-other-op", workerA, operation2, d, 4),
			noWorker,
			noDate,
		},
		Salaries: []payroll.WorkerSalary{salary("s1", workerA, operation1, d, 99, 1, false)},
		Lookups:  testLookups(),
	})

	assert.Equal(t, 5, countSource(entries, payroll.SourceProduction), "incomplete or different keys are never suppressed")

	// Pieces are not part of the key.
	entries = Reconcile(ReconcileInput{
		Productions: []payroll.ProductionOperation{production("p", workerA, operation1, d, 4)},
		Salaries:    []payroll.WorkerSalary{salary("s1", workerA, operation1, d.Add(15*time.Hour), 99, 1, false)},
	})
	assert.Equal(t, 0, countSource(entries, payroll.SourceProduction))
}

func TestReconcile_Entries(t *testing.T) {
	note := "Festival advance"
	in := ReconcileInput{
		Productions: []payroll.ProductionOperation{
			production("p1", workerA, operation1, day(2024, 3, 9), 10),
		},
		Salaries: []payroll.WorkerSalary{
			salary("s1", workerB, operation2, day(2024, 3, 12), 20, 2, true),
		},
		Advances: []payroll.WorkerAdvance{
			{ID: "a1", WorkerID: workerA, Amount: dec(500), Date: day(2024, 3, 11)},
			{ID: "a2", WorkerID: "unknown", Amount: dec(-200), Date: day(2024, 3, 10), Note: &note},
		},
		Lookups: testLookups(),
	}

	entries := Reconcile(in)
	require.Len(t, entries, 4)

	ids := []string{entries[0].ID, entries[1].ID, entries[2].ID, entries[3].ID}
	assert.Equal(t, []string{"s1", "a1", "a2", "p1"}, ids, "newest first")

	prod := entries[3]
	assert.Equal(t, payroll.SourceProduction, prod.Source)
	assert.False(t, prod.Paid)
	assert.Equal(t, "Asha", prod.WorkerName)
	assert.Equal(t, "Collar stitching", prod.OperationName)
	assert.True(t, dec(50).Equal(prod.TotalAmount), "pieces x rate from the operation master")

	assert.True(t, entries[0].Paid)
	assert.Equal(t, "Bilal", entries[0].WorkerName)

	adv := entries[1]
	assert.Equal(t, payroll.SourceAdvance, adv.Source)
	assert.Equal(t, payroll.AdvanceProductName, adv.ProductName)
	assert.Equal(t, payroll.AdvanceOperationName, adv.OperationName)
	assert.True(t, dec(-500).Equal(adv.TotalAmount))
	assert.False(t, adv.Paid)

	negative := entries[2]
	assert.True(t, dec(-200).Equal(negative.TotalAmount), "advance total is always -abs(amount)")
	assert.Equal(t, note, negative.OperationName)
	assert.Equal(t, unknownWorkerName, negative.WorkerName)
}

func TestReconcile_JoinedRateWins(t *testing.T) {
	p := production("p1", workerA, operation1, day(2024, 3, 9), 10)
	p.AmountPerPiece = decimal.NewNullDecimal(dec(7))

	entries := Reconcile(ReconcileInput{Productions: []payroll.ProductionOperation{p}, Lookups: testLookups()})
	require.Len(t, entries, 1)
	assert.True(t, dec(70).Equal(entries[0].TotalAmount))
}

func TestReconcile_StableOrderOnTies(t *testing.T) {
	d := day(2024, 3, 9)
	entries := Reconcile(ReconcileInput{
		Productions: []payroll.ProductionOperation{production("p1", workerA, operation2, d, 1)},
		Salaries:    []payroll.WorkerSalary{salary("s1", workerA, operation1, d, 1, 1, false)},
		Advances:    []payroll.WorkerAdvance{{ID: "a1", WorkerID: workerA, Amount: dec(1), Date: d}},
	})
	require.Len(t, entries, 3)
	assert.Equal(t, "p1", entries[0].ID)
	assert.Equal(t, "s1", entries[1].ID)
	assert.Equal(t, "a1", entries[2].ID)
}

func TestSummarizeMonth(t *testing.T) {
	entries := Reconcile(ReconcileInput{
		Salaries: []payroll.WorkerSalary{
			salary("s1", workerA, operation1, day(2024, 3, 5), 10, 5, true),
			salary("s2", workerA, operation2, day(2024, 3, 6), 20, 2, true),
			salary("s3", workerB, operation1, day(2024, 3, 7), 4, 5, true),
			salary("s4", workerB, operation1, day(2024, 4, 1), 4, 5, false),
		},
		Productions: []payroll.ProductionOperation{
			production("p1", workerB, operation2, day(2024, 3, 8), 5),
		},
		Advances: []payroll.WorkerAdvance{
			{ID: "a1", WorkerID: workerA, Amount: dec(30), Date: day(2024, 3, 9)},
		},
		Lookups: testLookups(),
	})

	summaries := SummarizeMonth(entries, 2024, 3)
	require.Len(t, summaries, 2)

	asha, bilal := summaries[0], summaries[1]
	assert.Equal(t, "Asha", asha.WorkerName)
	assert.Equal(t, 30, asha.TotalPieces)
	assert.True(t, dec(60).Equal(asha.TotalAmount), "50 + 40 - 30")
	assert.True(t, dec(30).Equal(asha.TotalAdvance))
	assert.False(t, asha.Paid, "an advance entry is never paid")
	assert.Len(t, asha.Entries, 3)

	assert.Equal(t, "Bilal", bilal.WorkerName)
	assert.False(t, bilal.Paid, "one unpaid production row makes the month unpaid")
	assert.Equal(t, 9, bilal.TotalPieces, "April row is excluded")
}

func TestSummarizeMonth_AllPaid(t *testing.T) {
	entries := Reconcile(ReconcileInput{
		Salaries: []payroll.WorkerSalary{
			salary("s1", workerA, operation1, day(2024, 3, 5), 10, 5, true),
			salary("s2", workerA, operation2, day(2024, 3, 6), 20, 2, true),
		},
	})

	summaries := SummarizeMonth(entries, 2024, 3)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].Paid)
	assert.Equal(t, unknownWorkerName, summaries[0].WorkerName)
}

func TestEmployeeSalaryViews(t *testing.T) {
	salaries := []payroll.EmployeeSalary{
		{ID: "e1", EmployeeID: employee1, SalaryMonth: "2024-03", GrossSalary: dec(27000), Advance: dec(1000)},
		{ID: "e2", EmployeeID: employee1, SalaryMonth: "2024-02-01", GrossSalary: dec(30000)},
		{ID: "e3", EmployeeID: employee2, SalaryMonth: "garbage", GrossSalary: dec(20000), CreatedAt: day(2024, 3, 2)},
	}
	advances := []payroll.EmployeeAdvance{
		{EmployeeID: employee1, Amount: dec(500), Date: day(2024, 3, 3)},
		{EmployeeID: employee1, Amount: dec(250), Date: day(2024, 3, 20)},
		{EmployeeID: employee1, Amount: dec(100), Date: day(2024, 2, 14)},
		{EmployeeID: employee2, Amount: dec(2000), Date: day(2024, 3, 1)},
	}

	views := EmployeeSalaryViews(salaries, advances)
	require.Len(t, views, 3)

	assert.True(t, dec(750).Equal(views[0].LedgerAdvance))
	assert.True(t, dec(1750).Equal(views[0].TotalAdvance), "stored plus ledger")
	assert.True(t, dec(25250).Equal(views[0].NetSalary))

	assert.Equal(t, 2, views[1].Month)
	assert.True(t, dec(29900).Equal(views[1].NetSalary))

	assert.Equal(t, 3, views[2].Month, "falls back to created_at")
	assert.True(t, dec(18000).Equal(views[2].NetSalary))
}

func TestGrossSalary(t *testing.T) {
	tests := []struct {
		name      string
		base      int64
		absent    int
		days      int
		wantGross int64
	}{
		{"three absences in a 30 day month", 30000, 3, 30, 27000},
		{"no absence", 30000, 0, 31, 30000},
		{"rounds to whole units", 31000, 1, 31, 30000},
		{"rounds half up", 1000, 1, 3, 667},
		{"floors at zero", 30000, 40, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross, _ := GrossSalary(dec(tt.base), tt.absent, tt.days)
			assert.True(t, dec(tt.wantGross).Equal(gross), "got %s", gross)
		})
	}
}
