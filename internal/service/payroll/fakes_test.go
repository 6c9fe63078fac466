package payroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/domain/employee"
	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const (
	workerA    = "11111111-1111-4111-8111-111111111111"
	workerB    = "22222222-2222-4222-8222-222222222222"
	operation1 = "33333333-3333-4333-8333-333333333333"
	operation2 = "44444444-4444-4444-8444-444444444444"
	product1   = "55555555-5555-4555-8555-555555555555"
	employee1  = "66666666-6666-4666-8666-666666666666"
	employee2  = "77777777-7777-4777-8777-777777777777"
	salaryID1  = "88888888-8888-4888-8888-888888888888"
	salaryID2  = "99999999-9999-4999-8999-999999999999"
	prodOpID   = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func str(s string) *string { return &s }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func fixedNow() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

// ========== WORKER SIDE ==========

type fakeWorkerSalaryRepo struct {
	rows    []payroll.WorkerSalary
	listErr error

	created   []payroll.WorkerSalary
	createErr error

	markedIDs   []string
	markedBy    *string
	markErr     error
	markedRange payroll.DateRange

	updatedKeys []payroll.WorkKey
	updates     []payroll.WorkUpdate
	updateRows  int64
	updateErr   error

	deletedKeys []payroll.WorkKey
	deleteRows  int64
	deleteErr   error
}

func (f *fakeWorkerSalaryRepo) List(ctx context.Context, filter payroll.WorkerSalaryFilter) ([]payroll.WorkerSalary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []payroll.WorkerSalary
	for _, r := range f.rows {
		if filter.WorkerID != nil && r.WorkerID != *filter.WorkerID {
			continue
		}
		if !inRange(r.Date, filter.DateRange) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeWorkerSalaryRepo) Create(ctx context.Context, salary payroll.WorkerSalary) (payroll.WorkerSalary, error) {
	if f.createErr != nil {
		return payroll.WorkerSalary{}, f.createErr
	}
	salary.ID = fmt.Sprintf("salary-%d", len(f.created)+1)
	f.created = append(f.created, salary)
	return salary, nil
}

func (f *fakeWorkerSalaryRepo) MarkPaid(ctx context.Context, ids []string, paidBy *string, paidAt time.Time) (int64, error) {
	if f.markErr != nil {
		return 0, f.markErr
	}
	f.markedIDs = append(f.markedIDs, ids...)
	f.markedBy = paidBy
	return int64(len(ids)), nil
}

func (f *fakeWorkerSalaryRepo) MarkPaidForWorker(ctx context.Context, workerID string, dates payroll.DateRange, paidBy *string, paidAt time.Time) (int64, error) {
	if f.markErr != nil {
		return 0, f.markErr
	}
	f.markedRange = dates
	f.markedBy = paidBy
	var n int64
	for _, r := range f.rows {
		if r.WorkerID == workerID && !r.Paid && inRange(r.Date, dates) {
			n++
		}
	}
	return n, nil
}

func (f *fakeWorkerSalaryRepo) UpdateByKey(ctx context.Context, key payroll.WorkKey, update payroll.WorkUpdate) (int64, error) {
	f.updatedKeys = append(f.updatedKeys, key)
	f.updates = append(f.updates, update)
	return f.updateRows, f.updateErr
}

func (f *fakeWorkerSalaryRepo) DeleteByKey(ctx context.Context, key payroll.WorkKey) (int64, error) {
	f.deletedKeys = append(f.deletedKeys, key)
	return f.deleteRows, f.deleteErr
}

type fakeProductionRepo struct {
	rows    []payroll.ProductionOperation
	listErr error

	created []payroll.ProductionOperation
	updated []payroll.ProductionOperation
	deleted []string

	updatedKeys []payroll.WorkKey
	updateRows  int64
	updateErr   error
	deletedKeys []payroll.WorkKey
	deleteRows  int64
	deleteErr   error
}

func (f *fakeProductionRepo) List(ctx context.Context, filter payroll.ProductionOperationFilter) ([]payroll.ProductionOperation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []payroll.ProductionOperation
	for _, r := range f.rows {
		if filter.WorkerID != nil && (r.WorkerID == nil || *r.WorkerID != *filter.WorkerID) {
			continue
		}
		if r.Date != nil && !inRange(*r.Date, filter.DateRange) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeProductionRepo) GetByID(ctx context.Context, id string) (payroll.ProductionOperation, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return payroll.ProductionOperation{}, payroll.ErrProductionOperationNotFound
}

func (f *fakeProductionRepo) Create(ctx context.Context, op payroll.ProductionOperation) (payroll.ProductionOperation, error) {
	op.ID = prodOpID
	f.created = append(f.created, op)
	return op, nil
}

func (f *fakeProductionRepo) Update(ctx context.Context, op payroll.ProductionOperation) error {
	f.updated = append(f.updated, op)
	return nil
}

func (f *fakeProductionRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProductionRepo) UpdateByKey(ctx context.Context, key payroll.WorkKey, update payroll.WorkUpdate) (int64, error) {
	f.updatedKeys = append(f.updatedKeys, key)
	return f.updateRows, f.updateErr
}

func (f *fakeProductionRepo) DeleteByKey(ctx context.Context, key payroll.WorkKey) (int64, error) {
	f.deletedKeys = append(f.deletedKeys, key)
	return f.deleteRows, f.deleteErr
}

type fakeWorkerAdvanceRepo struct {
	rows    []payroll.WorkerAdvance
	listErr error
	created []payroll.WorkerAdvance
}

func (f *fakeWorkerAdvanceRepo) List(ctx context.Context, workerID *string) ([]payroll.WorkerAdvance, error) {
	return f.rows, f.listErr
}

func (f *fakeWorkerAdvanceRepo) Create(ctx context.Context, advance payroll.WorkerAdvance) (payroll.WorkerAdvance, error) {
	advance.ID = "advance-1"
	f.created = append(f.created, advance)
	return advance, nil
}

type fakeLookupRepo struct {
	workers    []payroll.Worker
	products   []payroll.Product
	operations []payroll.Operation
	err        error
	opCalls    int
}

func (f *fakeLookupRepo) ListWorkers(ctx context.Context) ([]payroll.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.workers, nil
}

func (f *fakeLookupRepo) ListProducts(ctx context.Context) ([]payroll.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeLookupRepo) ListOperations(ctx context.Context) ([]payroll.Operation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.operations, nil
}

func (f *fakeLookupRepo) GetOperation(ctx context.Context, id string) (payroll.Operation, error) {
	f.opCalls++
	for _, op := range f.operations {
		if op.ID == id {
			return op, nil
		}
	}
	return payroll.Operation{}, payroll.ErrOperationNotFound
}

func inRange(t time.Time, r payroll.DateRange) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// ========== EMPLOYEE SIDE ==========

type fakeEmployeeSalaryRepo struct {
	rows      map[string]payroll.EmployeeSalary
	seq       int
	listErr   error
	getErr    error
	createErr error
	markErr   error
	marked    []string
}

func newFakeEmployeeSalaryRepo(rows ...payroll.EmployeeSalary) *fakeEmployeeSalaryRepo {
	f := &fakeEmployeeSalaryRepo{rows: make(map[string]payroll.EmployeeSalary)}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeEmployeeSalaryRepo) List(ctx context.Context) ([]payroll.EmployeeSalary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]payroll.EmployeeSalary, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeEmployeeSalaryRepo) GetByID(ctx context.Context, id string) (payroll.EmployeeSalary, error) {
	r, ok := f.rows[id]
	if !ok {
		return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryNotFound
	}
	return r, nil
}

func (f *fakeEmployeeSalaryRepo) GetByEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (payroll.EmployeeSalary, error) {
	if f.getErr != nil {
		return payroll.EmployeeSalary{}, f.getErr
	}
	var legacy payroll.EmployeeSalary
	found := false
	for _, r := range f.rows {
		if r.EmployeeID != employeeID {
			continue
		}
		if r.SalaryMonth == salaryMonth {
			return r, nil
		}
		if !found && strings.HasPrefix(r.SalaryMonth, salaryMonth+"-") {
			legacy, found = r, true
		}
	}
	if found {
		return legacy, nil
	}
	return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryNotFound
}

func (f *fakeEmployeeSalaryRepo) GetByEmployeeMonthForUpdate(ctx context.Context, employeeID, salaryMonth string) (payroll.EmployeeSalary, error) {
	return f.GetByEmployeeMonth(ctx, employeeID, salaryMonth)
}

func (f *fakeEmployeeSalaryRepo) Create(ctx context.Context, salary payroll.EmployeeSalary) (payroll.EmployeeSalary, error) {
	if f.createErr != nil {
		return payroll.EmployeeSalary{}, f.createErr
	}
	for _, r := range f.rows {
		if r.EmployeeID == salary.EmployeeID && r.SalaryMonth == salary.SalaryMonth {
			return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryExists
		}
	}
	f.seq++
	salary.ID = fmt.Sprintf("employee-salary-%d", f.seq)
	salary.CreatedAt = fixedNow()
	f.rows[salary.ID] = salary
	return salary, nil
}

func (f *fakeEmployeeSalaryRepo) Update(ctx context.Context, salary payroll.EmployeeSalary) (payroll.EmployeeSalary, error) {
	if _, ok := f.rows[salary.ID]; !ok {
		return payroll.EmployeeSalary{}, payroll.ErrEmployeeSalaryNotFound
	}
	f.rows[salary.ID] = salary
	return salary, nil
}

func (f *fakeEmployeeSalaryRepo) UpdateGross(ctx context.Context, id string, gross, net decimal.Decimal) (int64, error) {
	r, ok := f.rows[id]
	if !ok || r.Paid {
		return 0, nil
	}
	r.GrossSalary, r.NetSalary = gross, net
	f.rows[id] = r
	return 1, nil
}

func (f *fakeEmployeeSalaryRepo) MarkPaid(ctx context.Context, ids []string, paidBy *string, paidAt time.Time) (int64, error) {
	if f.markErr != nil {
		return 0, f.markErr
	}
	var n int64
	for _, id := range ids {
		r, ok := f.rows[id]
		if !ok || r.Paid {
			continue
		}
		r.Paid, r.PaidDate, r.PaidBy = true, &paidAt, paidBy
		f.rows[id] = r
		f.marked = append(f.marked, id)
		n++
	}
	return n, nil
}

func (f *fakeEmployeeSalaryRepo) ListPaidEmployeeIDs(ctx context.Context, salaryMonth string) ([]string, error) {
	var ids []string
	for _, r := range f.rows {
		if r.SalaryMonth == salaryMonth && r.Paid {
			ids = append(ids, r.EmployeeID)
		}
	}
	return ids, nil
}

type fakeEmployeeAdvanceRepo struct {
	rows    []payroll.EmployeeAdvance
	listErr error
}

func (f *fakeEmployeeAdvanceRepo) List(ctx context.Context) ([]payroll.EmployeeAdvance, error) {
	return f.rows, f.listErr
}

func (f *fakeEmployeeAdvanceRepo) Create(ctx context.Context, advance payroll.EmployeeAdvance) (payroll.EmployeeAdvance, error) {
	advance.ID = fmt.Sprintf("employee-advance-%d", len(f.rows)+1)
	f.rows = append(f.rows, advance)
	return advance, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
	listErr   error
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, f.listErr
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

// fakeAttendanceService returns canned summaries per employee id.
type fakeAttendanceService struct {
	summaries map[string]attendance.MonthlySummary
	failFor   map[string]bool
}

func (f *fakeAttendanceService) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	return attendance.MarkAttendanceResponse{}, nil
}

func (f *fakeAttendanceService) GetAttendanceByDate(ctx context.Context, req attendance.AttendanceByDateRequest) ([]attendance.AttendanceResponse, error) {
	return nil, nil
}

func (f *fakeAttendanceService) GetMonthlySummary(ctx context.Context, req attendance.MonthlySummaryRequest) (attendance.MonthlySummary, error) {
	if f.failFor[req.EmployeeID] {
		return attendance.MonthlySummary{}, fmt.Errorf("%w: connection reset", attendance.ErrSummaryUnavailable)
	}
	return f.summaries[req.EmployeeID], nil
}

// inlineTransactor runs fn directly; the fakes hold no transactional state.
type inlineTransactor struct {
	calls int
}

func (t *inlineTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
