package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/actor"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/export"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	paymentEnteredBy = "System (Payment)"
	paymentCreatedBy = "Auto-Payment"
)

type WorkerPayrollServiceImpl struct {
	salaryRepo     payroll.WorkerSalaryRepository
	productionRepo payroll.ProductionOperationRepository
	advanceRepo    payroll.WorkerAdvanceRepository
	lookupRepo     payroll.LookupRepository
	now            func() time.Time
}

func NewWorkerPayrollService(
	salaryRepo payroll.WorkerSalaryRepository,
	productionRepo payroll.ProductionOperationRepository,
	advanceRepo payroll.WorkerAdvanceRepository,
	lookupRepo payroll.LookupRepository,
) payroll.WorkerPayrollService {
	return &WorkerPayrollServiceImpl{
		salaryRepo:     salaryRepo,
		productionRepo: productionRepo,
		advanceRepo:    advanceRepo,
		lookupRepo:     lookupRepo,
		now:            time.Now,
	}
}

// loadLookups reads master data. Each table degrades to empty on failure.
func (s *WorkerPayrollServiceImpl) loadLookups(ctx context.Context) payroll.Lookups {
	workers, err := s.lookupRepo.ListWorkers(ctx)
	if err != nil {
		slog.Warn("Failed to load workers lookup", "error", err)
	}
	products, err := s.lookupRepo.ListProducts(ctx)
	if err != nil {
		slog.Warn("Failed to load products lookup", "error", err)
	}
	operations, err := s.lookupRepo.ListOperations(ctx)
	if err != nil {
		slog.Warn("Failed to load operations lookup", "error", err)
	}
	return payroll.NewLookups(workers, products, operations)
}

// unifiedFeed fans out the four reads of a reconciliation. Salaries are the
// primary source; productions, advances and lookups degrade to empty.
func (s *WorkerPayrollServiceImpl) unifiedFeed(ctx context.Context, dates payroll.DateRange) ([]payroll.LedgerEntry, error) {
	var in ReconcileInput

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		salaries, err := s.salaryRepo.List(gctx, payroll.WorkerSalaryFilter{DateRange: dates})
		if err != nil {
			return fmt.Errorf("failed to fetch worker salaries: %w", err)
		}
		in.Salaries = salaries
		return nil
	})

	g.Go(func() error {
		productions, err := s.productionRepo.List(gctx, payroll.ProductionOperationFilter{DateRange: dates})
		if err != nil {
			slog.Warn("Failed to fetch production operations, continuing without them", "error", err)
			return nil
		}
		in.Productions = productions
		return nil
	})

	g.Go(func() error {
		advances, err := s.advanceRepo.List(gctx, nil)
		if err != nil {
			slog.Warn("Failed to fetch worker advances, continuing without them", "error", err)
			return nil
		}
		in.Advances = advances
		return nil
	})

	g.Go(func() error {
		in.Lookups = s.loadLookups(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Reconcile(in), nil
}

// GetWorkerSalaries implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) GetWorkerSalaries(ctx context.Context) ([]payroll.LedgerEntry, error) {
	return s.unifiedFeed(ctx, payroll.DateRange{})
}

// GetWorkerOperations implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) GetWorkerOperations(ctx context.Context, req payroll.WorkerOperationsRequest) ([]payroll.LedgerEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var dates payroll.DateRange
	if req.Month != nil {
		from, to := utils.MonthBounds(*req.Year, *req.Month)
		dates = payroll.DateRange{From: &from, To: &to}
	}

	var in ReconcileInput
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		productions, err := s.productionRepo.List(gctx, payroll.ProductionOperationFilter{WorkerID: &req.WorkerID, DateRange: dates})
		if err != nil {
			return fmt.Errorf("failed to fetch production operations: %w", err)
		}
		in.Productions = productions
		return nil
	})

	g.Go(func() error {
		salaries, err := s.salaryRepo.List(gctx, payroll.WorkerSalaryFilter{WorkerID: &req.WorkerID, DateRange: dates})
		if err != nil {
			return fmt.Errorf("failed to fetch worker salaries: %w", err)
		}
		in.Salaries = salaries
		return nil
	})

	g.Go(func() error {
		in.Lookups = s.loadLookups(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Reconcile(in), nil
}

// GetWorkerMonthlySummary implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) GetWorkerMonthlySummary(ctx context.Context, req payroll.MonthRequest) ([]payroll.WorkerMonthlySummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The dedup key includes the date, so reconciling only the month is equivalent to filtering afterwards.
	from, to := utils.MonthBounds(req.Year, req.Month)
	entries, err := s.unifiedFeed(ctx, payroll.DateRange{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	return SummarizeMonth(entries, req.Year, req.Month), nil
}

// ExportWorkerMonthlySummary implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) ExportWorkerMonthlySummary(ctx context.Context, req payroll.MonthRequest) (*bytes.Buffer, error) {
	summaries, err := s.GetWorkerMonthlySummary(ctx, req)
	if err != nil {
		return nil, err
	}

	buf, err := export.WorkerMonthlySummary(summaries, req.Year, req.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to export worker summary: %w", err)
	}
	return buf, nil
}

// AddWorkerSalary implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) AddWorkerSalary(ctx context.Context, req payroll.AddWorkerSalaryRequest) (payroll.WorkerSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.WorkerSalaryResponse{}, err
	}
	if req.EnteredBy == nil {
		req.EnteredBy = actor.FromContext(ctx).Name
	}

	created, err := s.salaryRepo.Create(ctx, req.ToEntity(s.now()))
	if err != nil {
		return payroll.WorkerSalaryResponse{}, err
	}

	return payroll.NewWorkerSalaryResponse(created), nil
}

// ProcessWorkerPayments implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) ProcessWorkerPayments(ctx context.Context, req payroll.ProcessPaymentsRequest) (payroll.PaymentResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentResult{}, err
	}
	if req.PaidBy == nil {
		req.PaidBy = actor.FromContext(ctx).UserID
	}

	now := s.now()
	result := payroll.PaymentResult{Errors: []payroll.PaymentItemError{}}

	var salaryIDs []string
	var productionItems []payroll.PaymentItem
	for _, item := range req.Items {
		switch item.SourceOrDefault() {
		case payroll.SourceSalary:
			if !validator.IsValidUUID(item.ID) {
				result.Errors = append(result.Errors, payroll.PaymentItemError{ID: item.ID, Message: "salary id is not a valid UUID"})
				continue
			}
			salaryIDs = append(salaryIDs, item.ID)
		case payroll.SourceProduction:
			productionItems = append(productionItems, item)
		default:
			// Advances are settled at payout, there is nothing to mark.
			result.Skipped++
		}
	}

	if len(salaryIDs) > 0 {
		updated, err := s.salaryRepo.MarkPaid(ctx, salaryIDs, req.PaidBy, now)
		if err != nil {
			slog.Error("Failed to mark worker salaries paid", "count", len(salaryIDs), "error", err)
			for _, id := range salaryIDs {
				result.Errors = append(result.Errors, payroll.PaymentItemError{ID: id, Message: "failed to mark salary paid"})
			}
		} else {
			result.Updated = updated
		}
	}

	rates := make(map[string]payroll.Operation)
	for _, item := range productionItems {
		salary, err := s.convertProduction(ctx, item, rates, req.PaidBy, now)
		if err != nil {
			slog.Warn("Failed to convert production operation to salary", "id", item.ID, "error", err)
			result.Errors = append(result.Errors, payroll.PaymentItemError{ID: item.ID, Message: err.Error()})
			continue
		}
		if _, err := s.salaryRepo.Create(ctx, salary); err != nil {
			slog.Error("Failed to create salary for production payment", "id", item.ID, "error", err)
			result.Errors = append(result.Errors, payroll.PaymentItemError{ID: item.ID, Message: "failed to pay operation"})
			continue
		}
		result.Created++
	}

	return result, nil
}

// convertProduction builds the paid salary line for a production item. The
// rate always comes from the operation master; no row is built without one.
func (s *WorkerPayrollServiceImpl) convertProduction(ctx context.Context, item payroll.PaymentItem, rates map[string]payroll.Operation, paidBy *string, now time.Time) (payroll.WorkerSalary, error) {
	if !validator.IsValidUUID(item.WorkerID) {
		return payroll.WorkerSalary{}, errors.New("worker id is not a valid UUID")
	}
	if item.OperationID == nil || !validator.IsValidUUID(*item.OperationID) {
		return payroll.WorkerSalary{}, errors.New("operation id is not a valid UUID")
	}
	date, ok := validator.IsValidDate(item.Date)
	if !ok {
		return payroll.WorkerSalary{}, errors.New("date must be in YYYY-MM-DD format")
	}
	if item.PiecesDone < 0 {
		return payroll.WorkerSalary{}, errors.New("pieces done must be non-negative")
	}

	op, ok := rates[*item.OperationID]
	if !ok {
		var err error
		op, err = s.lookupRepo.GetOperation(ctx, *item.OperationID)
		if err != nil {
			return payroll.WorkerSalary{}, fmt.Errorf("rate lookup failed for operation %s", *item.OperationID)
		}
		rates[op.ID] = op
	}

	paidAt := now
	enteredBy, createdBy := paymentEnteredBy, paymentCreatedBy
	return payroll.WorkerSalary{
		WorkerID:       item.WorkerID,
		ProductID:      item.ProductID,
		OperationID:    item.OperationID,
		PiecesDone:     item.PiecesDone,
		AmountPerPiece: op.AmountPerPiece,
		TotalAmount:    op.AmountPerPiece.Mul(decimal.NewFromInt(int64(item.PiecesDone))),
		Date:           date,
		Paid:           true,
		PaidDate:       &paidAt,
		PaidBy:         paidBy,
		EnteredBy:      &enteredBy,
		CreatedBy:      &createdBy,
	}, nil
}

// MarkWorkerSalariesPaid implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) MarkWorkerSalariesPaid(ctx context.Context, req payroll.MarkWorkerSalariesPaidRequest) (payroll.MarkPaidResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.MarkPaidResult{}, err
	}
	if req.PaidBy == nil {
		req.PaidBy = actor.FromContext(ctx).UserID
	}
	now := s.now()

	if len(req.IDs) > 0 {
		updated, err := s.salaryRepo.MarkPaid(ctx, req.IDs, req.PaidBy, now)
		if err != nil {
			return payroll.MarkPaidResult{}, err
		}
		return payroll.MarkPaidResult{Updated: updated}, nil
	}

	from, to := utils.MonthBounds(*req.Year, *req.Month)
	updated, err := s.salaryRepo.MarkPaidForWorker(ctx, *req.WorkerID, payroll.DateRange{From: &from, To: &to}, req.PaidBy, now)
	if err != nil {
		return payroll.MarkPaidResult{}, err
	}
	return payroll.MarkPaidResult{Updated: updated}, nil
}

// UpdateWorkerSalaryByOps implements payroll.WorkerPayrollService.
// The salary side is authoritative; the production mirror is best-effort.
func (s *WorkerPayrollServiceImpl) UpdateWorkerSalaryByOps(ctx context.Context, req payroll.UpdateWorkerSalaryByOpsRequest) (payroll.SyncResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.SyncResult{}, err
	}
	key, update := req.Key(), req.Update()

	salaryRows, err := s.salaryRepo.UpdateByKey(ctx, key, update)
	if err != nil {
		return payroll.SyncResult{}, err
	}

	result := payroll.SyncResult{SalaryRows: salaryRows, MirrorSynced: true}
	productionRows, err := s.productionRepo.UpdateByKey(ctx, key, update)
	if err != nil {
		slog.Warn("Failed to sync salary update to production operations",
			"worker_id", key.WorkerID, "operation_id", key.OperationID, "date", utils.DateKey(key.Date), "error", err)
		result.MirrorSynced = false
		return result, nil
	}
	result.ProductionRows = productionRows

	return result, nil
}

// DeleteWorkerSalary implements payroll.WorkerPayrollService.
// Every salary row on the key is removed, then the production mirror best-effort.
func (s *WorkerPayrollServiceImpl) DeleteWorkerSalary(ctx context.Context, req payroll.DeleteWorkerSalaryRequest) (payroll.SyncResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.SyncResult{}, err
	}
	key := req.Key()

	salaryRows, err := s.salaryRepo.DeleteByKey(ctx, key)
	if err != nil {
		return payroll.SyncResult{}, err
	}

	result := payroll.SyncResult{SalaryRows: salaryRows, MirrorSynced: true}
	productionRows, err := s.productionRepo.DeleteByKey(ctx, key)
	if err != nil {
		slog.Warn("Failed to sync salary delete to production operations",
			"worker_id", key.WorkerID, "operation_id", key.OperationID, "date", utils.DateKey(key.Date), "error", err)
		result.MirrorSynced = false
		return result, nil
	}
	result.ProductionRows = productionRows

	return result, nil
}

// AddWorkerAdvance implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) AddWorkerAdvance(ctx context.Context, req payroll.AddAdvanceRequest) (payroll.LedgerEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.LedgerEntryResponse{}, err
	}

	created, err := s.advanceRepo.Create(ctx, payroll.WorkerAdvance{
		WorkerID: req.PersonID,
		Amount:   req.Amount,
		Date:     req.DateOrToday(s.now()),
		Note:     req.Note,
	})
	if err != nil {
		return payroll.LedgerEntryResponse{}, err
	}

	return payroll.NewLedgerEntryResponse(advanceEntry(created, s.loadLookups(ctx))), nil
}

// RecordProductionOperation implements payroll.WorkerPayrollService.
// The unpaid salary mirror is best-effort.
func (s *WorkerPayrollServiceImpl) RecordProductionOperation(ctx context.Context, req payroll.RecordProductionOperationRequest) (payroll.ProductionOperationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProductionOperationResponse{}, err
	}
	if req.EnteredBy == nil {
		req.EnteredBy = actor.FromContext(ctx).Name
	}

	op, err := s.lookupRepo.GetOperation(ctx, req.OperationID)
	if err != nil {
		return payroll.ProductionOperationResponse{}, err
	}

	pieces := decimal.NewFromInt(int64(req.PiecesDone))
	date := req.DateOrToday(s.now())
	created, err := s.productionRepo.Create(ctx, payroll.ProductionOperation{
		ProductionID: req.ProductionID,
		OperationID:  &req.OperationID,
		WorkerID:     &req.WorkerID,
		WorkerName:   req.WorkerName,
		PiecesDone:   req.PiecesDone,
		Earnings:     op.AmountPerPiece.Mul(pieces),
		Date:         &date,
		EnteredBy:    req.EnteredBy,
	})
	if err != nil {
		return payroll.ProductionOperationResponse{}, err
	}

	synced := true
	if _, err := s.salaryRepo.Create(ctx, mirrorSalary(created, req.WorkerID, op.AmountPerPiece, date)); err != nil {
		slog.Warn("Failed to mirror production operation into worker salaries", "id", created.ID, "error", err)
		synced = false
	}

	return payroll.NewProductionOperationResponse(created, synced), nil
}

// EditProductionOperation implements payroll.WorkerPayrollService.
//
// Reassigning A to B removes A's salary rows on the old key and opens a
// fresh unpaid line for B dated today. Otherwise the salary line on the
// unchanged key is corrected in place, or created when missing.
func (s *WorkerPayrollServiceImpl) EditProductionOperation(ctx context.Context, req payroll.EditProductionOperationRequest) (payroll.ProductionOperationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProductionOperationResponse{}, err
	}
	if req.EnteredBy == nil {
		req.EnteredBy = actor.FromContext(ctx).Name
	}

	existing, err := s.productionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.ProductionOperationResponse{}, err
	}

	// No rate means no money row: fail before either side is written.
	rate, err := s.rateFor(ctx, existing)
	if err != nil {
		return payroll.ProductionOperationResponse{}, err
	}
	updated := existing
	updated.WorkerID = &req.WorkerID
	updated.WorkerName = req.WorkerName
	updated.PiecesDone = req.PiecesDone
	updated.Earnings = rate.Mul(decimal.NewFromInt(int64(req.PiecesDone)))
	updated.EnteredBy = req.EnteredBy

	if err := s.productionRepo.Update(ctx, updated); err != nil {
		return payroll.ProductionOperationResponse{}, err
	}

	synced := s.syncEditedProduction(ctx, existing, updated, rate)
	return payroll.NewProductionOperationResponse(updated, synced), nil
}

func (s *WorkerPayrollServiceImpl) rateFor(ctx context.Context, op payroll.ProductionOperation) (decimal.Decimal, error) {
	if op.AmountPerPiece.Valid {
		return op.AmountPerPiece.Decimal, nil
	}
	if op.OperationID == nil {
		return decimal.Zero, payroll.ErrOperationNotFound
	}
	master, err := s.lookupRepo.GetOperation(ctx, *op.OperationID)
	if err != nil {
		slog.Warn("Failed to look up operation rate", "operation_id", *op.OperationID, "error", err)
		return decimal.Zero, fmt.Errorf("look up rate for operation %s: %w", *op.OperationID, err)
	}
	return master.AmountPerPiece, nil
}

// syncEditedProduction applies the salary side of a production edit and reports whether it succeeded.
func (s *WorkerPayrollServiceImpl) syncEditedProduction(ctx context.Context, before, after payroll.ProductionOperation, rate decimal.Decimal) bool {
	if after.OperationID == nil {
		return false
	}
	today := utils.DateOnly(s.now())
	newWorker := *after.WorkerID

	if before.WorkerID == nil || *before.WorkerID != newWorker {
		if before.WorkerID != nil && before.Date != nil {
			oldKey := payroll.WorkKey{WorkerID: *before.WorkerID, OperationID: *before.OperationID, Date: *before.Date}
			if _, err := s.salaryRepo.DeleteByKey(ctx, oldKey); err != nil {
				slog.Warn("Failed to remove salary of previous worker", "production_operation_id", before.ID, "error", err)
				return false
			}
		}
		if after.PiecesDone > 0 {
			if _, err := s.salaryRepo.Create(ctx, mirrorSalary(after, newWorker, rate, today)); err != nil {
				slog.Warn("Failed to create salary for reassigned worker", "production_operation_id", after.ID, "error", err)
				return false
			}
		}
		return true
	}

	date := today
	if after.Date != nil {
		date = *after.Date
	}
	pieces := after.PiecesDone
	total := after.Earnings
	key := payroll.WorkKey{WorkerID: newWorker, OperationID: *after.OperationID, Date: date}
	rows, err := s.salaryRepo.UpdateByKey(ctx, key, payroll.WorkUpdate{PiecesDone: &pieces, AmountPerPiece: &rate, TotalAmount: &total})
	if err != nil {
		slog.Warn("Failed to sync production edit to worker salary", "production_operation_id", after.ID, "error", err)
		return false
	}
	if rows == 0 {
		if _, err := s.salaryRepo.Create(ctx, mirrorSalary(after, newWorker, rate, date)); err != nil {
			slog.Warn("Failed to create salary for edited production operation", "production_operation_id", after.ID, "error", err)
			return false
		}
	}
	return true
}

// DeleteProductionOperation implements payroll.WorkerPayrollService.
func (s *WorkerPayrollServiceImpl) DeleteProductionOperation(ctx context.Context, id string) (payroll.SyncResult, error) {
	if !validator.IsValidUUID(id) {
		return payroll.SyncResult{}, validator.ValidationErrors{{Field: "id", Message: "must be a valid UUID"}}
	}

	existing, err := s.productionRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SyncResult{}, err
	}
	if err := s.productionRepo.Delete(ctx, id); err != nil {
		return payroll.SyncResult{}, err
	}

	result := payroll.SyncResult{ProductionRows: 1}
	if existing.WorkerID == nil || existing.OperationID == nil || existing.Date == nil {
		return result, nil
	}

	key := payroll.WorkKey{WorkerID: *existing.WorkerID, OperationID: *existing.OperationID, Date: *existing.Date}
	salaryRows, err := s.salaryRepo.DeleteByKey(ctx, key)
	if err != nil {
		slog.Warn("Failed to sync production delete to worker salaries", "production_operation_id", id, "error", err)
		return result, nil
	}
	result.SalaryRows = salaryRows
	result.MirrorSynced = true

	return result, nil
}

// mirrorSalary is the unpaid salary line shadowing a production row.
func mirrorSalary(op payroll.ProductionOperation, workerID string, rate decimal.Decimal, date time.Time) payroll.WorkerSalary {
	return payroll.WorkerSalary{
		WorkerID:       workerID,
		ProductID:      op.ProductID,
		OperationID:    op.OperationID,
		PiecesDone:     op.PiecesDone,
		AmountPerPiece: rate,
		TotalAmount:    rate.Mul(decimal.NewFromInt(int64(op.PiecesDone))),
		Date:           date,
		EnteredBy:      op.EnteredBy,
	}
}
