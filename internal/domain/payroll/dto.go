package payroll

import (
	"fmt"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMMON ==========

type MonthRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthRequest) Validate() error {
	if errs := validator.MonthYear(nil, r.Month, r.Year); len(errs) > 0 {
		return errs
	}
	return nil
}

// parseOptionalDate returns today when s is nil or empty.
func parseOptionalDate(s *string, now time.Time) time.Time {
	if s == nil || *s == "" {
		return utils.DateOnly(now)
	}
	d, _ := time.Parse(utils.DateLayout, *s)
	return d
}

func validateOptionalDate(errs validator.ValidationErrors, field string, s *string) validator.ValidationErrors {
	if s == nil || *s == "" {
		return errs
	}
	if _, ok := validator.IsValidDate(*s); !ok {
		errs = append(errs, validator.ValidationError{Field: field, Message: "must be in YYYY-MM-DD format"})
	}
	return errs
}

func validateOptionalUUID(errs validator.ValidationErrors, field string, s *string) validator.ValidationErrors {
	if s != nil && !validator.IsValidUUID(*s) {
		errs = append(errs, validator.ValidationError{Field: field, Message: "must be a valid UUID"})
	}
	return errs
}

// ========== WORKER LEDGER DTOs ==========

type WorkerOperationsRequest struct {
	WorkerID string
	Month    *int
	Year     *int
}

func (r *WorkerOperationsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "must be a valid UUID"})
	}
	if (r.Month == nil) != (r.Year == nil) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month and year must be given together"})
	} else if r.Month != nil {
		errs = validator.MonthYear(errs, *r.Month, *r.Year)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LedgerEntryResponse struct {
	ID             string          `json:"id"`
	Source         string          `json:"source"`
	WorkerID       string          `json:"worker_id"`
	WorkerName     string          `json:"worker_name"`
	ProductID      *string         `json:"product_id,omitempty"`
	ProductName    string          `json:"product_name"`
	OperationID    *string         `json:"operation_id,omitempty"`
	OperationName  string          `json:"operation_name"`
	PiecesDone     int             `json:"pieces_done"`
	AmountPerPiece decimal.Decimal `json:"amount_per_piece"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Date           string          `json:"date,omitempty"`
	Paid           bool            `json:"paid"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	PaidBy         *string         `json:"paid_by,omitempty"`
	EnteredBy      *string         `json:"entered_by,omitempty"`
	CreatedBy      *string         `json:"created_by,omitempty"`
	ProductionID   *string         `json:"production_id,omitempty"`
	Note           *string         `json:"note,omitempty"`
}

func NewLedgerEntryResponse(e LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:             e.ID,
		Source:         string(e.Source),
		WorkerID:       e.WorkerID,
		WorkerName:     e.WorkerName,
		ProductID:      e.ProductID,
		ProductName:    e.ProductName,
		OperationID:    e.OperationID,
		OperationName:  e.OperationName,
		PiecesDone:     e.PiecesDone,
		AmountPerPiece: e.AmountPerPiece,
		TotalAmount:    e.TotalAmount,
		Paid:           e.Paid,
	}
	if !e.Date.IsZero() {
		resp.Date = utils.DateKey(e.Date)
	}
	switch {
	case e.Salary != nil:
		resp.PaidDate = e.Salary.PaidDate
		resp.PaidBy = e.Salary.PaidBy
		resp.EnteredBy = e.Salary.EnteredBy
		resp.CreatedBy = e.Salary.CreatedBy
	case e.Production != nil:
		resp.ProductionID = e.Production.ProductionID
		resp.EnteredBy = e.Production.EnteredBy
	case e.Advance != nil:
		resp.Note = e.Advance.Note
	}
	return resp
}

func NewLedgerEntryResponses(entries []LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewLedgerEntryResponse(e))
	}
	return out
}

type WorkerMonthlySummaryResponse struct {
	WorkerID     string                `json:"worker_id"`
	WorkerName   string                `json:"worker_name"`
	TotalPieces  int                   `json:"total_pieces"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	TotalAdvance decimal.Decimal       `json:"total_advance"`
	Paid         bool                  `json:"paid"`
	Operations   []LedgerEntryResponse `json:"operations"`
}

func NewWorkerMonthlySummaryResponses(summaries []WorkerMonthlySummary) []WorkerMonthlySummaryResponse {
	out := make([]WorkerMonthlySummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, WorkerMonthlySummaryResponse{
			WorkerID:     s.WorkerID,
			WorkerName:   s.WorkerName,
			TotalPieces:  s.TotalPieces,
			TotalAmount:  s.TotalAmount,
			TotalAdvance: s.TotalAdvance,
			Paid:         s.Paid,
			Operations:   NewLedgerEntryResponses(s.Entries),
		})
	}
	return out
}

// ========== WORKER SALARY DTOs ==========

type AddWorkerSalaryRequest struct {
	WorkerID       string           `json:"worker_id"`
	ProductID      *string          `json:"product_id,omitempty"`
	OperationID    *string          `json:"operation_id,omitempty"`
	PiecesDone     int              `json:"pieces_done"`
	AmountPerPiece decimal.Decimal  `json:"amount_per_piece"`
	TotalAmount    *decimal.Decimal `json:"total_amount,omitempty"`
	Date           *string          `json:"date,omitempty"`
	EnteredBy      *string          `json:"-"`
}

func (r *AddWorkerSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "must be a valid UUID"})
	}
	errs = validateOptionalUUID(errs, "product_id", r.ProductID)
	errs = validateOptionalUUID(errs, "operation_id", r.OperationID)
	if r.PiecesDone < 0 {
		errs = append(errs, validator.ValidationError{Field: "pieces_done", Message: "must be non-negative"})
	}
	if r.AmountPerPiece.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount_per_piece", Message: "must be non-negative"})
	}
	errs = validateOptionalDate(errs, "date", r.Date)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds an unpaid salary row. The total defaults to pieces x rate.
func (r *AddWorkerSalaryRequest) ToEntity(now time.Time) WorkerSalary {
	total := r.AmountPerPiece.Mul(decimal.NewFromInt(int64(r.PiecesDone)))
	if r.TotalAmount != nil {
		total = *r.TotalAmount
	}
	return WorkerSalary{
		WorkerID:       r.WorkerID,
		ProductID:      r.ProductID,
		OperationID:    r.OperationID,
		PiecesDone:     r.PiecesDone,
		AmountPerPiece: r.AmountPerPiece,
		TotalAmount:    total,
		Date:           parseOptionalDate(r.Date, now),
		EnteredBy:      r.EnteredBy,
	}
}

type WorkerSalaryResponse struct {
	ID             string          `json:"id"`
	WorkerID       string          `json:"worker_id"`
	ProductID      *string         `json:"product_id,omitempty"`
	OperationID    *string         `json:"operation_id,omitempty"`
	PiecesDone     int             `json:"pieces_done"`
	AmountPerPiece decimal.Decimal `json:"amount_per_piece"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Date           string          `json:"date"`
	Paid           bool            `json:"paid"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	EnteredBy      *string         `json:"entered_by,omitempty"`
	CreatedBy      *string         `json:"created_by,omitempty"`
}

func NewWorkerSalaryResponse(s WorkerSalary) WorkerSalaryResponse {
	return WorkerSalaryResponse{
		ID:             s.ID,
		WorkerID:       s.WorkerID,
		ProductID:      s.ProductID,
		OperationID:    s.OperationID,
		PiecesDone:     s.PiecesDone,
		AmountPerPiece: s.AmountPerPiece,
		TotalAmount:    s.TotalAmount,
		Date:           utils.DateKey(s.Date),
		Paid:           s.Paid,
		PaidDate:       s.PaidDate,
		EnteredBy:      s.EnteredBy,
		CreatedBy:      s.CreatedBy,
	}
}

// ========== PAYMENT DTOs ==========

// PaymentItem is a ledger line selected for payment. A missing source is treated as salary.
type PaymentItem struct {
	ID          string  `json:"id"`
	Source      *string `json:"source,omitempty"`
	WorkerID    string  `json:"worker_id"`
	ProductID   *string `json:"product_id,omitempty"`
	OperationID *string `json:"operation_id,omitempty"`
	PiecesDone  int     `json:"pieces_done"`
	Date        string  `json:"date"`
}

func (i PaymentItem) SourceOrDefault() LedgerSource {
	if i.Source == nil || *i.Source == "" {
		return SourceSalary
	}
	return LedgerSource(*i.Source)
}

type ProcessPaymentsRequest struct {
	Items  []PaymentItem `json:"items"`
	PaidBy *string       `json:"-"`
}

func (r *ProcessPaymentsRequest) Validate() error {
	if len(r.Items) == 0 {
		return validator.ValidationErrors{{Field: "items", Message: "at least one item is required"}}
	}
	return nil
}

type PaymentItemError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type PaymentResult struct {
	Updated int64              `json:"updated"`
	Created int                `json:"created"`
	Skipped int                `json:"skipped"`
	Errors  []PaymentItemError `json:"errors"`
}

type MarkWorkerSalariesPaidRequest struct {
	IDs      []string `json:"ids,omitempty"`
	WorkerID *string  `json:"worker_id,omitempty"`
	Month    *int     `json:"month,omitempty"`
	Year     *int     `json:"year,omitempty"`
	PaidBy   *string  `json:"-"`
}

// Validate requires either an id list or a worker with a month and year.
func (r *MarkWorkerSalariesPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.IDs) > 0 {
		for i, id := range r.IDs {
			if !validator.IsValidUUID(id) {
				errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("ids[%d]", i), Message: "must be a valid UUID"})
			}
		}
	} else if r.WorkerID != nil && r.Month != nil && r.Year != nil {
		errs = validateOptionalUUID(errs, "worker_id", r.WorkerID)
		errs = validator.MonthYear(errs, *r.Month, *r.Year)
	} else {
		return ErrNoPaymentTarget
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidResult struct {
	Updated int64 `json:"updated"`
}

// ========== WORK KEY DTOs ==========

type UpdateWorkerSalaryByOpsRequest struct {
	WorkerID    string           `json:"-"`
	OperationID string           `json:"-"`
	Date        string           `json:"date"`
	PiecesDone  *int             `json:"pieces_done,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
}

func (r *UpdateWorkerSalaryByOpsRequest) Validate() error {
	errs := validateWorkKey(nil, r.WorkerID, r.OperationID, r.Date)

	if r.PiecesDone == nil && r.TotalAmount == nil {
		errs = append(errs, validator.ValidationError{Field: "pieces_done", Message: "pieces_done or total_amount is required"})
	}
	if r.PiecesDone != nil && *r.PiecesDone < 0 {
		errs = append(errs, validator.ValidationError{Field: "pieces_done", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateWorkerSalaryByOpsRequest) Key() WorkKey {
	return newWorkKey(r.WorkerID, r.OperationID, r.Date)
}

func (r *UpdateWorkerSalaryByOpsRequest) Update() WorkUpdate {
	return WorkUpdate{PiecesDone: r.PiecesDone, TotalAmount: r.TotalAmount}
}

type DeleteWorkerSalaryRequest struct {
	WorkerID    string
	OperationID string
	Date        string
}

func (r *DeleteWorkerSalaryRequest) Validate() error {
	if errs := validateWorkKey(nil, r.WorkerID, r.OperationID, r.Date); len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *DeleteWorkerSalaryRequest) Key() WorkKey {
	return newWorkKey(r.WorkerID, r.OperationID, r.Date)
}

func validateWorkKey(errs validator.ValidationErrors, workerID, operationID, date string) validator.ValidationErrors {
	if !validator.IsValidUUID(workerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidUUID(operationID) {
		errs = append(errs, validator.ValidationError{Field: "operation_id", Message: "must be a valid UUID"})
	}
	if _, ok := validator.IsValidDate(date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	return errs
}

func newWorkKey(workerID, operationID, date string) WorkKey {
	d, _ := time.Parse(utils.DateLayout, date)
	return WorkKey{WorkerID: workerID, OperationID: operationID, Date: d}
}

// SyncResult reports both sides of a salary/production dual write. Failures on
// the mirrored side are logged and surface only as MirrorSynced = false.
type SyncResult struct {
	SalaryRows     int64 `json:"salary_rows"`
	ProductionRows int64 `json:"production_rows"`
	MirrorSynced   bool  `json:"mirror_synced"`
}

// ========== ADVANCE DTOs ==========

type AddAdvanceRequest struct {
	PersonID string          `json:"-"`
	Amount   decimal.Decimal `json:"amount"`
	Date     *string         `json:"date,omitempty"`
	Note     *string         `json:"note,omitempty"`
}

func (r *AddAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.PersonID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	errs = validateOptionalDate(errs, "date", r.Date)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *AddAdvanceRequest) DateOrToday(now time.Time) time.Time {
	return parseOptionalDate(r.Date, now)
}

type EmployeeAdvanceResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Note       *string         `json:"note,omitempty"`
	SalaryID   *string         `json:"salary_id,omitempty"`
}

// ========== PRODUCTION OPERATION DTOs ==========

type RecordProductionOperationRequest struct {
	ProductionID *string `json:"production_id,omitempty"`
	OperationID  string  `json:"operation_id"`
	WorkerID     string  `json:"worker_id"`
	WorkerName   *string `json:"worker_name,omitempty"`
	PiecesDone   int     `json:"pieces_done"`
	Date         *string `json:"date,omitempty"`
	EnteredBy    *string `json:"-"`
}

func (r *RecordProductionOperationRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateOptionalUUID(errs, "production_id", r.ProductionID)
	if !validator.IsValidUUID(r.OperationID) {
		errs = append(errs, validator.ValidationError{Field: "operation_id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidUUID(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "must be a valid UUID"})
	}
	if r.PiecesDone < 0 {
		errs = append(errs, validator.ValidationError{Field: "pieces_done", Message: "must be non-negative"})
	}
	errs = validateOptionalDate(errs, "date", r.Date)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *RecordProductionOperationRequest) DateOrToday(now time.Time) time.Time {
	return parseOptionalDate(r.Date, now)
}

type EditProductionOperationRequest struct {
	ID         string  `json:"-"`
	WorkerID   string  `json:"worker_id"`
	WorkerName *string `json:"worker_name,omitempty"`
	PiecesDone int     `json:"pieces_done"`
	EnteredBy  *string `json:"-"`
}

func (r *EditProductionOperationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidUUID(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "must be a valid UUID"})
	}
	if r.PiecesDone < 0 {
		errs = append(errs, validator.ValidationError{Field: "pieces_done", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProductionOperationResponse struct {
	ID            string          `json:"id"`
	ProductionID  *string         `json:"production_id,omitempty"`
	OperationID   *string         `json:"operation_id,omitempty"`
	OperationName *string         `json:"operation_name,omitempty"`
	WorkerID      *string         `json:"worker_id,omitempty"`
	WorkerName    *string         `json:"worker_name,omitempty"`
	PiecesDone    int             `json:"pieces_done"`
	Earnings      decimal.Decimal `json:"earnings"`
	Date          string          `json:"date,omitempty"`
	EnteredBy     *string         `json:"entered_by,omitempty"`
	SalarySynced  bool            `json:"salary_synced"`
}

func NewProductionOperationResponse(op ProductionOperation, salarySynced bool) ProductionOperationResponse {
	resp := ProductionOperationResponse{
		ID:            op.ID,
		ProductionID:  op.ProductionID,
		OperationID:   op.OperationID,
		OperationName: op.OperationName,
		WorkerID:      op.WorkerID,
		WorkerName:    op.WorkerName,
		PiecesDone:    op.PiecesDone,
		Earnings:      op.Earnings,
		EnteredBy:     op.EnteredBy,
		SalarySynced:  salarySynced,
	}
	if op.Date != nil {
		resp.Date = utils.DateKey(*op.Date)
	}
	return resp
}

// ========== EMPLOYEE SALARY DTOs ==========

type CreateEmployeeSalaryRequest struct {
	EmployeeID   string           `json:"employee_id"`
	SalaryMonth  string           `json:"salary_month"`
	GrossSalary  *decimal.Decimal `json:"gross_salary,omitempty"`
	Advance      *decimal.Decimal `json:"advance,omitempty"`
	NetSalary    *decimal.Decimal `json:"net_salary,omitempty"`
	EmployeeName *string          `json:"employee_name,omitempty"`
}

func (r *CreateEmployeeSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if _, ok := NormalizeSalaryMonth(r.SalaryMonth); !ok {
		errs = append(errs, validator.ValidationError{Field: "salary_month", Message: "must be in YYYY-MM or YYYY-MM-DD format"})
	}
	errs = validateMoney(errs, "gross_salary", r.GrossSalary)
	errs = validateMoney(errs, "advance", r.Advance)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds an unpaid row. A missing net defaults to gross minus advance.
func (r *CreateEmployeeSalaryRequest) ToEntity() EmployeeSalary {
	month, _ := NormalizeSalaryMonth(r.SalaryMonth)
	gross, advance := valueOrZero(r.GrossSalary), valueOrZero(r.Advance)
	net := gross.Sub(advance)
	if r.NetSalary != nil {
		net = *r.NetSalary
	}
	return EmployeeSalary{
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		SalaryMonth:  month,
		GrossSalary:  gross,
		Advance:      advance,
		NetSalary:    net,
	}
}

type UpdateEmployeeSalaryRequest struct {
	ID           string           `json:"-"`
	SalaryMonth  *string          `json:"salary_month,omitempty"`
	GrossSalary  *decimal.Decimal `json:"gross_salary,omitempty"`
	Advance      *decimal.Decimal `json:"advance,omitempty"`
	NetSalary    *decimal.Decimal `json:"net_salary,omitempty"`
	EmployeeName *string          `json:"employee_name,omitempty"`
}

func (r *UpdateEmployeeSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.SalaryMonth != nil {
		if _, ok := NormalizeSalaryMonth(*r.SalaryMonth); !ok {
			errs = append(errs, validator.ValidationError{Field: "salary_month", Message: "must be in YYYY-MM or YYYY-MM-DD format"})
		}
	}
	errs = validateMoney(errs, "gross_salary", r.GrossSalary)
	errs = validateMoney(errs, "advance", r.Advance)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ChangesMoney reports whether the update touches gross, advance or net.
func (r *UpdateEmployeeSalaryRequest) ChangesMoney() bool {
	return r.GrossSalary != nil || r.Advance != nil || r.NetSalary != nil
}

// Apply merges the non-nil fields onto s.
func (r *UpdateEmployeeSalaryRequest) Apply(s EmployeeSalary) EmployeeSalary {
	if r.SalaryMonth != nil {
		s.SalaryMonth, _ = NormalizeSalaryMonth(*r.SalaryMonth)
	}
	if r.GrossSalary != nil {
		s.GrossSalary = *r.GrossSalary
	}
	if r.Advance != nil {
		s.Advance = *r.Advance
	}
	if r.NetSalary != nil {
		s.NetSalary = *r.NetSalary
	}
	if r.EmployeeName != nil {
		s.EmployeeName = r.EmployeeName
	}
	return s
}

func validateMoney(errs validator.ValidationErrors, field string, d *decimal.Decimal) validator.ValidationErrors {
	if d != nil && d.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
	}
	return errs
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

type MarkEmployeeSalariesPaidRequest struct {
	IDs    []string `json:"ids"`
	PaidBy *string  `json:"-"`
}

func (r *MarkEmployeeSalariesPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.IDs) == 0 {
		return ErrNoPaymentTarget
	}
	for i, id := range r.IDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("ids[%d]", i), Message: "must be a valid UUID"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeSalaryResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	SalaryMonth   string          `json:"salary_month"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	GrossSalary   decimal.Decimal `json:"gross_salary"`
	StoredAdvance decimal.Decimal `json:"stored_advance"`
	LedgerAdvance decimal.Decimal `json:"ledger_advance"`
	TotalAdvance  decimal.Decimal `json:"total_advance"`
	NetSalary     decimal.Decimal `json:"net_salary"`
	Paid          bool            `json:"paid"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	PaidBy        *string         `json:"paid_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewEmployeeSalaryResponse(v EmployeeSalaryView) EmployeeSalaryResponse {
	return EmployeeSalaryResponse{
		ID:            v.ID,
		EmployeeID:    v.EmployeeID,
		EmployeeName:  v.EmployeeName,
		SalaryMonth:   v.SalaryMonth,
		Month:         v.Month,
		Year:          v.Year,
		GrossSalary:   v.GrossSalary,
		StoredAdvance: v.Advance,
		LedgerAdvance: v.LedgerAdvance,
		TotalAdvance:  v.TotalAdvance,
		NetSalary:     v.NetSalary,
		Paid:          v.Paid,
		PaidDate:      v.PaidDate,
		PaidBy:        v.PaidBy,
		CreatedAt:     v.CreatedAt,
	}
}

// ========== GENERATION DTOs ==========

// GenerateSalariesRequest targets one month; nil fields default to the current month.
type GenerateSalariesRequest struct {
	Month *int `json:"month,omitempty"`
	Year  *int `json:"year,omitempty"`
}

func (r *GenerateSalariesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month != nil && !validator.IsValidMonth(*r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year != nil && !validator.IsValidYear(*r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four digit year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Resolve fills missing fields from now.
func (r *GenerateSalariesRequest) Resolve(now time.Time) (year, month int) {
	year, month = now.Year(), int(now.Month())
	if r.Year != nil {
		year = *r.Year
	}
	if r.Month != nil {
		month = *r.Month
	}
	return year, month
}

type GenerationOutcome string

const (
	OutcomeCreated GenerationOutcome = "created"
	OutcomeUpdated GenerationOutcome = "updated"
	OutcomeSkipped GenerationOutcome = "skipped"
	OutcomeFailed  GenerationOutcome = "failed"
)

type EmployeeGenerationResult struct {
	EmployeeID           string                             `json:"employee_id"`
	EmployeeName         string                             `json:"employee_name"`
	Outcome              GenerationOutcome                  `json:"outcome"`
	SalaryID             string                             `json:"salary_id,omitempty"`
	GrossSalary          decimal.Decimal                    `json:"gross_salary"`
	NetSalary            decimal.Decimal                    `json:"net_salary"`
	Summary              *attendance.MonthlySummaryResponse `json:"summary,omitempty"`
	AttendanceIncomplete bool                               `json:"attendance_incomplete"`
	Error                string                             `json:"error,omitempty"`
}

type GenerateSalariesResponse struct {
	SalaryMonth string                     `json:"salary_month"`
	Created     int                        `json:"created"`
	Updated     int                        `json:"updated"`
	Skipped     int                        `json:"skipped"`
	Failed      int                        `json:"failed"`
	Results     []EmployeeGenerationResult `json:"results"`
}

// Add records one employee's result and bumps the matching counter.
func (r *GenerateSalariesResponse) Add(res EmployeeGenerationResult) {
	switch res.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	r.Results = append(r.Results, res)
}
