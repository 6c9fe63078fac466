package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/handler/http/response"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type WorkerPayrollHandler interface {
	ListSalaries(w http.ResponseWriter, r *http.Request)
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	ExportMonthlySummary(w http.ResponseWriter, r *http.Request)
	AddSalary(w http.ResponseWriter, r *http.Request)
	ProcessPayments(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	UpdateSalaryByOps(w http.ResponseWriter, r *http.Request)
	DeleteSalary(w http.ResponseWriter, r *http.Request)
	ListOperations(w http.ResponseWriter, r *http.Request)
	AddAdvance(w http.ResponseWriter, r *http.Request)
	RecordProduction(w http.ResponseWriter, r *http.Request)
	EditProduction(w http.ResponseWriter, r *http.Request)
	DeleteProduction(w http.ResponseWriter, r *http.Request)
}

type workerPayrollHandlerImpl struct {
	payrollService payroll.WorkerPayrollService
}

func NewWorkerPayrollHandler(payrollService payroll.WorkerPayrollService) WorkerPayrollHandler {
	return &workerPayrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ListSalaries implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) ListSalaries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.payrollService.GetWorkerSalaries(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewLedgerEntryResponses(entries))
}

// MonthlySummary implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := queryMonthYear(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summaries, err := h.payrollService.GetWorkerMonthlySummary(r.Context(), payroll.MonthRequest{Month: month, Year: year})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewWorkerMonthlySummaryResponses(summaries))
}

// ExportMonthlySummary implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) ExportMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := queryMonthYear(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	buf, err := h.payrollService.ExportWorkerMonthlySummary(r.Context(), payroll.MonthRequest{Month: month, Year: year})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(year, month)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// AddSalary implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) AddSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.AddWorkerSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.AddWorkerSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Worker salary added successfully", result)
}

// ProcessPayments implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) ProcessPayments(w http.ResponseWriter, r *http.Request) {
	var req payroll.ProcessPaymentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ProcessWorkerPayments(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Payments processed successfully"
	if len(result.Errors) > 0 {
		message = fmt.Sprintf("Payments processed with %d failed item(s)", len(result.Errors))
	}
	response.SuccessWithMessage(w, message, result)
}

// MarkPaid implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkWorkerSalariesPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.MarkWorkerSalariesPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Worker salaries marked as paid", result)
}

// UpdateSalaryByOps implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) UpdateSalaryByOps(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateWorkerSalaryByOpsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkerID = chi.URLParam(r, "workerId")
	req.OperationID = chi.URLParam(r, "operationId")

	result, err := h.payrollService.UpdateWorkerSalaryByOps(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Worker salary updated successfully", result)
}

// DeleteSalary implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) DeleteSalary(w http.ResponseWriter, r *http.Request) {
	req := payroll.DeleteWorkerSalaryRequest{
		WorkerID:    chi.URLParam(r, "workerId"),
		OperationID: chi.URLParam(r, "operationId"),
		Date:        r.URL.Query().Get("date"),
	}

	result, err := h.payrollService.DeleteWorkerSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Worker salary deleted successfully", result)
}

// ListOperations implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) ListOperations(w http.ResponseWriter, r *http.Request) {
	req := payroll.WorkerOperationsRequest{WorkerID: chi.URLParam(r, "workerId")}

	var err error
	if req.Month, err = queryInt(r, "month"); err != nil {
		response.HandleError(w, err)
		return
	}
	if req.Year, err = queryInt(r, "year"); err != nil {
		response.HandleError(w, err)
		return
	}

	entries, err := h.payrollService.GetWorkerOperations(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewLedgerEntryResponses(entries))
}

// AddAdvance implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) AddAdvance(w http.ResponseWriter, r *http.Request) {
	var req payroll.AddAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.PersonID = chi.URLParam(r, "workerId")

	result, err := h.payrollService.AddWorkerAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Worker advance recorded successfully", result)
}

// RecordProduction implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) RecordProduction(w http.ResponseWriter, r *http.Request) {
	var req payroll.RecordProductionOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RecordProductionOperation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Production operation recorded successfully", result)
}

// EditProduction implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) EditProduction(w http.ResponseWriter, r *http.Request) {
	var req payroll.EditProductionOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.EditProductionOperation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Production operation updated successfully", result)
}

// DeleteProduction implements WorkerPayrollHandler.
func (h *workerPayrollHandlerImpl) DeleteProduction(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.DeleteProductionOperation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Production operation deleted successfully", result)
}
