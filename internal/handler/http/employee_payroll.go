package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeePayrollHandler interface {
	ListSalaries(w http.ResponseWriter, r *http.Request)
	CreateSalary(w http.ResponseWriter, r *http.Request)
	UpdateSalary(w http.ResponseWriter, r *http.Request)
	GenerateSalaries(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	PaidEmployeeIDs(w http.ResponseWriter, r *http.Request)
	AddAdvance(w http.ResponseWriter, r *http.Request)
}

type employeePayrollHandlerImpl struct {
	payrollService payroll.EmployeePayrollService
}

func NewEmployeePayrollHandler(payrollService payroll.EmployeePayrollService) EmployeePayrollHandler {
	return &employeePayrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ListSalaries implements EmployeePayrollHandler.
func (h *employeePayrollHandlerImpl) ListSalaries(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetEmployeeSalaries(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateSalary implements EmployeePayrollHandler.
func (h *employeePayrollHandlerImpl) CreateSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateEmployeeSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateEmployeeSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee salary created successfully", result)
}

// UpdateSalary implements EmployeePayrollHandler.
func (h *employeePayrollHandlerImpl) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateEmployeeSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpdateEmployeeSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee salary updated successfully", result)
}

// GenerateSalaries implements EmployeePayrollHandler. An empty body targets the current month.
func (h *employeePayrollHandlerImpl) GenerateSalaries(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateSalariesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateEmployeeSalaries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := fmt.Sprintf("Generated salaries for %s: %d created, %d updated, %d skipped, %d failed",
		result.SalaryMonth, result.Created, result.Updated, result.Skipped, result.Failed)
	response.SuccessWithMessage(w, message, result)
}

// MarkPaid implements EmployeePayrollHandler.
func (h *employeePayrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkEmployeeSalariesPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.MarkEmployeeSalariesPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee salaries marked as paid", result)
}

// PaidEmployeeIDs implements EmployeePayrollHandler.
func (h *employeePayrollHandlerImpl) PaidEmployeeIDs(w http.ResponseWriter, r *http.Request) {
	month, year, err := queryMonthYear(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ids, err := h.payrollService.GetPaidEmployeeIDsForMonth(r.Context(), payroll.MonthRequest{Month: month, Year: year})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ids)
}

// AddAdvance implements EmployeePayrollHandler.
func (h *employeePayrollHandlerImpl) AddAdvance(w http.ResponseWriter, r *http.Request) {
	var req payroll.AddAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.PersonID = chi.URLParam(r, "employeeId")

	result, err := h.payrollService.AddEmployeeAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee advance recorded successfully", result)
}
