package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/domain/employee"
	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
)

var (
	ErrInvalidToken           = errors.New("invalid or missing access token")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEmployeeSalaryExists):
		Conflict(w, "A salary for this employee and month already exists.")
	case errors.Is(err, payroll.ErrEmployeeSalaryAlreadyPaid):
		Conflict(w, "Employee salary already paid, cannot modify")
	case errors.Is(err, payroll.ErrProductionOperationNotFound):
		NotFound(w, "Production operation not found")
	case errors.Is(err, payroll.ErrOperationNotFound):
		NotFound(w, "Operation not found")
	case errors.Is(err, payroll.ErrEmployeeSalaryNotFound):
		NotFound(w, "Employee salary not found")
	case errors.Is(err, payroll.ErrEmployeeNotFound), errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrNoPaymentTarget):
		BadRequest(w, "Provide ids, or worker_id with month and year", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrSummaryUnavailable):
		ServiceUnavailable(w, "Attendance summary is temporarily unavailable")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
