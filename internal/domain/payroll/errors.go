package payroll

import "errors"

var (
	ErrProductionOperationNotFound = errors.New("production operation not found")
	ErrOperationNotFound           = errors.New("operation not found")
	ErrEmployeeSalaryNotFound      = errors.New("employee salary not found")
	ErrEmployeeSalaryExists        = errors.New("a salary for this employee and month already exists")
	ErrEmployeeSalaryAlreadyPaid   = errors.New("employee salary already paid, cannot modify")
	ErrEmployeeNotFound            = errors.New("employee not found")
	ErrNoPaymentTarget             = errors.New("no target provided for payment")
)
