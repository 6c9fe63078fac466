package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
)

const SalaryGenerationJobName = "employee-salary-generation"

// SalaryGenerationJob regenerates the running month's employee salaries.
// Paid rows are left alone by the generator, so the job is safe to rerun.
func SalaryGenerationJob(svc payroll.EmployeePayrollService) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp, err := svc.GenerateEmployeeSalaries(ctx, payroll.GenerateSalariesRequest{})
		if err != nil {
			return fmt.Errorf("failed to generate employee salaries: %w", err)
		}
		if resp.Failed > 0 {
			slog.Warn("Scheduled salary generation finished with failures",
				"salary_month", resp.SalaryMonth,
				"failed", resp.Failed,
			)
		}
		return nil
	}
}
