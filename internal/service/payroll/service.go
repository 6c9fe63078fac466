package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/domain/employee"
	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/actor"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type EmployeePayrollServiceImpl struct {
	salaryRepo        payroll.EmployeeSalaryRepository
	advanceRepo       payroll.EmployeeAdvanceRepository
	employeeRepo      employee.EmployeeRepository
	attendanceService attendance.AttendanceService
	transactor        payroll.Transactor
	now               func() time.Time
}

func NewEmployeePayrollService(
	salaryRepo payroll.EmployeeSalaryRepository,
	advanceRepo payroll.EmployeeAdvanceRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	transactor payroll.Transactor,
) payroll.EmployeePayrollService {
	return &EmployeePayrollServiceImpl{
		salaryRepo:        salaryRepo,
		advanceRepo:       advanceRepo,
		employeeRepo:      employeeRepo,
		attendanceService: attendanceService,
		transactor:        transactor,
		now:               time.Now,
	}
}

// ========== READS ==========

// GetEmployeeSalaries implements payroll.EmployeePayrollService.
func (s *EmployeePayrollServiceImpl) GetEmployeeSalaries(ctx context.Context) ([]payroll.EmployeeSalaryResponse, error) {
	var (
		salaries []payroll.EmployeeSalary
		advances []payroll.EmployeeAdvance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		salaries, err = s.salaryRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch employee salaries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		advances, err = s.advanceRepo.List(gctx)
		if err != nil {
			slog.Warn("Failed to fetch employee advances, net salaries use stored advances only", "error", err)
			advances = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := EmployeeSalaryViews(salaries, advances)
	responses := make([]payroll.EmployeeSalaryResponse, 0, len(views))
	for _, v := range views {
		responses = append(responses, payroll.NewEmployeeSalaryResponse(v))
	}
	return responses, nil
}

// view builds the read model of one row. Advance ledger failures degrade to the stored advance.
func (s *EmployeePayrollServiceImpl) view(ctx context.Context, salary payroll.EmployeeSalary) payroll.EmployeeSalaryResponse {
	advances, err := s.advanceRepo.List(ctx)
	if err != nil {
		slog.Warn("Failed to fetch employee advances", "salary_id", salary.ID, "error", err)
		advances = nil
	}
	return payroll.NewEmployeeSalaryResponse(EmployeeSalaryViews([]payroll.EmployeeSalary{salary}, advances)[0])
}

// GetPaidEmployeeIDsForMonth implements payroll.EmployeePayrollService.
func (s *EmployeePayrollServiceImpl) GetPaidEmployeeIDsForMonth(ctx context.Context, req payroll.MonthRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.salaryRepo.ListPaidEmployeeIDs(ctx, utils.MonthKey(req.Year, req.Month))
}

// ========== WRITES ==========

// CreateEmployeeSalary implements payroll.EmployeePayrollService.
func (s *EmployeePayrollServiceImpl) CreateEmployeeSalary(ctx context.Context, req payroll.CreateEmployeeSalaryRequest) (payroll.EmployeeSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EmployeeSalaryResponse{}, err
	}

	salary := req.ToEntity()
	if salary.EmployeeName == nil {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return payroll.EmployeeSalaryResponse{}, payroll.ErrEmployeeNotFound
			}
			return payroll.EmployeeSalaryResponse{}, err
		}
		salary.EmployeeName = &emp.Name
	}

	created, err := s.salaryRepo.Create(ctx, salary)
	if err != nil {
		return payroll.EmployeeSalaryResponse{}, err
	}

	return s.view(ctx, created), nil
}

// UpdateEmployeeSalary implements payroll.EmployeePayrollService.
// Money fields of a paid row are frozen.
func (s *EmployeePayrollServiceImpl) UpdateEmployeeSalary(ctx context.Context, req payroll.UpdateEmployeeSalaryRequest) (payroll.EmployeeSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EmployeeSalaryResponse{}, err
	}

	var updated payroll.EmployeeSalary
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.salaryRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if existing.Paid && (req.ChangesMoney() || req.SalaryMonth != nil) {
			return payroll.ErrEmployeeSalaryAlreadyPaid
		}

		next := req.Apply(existing)
		if req.NetSalary == nil && (req.GrossSalary != nil || req.Advance != nil) {
			next.NetSalary = next.GrossSalary.Sub(next.Advance)
		}

		updated, err = s.salaryRepo.Update(ctx, next)
		return err
	})
	if err != nil {
		return payroll.EmployeeSalaryResponse{}, err
	}

	return s.view(ctx, updated), nil
}

// MarkEmployeeSalariesPaid implements payroll.EmployeePayrollService.
func (s *EmployeePayrollServiceImpl) MarkEmployeeSalariesPaid(ctx context.Context, req payroll.MarkEmployeeSalariesPaidRequest) (payroll.MarkPaidResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.MarkPaidResult{}, err
	}
	if req.PaidBy == nil {
		req.PaidBy = actor.FromContext(ctx).UserID
	}

	updated, err := s.salaryRepo.MarkPaid(ctx, req.IDs, req.PaidBy, s.now())
	if err != nil {
		return payroll.MarkPaidResult{}, err
	}
	return payroll.MarkPaidResult{Updated: updated}, nil
}

// AddEmployeeAdvance implements payroll.EmployeePayrollService.
// Once the advance is stored the call succeeds; making sure the month has a
// salary row to show it against is best-effort.
func (s *EmployeePayrollServiceImpl) AddEmployeeAdvance(ctx context.Context, req payroll.AddAdvanceRequest) (payroll.EmployeeAdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EmployeeAdvanceResponse{}, err
	}

	created, err := s.advanceRepo.Create(ctx, payroll.EmployeeAdvance{
		EmployeeID: req.PersonID,
		Amount:     req.Amount,
		Date:       req.DateOrToday(s.now()),
		Note:       req.Note,
	})
	if err != nil {
		return payroll.EmployeeAdvanceResponse{}, err
	}

	resp := payroll.EmployeeAdvanceResponse{
		ID:         created.ID,
		EmployeeID: created.EmployeeID,
		Amount:     created.Amount,
		Date:       utils.DateKey(created.Date),
		Note:       created.Note,
	}
	if salaryID, ok := s.ensureSalaryRow(ctx, created.EmployeeID, created.Date); ok {
		resp.SalaryID = &salaryID
	}
	return resp, nil
}

// ensureSalaryRow returns the id of the employee's salary row for the month of date,
// creating a base-salary-only unpaid row when none exists.
func (s *EmployeePayrollServiceImpl) ensureSalaryRow(ctx context.Context, employeeID string, date time.Time) (string, bool) {
	month := utils.MonthKey(date.Year(), int(date.Month()))

	existing, err := s.salaryRepo.GetByEmployeeMonth(ctx, employeeID, month)
	if err == nil {
		return existing.ID, true
	}
	if !errors.Is(err, payroll.ErrEmployeeSalaryNotFound) {
		slog.Warn("Failed to check salary row for advance", "employee_id", employeeID, "salary_month", month, "error", err)
		return "", false
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		slog.Warn("Failed to load employee for advance salary row", "employee_id", employeeID, "error", err)
		return "", false
	}

	created, err := s.salaryRepo.Create(ctx, payroll.EmployeeSalary{
		EmployeeID:   employeeID,
		EmployeeName: &emp.Name,
		SalaryMonth:  month,
		GrossSalary:  emp.BaseSalary,
		Advance:      decimal.Zero,
		NetSalary:    emp.BaseSalary,
	})
	if err != nil {
		slog.Warn("Failed to create salary row for advance", "employee_id", employeeID, "salary_month", month, "error", err)
		return "", false
	}
	return created.ID, true
}

// ========== GENERATION ==========

// GenerateEmployeeSalaries implements payroll.EmployeePayrollService.
// Running it twice for the same month yields the same rows.
func (s *EmployeePayrollServiceImpl) GenerateEmployeeSalaries(ctx context.Context, req payroll.GenerateSalariesRequest) (payroll.GenerateSalariesResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateSalariesResponse{}, err
	}

	now := s.now()
	year, month := req.Resolve(now)

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.GenerateSalariesResponse{}, fmt.Errorf("failed to get active employees: %w", err)
	}

	resp := payroll.GenerateSalariesResponse{
		SalaryMonth: utils.MonthKey(year, month),
		Results:     make([]payroll.EmployeeGenerationResult, 0, len(employees)),
	}
	expected := expectedRecordedDays(year, month, now)

	for _, emp := range employees {
		res := s.generateForEmployee(ctx, emp, year, month, expected)
		if res.Outcome == payroll.OutcomeFailed {
			slog.Warn("Salary generation failed for employee", "employee_id", emp.ID, "salary_month", resp.SalaryMonth, "error", res.Error)
		}
		resp.Add(res)
	}

	slog.Info("Employee salaries generated",
		"salary_month", resp.SalaryMonth,
		"created", resp.Created,
		"updated", resp.Updated,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
	)

	return resp, nil
}

func (s *EmployeePayrollServiceImpl) generateForEmployee(ctx context.Context, emp employee.Employee, year, month, expected int) payroll.EmployeeGenerationResult {
	res := payroll.EmployeeGenerationResult{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
	}

	summary, err := s.attendanceService.GetMonthlySummary(ctx, attendance.MonthlySummaryRequest{
		EmployeeID: emp.ID,
		Month:      month,
		Year:       year,
	})
	if err != nil {
		res.Outcome = payroll.OutcomeFailed
		res.Error = err.Error()
		return res
	}

	summaryResp := attendance.NewMonthlySummaryResponse(summary)
	res.Summary = &summaryResp
	res.AttendanceIncomplete = summary.RecordedDays < expected

	gross, _ := GrossSalary(emp.BaseSalary, summary.Absent, summary.TotalDays)
	res.GrossSalary = gross
	salaryMonth := utils.MonthKey(year, month)

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.salaryRepo.GetByEmployeeMonthForUpdate(ctx, emp.ID, salaryMonth)
		switch {
		case err == nil:
			if existing.Paid {
				res.Outcome = payroll.OutcomeSkipped
				res.SalaryID = existing.ID
				res.GrossSalary = existing.GrossSalary
				res.NetSalary = existing.NetSalary
				return nil
			}
			net := gross.Sub(existing.Advance)
			rows, err := s.salaryRepo.UpdateGross(ctx, existing.ID, gross, net)
			if err != nil {
				return err
			}
			if rows == 0 {
				res.Outcome = payroll.OutcomeSkipped
			} else {
				res.Outcome = payroll.OutcomeUpdated
			}
			res.SalaryID = existing.ID
			res.NetSalary = net
			return nil

		case errors.Is(err, payroll.ErrEmployeeSalaryNotFound):
			name := emp.Name
			created, err := s.salaryRepo.Create(ctx, payroll.EmployeeSalary{
				EmployeeID:   emp.ID,
				EmployeeName: &name,
				SalaryMonth:  salaryMonth,
				GrossSalary:  gross,
				Advance:      decimal.Zero,
				NetSalary:    gross,
			})
			if err != nil {
				return err
			}
			res.Outcome = payroll.OutcomeCreated
			res.SalaryID = created.ID
			res.NetSalary = created.NetSalary
			return nil

		default:
			return err
		}
	})
	if err != nil {
		res.Outcome = payroll.OutcomeFailed
		res.Error = err.Error()
	}

	return res
}

// expectedRecordedDays is how many attendance rows a complete month has by now.
// The running month counts up to today; future months expect none.
func expectedRecordedDays(year, month int, now time.Time) int {
	current := now.Year()*12 + int(now.Month())
	target := year*12 + month
	switch {
	case target > current:
		return 0
	case target == current:
		return now.Day()
	default:
		return utils.DaysInMonth(year, month)
	}
}
