package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/actor"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository) attendance.AttendanceService {
	return &AttendanceServiceImpl{attendanceRepo: attendanceRepo}
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}
	if req.MarkedBy == nil {
		req.MarkedBy = actor.FromContext(ctx).UserID
	}

	// A single upsert statement cannot touch the same conflict key twice; the last row per key wins.
	rows := req.ToEntities()
	byKey := make(map[string]int, len(rows))
	deduped := make([]attendance.Attendance, 0, len(rows))
	for _, row := range rows {
		key := string(row.PersonType) + "|" + row.PersonID + "|" + utils.DateKey(row.Date)
		if i, ok := byKey[key]; ok {
			deduped[i] = row
			continue
		}
		byKey[key] = len(deduped)
		deduped = append(deduped, row)
	}

	saved, err := s.attendanceRepo.Upsert(ctx, deduped)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	return attendance.MarkAttendanceResponse{Saved: saved}, nil
}

// GetAttendanceByDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendanceByDate(ctx context.Context, req attendance.AttendanceByDateRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, _ := time.Parse(utils.DateLayout, req.Date)

	rows, err := s.attendanceRepo.ListByDate(ctx, attendance.PersonTypeEmployee, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
	}

	resp := make([]attendance.AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, attendance.NewAttendanceResponse(row))
	}
	return resp, nil
}

// GetMonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, req attendance.MonthlySummaryRequest) (attendance.MonthlySummary, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlySummary{}, err
	}

	from, to := utils.MonthBounds(req.Year, req.Month)
	rows, err := s.attendanceRepo.ListByPersonAndRange(ctx, attendance.PersonTypeEmployee, req.EmployeeID, from, to)
	if err != nil {
		slog.Warn("Failed to load attendance for monthly summary",
			"employee_id", req.EmployeeID, "month", req.Month, "year", req.Year, "error", err)
		return attendance.MonthlySummary{}, fmt.Errorf("%w: %v", attendance.ErrSummaryUnavailable, err)
	}

	return Summarize(rows, utils.DaysInMonth(req.Year, req.Month)), nil
}

// Summarize counts exact status matches over rows. Unknown statuses count nowhere.
func Summarize(rows []attendance.Attendance, totalDays int) attendance.MonthlySummary {
	summary := attendance.MonthlySummary{TotalDays: totalDays}
	for _, row := range rows {
		switch row.Status {
		case attendance.StatusPresent:
			summary.Present++
		case attendance.StatusAbsent:
			summary.Absent++
		case attendance.StatusLeave:
			summary.Leave++
		}
	}
	summary.RecordedDays = summary.Present + summary.Absent + summary.Leave
	if totalDays > 0 {
		summary.Percentage = float64(summary.Present) / float64(totalDays)
	}
	return summary
}
