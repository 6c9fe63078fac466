package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// MarkAttendance bulk upserts attendance rows
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (MarkAttendanceResponse, error)

	// GetAttendanceByDate lists employee attendance for one day
	GetAttendanceByDate(ctx context.Context, req AttendanceByDateRequest) ([]AttendanceResponse, error)

	// GetMonthlySummary counts statuses for one employee over one month.
	// Returns ErrSummaryUnavailable when attendance cannot be read.
	GetMonthlySummary(ctx context.Context, req MonthlySummaryRequest) (MonthlySummary, error)
}
