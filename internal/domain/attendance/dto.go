package attendance

import (
	"fmt"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkAttendanceItem struct {
	PersonType string  `json:"person_type"`
	PersonID   string  `json:"person_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Shift      *string `json:"shift,omitempty"`
}

type MarkAttendanceRequest struct {
	Records  []MarkAttendanceItem `json:"records"`
	MarkedBy *string              `json:"-"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Records) == 0 {
		errs = append(errs, validator.ValidationError{Field: "records", Message: "at least one record is required"})
	}

	statuses := []string{string(StatusPresent), string(StatusAbsent), string(StatusLeave)}
	personTypes := []string{string(PersonTypeEmployee), string(PersonTypeWorker)}

	for i, rec := range r.Records {
		prefix := fmt.Sprintf("records[%d]", i)
		if !validator.IsInSlice(rec.PersonType, personTypes) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".person_type", Message: "must be 'employee' or 'worker'"})
		}
		if !validator.IsValidUUID(rec.PersonID) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".person_id", Message: "must be a valid UUID"})
		}
		if _, ok := validator.IsValidDate(rec.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: prefix + ".date", Message: "must be in YYYY-MM-DD format"})
		}
		if !validator.IsInSlice(rec.Status, statuses) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".status", Message: "must be 'present', 'absent' or 'leave'"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntities converts validated items into rows. Call Validate first.
func (r *MarkAttendanceRequest) ToEntities() []Attendance {
	rows := make([]Attendance, 0, len(r.Records))
	for _, rec := range r.Records {
		date, _ := time.Parse(utils.DateLayout, rec.Date)
		rows = append(rows, Attendance{
			PersonType: PersonType(rec.PersonType),
			PersonID:   rec.PersonID,
			Date:       date,
			Status:     Status(rec.Status),
			Shift:      rec.Shift,
			MarkedBy:   r.MarkedBy,
		})
	}
	return rows
}

type MarkAttendanceResponse struct {
	Saved int64 `json:"saved"`
}

type AttendanceByDateRequest struct {
	Date string `json:"date"`
}

func (r *AttendanceByDateRequest) Validate() error {
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "must be in YYYY-MM-DD format"}}
	}
	return nil
}

type AttendanceResponse struct {
	ID         string  `json:"id"`
	PersonType string  `json:"person_type"`
	PersonID   string  `json:"person_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Shift      *string `json:"shift,omitempty"`
	MarkedBy   *string `json:"marked_by,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		PersonType: string(a.PersonType),
		PersonID:   a.PersonID,
		Date:       utils.DateKey(a.Date),
		Status:     string(a.Status),
		Shift:      a.Shift,
		MarkedBy:   a.MarkedBy,
	}
}

type MonthlySummaryRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *MonthlySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	errs = validator.MonthYear(errs, r.Month, r.Year)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlySummaryResponse struct {
	TotalDays    int     `json:"total_days"`
	Present      int     `json:"present"`
	Absent       int     `json:"absent"`
	Leave        int     `json:"leave"`
	RecordedDays int     `json:"recorded_days"`
	Percentage   float64 `json:"percentage"`
}

func NewMonthlySummaryResponse(s MonthlySummary) MonthlySummaryResponse {
	return MonthlySummaryResponse(s)
}
