package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Upsert writes rows keyed on (person_type, person_id, date), replacing status and shift on conflict
	Upsert(ctx context.Context, records []Attendance) (int64, error)

	// ListByPersonAndRange returns one person's rows with from <= date <= to
	ListByPersonAndRange(ctx context.Context, personType PersonType, personID string, from, to time.Time) ([]Attendance, error)

	// ListByDate returns every row of a person type on one day
	ListByDate(ctx context.Context, personType PersonType, date time.Time) ([]Attendance, error)
}
