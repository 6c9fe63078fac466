package attendance

import (
	"time"
)

type PersonType string

const (
	PersonTypeEmployee PersonType = "employee"
	PersonTypeWorker   PersonType = "worker"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

type Attendance struct {
	ID         string
	PersonType PersonType
	PersonID   string
	Date       time.Time
	Status     Status
	Shift      *string
	MarkedBy   *string
	CreatedAt  time.Time
}

// MonthlySummary counts an employee's attendance over one calendar month.
// Days without a row count toward none of the status buckets.
type MonthlySummary struct {
	TotalDays    int
	Present      int
	Absent       int
	Leave        int
	RecordedDays int
	Percentage   float64
}
