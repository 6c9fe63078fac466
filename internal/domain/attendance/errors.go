package attendance

import "errors"

// Attendance domain errors
var (
	ErrSummaryUnavailable = errors.New("attendance summary unavailable")
)
