package validator

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsValidUUID reports whether s is a canonical, dashed RFC 4122 UUID of
// versions 1 through 5. Braced, URN and undashed forms are rejected.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidMonth reports whether month is a calendar month number, 1 through 12.
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// IsValidYear accepts four digit years.
func IsValidYear(year int) bool {
	return year >= 1000 && year <= 9999
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// MonthYear validates a month/year pair and appends field errors to errs.
func MonthYear(errs ValidationErrors, month, year int) ValidationErrors {
	if !IsValidMonth(month) {
		errs = append(errs, ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !IsValidYear(year) {
		errs = append(errs, ValidationError{Field: "year", Message: "must be a four digit year"})
	}
	return errs
}
