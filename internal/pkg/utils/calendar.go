package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DaysInMonth returns the number of calendar days in month (1-12) of year.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last calendar day of the month, both at midnight UTC.
func MonthBounds(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(month), DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	return first, last
}

// MonthKey formats a year and month as "YYYY-MM".
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// DateKey truncates t to its calendar date, "YYYY-MM-DD".
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOnly drops the time of day, keeping t's own calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InMonth reports whether t falls on a calendar day of the given month.
func InMonth(t time.Time, year, month int) bool {
	return t.Year() == year && int(t.Month()) == month
}
