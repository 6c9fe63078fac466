package payroll

import (
	"regexp"
	"strconv"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
)

var salaryMonthRegex = regexp.MustCompile(`^(\d{4})-(\d{2})(?:-(\d{2}))?`)

// ParseSalaryMonth reads a "YYYY-MM" or "YYYY-MM-DD" salary month.
func ParseSalaryMonth(s string) (year, month int, ok bool) {
	m := salaryMonthRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// NormalizeSalaryMonth rewrites an accepted salary month into the stored "YYYY-MM" form.
func NormalizeSalaryMonth(s string) (string, bool) {
	year, month, ok := ParseSalaryMonth(s)
	if !ok {
		return "", false
	}
	return utils.MonthKey(year, month), true
}

// EffectiveMonth resolves the month a salary row belongs to, falling back to
// its creation time when salary_month cannot be parsed.
func (s EmployeeSalary) EffectiveMonth() (year, month int) {
	if y, m, ok := ParseSalaryMonth(s.SalaryMonth); ok {
		return y, m
	}
	return s.CreatedAt.Year(), int(s.CreatedAt.Month())
}

func monthOf(t time.Time) string {
	return utils.MonthKey(t.Year(), int(t.Month()))
}

// AdvanceMonthKey groups an employee advance by employee and "YYYY-MM".
func AdvanceMonthKey(employeeID string, date time.Time) string {
	return employeeID + "|" + monthOf(date)
}
