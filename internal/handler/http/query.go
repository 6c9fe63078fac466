package http

import (
	"net/http"
	"strconv"

	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
)

// queryInt reads an optional integer query parameter. A present but
// non-numeric value is a validation error on that field.
func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: key, Message: "must be a number"}}
	}
	return &v, nil
}

// queryMonthYear reads the required month and year query parameters.
func queryMonthYear(r *http.Request) (month, year int, err error) {
	m, err := queryInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	y, err := queryInt(r, "year")
	if err != nil {
		return 0, 0, err
	}

	var errs validator.ValidationErrors
	if m == nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month is required"})
	}
	if y == nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year is required"})
	}
	if len(errs) > 0 {
		return 0, 0, errs
	}
	return *m, *y, nil
}
