package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a salaried staff member paid a fixed monthly base salary.
type Employee struct {
	ID         string
	Name       string
	BaseSalary decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
}
