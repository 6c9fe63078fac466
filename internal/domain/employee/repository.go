package employee

import "context"

type EmployeeRepository interface {
	// ListActive returns every employee with is_active = true, ordered by name
	ListActive(ctx context.Context) ([]Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)
}
