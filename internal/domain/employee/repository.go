package employee

import "context"

// EmployeeRepository is a narrow read-only port; the employee master is
// maintained by the outer CRUD layer.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListActiveByDepartment(ctx context.Context, departmentID int64) ([]Employee, error)
	ListDepartmentIDsWithActiveEmployees(ctx context.Context) ([]int64, error)
}
