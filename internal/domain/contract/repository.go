package contract

import (
	"context"
	"time"
)

type ContractRepository interface {
	Create(ctx context.Context, c Contract) (Contract, error)
	Update(ctx context.Context, c Contract) (Contract, error)
	GetByID(ctx context.Context, id int64) (Contract, error)
	// ActiveForDepartment returns the active contract covering the date.
	ActiveForDepartment(ctx context.Context, departmentID int64, date time.Time) (Contract, error)
	List(ctx context.Context) ([]Contract, error)

	CreateResource(ctx context.Context, r Resource) (Resource, error)
	UpdateResource(ctx context.Context, r Resource) (Resource, error)
	// ResourcesInEffect lists active resources of the contract whose date
	// window overlaps [monthStart, monthEnd].
	ResourcesInEffect(ctx context.Context, contractID int64, monthStart, monthEnd time.Time) ([]Resource, error)
	// ResourceInEffectForEmployee resolves the employee's in-effect
	// resource on the contract, ErrResourceNotFound when none.
	ResourceInEffectForEmployee(ctx context.Context, contractID, employeeID int64, monthStart, monthEnd time.Time) (Resource, error)
}
