package payroll

import (
	"context"
)

type PayrollRepository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	GetByPeriod(ctx context.Context, employeeID int64, year, month int) (Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	// ListForExport selects approved|paid records of the period, ordered
	// by employee code so export files are byte-stable.
	ListForExport(ctx context.Context, year, month int) ([]Record, error)
	// Update persists the mutable financial and status fields of a record.
	Update(ctx context.Context, rec Record) (Record, error)
	SetLock(ctx context.Context, id int64, locked bool) error
	AddHistory(ctx context.Context, rows []History) error
	ListHistory(ctx context.Context, payrollID int64) ([]History, error)
}
