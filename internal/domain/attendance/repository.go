package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AttendanceRepository interface {
	// CountByStatus returns status→count over the inclusive [start, end] range.
	CountByStatus(ctx context.Context, employeeID int64, start, end time.Time) (map[Status]int, error)
	// SumOvertimeHours totals recorded overtime hours over the inclusive range.
	SumOvertimeHours(ctx context.Context, employeeID int64, start, end time.Time) (decimal.Decimal, error)
}

// AttendanceService is the read-only facade the payroll and invoicing
// components consume (weekends and holidays are facts in the data, not
// derived here).
type AttendanceService interface {
	CountByStatus(ctx context.Context, employeeID int64, start, end time.Time) (map[Status]int, error)
	SumOvertimeHours(ctx context.Context, employeeID int64, start, end time.Time) (decimal.Decimal, error)
	BillableDays(ctx context.Context, employeeID int64, start, end time.Time) (int, error)
}
