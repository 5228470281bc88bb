package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payrollconfig"
)

// Adjustments are the manual deduction inputs a payroll officer may
// attach before calculation.
type Adjustments struct {
	LateDeduction       decimal.Decimal
	EarlyLeaveDeduction decimal.Decimal
	LoanDeduction       decimal.Decimal
	AdvanceDeduction    decimal.Decimal
	InsuranceDeduction  decimal.Decimal
	OtherDeduction      decimal.Decimal
}

// CalcInput is everything the pure calculator needs. No repository or
// session reaches the calculator; callers assemble the snapshot.
type CalcInput struct {
	Employee      employee.Employee
	Year          int
	Month         int
	Counts        map[attendance.Status]int
	OvertimeHours decimal.Decimal
	Config        payrollconfig.Configuration
	Adjustments   Adjustments
}

// ListFilter narrows payroll queries.
type ListFilter struct {
	Year         int
	Month        int
	Status       *Status
	DepartmentID *int64
	EmployeeID   *int64
}

// BatchItemResult is the per-record outcome of a batch operation.
// Batches are deliberately non-atomic.
type BatchItemResult struct {
	PayrollID int64  `json:"payroll_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

type BatchResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}

// GenerateItemResult is the per-employee outcome of period generation.
type GenerateItemResult struct {
	EmployeeID int64  `json:"employee_id"`
	PayrollID  int64  `json:"payroll_id,omitempty"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

type GenerateResult struct {
	Year      int                  `json:"year"`
	Month     int                  `json:"month"`
	Created   int                  `json:"created"`
	Skipped   int                  `json:"skipped"`
	Failed    int                  `json:"failed"`
	Items     []GenerateItemResult `json:"items"`
}

// PeriodBounds resolves the inclusive calendar bounds of (year, month)
// using the true month length (Feb is leap-year aware).
func PeriodBounds(year, month int) (start, end time.Time, err error) {
	if month < 1 || month > 12 || year < 1900 || year > 2200 {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end, nil
}
