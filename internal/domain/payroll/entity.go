package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

// transitions is the allowed state machine. Marking paid also locks the
// record, so paid stays terminal until an explicit unlock.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPaid, StatusPending},
	StatusRejected: {StatusPending},
	StatusPaid:     {StatusPending},
}

// CanTransition reports whether from→to is an allowed status change.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Record is one employee's payroll for a (year, month) period.
// (employee_id, year, month) is unique; period bounds are immutable.
type Record struct {
	ID         int64
	EmployeeID int64
	Year       int
	Month      int

	PeriodStart time.Time
	PeriodEnd   time.Time

	BasicSalary    decimal.Decimal
	HousingAllow   decimal.Decimal
	TransportAllow decimal.Decimal
	MealAllow      decimal.Decimal
	OtherAllow     decimal.Decimal
	GrossSalary    decimal.Decimal

	DailyRate  decimal.Decimal // 4dp carry
	HourlyRate decimal.Decimal

	PresentDays      int
	AbsentDays       int
	LeaveDays        int
	SickLeaveDays    int
	UnpaidLeaveDays  int
	PublicHolidays   int
	LateDays         int
	EarlyLeaveDays   int
	OvertimeHours    decimal.Decimal
	OvertimePay      decimal.Decimal

	AbsenceDeduction     decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	LateDeduction        decimal.Decimal
	EarlyLeaveDeduction  decimal.Decimal
	GOSIEmployee         decimal.Decimal
	GOSICompany          decimal.Decimal
	LoanDeduction        decimal.Decimal
	AdvanceDeduction     decimal.Decimal
	InsuranceDeduction   decimal.Decimal
	OtherDeduction       decimal.Decimal
	TotalDeductions      decimal.Decimal

	NetPayable decimal.Decimal

	PaymentStatus Status
	IsLocked      bool
	IsExported    bool
	ApprovedBy    *string
	ApprovedAt    *time.Time
	PaymentDate   *time.Time
	AdminNotes    *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	EmployeeIBAN *string
}

// History is one audited field change on a payroll record. Derived
// fields are not versioned.
type History struct {
	ID        int64
	PayrollID int64
	FieldName string
	OldValue  string
	NewValue  string
	ChangedBy string
	Reason    string
	ChangedAt time.Time
}
