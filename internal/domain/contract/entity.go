package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractType string

const (
	TypeManpower  ContractType = "manpower"
	TypeOutsource ContractType = "outsource"
	TypeMixed     ContractType = "mixed"
)

type ContractStatus string

const (
	StatusActive    ContractStatus = "active"
	StatusExpired   ContractStatus = "expired"
	StatusSuspended ContractStatus = "suspended"
	StatusDraft     ContractStatus = "draft"
)

// Contract is the client agreement for one department/project. A
// department has at most one active contract at any date.
type Contract struct {
	ID           int64
	DepartmentID int64
	ClientName   string
	Type         ContractType
	StartDate    time.Time
	EndDate      *time.Time
	Status       ContractStatus
	VATNumber    *string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BillingType string

const (
	BillingMonthly BillingType = "monthly"
	BillingDaily   BillingType = "daily"
)

// Resource is a billable assignment of an employee to a contract.
// (contract_id, employee_id) is unique.
type Resource struct {
	ID               int64
	ContractID       int64
	EmployeeID       int64
	BillingRate      decimal.Decimal
	BillingType      BillingType
	OverheadMonthly  decimal.Decimal
	HousingAllowance decimal.Decimal
	IsActive         bool
	StartDate        time.Time
	EndDate          *time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// InEffect reports whether the resource window overlaps the month
// [monthStart, monthEnd].
func (r Resource) InEffect(monthStart, monthEnd time.Time) bool {
	if r.StartDate.After(monthEnd) {
		return false
	}
	if r.EndDate != nil && r.EndDate.Before(monthStart) {
		return false
	}
	return true
}
