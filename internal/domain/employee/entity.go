package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)

// Employee is a read-only snapshot of an employee as the payroll core
// sees it. The employee master is owned outside this module.
type Employee struct {
	ID              int64
	Code            string
	FullName        string
	NationalID      string
	Nationality     string
	BasicSalary     decimal.Decimal
	HousingAllow    decimal.Decimal
	TransportAllow  decimal.Decimal
	MealAllow       decimal.Decimal
	OtherAllow      decimal.Decimal
	Status          Status
	Mobile          string
	Email           string
	IBAN            string
	DepartmentID    *int64
	DepartmentName  *string
	ProjectTag      *string
	HireDate        *time.Time
	TerminationDate *time.Time
}

// IsSaudi reports whether the employee falls under the Saudi GOSI rules.
func (e Employee) IsSaudi() bool {
	switch e.Nationality {
	case "Saudi", "saudi", "SA", "سعودي":
		return true
	}
	return false
}

// GrossSalary is basic salary plus all allowances.
func (e Employee) GrossSalary() decimal.Decimal {
	return e.BasicSalary.
		Add(e.HousingAllow).
		Add(e.TransportAllow).
		Add(e.MealAllow).
		Add(e.OtherAllow)
}
