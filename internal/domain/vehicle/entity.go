package vehicle

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is read-only to the payroll core; only its monthly fixed cost
// matters to profitability.
type Vehicle struct {
	ID               int64
	PlateNumber      string
	MonthlyFixedCost decimal.Decimal
}

// Handover records a vehicle delivery or return for an employee.
type Handover struct {
	ID         int64
	VehicleID  int64
	EmployeeID int64
	Type       string // delivery | return
	Date       time.Time
}
