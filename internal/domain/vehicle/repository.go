package vehicle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type VehicleRepository interface {
	// MonthlyCostFor resolves the monthly fixed cost of the vehicle most
	// recently handed over (delivery) to the employee on or before asOf.
	// Zero when the employee holds no vehicle.
	MonthlyCostFor(ctx context.Context, employeeID int64, asOf time.Time) (decimal.Decimal, error)
}
