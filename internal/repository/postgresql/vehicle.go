package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/vehicle"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type vehicleRepository struct {
	db *database.DB
}

func NewVehicleRepository(db *database.DB) vehicle.VehicleRepository {
	return &vehicleRepository{db: db}
}

// MonthlyCostFor resolves the fixed monthly cost of the vehicle most
// recently delivered to the employee on or before asOf; zero when none.
func (r *vehicleRepository) MonthlyCostFor(ctx context.Context, employeeID int64, asOf time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT v.monthly_fixed_cost
		FROM vehicle_handovers h
		JOIN vehicles v ON v.id = h.vehicle_id
		WHERE h.employee_id = $1
		  AND h.handover_type = 'delivery'
		  AND h.handover_date <= $2
		ORDER BY h.handover_date DESC, h.id DESC
		LIMIT 1
	`

	var cost decimal.Decimal
	err := q.QueryRow(ctx, query, employeeID, asOf).Scan(&cost)
	if err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get vehicle cost: %w", err)
	}
	return cost, nil
}
