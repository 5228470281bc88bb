package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payrollconfig"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type payrollConfigRepository struct {
	db *database.DB
}

func NewPayrollConfigRepository(db *database.DB) payrollconfig.ConfigurationRepository {
	return &payrollConfigRepository{db: db}
}

const configColumns = `
	id, effective_from, effective_to,
	gosi_employee_pct, gosi_company_pct, working_days_per_month,
	overtime_multiplier, minimum_wage, saudi_gosi_required, expat_gosi_required,
	default_bank_code, bank_transfer_fee, created_at`

func scanConfig(row pgx.Row) (payrollconfig.Configuration, error) {
	var c payrollconfig.Configuration
	err := row.Scan(
		&c.ID, &c.EffectiveFrom, &c.EffectiveTo,
		&c.GOSIEmployeePct, &c.GOSICompanyPct, &c.WorkingDaysPerMonth,
		&c.OvertimeMultiplier, &c.MinimumWage, &c.SaudiGOSIRequired, &c.ExpatGOSIRequired,
		&c.DefaultBankCode, &c.BankTransferFee, &c.CreatedAt,
	)
	return c, err
}

func (r *payrollConfigRepository) Create(ctx context.Context, cfg payrollconfig.Configuration) (payrollconfig.Configuration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_configurations (
			effective_from, effective_to,
			gosi_employee_pct, gosi_company_pct, working_days_per_month,
			overtime_multiplier, minimum_wage, saudi_gosi_required, expat_gosi_required,
			default_bank_code, bank_transfer_fee
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + configColumns + `
	`

	c, err := scanConfig(q.QueryRow(ctx, query,
		cfg.EffectiveFrom, cfg.EffectiveTo,
		cfg.GOSIEmployeePct, cfg.GOSICompanyPct, cfg.WorkingDaysPerMonth,
		cfg.OvertimeMultiplier, cfg.MinimumWage, cfg.SaudiGOSIRequired, cfg.ExpatGOSIRequired,
		cfg.DefaultBankCode, cfg.BankTransferFee,
	))
	if err != nil {
		return payrollconfig.Configuration{}, fmt.Errorf("failed to create payroll configuration: %w", err)
	}
	return c, nil
}

func (r *payrollConfigRepository) List(ctx context.Context) ([]payrollconfig.Configuration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configColumns + `
		FROM payroll_configurations
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll configurations: %w", err)
	}
	defer rows.Close()

	var out []payrollconfig.Configuration
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll configuration: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *payrollConfigRepository) ActiveFor(ctx context.Context, date time.Time) (payrollconfig.Configuration, error) {
	q := GetQuerier(ctx, r.db)

	// newest effective_from wins when windows overlap
	query := `
		SELECT ` + configColumns + `
		FROM payroll_configurations
		WHERE effective_from <= $1
		  AND (effective_to IS NULL OR effective_to >= $1)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	c, err := scanConfig(q.QueryRow(ctx, query, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payrollconfig.Configuration{}, payrollconfig.ErrConfigurationNotFound
		}
		return payrollconfig.Configuration{}, fmt.Errorf("failed to resolve payroll configuration: %w", err)
	}
	return c, nil
}
