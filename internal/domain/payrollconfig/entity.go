package payrollconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// Configuration is a versioned, effective-dated payroll rule set.
// Rows are insert-only; changing the rules means inserting a new version.
type Configuration struct {
	ID                  int64
	EffectiveFrom       time.Time
	EffectiveTo         *time.Time
	GOSIEmployeePct     decimal.Decimal
	GOSICompanyPct      decimal.Decimal
	WorkingDaysPerMonth int
	OvertimeMultiplier  decimal.Decimal
	MinimumWage         decimal.Decimal
	SaudiGOSIRequired   bool
	ExpatGOSIRequired   bool
	DefaultBankCode     string
	BankTransferFee     decimal.Decimal
	CreatedAt           time.Time
}

// Default is the conservative fallback used when no configuration row
// covers the requested date. Selection never fails.
func Default() Configuration {
	return Configuration{
		GOSIEmployeePct:     decimal.NewFromInt(10),
		GOSICompanyPct:      decimal.NewFromInt(13),
		WorkingDaysPerMonth: 22,
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),
		MinimumWage:         decimal.NewFromInt(4000),
		SaudiGOSIRequired:   true,
		ExpatGOSIRequired:   false,
		BankTransferFee:     decimal.Zero,
	}
}

// Covers reports whether the configuration window contains d.
func (c Configuration) Covers(d time.Time) bool {
	if d.Before(c.EffectiveFrom) {
		return false
	}
	if c.EffectiveTo != nil && d.After(*c.EffectiveTo) {
		return false
	}
	return true
}
