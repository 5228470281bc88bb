package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

var (
	thirty     = decimal.NewFromInt(30)
	twoForty   = decimal.NewFromInt(240)
	oneHundred = decimal.NewFromInt(100)
)

// Calculate derives a payroll record draft from an employee snapshot,
// attendance counts and a configuration. Pure: no persistence, no I/O;
// identical inputs yield byte-identical output.
func Calculate(in payroll.CalcInput) (payroll.Record, error) {
	start, end, err := payroll.PeriodBounds(in.Year, in.Month)
	if err != nil {
		return payroll.Record{}, err
	}
	daysInMonth := end.Day()

	counts := in.Counts
	if counts == nil {
		counts = map[attendance.Status]int{}
	}
	countedDays := 0
	for _, n := range counts {
		countedDays += n
	}
	if countedDays > daysInMonth {
		return payroll.Record{}, payroll.ErrInconsistentAttendance
	}

	emp := in.Employee
	cfg := in.Config

	// Rates: daily carried at 4dp, all money rounded to 2dp (banker's)
	// at the end.
	dailyRate := emp.BasicSalary.Div(thirty).Round(4)
	hourlyRate := emp.BasicSalary.Div(twoForty).Round(4)

	gross := emp.GrossSalary()

	absenceDeduction := dailyRate.Mul(decimal.NewFromInt(int64(counts[attendance.StatusAbsent])))
	unpaidDeduction := dailyRate.Mul(decimal.NewFromInt(int64(counts[attendance.StatusUnpaidLeave])))

	var gosiEmployee, gosiCompany decimal.Decimal
	if (emp.IsSaudi() && cfg.SaudiGOSIRequired) || (!emp.IsSaudi() && cfg.ExpatGOSIRequired) {
		gosiEmployee = emp.BasicSalary.Mul(cfg.GOSIEmployeePct).Div(oneHundred)
		gosiCompany = emp.BasicSalary.Mul(cfg.GOSICompanyPct).Div(oneHundred)
	}

	overtimePay := in.OvertimeHours.Mul(hourlyRate).Mul(cfg.OvertimeMultiplier)

	adj := in.Adjustments
	totalDeductions := absenceDeduction.
		Add(unpaidDeduction).
		Add(gosiEmployee).
		Add(adj.LateDeduction).
		Add(adj.EarlyLeaveDeduction).
		Add(adj.LoanDeduction).
		Add(adj.AdvanceDeduction).
		Add(adj.InsuranceDeduction).
		Add(adj.OtherDeduction)

	netPayable := gross.Add(overtimePay).Sub(totalDeductions)
	if netPayable.IsNegative() {
		netPayable = decimal.Zero
	}

	money := func(d decimal.Decimal) decimal.Decimal { return d.RoundBank(2) }

	rec := payroll.Record{
		EmployeeID:  emp.ID,
		Year:        in.Year,
		Month:       in.Month,
		PeriodStart: start,
		PeriodEnd:   end,

		BasicSalary:    money(emp.BasicSalary),
		HousingAllow:   money(emp.HousingAllow),
		TransportAllow: money(emp.TransportAllow),
		MealAllow:      money(emp.MealAllow),
		OtherAllow:     money(emp.OtherAllow),
		GrossSalary:    money(gross),

		DailyRate:  dailyRate,
		HourlyRate: hourlyRate,

		PresentDays:     counts[attendance.StatusPresent],
		AbsentDays:      counts[attendance.StatusAbsent],
		LeaveDays:       counts[attendance.StatusLeave],
		SickLeaveDays:   counts[attendance.StatusSickLeave],
		UnpaidLeaveDays: counts[attendance.StatusUnpaidLeave],
		PublicHolidays:  counts[attendance.StatusPublicHoliday],
		LateDays:        counts[attendance.StatusLate],
		EarlyLeaveDays:  counts[attendance.StatusEarlyLeave],
		OvertimeHours:   in.OvertimeHours,
		OvertimePay:     money(overtimePay),

		AbsenceDeduction:     money(absenceDeduction),
		UnpaidLeaveDeduction: money(unpaidDeduction),
		LateDeduction:        money(adj.LateDeduction),
		EarlyLeaveDeduction:  money(adj.EarlyLeaveDeduction),
		GOSIEmployee:         money(gosiEmployee),
		GOSICompany:          money(gosiCompany),
		LoanDeduction:        money(adj.LoanDeduction),
		AdvanceDeduction:     money(adj.AdvanceDeduction),
		InsuranceDeduction:   money(adj.InsuranceDeduction),
		OtherDeduction:       money(adj.OtherDeduction),
		TotalDeductions:      money(totalDeductions),

		NetPayable: money(netPayable),

		PaymentStatus: payroll.StatusPending,
	}
	return rec, nil
}
