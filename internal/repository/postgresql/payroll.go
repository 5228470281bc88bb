package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.year, p.month, p.period_start, p.period_end,
	p.basic_salary, p.housing_allowance, p.transport_allowance, p.meal_allowance, p.other_allowance, p.gross_salary,
	p.daily_rate, p.hourly_rate,
	p.present_days, p.absent_days, p.leave_days, p.sick_leave_days, p.unpaid_leave_days, p.public_holiday_days,
	p.late_days, p.early_leave_days, p.overtime_hours, p.overtime_pay,
	p.absence_deduction, p.unpaid_leave_deduction, p.late_deduction, p.early_leave_deduction,
	p.gosi_employee, p.gosi_company, p.loan_deduction, p.advance_deduction, p.insurance_deduction, p.other_deduction,
	p.total_deductions, p.net_payable,
	p.payment_status, p.is_locked, p.is_exported, p.approved_by, p.approved_at, p.payment_date, p.admin_notes,
	p.created_at, p.updated_at,
	e.full_name, e.code, e.iban`

func scanPayroll(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Year, &rec.Month, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.BasicSalary, &rec.HousingAllow, &rec.TransportAllow, &rec.MealAllow, &rec.OtherAllow, &rec.GrossSalary,
		&rec.DailyRate, &rec.HourlyRate,
		&rec.PresentDays, &rec.AbsentDays, &rec.LeaveDays, &rec.SickLeaveDays, &rec.UnpaidLeaveDays, &rec.PublicHolidays,
		&rec.LateDays, &rec.EarlyLeaveDays, &rec.OvertimeHours, &rec.OvertimePay,
		&rec.AbsenceDeduction, &rec.UnpaidLeaveDeduction, &rec.LateDeduction, &rec.EarlyLeaveDeduction,
		&rec.GOSIEmployee, &rec.GOSICompany, &rec.LoanDeduction, &rec.AdvanceDeduction, &rec.InsuranceDeduction, &rec.OtherDeduction,
		&rec.TotalDeductions, &rec.NetPayable,
		&rec.PaymentStatus, &rec.IsLocked, &rec.IsExported, &rec.ApprovedBy, &rec.ApprovedAt, &rec.PaymentDate, &rec.AdminNotes,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.EmployeeIBAN,
	)
	return rec, err
}

func (r *payrollRepository) Create(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			employee_id, year, month, period_start, period_end,
			basic_salary, housing_allowance, transport_allowance, meal_allowance, other_allowance, gross_salary,
			daily_rate, hourly_rate,
			present_days, absent_days, leave_days, sick_leave_days, unpaid_leave_days, public_holiday_days,
			late_days, early_leave_days, overtime_hours, overtime_pay,
			absence_deduction, unpaid_leave_deduction, late_deduction, early_leave_deduction,
			gosi_employee, gosi_company, loan_deduction, advance_deduction, insurance_deduction, other_deduction,
			total_deductions, net_payable, payment_status
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23,
			$24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33,
			$34, $35, $36
		)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.Year, rec.Month, rec.PeriodStart, rec.PeriodEnd,
		rec.BasicSalary, rec.HousingAllow, rec.TransportAllow, rec.MealAllow, rec.OtherAllow, rec.GrossSalary,
		rec.DailyRate, rec.HourlyRate,
		rec.PresentDays, rec.AbsentDays, rec.LeaveDays, rec.SickLeaveDays, rec.UnpaidLeaveDays, rec.PublicHolidays,
		rec.LateDays, rec.EarlyLeaveDays, rec.OvertimeHours, rec.OvertimePay,
		rec.AbsenceDeduction, rec.UnpaidLeaveDeduction, rec.LateDeduction, rec.EarlyLeaveDeduction,
		rec.GOSIEmployee, rec.GOSICompany, rec.LoanDeduction, rec.AdvanceDeduction, rec.InsuranceDeduction, rec.OtherDeduction,
		rec.TotalDeductions, rec.NetPayable, rec.PaymentStatus,
	).Scan(&rec.ID)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_employee_period") {
			return payroll.Record{}, payroll.ErrDuplicatePeriod
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return r.GetByID(ctx, rec.ID)
}

func (r *payrollRepository) GetByID(ctx context.Context, id int64) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetByPeriod(ctx context.Context, employeeID int64, year, month int) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.year = $2 AND p.month = $3
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID, year, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE 1=1
	`
	args := []any{}
	n := 0

	add := func(clause string, v any) {
		n++
		query += fmt.Sprintf(" AND %s $%d", clause, n)
		args = append(args, v)
	}

	if filter.Year != 0 {
		add("p.year =", filter.Year)
	}
	if filter.Month != 0 {
		add("p.month =", filter.Month)
	}
	if filter.Status != nil {
		add("p.payment_status =", *filter.Status)
	}
	if filter.DepartmentID != nil {
		add("e.department_id =", *filter.DepartmentID)
	}
	if filter.EmployeeID != nil {
		add("p.employee_id =", *filter.EmployeeID)
	}
	query += " ORDER BY e.code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	return collectPayroll(rows)
}

func (r *payrollRepository) ListForExport(ctx context.Context, year, month int) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.year = $1 AND p.month = $2
		  AND p.payment_status IN ('approved', 'paid')
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records for export: %w", err)
	}
	defer rows.Close()

	return collectPayroll(rows)
}

func (r *payrollRepository) Update(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			basic_salary = $2, housing_allowance = $3, transport_allowance = $4, meal_allowance = $5,
			other_allowance = $6, gross_salary = $7, daily_rate = $8, hourly_rate = $9,
			present_days = $10, absent_days = $11, leave_days = $12, sick_leave_days = $13,
			unpaid_leave_days = $14, public_holiday_days = $15, late_days = $16, early_leave_days = $17,
			overtime_hours = $18, overtime_pay = $19,
			absence_deduction = $20, unpaid_leave_deduction = $21, late_deduction = $22, early_leave_deduction = $23,
			gosi_employee = $24, gosi_company = $25, loan_deduction = $26, advance_deduction = $27,
			insurance_deduction = $28, other_deduction = $29, total_deductions = $30, net_payable = $31,
			payment_status = $32, is_locked = $33, is_exported = $34,
			approved_by = $35, approved_at = $36, payment_date = $37, admin_notes = $38,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		rec.ID,
		rec.BasicSalary, rec.HousingAllow, rec.TransportAllow, rec.MealAllow,
		rec.OtherAllow, rec.GrossSalary, rec.DailyRate, rec.HourlyRate,
		rec.PresentDays, rec.AbsentDays, rec.LeaveDays, rec.SickLeaveDays,
		rec.UnpaidLeaveDays, rec.PublicHolidays, rec.LateDays, rec.EarlyLeaveDays,
		rec.OvertimeHours, rec.OvertimePay,
		rec.AbsenceDeduction, rec.UnpaidLeaveDeduction, rec.LateDeduction, rec.EarlyLeaveDeduction,
		rec.GOSIEmployee, rec.GOSICompany, rec.LoanDeduction, rec.AdvanceDeduction,
		rec.InsuranceDeduction, rec.OtherDeduction, rec.TotalDeductions, rec.NetPayable,
		rec.PaymentStatus, rec.IsLocked, rec.IsExported,
		rec.ApprovedBy, rec.ApprovedAt, rec.PaymentDate, rec.AdminNotes,
	)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return r.GetByID(ctx, rec.ID)
}

func (r *payrollRepository) SetLock(ctx context.Context, id int64, locked bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_records SET is_locked = $2, updated_at = NOW() WHERE id = $1`, id, locked)
	if err != nil {
		return fmt.Errorf("failed to set payroll lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRecordNotFound
	}
	return nil
}

func (r *payrollRepository) AddHistory(ctx context.Context, rows []payroll.History) error {
	if len(rows) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_history (payroll_id, field_name, old_value, new_value, changed_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, h := range rows {
		if _, err := q.Exec(ctx, query, h.PayrollID, h.FieldName, h.OldValue, h.NewValue, h.ChangedBy, h.Reason); err != nil {
			return fmt.Errorf("failed to add payroll history: %w", err)
		}
	}
	return nil
}

func (r *payrollRepository) ListHistory(ctx context.Context, payrollID int64) ([]payroll.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payroll_id, field_name, old_value, new_value, changed_by, reason, changed_at
		FROM payroll_history
		WHERE payroll_id = $1
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll history: %w", err)
	}
	defer rows.Close()

	var out []payroll.History
	for rows.Next() {
		var h payroll.History
		if err := rows.Scan(&h.ID, &h.PayrollID, &h.FieldName, &h.OldValue, &h.NewValue, &h.ChangedBy, &h.Reason, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func collectPayroll(rows pgx.Rows) ([]payroll.Record, error) {
	var out []payroll.Record
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
