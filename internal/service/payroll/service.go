package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payrollconfig"
)

// LedgerPoster posts the salary journal when a payroll record is
// approved. Implemented by the accounting service.
type LedgerPoster interface {
	PostSalaryJournal(ctx context.Context, rec payroll.Record, user string) error
}

type ServiceImpl struct {
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	configRepo    payrollconfig.ConfigurationRepository
	attendanceSvc attendance.AttendanceService
	ledger        LedgerPoster // optional
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	configRepo payrollconfig.ConfigurationRepository,
	attendanceSvc attendance.AttendanceService,
	ledger LedgerPoster,
) *ServiceImpl {
	return &ServiceImpl{
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		configRepo:    configRepo,
		attendanceSvc: attendanceSvc,
		ledger:        ledger,
	}
}

// ConfigFor resolves the effective configuration for a date, falling
// back to the conservative default. Never nil, never fails on "missing".
func (s *ServiceImpl) ConfigFor(ctx context.Context, date time.Time) payrollconfig.Configuration {
	cfg, err := s.configRepo.ActiveFor(ctx, date)
	if err != nil {
		if !errors.Is(err, payrollconfig.ErrConfigurationNotFound) {
			slog.Warn("payroll configuration lookup failed, using defaults", "err", err)
		}
		return payrollconfig.Default()
	}
	return cfg
}

// CalculateDraft assembles the calculator input from live attendance and
// the effective configuration, then runs the pure calculation.
func (s *ServiceImpl) CalculateDraft(ctx context.Context, employeeID int64, year, month int, adj payroll.Adjustments) (payroll.Record, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.Record{}, err
	}

	start, end, err := payroll.PeriodBounds(year, month)
	if err != nil {
		return payroll.Record{}, err
	}

	counts, err := s.attendanceSvc.CountByStatus(ctx, employeeID, start, end)
	if err != nil {
		return payroll.Record{}, err
	}
	otHours, err := s.attendanceSvc.SumOvertimeHours(ctx, employeeID, start, end)
	if err != nil {
		return payroll.Record{}, err
	}

	return Calculate(payroll.CalcInput{
		Employee:      emp,
		Year:          year,
		Month:         month,
		Counts:        counts,
		OvertimeHours: otHours,
		Config:        s.ConfigFor(ctx, start),
		Adjustments:   adj,
	})
}

// GeneratePeriod creates drafts for every active employee of the period.
// Existing (employee, year, month) rows are skipped; the batch is not
// atomic and reports per-employee outcomes.
func (s *ServiceImpl) GeneratePeriod(ctx context.Context, year, month int) (payroll.GenerateResult, error) {
	if _, _, err := payroll.PeriodBounds(year, month); err != nil {
		return payroll.GenerateResult{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.GenerateResult{}, fmt.Errorf("list active employees: %w", err)
	}

	result := payroll.GenerateResult{Year: year, Month: month}
	for _, emp := range employees {
		item := payroll.GenerateItemResult{EmployeeID: emp.ID}

		if _, err := s.payrollRepo.GetByPeriod(ctx, emp.ID, year, month); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, payroll.ErrRecordNotFound) {
			item.Error = err.Error()
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}

		draft, err := s.CalculateDraft(ctx, emp.ID, year, month, payroll.Adjustments{})
		if err != nil {
			item.Error = err.Error()
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}

		created, err := s.payrollRepo.Create(ctx, draft)
		if err != nil {
			if errors.Is(err, payroll.ErrDuplicatePeriod) {
				result.Skipped++
				continue
			}
			item.Error = err.Error()
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}

		item.PayrollID = created.ID
		item.OK = true
		result.Created++
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int64) (payroll.Record, error) {
	return s.payrollRepo.GetByID(ctx, id)
}

func (s *ServiceImpl) GetByPeriod(ctx context.Context, employeeID int64, year, month int) (payroll.Record, error) {
	return s.payrollRepo.GetByPeriod(ctx, employeeID, year, month)
}

func (s *ServiceImpl) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Record, error) {
	return s.payrollRepo.List(ctx, filter)
}

func (s *ServiceImpl) History(ctx context.Context, payrollID int64) ([]payroll.History, error) {
	return s.payrollRepo.ListHistory(ctx, payrollID)
}
