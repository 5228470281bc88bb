package profitability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/vehicle"
)

// Fixed per-capita monthly costs: iqama 650/year, medical insurance
// 1800/year, pro-rated monthly.
var (
	iqamaMonthly     = decimal.NewFromInt(650).Div(decimal.NewFromInt(12)).RoundBank(2)
	insuranceMonthly = decimal.NewFromInt(1800).Div(decimal.NewFromInt(12)).RoundBank(2)
	oneHundred       = decimal.NewFromInt(100)
)

// DraftCalculator computes a payroll draft from live attendance when no
// stored record exists for the period.
type DraftCalculator interface {
	CalculateDraft(ctx context.Context, employeeID int64, year, month int, adj payroll.Adjustments) (payroll.Record, error)
}

type EmployeeLine struct {
	EmployeeID   int64                `json:"employee_id"`
	EmployeeName string               `json:"employee_name"`
	BillingRate  decimal.Decimal      `json:"billing_rate"`
	BillingType  contract.BillingType `json:"billing_type"`
	PresentDays  int                  `json:"present_days"`

	Revenue decimal.Decimal `json:"revenue"`

	SalaryCost    decimal.Decimal `json:"salary_cost"`
	GOSICompany   decimal.Decimal `json:"gosi_company"`
	VehicleCost   decimal.Decimal `json:"vehicle_cost"`
	Overhead      decimal.Decimal `json:"overhead"`
	Housing       decimal.Decimal `json:"housing"`
	IqamaCost     decimal.Decimal `json:"iqama_cost"`
	InsuranceCost decimal.Decimal `json:"insurance_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`

	NetProfit decimal.Decimal `json:"net_profit"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

type ProjectReport struct {
	DepartmentID int64           `json:"department_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	ContractID   *int64          `json:"contract_id,omitempty"`
	ClientName   string          `json:"client_name,omitempty"`
	Employees    []EmployeeLine  `json:"employees"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
}

type SummaryRow struct {
	DepartmentID int64           `json:"department_id"`
	ClientName   string          `json:"client_name,omitempty"`
	Employees    int             `json:"employees"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
}

type Summary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Projects     []SummaryRow    `json:"projects"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
}

type ServiceImpl struct {
	contractRepo contract.ContractRepository
	employeeRepo employee.EmployeeRepository
	payrollRepo  payroll.PayrollRepository
	vehicleRepo  vehicle.VehicleRepository
	calculator   DraftCalculator
}

func NewProfitabilityService(
	contractRepo contract.ContractRepository,
	employeeRepo employee.EmployeeRepository,
	payrollRepo payroll.PayrollRepository,
	vehicleRepo vehicle.VehicleRepository,
	calculator DraftCalculator,
) *ServiceImpl {
	return &ServiceImpl{
		contractRepo: contractRepo,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		vehicleRepo:  vehicleRepo,
		calculator:   calculator,
	}
}

// ProjectReport computes the month's P&L for one department. A missing
// contract zeroes the revenue side; costs are still computed.
func (s *ServiceImpl) ProjectReport(ctx context.Context, departmentID int64, month, year int) (ProjectReport, error) {
	monthStart, monthEnd, err := payroll.PeriodBounds(year, month)
	if err != nil {
		return ProjectReport{}, err
	}

	report := ProjectReport{DepartmentID: departmentID, Year: year, Month: month}

	var activeContract *contract.Contract
	c, err := s.contractRepo.ActiveForDepartment(ctx, departmentID, monthEnd)
	switch {
	case err == nil:
		activeContract = &c
		report.ContractID = &c.ID
		report.ClientName = c.ClientName
	case errors.Is(err, contract.ErrNoActiveContract):
		// revenue components stay zero
	default:
		return ProjectReport{}, fmt.Errorf("load active contract: %w", err)
	}

	employees, err := s.employeeRepo.ListActiveByDepartment(ctx, departmentID)
	if err != nil {
		return ProjectReport{}, fmt.Errorf("load department employees: %w", err)
	}

	for _, emp := range employees {
		line, err := s.employeeLine(ctx, emp, activeContract, monthStart, monthEnd, month, year)
		if err != nil {
			return ProjectReport{}, err
		}
		report.Employees = append(report.Employees, line)
		report.TotalRevenue = report.TotalRevenue.Add(line.Revenue)
		report.TotalCost = report.TotalCost.Add(line.TotalCost)
	}

	report.TotalRevenue = report.TotalRevenue.RoundBank(2)
	report.TotalCost = report.TotalCost.RoundBank(2)
	report.NetProfit = report.TotalRevenue.Sub(report.TotalCost)
	report.MarginPct = marginPct(report.NetProfit, report.TotalRevenue)
	return report, nil
}

func (s *ServiceImpl) employeeLine(ctx context.Context, emp employee.Employee, activeContract *contract.Contract, monthStart, monthEnd time.Time, month, year int) (EmployeeLine, error) {
	line := EmployeeLine{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		BillingType:  contract.BillingMonthly,
	}

	var resource *contract.Resource
	if activeContract != nil {
		r, err := s.contractRepo.ResourceInEffectForEmployee(ctx, activeContract.ID, emp.ID, monthStart, monthEnd)
		switch {
		case err == nil:
			resource = &r
		case errors.Is(err, contract.ErrResourceNotFound):
		default:
			return EmployeeLine{}, fmt.Errorf("load contract resource: %w", err)
		}
	}
	if resource != nil {
		line.BillingRate = resource.BillingRate
		line.BillingType = resource.BillingType
		line.Overhead = resource.OverheadMonthly
		line.Housing = resource.HousingAllowance
	}

	rec, err := s.payrollRepo.GetByPeriod(ctx, emp.ID, year, month)
	if err != nil {
		if !errors.Is(err, payroll.ErrRecordNotFound) {
			return EmployeeLine{}, fmt.Errorf("load payroll record: %w", err)
		}
		// Fall back to a fresh draft over live attendance.
		rec, err = s.calculator.CalculateDraft(ctx, emp.ID, year, month, payroll.Adjustments{})
		if err != nil {
			return EmployeeLine{}, fmt.Errorf("fallback payroll draft: %w", err)
		}
	}
	line.PresentDays = rec.PresentDays
	line.SalaryCost = rec.GrossSalary.Add(rec.OvertimePay)
	line.GOSICompany = rec.GOSICompany

	vehicleCost, err := s.vehicleRepo.MonthlyCostFor(ctx, emp.ID, monthEnd)
	if err != nil {
		return EmployeeLine{}, fmt.Errorf("vehicle cost lookup: %w", err)
	}
	line.VehicleCost = vehicleCost
	line.IqamaCost = iqamaMonthly
	line.InsuranceCost = insuranceMonthly

	if line.BillingType == contract.BillingDaily {
		line.Revenue = line.BillingRate.Mul(decimal.NewFromInt(int64(line.PresentDays)))
	} else {
		line.Revenue = line.BillingRate
	}
	line.Revenue = line.Revenue.RoundBank(2)

	line.TotalCost = line.SalaryCost.
		Add(line.GOSICompany).
		Add(line.VehicleCost).
		Add(line.Overhead).
		Add(line.Housing).
		Add(line.IqamaCost).
		Add(line.InsuranceCost).
		RoundBank(2)

	line.NetProfit = line.Revenue.Sub(line.TotalCost)
	line.MarginPct = marginPct(line.NetProfit, line.Revenue)
	return line, nil
}

// ProjectsSummary aggregates every department that has at least one
// active employee.
func (s *ServiceImpl) ProjectsSummary(ctx context.Context, month, year int) (Summary, error) {
	departmentIDs, err := s.employeeRepo.ListDepartmentIDsWithActiveEmployees(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list departments: %w", err)
	}

	summary := Summary{Year: year, Month: month}
	for _, id := range departmentIDs {
		report, err := s.ProjectReport(ctx, id, month, year)
		if err != nil {
			return Summary{}, err
		}
		summary.Projects = append(summary.Projects, SummaryRow{
			DepartmentID: id,
			ClientName:   report.ClientName,
			Employees:    len(report.Employees),
			Revenue:      report.TotalRevenue,
			Cost:         report.TotalCost,
			Profit:       report.NetProfit,
			MarginPct:    report.MarginPct,
		})
		summary.TotalRevenue = summary.TotalRevenue.Add(report.TotalRevenue)
		summary.TotalCost = summary.TotalCost.Add(report.TotalCost)
	}
	summary.NetProfit = summary.TotalRevenue.Sub(summary.TotalCost)
	summary.MarginPct = marginPct(summary.NetProfit, summary.TotalRevenue)
	return summary, nil
}

func marginPct(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(oneHundred).RoundBank(2)
}
