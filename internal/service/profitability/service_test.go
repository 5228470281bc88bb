package profitability

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeContractRepo struct {
	contract  *contract.Contract
	resources map[int64]contract.Resource
}

func (f *fakeContractRepo) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	panic("not used")
}

func (f *fakeContractRepo) Update(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	panic("not used")
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id int64) (contract.Contract, error) {
	panic("not used")
}

func (f *fakeContractRepo) ActiveForDepartment(ctx context.Context, departmentID int64, date time.Time) (contract.Contract, error) {
	if f.contract == nil || f.contract.DepartmentID != departmentID {
		return contract.Contract{}, contract.ErrNoActiveContract
	}
	return *f.contract, nil
}

func (f *fakeContractRepo) List(ctx context.Context) ([]contract.Contract, error) {
	panic("not used")
}

func (f *fakeContractRepo) CreateResource(ctx context.Context, r contract.Resource) (contract.Resource, error) {
	panic("not used")
}

func (f *fakeContractRepo) UpdateResource(ctx context.Context, r contract.Resource) (contract.Resource, error) {
	panic("not used")
}

func (f *fakeContractRepo) ResourcesInEffect(ctx context.Context, contractID int64, monthStart, monthEnd time.Time) ([]contract.Resource, error) {
	panic("not used")
}

func (f *fakeContractRepo) ResourceInEffectForEmployee(ctx context.Context, contractID, employeeID int64, monthStart, monthEnd time.Time) (contract.Resource, error) {
	r, ok := f.resources[employeeID]
	if !ok || r.ContractID != contractID {
		return contract.Resource{}, contract.ErrResourceNotFound
	}
	return r, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepo) ListActiveByDepartment(ctx context.Context, departmentID int64) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.DepartmentID != nil && *e.DepartmentID == departmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListDepartmentIDsWithActiveEmployees(ctx context.Context) ([]int64, error) {
	seen := map[int64]bool{}
	var out []int64
	for _, e := range f.employees {
		if e.DepartmentID != nil && !seen[*e.DepartmentID] {
			seen[*e.DepartmentID] = true
			out = append(out, *e.DepartmentID)
		}
	}
	return out, nil
}

type fakePayrollRepo struct {
	payroll.PayrollRepository
	records map[int64]payroll.Record
}

func (f *fakePayrollRepo) GetByPeriod(ctx context.Context, employeeID int64, year, month int) (payroll.Record, error) {
	r, ok := f.records[employeeID]
	if !ok || r.Year != year || r.Month != month {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return r, nil
}

type fakeVehicleRepo struct {
	costs map[int64]decimal.Decimal
}

func (f *fakeVehicleRepo) MonthlyCostFor(ctx context.Context, employeeID int64, asOf time.Time) (decimal.Decimal, error) {
	return f.costs[employeeID], nil
}

type fakeCalculator struct {
	drafts map[int64]payroll.Record
	calls  int
}

func (f *fakeCalculator) CalculateDraft(ctx context.Context, employeeID int64, year, month int, adj payroll.Adjustments) (payroll.Record, error) {
	f.calls++
	return f.drafts[employeeID], nil
}

func deptService(contracts *fakeContractRepo, employees *fakeEmployeeRepo, records *fakePayrollRepo, vehicles *fakeVehicleRepo, calc *fakeCalculator) *ServiceImpl {
	if vehicles == nil {
		vehicles = &fakeVehicleRepo{costs: map[int64]decimal.Decimal{}}
	}
	if calc == nil {
		calc = &fakeCalculator{drafts: map[int64]payroll.Record{}}
	}
	return NewProfitabilityService(contracts, employees, records, vehicles, calc)
}

func ptrInt64(v int64) *int64 { return &v }

func TestProjectReport_DailyBillingTwoEmployees(t *testing.T) {
	deptID := int64(7)
	contracts := &fakeContractRepo{
		contract: &contract.Contract{ID: 1, DepartmentID: deptID, ClientName: "شركة البناء المتقدم", Status: contract.StatusActive},
		resources: map[int64]contract.Resource{
			101: {ContractID: 1, EmployeeID: 101, BillingRate: money("400"), BillingType: contract.BillingDaily, IsActive: true},
			102: {ContractID: 1, EmployeeID: 102, BillingRate: money("400"), BillingType: contract.BillingDaily, IsActive: true},
		},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: 101, FullName: "سالم الحربي", DepartmentID: ptrInt64(deptID)},
		{ID: 102, FullName: "عمر زيد", DepartmentID: ptrInt64(deptID)},
	}}
	records := &fakePayrollRepo{records: map[int64]payroll.Record{
		101: {EmployeeID: 101, Year: 2025, Month: 3, GrossSalary: money("5000"), GOSICompany: money("650"), PresentDays: 20},
		102: {EmployeeID: 102, Year: 2025, Month: 3, GrossSalary: money("5000"), GOSICompany: money("650"), PresentDays: 20},
	}}
	vehicles := &fakeVehicleRepo{costs: map[int64]decimal.Decimal{101: money("1200")}}

	svc := deptService(contracts, employees, records, vehicles, nil)
	report, err := svc.ProjectReport(context.Background(), deptID, 3, 2025)
	require.NoError(t, err)

	require.Len(t, report.Employees, 2)
	assert.Equal(t, "شركة البناء المتقدم", report.ClientName)

	withVehicle := report.Employees[0]
	assert.True(t, withVehicle.IqamaCost.Equal(money("54.17")), "iqama %s", withVehicle.IqamaCost)
	assert.True(t, withVehicle.InsuranceCost.Equal(money("150")), "insurance %s", withVehicle.InsuranceCost)
	assert.True(t, withVehicle.TotalCost.Equal(money("7054.17")), "total cost %s", withVehicle.TotalCost)

	withoutVehicle := report.Employees[1]
	assert.True(t, withoutVehicle.TotalCost.Equal(money("5854.17")), "total cost %s", withoutVehicle.TotalCost)

	assert.True(t, report.TotalRevenue.Equal(money("16000")), "revenue %s", report.TotalRevenue)
	assert.True(t, report.TotalCost.Equal(money("12908.34")), "cost %s", report.TotalCost)
	assert.True(t, report.NetProfit.Equal(money("3091.66")), "profit %s", report.NetProfit)
	assert.True(t, report.MarginPct.Equal(money("19.32")), "margin %s", report.MarginPct)
}

func TestProjectReport_DailyBillingUsesPresentDays(t *testing.T) {
	deptID := int64(3)
	contracts := &fakeContractRepo{
		contract: &contract.Contract{ID: 2, DepartmentID: deptID, ClientName: "client", Status: contract.StatusActive},
		resources: map[int64]contract.Resource{
			201: {ContractID: 2, EmployeeID: 201, BillingRate: money("500"), BillingType: contract.BillingDaily, IsActive: true},
		},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: 201, FullName: "فهد", DepartmentID: ptrInt64(deptID)},
	}}
	records := &fakePayrollRepo{records: map[int64]payroll.Record{
		201: {EmployeeID: 201, Year: 2025, Month: 4, GrossSalary: money("4000"), GOSICompany: decimal.Zero, PresentDays: 18},
	}}

	svc := deptService(contracts, employees, records, nil, nil)
	report, err := svc.ProjectReport(context.Background(), deptID, 4, 2025)
	require.NoError(t, err)

	require.Len(t, report.Employees, 1)
	assert.True(t, report.Employees[0].Revenue.Equal(money("9000")), "revenue %s", report.Employees[0].Revenue)
}

func TestProjectReport_NoContractZeroRevenue(t *testing.T) {
	deptID := int64(9)
	contracts := &fakeContractRepo{}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: 301, FullName: "بدر", DepartmentID: ptrInt64(deptID)},
	}}
	records := &fakePayrollRepo{records: map[int64]payroll.Record{
		301: {EmployeeID: 301, Year: 2025, Month: 5, GrossSalary: money("3000"), GOSICompany: money("300"), PresentDays: 22},
	}}

	svc := deptService(contracts, employees, records, nil, nil)
	report, err := svc.ProjectReport(context.Background(), deptID, 5, 2025)
	require.NoError(t, err)

	assert.Nil(t, report.ContractID)
	assert.True(t, report.TotalRevenue.IsZero())
	assert.True(t, report.TotalCost.Equal(money("3504.17")), "cost %s", report.TotalCost)
	assert.True(t, report.NetProfit.Equal(money("-3504.17")))
	assert.True(t, report.MarginPct.IsZero(), "margin undefined at zero revenue")
}

func TestProjectReport_FallsBackToDraftWhenNoStoredRecord(t *testing.T) {
	deptID := int64(4)
	contracts := &fakeContractRepo{
		contract: &contract.Contract{ID: 5, DepartmentID: deptID, ClientName: "client", Status: contract.StatusActive},
		resources: map[int64]contract.Resource{
			401: {ContractID: 5, EmployeeID: 401, BillingRate: money("6000"), BillingType: contract.BillingMonthly, IsActive: true},
		},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: 401, FullName: "ماجد", DepartmentID: ptrInt64(deptID)},
	}}
	records := &fakePayrollRepo{records: map[int64]payroll.Record{}}
	calc := &fakeCalculator{drafts: map[int64]payroll.Record{
		401: {EmployeeID: 401, GrossSalary: money("4500"), GOSICompany: money("450"), PresentDays: 20},
	}}

	svc := deptService(contracts, employees, records, nil, calc)
	report, err := svc.ProjectReport(context.Background(), deptID, 6, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, calc.calls)
	assert.Equal(t, 20, report.Employees[0].PresentDays)
	assert.True(t, report.Employees[0].SalaryCost.Equal(money("4500")))
}

func TestProjectsSummary_AggregatesDepartments(t *testing.T) {
	contracts := &fakeContractRepo{
		contract: &contract.Contract{ID: 1, DepartmentID: 1, ClientName: "client", Status: contract.StatusActive},
		resources: map[int64]contract.Resource{
			11: {ContractID: 1, EmployeeID: 11, BillingRate: money("7000"), BillingType: contract.BillingMonthly, IsActive: true},
		},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: 11, FullName: "أ", DepartmentID: ptrInt64(1)},
		{ID: 12, FullName: "ب", DepartmentID: ptrInt64(2)},
	}}
	records := &fakePayrollRepo{records: map[int64]payroll.Record{
		11: {EmployeeID: 11, Year: 2025, Month: 7, GrossSalary: money("5000"), GOSICompany: money("500"), PresentDays: 22},
		12: {EmployeeID: 12, Year: 2025, Month: 7, GrossSalary: money("4000"), GOSICompany: money("400"), PresentDays: 22},
	}}

	svc := deptService(contracts, employees, records, nil, nil)
	summary, err := svc.ProjectsSummary(context.Background(), 7, 2025)
	require.NoError(t, err)

	require.Len(t, summary.Projects, 2)
	assert.True(t, summary.TotalRevenue.Equal(money("7000")))
	// dept 1: 5000+500+54.17+150 = 5704.17; dept 2: 4000+400+54.17+150 = 4604.17
	assert.True(t, summary.TotalCost.Equal(money("10308.34")), "cost %s", summary.TotalCost)
	assert.True(t, summary.NetProfit.Equal(money("-3308.34")))
}
