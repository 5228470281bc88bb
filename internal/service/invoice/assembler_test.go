package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func name(s string) *string { return &s }

type fakeContractRepo struct {
	contract.ContractRepository

	contracts map[int64]contract.Contract
	resources map[int64][]contract.Resource
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id int64) (contract.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return contract.Contract{}, contract.ErrContractNotFound
	}
	return c, nil
}

func (f *fakeContractRepo) ResourcesInEffect(ctx context.Context, contractID int64, monthStart, monthEnd time.Time) ([]contract.Resource, error) {
	return f.resources[contractID], nil
}

type fakeAttendance struct {
	billable map[int64]int
	overtime map[int64]decimal.Decimal
}

func (f *fakeAttendance) CountByStatus(ctx context.Context, employeeID int64, start, end time.Time) (map[attendance.Status]int, error) {
	panic("not used")
}

func (f *fakeAttendance) SumOvertimeHours(ctx context.Context, employeeID int64, start, end time.Time) (decimal.Decimal, error) {
	return f.overtime[employeeID], nil
}

func (f *fakeAttendance) BillableDays(ctx context.Context, employeeID int64, start, end time.Time) (int, error) {
	return f.billable[employeeID], nil
}

func oneContract(resources ...contract.Resource) *fakeContractRepo {
	return &fakeContractRepo{
		contracts: map[int64]contract.Contract{1: {ID: 1, ClientName: "client", Status: contract.StatusActive}},
		resources: map[int64][]contract.Resource{1: resources},
	}
}

func TestBuildContractInvoice_DailyResourceWithManualOT(t *testing.T) {
	contracts := oneContract(contract.Resource{
		ContractID: 1, EmployeeID: 101, EmployeeName: name("سالم الحربي"),
		BillingRate: money("500"), BillingType: contract.BillingDaily, IsActive: true,
	})
	att := &fakeAttendance{
		billable: map[int64]int{101: 18},
		overtime: map[int64]decimal.Decimal{},
	}

	a := NewAssembler(contracts, att)
	draft, err := a.BuildContractInvoice(context.Background(), 1, 4, 2025, money("4"))
	require.NoError(t, err)

	require.Len(t, draft.Lines, 2)

	labor := draft.Lines[0]
	assert.Equal(t, ServiceLabor, labor.ServiceName)
	assert.True(t, labor.Qty.Equal(money("18")))
	assert.True(t, labor.Amount.Equal(money("9000")), "labor amount %s", labor.Amount)

	ot := draft.Lines[1]
	assert.Equal(t, ServiceLaborOT, ot.ServiceName)
	assert.True(t, ot.Qty.Equal(money("4")))
	assert.True(t, ot.Rate.Equal(money("500")))
	assert.True(t, ot.Amount.Equal(money("2000")), "ot amount %s", ot.Amount)

	assert.True(t, draft.TotalAmount.Equal(money("11000")), "total %s", draft.TotalAmount)
}

func TestBuildContractInvoice_MonthlyResourceSingleLine(t *testing.T) {
	contracts := oneContract(contract.Resource{
		ContractID: 1, EmployeeID: 102, EmployeeName: name("عمر زيد"),
		BillingRate: money("7500"), BillingType: contract.BillingMonthly, IsActive: true,
	})
	att := &fakeAttendance{billable: map[int64]int{}, overtime: map[int64]decimal.Decimal{}}

	a := NewAssembler(contracts, att)
	draft, err := a.BuildContractInvoice(context.Background(), 1, 4, 2025, decimal.Zero)
	require.NoError(t, err)

	require.Len(t, draft.Lines, 1)
	assert.True(t, draft.Lines[0].Qty.Equal(money("1")))
	assert.True(t, draft.TotalAmount.Equal(money("7500")))
}

func TestBuildContractInvoice_RecordedOvertimeAddsOTLine(t *testing.T) {
	contracts := oneContract(contract.Resource{
		ContractID: 1, EmployeeID: 103, EmployeeName: name("فهد"),
		BillingRate: money("400"), BillingType: contract.BillingDaily, IsActive: true,
	})
	att := &fakeAttendance{
		billable: map[int64]int{103: 20},
		overtime: map[int64]decimal.Decimal{103: money("6")},
	}

	a := NewAssembler(contracts, att)
	draft, err := a.BuildContractInvoice(context.Background(), 1, 5, 2025, decimal.Zero)
	require.NoError(t, err)

	require.Len(t, draft.Lines, 2)
	assert.Equal(t, ServiceLaborOT, draft.Lines[1].ServiceName)
	assert.True(t, draft.Lines[1].Amount.Equal(money("2400")))
	assert.True(t, draft.TotalAmount.Equal(money("10400")))
}

func TestBuildContractInvoice_DropsZeroAmountLines(t *testing.T) {
	contracts := oneContract(
		contract.Resource{
			ContractID: 1, EmployeeID: 104, EmployeeName: name("بدر"),
			BillingRate: money("500"), BillingType: contract.BillingDaily, IsActive: true,
		},
		contract.Resource{
			ContractID: 1, EmployeeID: 105, EmployeeName: name("ماجد"),
			BillingRate: money("6000"), BillingType: contract.BillingMonthly, IsActive: true,
		},
	)
	// 104 has no billable days; his line drops
	att := &fakeAttendance{billable: map[int64]int{104: 0}, overtime: map[int64]decimal.Decimal{}}

	a := NewAssembler(contracts, att)
	draft, err := a.BuildContractInvoice(context.Background(), 1, 4, 2025, decimal.Zero)
	require.NoError(t, err)

	require.Len(t, draft.Lines, 1)
	assert.Equal(t, int64(105), draft.Lines[0].EmployeeID)
}

func TestBuildContractInvoice_NoBillableLines(t *testing.T) {
	contracts := oneContract(contract.Resource{
		ContractID: 1, EmployeeID: 106,
		BillingRate: money("500"), BillingType: contract.BillingDaily, IsActive: true,
	})
	att := &fakeAttendance{billable: map[int64]int{106: 0}, overtime: map[int64]decimal.Decimal{}}

	a := NewAssembler(contracts, att)
	_, err := a.BuildContractInvoice(context.Background(), 1, 4, 2025, decimal.Zero)
	assert.ErrorIs(t, err, ErrNoBillableLines)
}

func TestBuildContractInvoice_ManualOTWithoutPositiveRateIgnored(t *testing.T) {
	contracts := oneContract(contract.Resource{
		ContractID: 1, EmployeeID: 107,
		BillingRate: decimal.Zero, BillingType: contract.BillingMonthly, IsActive: true,
	})
	att := &fakeAttendance{billable: map[int64]int{}, overtime: map[int64]decimal.Decimal{}}

	a := NewAssembler(contracts, att)
	_, err := a.BuildContractInvoice(context.Background(), 1, 4, 2025, money("5"))
	assert.ErrorIs(t, err, ErrNoBillableLines)
}

func TestBuildContractInvoice_UnknownContract(t *testing.T) {
	a := NewAssembler(&fakeContractRepo{contracts: map[int64]contract.Contract{}}, &fakeAttendance{})
	_, err := a.BuildContractInvoice(context.Background(), 9, 4, 2025, decimal.Zero)
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
}
