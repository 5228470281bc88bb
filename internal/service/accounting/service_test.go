package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acct "github.com/nuzum-sa/nuzum-backend-go/internal/domain/accounting"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

type fakeAccountingRepo struct {
	acct.AccountingRepository

	accounts     map[int64]acct.Account
	years        []acct.FiscalYear
	seq          int64
	transactions []acct.Transaction
}

func newFakeAccountingRepo() *fakeAccountingRepo {
	r := &fakeAccountingRepo{accounts: map[int64]acct.Account{}}
	for i, a := range []acct.Account{
		{Code: "5101", Name: "رواتب وأجور", Type: acct.AccountExpenses, IsActive: true},
		{Code: "5102", Name: "مصروف التأمينات الاجتماعية", Type: acct.AccountExpenses, IsActive: true},
		{Code: "2101", Name: "رواتب مستحقة", Type: acct.AccountLiabilities, IsActive: true},
		{Code: "2102", Name: "التأمينات الاجتماعية مستحقة", Type: acct.AccountLiabilities, IsActive: true},
		{Code: "2103", Name: "استقطاعات مستحقة", Type: acct.AccountLiabilities, IsActive: true},
	} {
		a.ID = int64(i + 1)
		r.accounts[a.ID] = a
	}
	r.years = []acct.FiscalYear{{
		ID:        1,
		Name:      "2025",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}}
	return r
}

func (r *fakeAccountingRepo) GetAccount(ctx context.Context, id int64) (acct.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return acct.Account{}, acct.ErrAccountNotFound
	}
	return a, nil
}

func (r *fakeAccountingRepo) GetAccountByCode(ctx context.Context, code string) (acct.Account, error) {
	for _, a := range r.accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return acct.Account{}, acct.ErrAccountNotFound
}

func (r *fakeAccountingRepo) ListAccounts(ctx context.Context) ([]acct.Account, error) {
	var out []acct.Account
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAccountingRepo) AccountsByID(ctx context.Context, ids []int64) (map[int64]acct.Account, error) {
	out := map[int64]acct.Account{}
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (r *fakeAccountingRepo) ListFiscalYears(ctx context.Context) ([]acct.FiscalYear, error) {
	return r.years, nil
}

func (r *fakeAccountingRepo) OpenFiscalYearFor(ctx context.Context, d time.Time) (acct.FiscalYear, error) {
	for _, y := range r.years {
		if y.Open(d) {
			return y, nil
		}
	}
	return acct.FiscalYear{}, acct.ErrFiscalYearNotFound
}

func (r *fakeAccountingRepo) NextTransactionSequence(ctx context.Context, year int) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeAccountingRepo) CreateTransaction(ctx context.Context, t acct.Transaction) (acct.Transaction, error) {
	t.ID = int64(len(r.transactions) + 1)
	r.transactions = append(r.transactions, t)
	return t, nil
}

func TestPostJournal_AssignsSequentialNumber(t *testing.T) {
	repo := newFakeAccountingRepo()
	svc := NewAccountingService(repo, SalaryAccounts{})
	date := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	entries := []acct.EntryInput{
		{AccountID: 1, Debit: money("500")},
		{AccountID: 3, Credit: money("500")},
	}
	tx, err := svc.PostJournal(context.Background(), date, acct.TransactionJournal, "تسوية", entries, nil, "admin")
	require.NoError(t, err)
	assert.Equal(t, "JV-2025-00001", tx.TransactionNumber)
	assert.True(t, tx.TotalAmount.Equal(money("500")))
	assert.True(t, tx.IsPosted)

	tx2, err := svc.PostJournal(context.Background(), date, acct.TransactionJournal, "تسوية", entries, nil, "admin")
	require.NoError(t, err)
	assert.Equal(t, "JV-2025-00002", tx2.TransactionNumber)
}

func TestPostJournal_RejectsUnbalanced(t *testing.T) {
	repo := newFakeAccountingRepo()
	svc := NewAccountingService(repo, SalaryAccounts{})
	date := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	entries := []acct.EntryInput{
		{AccountID: 1, Debit: money("500")},
		{AccountID: 3, Credit: money("400")},
	}
	_, err := svc.PostJournal(context.Background(), date, acct.TransactionJournal, "", entries, nil, "admin")
	var unbalanced *acct.UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	assert.Empty(t, repo.transactions)
}

func name(s string) *string { return &s }

func TestPostSalaryJournal_BooksBalancedLegs(t *testing.T) {
	repo := newFakeAccountingRepo()
	svc := NewAccountingService(repo, SalaryAccounts{})

	approvedAt := time.Date(2025, 3, 28, 10, 0, 0, 0, time.UTC)
	rec := payroll.Record{
		Year: 2025, Month: 3,
		PeriodEnd:       time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		GrossSalary:     money("5600"),
		OvertimePay:     money("300"),
		GOSIEmployee:    money("400"),
		GOSICompany:     money("520"),
		LoanDeduction:   money("100"),
		TotalDeductions: money("500"),
		NetPayable:      money("5400"),
		ApprovedAt:      &approvedAt,
		EmployeeName:    name("سالم الحربي"),
	}

	require.NoError(t, svc.PostSalaryJournal(context.Background(), rec, "admin"))
	require.Len(t, repo.transactions, 1)

	tx := repo.transactions[0]
	assert.Equal(t, acct.TransactionSalary, tx.Type)
	assert.Contains(t, tx.Description, "03/2025")

	var debit, credit decimal.Decimal
	for _, e := range tx.Entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	// 5900 + 520 on the expense side; 5400 + 920 + 100 on the payable side.
	assert.True(t, debit.Equal(money("6420")), "debit %s", debit)
	assert.True(t, credit.Equal(money("6420")), "credit %s", credit)
	require.Len(t, tx.Entries, 5)
}

func TestPostSalaryJournal_SkipsZeroRecord(t *testing.T) {
	repo := newFakeAccountingRepo()
	svc := NewAccountingService(repo, SalaryAccounts{})

	rec := payroll.Record{
		Year: 2025, Month: 3,
		PeriodEnd: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.PostSalaryJournal(context.Background(), rec, "admin"))
	assert.Empty(t, repo.transactions)
}

func TestPreflightRevenue_AcceptsAmountInOpenYear(t *testing.T) {
	repo := newFakeAccountingRepo()
	repo.accounts[20] = acct.Account{ID: 20, Code: "1201", Name: "ذمم العملاء", Type: acct.AccountAssets, IsActive: true}
	repo.accounts[21] = acct.Account{ID: 21, Code: "4101", Name: "إيراد توريد عمالة", Type: acct.AccountRevenue, IsActive: true}
	svc := NewAccountingService(repo, SalaryAccounts{})

	date := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.PreflightRevenue(context.Background(), date, money("48000")))

	// Nothing is booked; preflight is a dry run.
	assert.Empty(t, repo.transactions)

	outside := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	err := svc.PreflightRevenue(context.Background(), outside, money("48000"))
	assert.ErrorIs(t, err, acct.ErrNoOpenPeriod)
}

func TestPreflightRevenue_FailsWhenChartIsMissingAccounts(t *testing.T) {
	repo := newFakeAccountingRepo()
	svc := NewAccountingService(repo, SalaryAccounts{})

	date := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	err := svc.PreflightRevenue(context.Background(), date, money("48000"))
	assert.ErrorIs(t, err, acct.ErrAccountNotFound)
}

func TestAccountTree_NestsChildrenUnderParents(t *testing.T) {
	repo := newFakeAccountingRepo()
	parent := int64(1)
	repo.accounts[10] = acct.Account{ID: 10, Code: "5101.1", Name: "رواتب أساسية", ParentID: &parent, IsActive: true}
	svc := NewAccountingService(repo, SalaryAccounts{})

	roots, err := svc.AccountTree(context.Background())
	require.NoError(t, err)
	assert.Len(t, roots, 5)

	var found bool
	for _, r := range roots {
		if r.ID == 1 {
			require.Len(t, r.Children, 1)
			assert.Equal(t, int64(10), r.Children[0].ID)
			found = true
		}
	}
	assert.True(t, found)
}

func TestDescendantIDs_WalksSubtreeWithoutCycling(t *testing.T) {
	repo := newFakeAccountingRepo()
	p1, p10 := int64(1), int64(10)
	repo.accounts[10] = acct.Account{ID: 10, ParentID: &p1, IsActive: true}
	repo.accounts[11] = acct.Account{ID: 11, ParentID: &p10, IsActive: true}
	svc := NewAccountingService(repo, SalaryAccounts{})

	ids, err := svc.DescendantIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 11}, ids)
}
