package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	acct "github.com/nuzum-sa/nuzum-backend-go/internal/domain/accounting"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

// SalaryAccounts maps the salary journal legs onto chart-of-accounts
// codes. Zero value uses the seeded chart.
type SalaryAccounts struct {
	SalaryExpense   string // debit: gross + overtime
	GOSIExpense     string // debit: company share
	SalariesPayable string // credit: net payable
	GOSIPayable     string // credit: employee + company share
	DeductionsOwed  string // credit: non-GOSI deductions
}

func DefaultSalaryAccounts() SalaryAccounts {
	return SalaryAccounts{
		SalaryExpense:   "5101",
		GOSIExpense:     "5102",
		SalariesPayable: "2101",
		GOSIPayable:     "2102",
		DeductionsOwed:  "2103",
	}
}

type ServiceImpl struct {
	repo           acct.AccountingRepository
	salaryAccounts SalaryAccounts
}

func NewAccountingService(repo acct.AccountingRepository, salaryAccounts SalaryAccounts) *ServiceImpl {
	if salaryAccounts == (SalaryAccounts{}) {
		salaryAccounts = DefaultSalaryAccounts()
	}
	return &ServiceImpl{repo: repo, salaryAccounts: salaryAccounts}
}

// PostJournal validates the lines and writes the transaction, its
// entries and the account balance deltas atomically.
func (s *ServiceImpl) PostJournal(ctx context.Context, date time.Time, txType acct.TransactionType, description string, entries []acct.EntryInput, costCenterID *int64, user string) (acct.Transaction, error) {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AccountID)
	}
	accounts, err := s.repo.AccountsByID(ctx, ids)
	if err != nil {
		return acct.Transaction{}, fmt.Errorf("load accounts: %w", err)
	}
	years, err := s.repo.ListFiscalYears(ctx)
	if err != nil {
		return acct.Transaction{}, fmt.Errorf("load fiscal years: %w", err)
	}
	if err := ValidateEntries(entries, date, accounts, years); err != nil {
		return acct.Transaction{}, err
	}

	fy, err := s.repo.OpenFiscalYearFor(ctx, date)
	if err != nil {
		return acct.Transaction{}, fmt.Errorf("resolve fiscal year: %w", err)
	}
	seq, err := s.repo.NextTransactionSequence(ctx, date.Year())
	if err != nil {
		return acct.Transaction{}, fmt.Errorf("next journal sequence: %w", err)
	}

	var total decimal.Decimal
	tx := acct.Transaction{
		TransactionNumber: fmt.Sprintf("JV-%d-%05d", date.Year(), seq),
		Date:              date,
		Type:              txType,
		Description:       description,
		FiscalYearID:      fy.ID,
		CostCenterID:      costCenterID,
		IsApproved:        true,
		IsPosted:          true,
		CreatedBy:         user,
	}
	for _, e := range entries {
		total = total.Add(e.Debit)
		tx.Entries = append(tx.Entries, acct.Entry{
			AccountID:   e.AccountID,
			Debit:       e.Debit.RoundBank(2),
			Credit:      e.Credit.RoundBank(2),
			Description: e.Description,
		})
	}
	tx.TotalAmount = total.RoundBank(2)

	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return acct.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

// PostSalaryJournal books an approved payroll record: salary cost and
// the company GOSI share on the expense side, net pay and withholdings
// on the payable side. Records that net to zero on every leg are not
// posted.
func (s *ServiceImpl) PostSalaryJournal(ctx context.Context, rec payroll.Record, user string) error {
	salaryCost := rec.GrossSalary.Add(rec.OvertimePay)
	gosiTotal := rec.GOSIEmployee.Add(rec.GOSICompany)
	otherDeductions := rec.TotalDeductions.Sub(rec.GOSIEmployee)

	legs := []struct {
		code   string
		debit  decimal.Decimal
		credit decimal.Decimal
	}{
		{s.salaryAccounts.SalaryExpense, salaryCost, decimal.Zero},
		{s.salaryAccounts.GOSIExpense, rec.GOSICompany, decimal.Zero},
		{s.salaryAccounts.SalariesPayable, decimal.Zero, rec.NetPayable},
		{s.salaryAccounts.GOSIPayable, decimal.Zero, gosiTotal},
		{s.salaryAccounts.DeductionsOwed, decimal.Zero, otherDeductions},
	}

	name := ""
	if rec.EmployeeName != nil {
		name = *rec.EmployeeName
	}
	description := fmt.Sprintf("قيد رواتب %02d/%d - %s", rec.Month, rec.Year, name)

	var entries []acct.EntryInput
	for _, leg := range legs {
		if leg.debit.IsZero() && leg.credit.IsZero() {
			continue
		}
		a, err := s.repo.GetAccountByCode(ctx, leg.code)
		if err != nil {
			return fmt.Errorf("salary account %s: %w", leg.code, err)
		}
		entries = append(entries, acct.EntryInput{
			AccountID:   a.ID,
			Debit:       leg.debit,
			Credit:      leg.credit,
			Description: description,
		})
	}
	if len(entries) < 2 {
		return nil
	}

	date := rec.PeriodEnd
	if rec.ApprovedAt != nil {
		date = *rec.ApprovedAt
	}
	_, err := s.PostJournal(ctx, date, acct.TransactionSalary, description, entries, nil, user)
	return err
}

// CreateAccount inserts a chart node, deriving level from the parent
// and flipping the parent into a group.
func (s *ServiceImpl) CreateAccount(ctx context.Context, a acct.Account) (acct.Account, error) {
	if a.ParentID != nil {
		parent, err := s.repo.GetAccount(ctx, *a.ParentID)
		if err != nil {
			return acct.Account{}, err
		}
		a.Level = parent.Level + 1
		a.Type = parent.Type
	} else {
		a.Level = 1
	}
	a.IsActive = true
	return s.repo.CreateAccount(ctx, a)
}

// DeleteAccount refuses when the account has posted entries or
// children anywhere below it.
func (s *ServiceImpl) DeleteAccount(ctx context.Context, id int64) error {
	n, err := s.repo.CountEntriesForAccount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return acct.ErrAccountReferenced
	}
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if a.IsGroup {
		return acct.ErrAccountReferenced
	}
	return s.repo.DeleteAccount(ctx, id)
}

func (s *ServiceImpl) ListAccounts(ctx context.Context) ([]acct.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// Revenue preflight legs, from the seeded chart.
const (
	accountReceivable   = "1201"
	accountLaborRevenue = "4101"
)

// PreflightRevenue validates the two-leg revenue journal an invoice
// would produce on date, without posting anything. Used as the local
// check before a draft leaves for the remote ERP.
func (s *ServiceImpl) PreflightRevenue(ctx context.Context, date time.Time, amount decimal.Decimal) error {
	ar, err := s.repo.GetAccountByCode(ctx, accountReceivable)
	if err != nil {
		return err
	}
	rev, err := s.repo.GetAccountByCode(ctx, accountLaborRevenue)
	if err != nil {
		return err
	}
	years, err := s.repo.ListFiscalYears(ctx)
	if err != nil {
		return fmt.Errorf("load fiscal years: %w", err)
	}

	entries := []acct.EntryInput{
		{AccountID: ar.ID, Debit: amount, Description: "ذمم مدينة"},
		{AccountID: rev.ID, Credit: amount, Description: "إيراد توريد عمالة"},
	}
	accounts := map[int64]acct.Account{ar.ID: ar, rev.ID: rev}
	return ValidateEntries(entries, date, accounts, years)
}

// AccountNode is an account with its children, for the tree endpoint.
type AccountNode struct {
	acct.Account
	Children []*AccountNode `json:"children"`
}

// AccountTree assembles the adjacency rows into root-anchored trees.
// Orphans (dangling parent ids) surface as roots instead of vanishing.
func (s *ServiceImpl) AccountTree(ctx context.Context) ([]*AccountNode, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	nodes := make(map[int64]*AccountNode, len(accounts))
	for _, a := range accounts {
		nodes[a.ID] = &AccountNode{Account: a}
	}
	var roots []*AccountNode
	for _, a := range accounts {
		n := nodes[a.ID]
		if a.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*a.ParentID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots, nil
}

// DescendantIDs walks the subtree below id iteratively. A visited set
// guards against cycles in corrupted adjacency data.
func (s *ServiceImpl) DescendantIDs(ctx context.Context, id int64) ([]int64, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	children := make(map[int64][]int64)
	for _, a := range accounts {
		if a.ParentID != nil {
			children[*a.ParentID] = append(children[*a.ParentID], a.ID)
		}
	}
	visited := map[int64]bool{id: true}
	var out []int64
	queue := append([]int64(nil), children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		queue = append(queue, children[cur]...)
	}
	return out, nil
}

func (s *ServiceImpl) CreateFiscalYear(ctx context.Context, y acct.FiscalYear) (acct.FiscalYear, error) {
	y.IsActive = true
	return s.repo.CreateFiscalYear(ctx, y)
}

func (s *ServiceImpl) SetFiscalYearClosed(ctx context.Context, id int64, closed bool) error {
	return s.repo.SetFiscalYearClosed(ctx, id, closed)
}

func (s *ServiceImpl) ListFiscalYears(ctx context.Context) ([]acct.FiscalYear, error) {
	return s.repo.ListFiscalYears(ctx)
}

func (s *ServiceImpl) CreateCostCenter(ctx context.Context, c acct.CostCenter) (acct.CostCenter, error) {
	c.IsActive = true
	return s.repo.CreateCostCenter(ctx, c)
}

func (s *ServiceImpl) ListCostCenters(ctx context.Context) ([]acct.CostCenter, error) {
	return s.repo.ListCostCenters(ctx)
}

func (s *ServiceImpl) GetTransaction(ctx context.Context, id int64) (acct.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *ServiceImpl) ListTransactions(ctx context.Context, from, to time.Time) ([]acct.Transaction, error) {
	return s.repo.ListTransactions(ctx, from, to)
}
