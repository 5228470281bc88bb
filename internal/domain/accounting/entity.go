package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountAssets      AccountType = "assets"
	AccountLiabilities AccountType = "liabilities"
	AccountEquity      AccountType = "equity"
	AccountRevenue     AccountType = "revenue"
	AccountExpenses    AccountType = "expenses"
)

// Account is a chart-of-accounts node. The tree is an explicit adjacency
// model keyed by id; an account with children is a group and cannot be
// posted to.
type Account struct {
	ID       int64
	Code     string
	Name     string
	Type     AccountType
	ParentID *int64
	Level    int
	IsActive bool
	IsGroup  bool
	Balance  decimal.Decimal
}

type TransactionType string

const (
	TransactionJournal TransactionType = "journal"
	TransactionSalary  TransactionType = "salary"
	TransactionInvoice TransactionType = "invoice"
)

// Transaction is a double-entry journal header with >=2 entry lines.
type Transaction struct {
	ID                int64
	TransactionNumber string
	Date              time.Time
	Type              TransactionType
	Description       string
	TotalAmount       decimal.Decimal
	FiscalYearID      int64
	CostCenterID      *int64
	IsApproved        bool
	IsPosted          bool
	CreatedBy         string
	ApprovedBy        *string
	CreatedAt         time.Time

	Entries []Entry
}

// Entry is one transaction line; exactly one of debit/credit is positive.
type Entry struct {
	ID            int64
	TransactionID int64
	AccountID     int64
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Description   string
}

// EntryInput is the pre-validation shape of a journal line.
type EntryInput struct {
	AccountID   int64           `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// FiscalYear is the window during which postings are allowed.
type FiscalYear struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	IsClosed  bool
}

// Open reports whether postings dated d are accepted by the year.
func (y FiscalYear) Open(d time.Time) bool {
	return y.IsActive && !y.IsClosed && !d.Before(y.StartDate) && !d.After(y.EndDate)
}

// CostCenter is a reporting dimension; a tree like Account.
type CostCenter struct {
	ID           int64
	Code         string
	Name         string
	ParentID     *int64
	Level        int
	IsActive     bool
	BudgetAmount decimal.Decimal
}
