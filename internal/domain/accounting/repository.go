package accounting

import (
	"context"
	"time"
)

type AccountingRepository interface {
	CreateAccount(ctx context.Context, a Account) (Account, error)
	GetAccount(ctx context.Context, id int64) (Account, error)
	GetAccountByCode(ctx context.Context, code string) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	// AccountsByID loads the named accounts plus a has-children flag so
	// the pure validator can enforce the leaf rule without I/O.
	AccountsByID(ctx context.Context, ids []int64) (map[int64]Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	CountEntriesForAccount(ctx context.Context, accountID int64) (int64, error)

	CreateFiscalYear(ctx context.Context, y FiscalYear) (FiscalYear, error)
	ListFiscalYears(ctx context.Context) ([]FiscalYear, error)
	SetFiscalYearClosed(ctx context.Context, id int64, closed bool) error
	// OpenFiscalYearFor resolves the active, unclosed year containing d.
	OpenFiscalYearFor(ctx context.Context, d time.Time) (FiscalYear, error)

	CreateCostCenter(ctx context.Context, c CostCenter) (CostCenter, error)
	ListCostCenters(ctx context.Context) ([]CostCenter, error)

	// NextTransactionSequence yields the next per-year journal sequence.
	NextTransactionSequence(ctx context.Context, year int) (int64, error)
	// CreateTransaction writes the header, its entries and the account
	// balance deltas inside one database transaction.
	CreateTransaction(ctx context.Context, t Transaction) (Transaction, error)
	GetTransaction(ctx context.Context, id int64) (Transaction, error)
	ListTransactions(ctx context.Context, from, to time.Time) ([]Transaction, error)
}
