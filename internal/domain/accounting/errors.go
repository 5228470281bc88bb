package accounting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoOpenPeriod        = errors.New("no open fiscal year contains the entry date")
	ErrInvalidAccount      = errors.New("entry references a missing, inactive or group account")
	ErrOneSidedEntry       = errors.New("entry must carry either a debit or a credit, not both")
	ErrTooFewEntries       = errors.New("a transaction requires at least two entries")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountReferenced   = errors.New("account has transaction entries and cannot be deleted")
	ErrAccountCodeExists   = errors.New("account code already exists")
	ErrFiscalYearNotFound  = errors.New("fiscal year not found")
	ErrCostCenterNotFound  = errors.New("cost center not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// UnbalancedError carries the two sides of a failed double-entry check.
type UnbalancedError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("القيد غير متوازن: المدين %s لا يساوي الدائن %s",
		e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}
