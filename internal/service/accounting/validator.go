package accounting

import (
	"time"

	"github.com/shopspring/decimal"

	acct "github.com/nuzum-sa/nuzum-backend-go/internal/domain/accounting"
)

// ValidateEntries enforces the double-entry preconditions on a set of
// journal lines without touching storage. accounts must hold every
// account the entries reference; fiscalYears is the candidate set the
// entry date is checked against.
//
// Order of checks: period, shape, account validity, balance. The first
// violation wins.
func ValidateEntries(entries []acct.EntryInput, date time.Time, accounts map[int64]acct.Account, fiscalYears []acct.FiscalYear) error {
	open := false
	for _, y := range fiscalYears {
		if y.Open(date) {
			open = true
			break
		}
	}
	if !open {
		return acct.ErrNoOpenPeriod
	}

	if len(entries) < 2 {
		return acct.ErrTooFewEntries
	}

	var totalDebit, totalCredit decimal.Decimal
	for _, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return acct.ErrOneSidedEntry
		}
		if e.Debit.IsPositive() == e.Credit.IsPositive() {
			// both sides set, or both zero
			return acct.ErrOneSidedEntry
		}
		a, ok := accounts[e.AccountID]
		if !ok || !a.IsActive || a.IsGroup {
			return acct.ErrInvalidAccount
		}
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}

	totalDebit = totalDebit.RoundBank(2)
	totalCredit = totalCredit.RoundBank(2)
	if !totalDebit.Equal(totalCredit) {
		return &acct.UnbalancedError{Debit: totalDebit, Credit: totalCredit}
	}
	return nil
}
