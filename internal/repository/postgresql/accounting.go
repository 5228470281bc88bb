package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/accounting"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type accountingRepository struct {
	db *database.DB
}

func NewAccountingRepository(db *database.DB) accounting.AccountingRepository {
	return &accountingRepository{db: db}
}

const accountColumns = `
	a.id, a.code, a.name, a.account_type, a.parent_id, a.level, a.is_active,
	EXISTS (SELECT 1 FROM accounts c WHERE c.parent_id = a.id), a.balance`

func scanAccount(row pgx.Row) (accounting.Account, error) {
	var a accounting.Account
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.Level, &a.IsActive, &a.IsGroup, &a.Balance)
	return a, err
}

func (r *accountingRepository) CreateAccount(ctx context.Context, a accounting.Account) (accounting.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO accounts (code, name, account_type, parent_id, level, is_active, balance)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING id
	`

	err := q.QueryRow(ctx, query, a.Code, a.Name, a.Type, a.ParentID, a.Level, a.IsActive).Scan(&a.ID)
	if err != nil {
		if strings.Contains(err.Error(), "uk_account_code") {
			return accounting.Account{}, accounting.ErrAccountCodeExists
		}
		return accounting.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return r.GetAccount(ctx, a.ID)
}

func (r *accountingRepository) GetAccount(ctx context.Context, id int64) (accounting.Account, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAccount(q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return accounting.Account{}, accounting.ErrAccountNotFound
		}
		return accounting.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *accountingRepository) GetAccountByCode(ctx context.Context, code string) (accounting.Account, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAccount(q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.code = $1`, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return accounting.Account{}, accounting.ErrAccountNotFound
		}
		return accounting.Account{}, fmt.Errorf("failed to get account by code: %w", err)
	}
	return a, nil
}

func (r *accountingRepository) ListAccounts(ctx context.Context) ([]accounting.Account, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+accountColumns+` FROM accounts a ORDER BY a.code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []accounting.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountingRepository) AccountsByID(ctx context.Context, ids []int64) (map[int64]accounting.Account, error) {
	if len(ids) == 0 {
		return map[int64]accounting.Account{}, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]accounting.Account, len(ids))
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

func (r *accountingRepository) DeleteAccount(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accounting.ErrAccountNotFound
	}
	return nil
}

func (r *accountingRepository) CountEntriesForAccount(ctx context.Context, accountID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM transaction_entries WHERE account_id = $1`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count account entries: %w", err)
	}
	return n, nil
}

func (r *accountingRepository) CreateFiscalYear(ctx context.Context, y accounting.FiscalYear) (accounting.FiscalYear, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO fiscal_years (name, start_date, end_date, is_active, is_closed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if err := q.QueryRow(ctx, query, y.Name, y.StartDate, y.EndDate, y.IsActive, y.IsClosed).Scan(&y.ID); err != nil {
		return accounting.FiscalYear{}, fmt.Errorf("failed to create fiscal year: %w", err)
	}
	return y, nil
}

func (r *accountingRepository) ListFiscalYears(ctx context.Context) ([]accounting.FiscalYear, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, start_date, end_date, is_active, is_closed
		FROM fiscal_years
		ORDER BY start_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	defer rows.Close()

	var out []accounting.FiscalYear
	for rows.Next() {
		var y accounting.FiscalYear
		if err := rows.Scan(&y.ID, &y.Name, &y.StartDate, &y.EndDate, &y.IsActive, &y.IsClosed); err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year: %w", err)
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

func (r *accountingRepository) SetFiscalYearClosed(ctx context.Context, id int64, closed bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE fiscal_years SET is_closed = $2 WHERE id = $1`, id, closed)
	if err != nil {
		return fmt.Errorf("failed to set fiscal year state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accounting.ErrFiscalYearNotFound
	}
	return nil
}

func (r *accountingRepository) OpenFiscalYearFor(ctx context.Context, d time.Time) (accounting.FiscalYear, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_date, end_date, is_active, is_closed
		FROM fiscal_years
		WHERE is_active AND NOT is_closed AND start_date <= $1 AND end_date >= $1
		ORDER BY start_date DESC
		LIMIT 1
	`

	var y accounting.FiscalYear
	err := q.QueryRow(ctx, query, d).Scan(&y.ID, &y.Name, &y.StartDate, &y.EndDate, &y.IsActive, &y.IsClosed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return accounting.FiscalYear{}, accounting.ErrNoOpenPeriod
		}
		return accounting.FiscalYear{}, fmt.Errorf("failed to resolve fiscal year: %w", err)
	}
	return y, nil
}

func (r *accountingRepository) CreateCostCenter(ctx context.Context, c accounting.CostCenter) (accounting.CostCenter, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO cost_centers (code, name, parent_id, level, is_active, budget_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if err := q.QueryRow(ctx, query, c.Code, c.Name, c.ParentID, c.Level, c.IsActive, c.BudgetAmount).Scan(&c.ID); err != nil {
		return accounting.CostCenter{}, fmt.Errorf("failed to create cost center: %w", err)
	}
	return c, nil
}

func (r *accountingRepository) ListCostCenters(ctx context.Context) ([]accounting.CostCenter, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, code, name, parent_id, level, is_active, budget_amount
		FROM cost_centers
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost centers: %w", err)
	}
	defer rows.Close()

	var out []accounting.CostCenter
	for rows.Next() {
		var c accounting.CostCenter
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.ParentID, &c.Level, &c.IsActive, &c.BudgetAmount); err != nil {
			return nil, fmt.Errorf("failed to scan cost center: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *accountingRepository) NextTransactionSequence(ctx context.Context, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var seq int64
	err := q.QueryRow(ctx, `
		INSERT INTO transaction_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = transaction_sequences.last_value + 1
		RETURNING last_value
	`, year).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to advance transaction sequence: %w", err)
	}
	return seq, nil
}

// CreateTransaction writes the header, its entries and the account
// balance deltas in one database transaction. Balances move with the
// entries or not at all.
func (r *accountingRepository) CreateTransaction(ctx context.Context, t accounting.Transaction) (accounting.Transaction, error) {
	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO transactions (transaction_number, date, transaction_type, description,
				total_amount, fiscal_year_id, cost_center_id, is_approved, is_posted, created_by, approved_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at
		`
		err := q.QueryRow(txCtx, query,
			t.TransactionNumber, t.Date, t.Type, t.Description,
			t.TotalAmount, t.FiscalYearID, t.CostCenterID, t.IsApproved, t.IsPosted, t.CreatedBy, t.ApprovedBy,
		).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		for i := range t.Entries {
			e := &t.Entries[i]
			e.TransactionID = t.ID
			err := q.QueryRow(txCtx, `
				INSERT INTO transaction_entries (transaction_id, account_id, debit, credit, description)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, e.TransactionID, e.AccountID, e.Debit, e.Credit, e.Description).Scan(&e.ID)
			if err != nil {
				return fmt.Errorf("failed to create transaction entry: %w", err)
			}

			if _, err := q.Exec(txCtx, `
				UPDATE accounts SET balance = balance + $2 - $3 WHERE id = $1
			`, e.AccountID, e.Debit, e.Credit); err != nil {
				return fmt.Errorf("failed to update account balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return accounting.Transaction{}, err
	}
	return t, nil
}

func (r *accountingRepository) GetTransaction(ctx context.Context, id int64) (accounting.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, transaction_number, date, transaction_type, description,
			total_amount, fiscal_year_id, cost_center_id, is_approved, is_posted,
			created_by, approved_by, created_at
		FROM transactions
		WHERE id = $1
	`

	var t accounting.Transaction
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TransactionNumber, &t.Date, &t.Type, &t.Description,
		&t.TotalAmount, &t.FiscalYearID, &t.CostCenterID, &t.IsApproved, &t.IsPosted,
		&t.CreatedBy, &t.ApprovedBy, &t.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return accounting.Transaction{}, accounting.ErrTransactionNotFound
		}
		return accounting.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, transaction_id, account_id, debit, credit, description
		FROM transaction_entries
		WHERE transaction_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return accounting.Transaction{}, fmt.Errorf("failed to list transaction entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e accounting.Entry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Debit, &e.Credit, &e.Description); err != nil {
			return accounting.Transaction{}, fmt.Errorf("failed to scan transaction entry: %w", err)
		}
		t.Entries = append(t.Entries, e)
	}
	return t, rows.Err()
}

func (r *accountingRepository) ListTransactions(ctx context.Context, from, to time.Time) ([]accounting.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, transaction_number, date, transaction_type, description,
			total_amount, fiscal_year_id, cost_center_id, is_approved, is_posted,
			created_by, approved_by, created_at
		FROM transactions
		WHERE date BETWEEN $1 AND $2
		ORDER BY date DESC, id DESC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []accounting.Transaction
	for rows.Next() {
		var t accounting.Transaction
		if err := rows.Scan(
			&t.ID, &t.TransactionNumber, &t.Date, &t.Type, &t.Description,
			&t.TotalAmount, &t.FiscalYearID, &t.CostCenterID, &t.IsApproved, &t.IsPosted,
			&t.CreatedBy, &t.ApprovedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
