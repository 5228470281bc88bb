package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type contractRepository struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `
	id, department_id, client_name, contract_type, start_date, end_date,
	status, vat_number, notes, created_at, updated_at`

func scanContract(row pgx.Row) (contract.Contract, error) {
	var c contract.Contract
	err := row.Scan(
		&c.ID, &c.DepartmentID, &c.ClientName, &c.Type, &c.StartDate, &c.EndDate,
		&c.Status, &c.VATNumber, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *contractRepository) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO contracts (department_id, client_name, contract_type, start_date, end_date, status, vat_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + contractColumns + `
	`

	created, err := scanContract(q.QueryRow(ctx, query,
		c.DepartmentID, c.ClientName, c.Type, c.StartDate, c.EndDate, c.Status, c.VATNumber, c.Notes,
	))
	if err != nil {
		return contract.Contract{}, fmt.Errorf("failed to create contract: %w", err)
	}
	return created, nil
}

func (r *contractRepository) Update(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE contracts SET
			client_name = $2, contract_type = $3, start_date = $4, end_date = $5,
			status = $6, vat_number = $7, notes = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contractColumns + `
	`

	updated, err := scanContract(q.QueryRow(ctx, query,
		c.ID, c.ClientName, c.Type, c.StartDate, c.EndDate, c.Status, c.VATNumber, c.Notes,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return contract.Contract{}, contract.ErrContractNotFound
		}
		return contract.Contract{}, fmt.Errorf("failed to update contract: %w", err)
	}
	return updated, nil
}

func (r *contractRepository) GetByID(ctx context.Context, id int64) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanContract(q.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return contract.Contract{}, contract.ErrContractNotFound
		}
		return contract.Contract{}, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

func (r *contractRepository) ActiveForDepartment(ctx context.Context, departmentID int64, date time.Time) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE department_id = $1
		  AND status = 'active'
		  AND start_date <= $2
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY start_date DESC
		LIMIT 1
	`

	c, err := scanContract(q.QueryRow(ctx, query, departmentID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return contract.Contract{}, contract.ErrNoActiveContract
		}
		return contract.Contract{}, fmt.Errorf("failed to resolve active contract: %w", err)
	}
	return c, nil
}

func (r *contractRepository) List(ctx context.Context) ([]contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+contractColumns+` FROM contracts ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var out []contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const resourceColumns = `
	r.id, r.contract_id, r.employee_id, r.billing_rate, r.billing_type,
	r.overhead_monthly, r.housing_allowance, r.is_active, r.start_date, r.end_date,
	e.full_name, e.code`

func scanResource(row pgx.Row) (contract.Resource, error) {
	var res contract.Resource
	err := row.Scan(
		&res.ID, &res.ContractID, &res.EmployeeID, &res.BillingRate, &res.BillingType,
		&res.OverheadMonthly, &res.HousingAllowance, &res.IsActive, &res.StartDate, &res.EndDate,
		&res.EmployeeName, &res.EmployeeCode,
	)
	return res, err
}

func (r *contractRepository) CreateResource(ctx context.Context, res contract.Resource) (contract.Resource, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO contract_resources (contract_id, employee_id, billing_rate, billing_type,
			overhead_monthly, housing_allowance, is_active, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		res.ContractID, res.EmployeeID, res.BillingRate, res.BillingType,
		res.OverheadMonthly, res.HousingAllowance, res.IsActive, res.StartDate, res.EndDate,
	).Scan(&res.ID)
	if err != nil {
		if strings.Contains(err.Error(), "uk_contract_resource_employee") {
			return contract.Resource{}, contract.ErrResourceAlreadyExists
		}
		return contract.Resource{}, fmt.Errorf("failed to create contract resource: %w", err)
	}
	return res, nil
}

func (r *contractRepository) UpdateResource(ctx context.Context, res contract.Resource) (contract.Resource, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE contract_resources SET
			billing_rate = $2, billing_type = $3, overhead_monthly = $4,
			housing_allowance = $5, is_active = $6, start_date = $7, end_date = $8
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		res.ID, res.BillingRate, res.BillingType, res.OverheadMonthly,
		res.HousingAllowance, res.IsActive, res.StartDate, res.EndDate,
	)
	if err != nil {
		return contract.Resource{}, fmt.Errorf("failed to update contract resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contract.Resource{}, contract.ErrResourceNotFound
	}
	return res, nil
}

func (r *contractRepository) ResourcesInEffect(ctx context.Context, contractID int64, monthStart, monthEnd time.Time) ([]contract.Resource, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + resourceColumns + `
		FROM contract_resources r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.contract_id = $1
		  AND r.is_active
		  AND r.start_date <= $3
		  AND (r.end_date IS NULL OR r.end_date >= $2)
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query, contractID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list contract resources: %w", err)
	}
	defer rows.Close()

	var out []contract.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract resource: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *contractRepository) ResourceInEffectForEmployee(ctx context.Context, contractID, employeeID int64, monthStart, monthEnd time.Time) (contract.Resource, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + resourceColumns + `
		FROM contract_resources r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.contract_id = $1
		  AND r.employee_id = $2
		  AND r.is_active
		  AND r.start_date <= $4
		  AND (r.end_date IS NULL OR r.end_date >= $3)
		LIMIT 1
	`

	res, err := scanResource(q.QueryRow(ctx, query, contractID, employeeID, monthStart, monthEnd))
	if err != nil {
		if err == pgx.ErrNoRows {
			return contract.Resource{}, contract.ErrResourceNotFound
		}
		return contract.Resource{}, fmt.Errorf("failed to resolve contract resource: %w", err)
	}
	return res, nil
}
