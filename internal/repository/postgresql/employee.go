package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	e.id, e.code, e.full_name, e.national_id, e.nationality,
	e.basic_salary, e.housing_allowance, e.transport_allowance, e.meal_allowance, e.other_allowance,
	e.status, e.mobile, e.email, e.iban,
	e.department_id, d.name, e.project_tag, e.hire_date, e.termination_date`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Code, &e.FullName, &e.NationalID, &e.Nationality,
		&e.BasicSalary, &e.HousingAllow, &e.TransportAllow, &e.MealAllow, &e.OtherAllow,
		&e.Status, &e.Mobile, &e.Email, &e.IBAN,
		&e.DepartmentID, &e.DepartmentName, &e.ProjectTag, &e.HireDate, &e.TerminationDate,
	)
	return e, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.id = $1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.status = 'active'
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *employeeRepository) ListActiveByDepartment(ctx context.Context, departmentID int64) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.status = 'active' AND e.department_id = $1
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *employeeRepository) ListDepartmentIDsWithActiveEmployees(ctx context.Context) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT department_id
		FROM employees
		WHERE status = 'active' AND department_id IS NOT NULL
		ORDER BY department_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan department id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var out []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
