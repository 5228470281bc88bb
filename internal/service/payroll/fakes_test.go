package payroll

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payrollconfig"
)

type fakePayrollRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]payroll.Record
	history []payroll.History
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{nextID: 1, records: map[int64]payroll.Record{}}
}

func (r *fakePayrollRepo) Create(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.EmployeeID == rec.EmployeeID && existing.Year == rec.Year && existing.Month == rec.Month {
			return payroll.Record{}, payroll.ErrDuplicatePeriod
		}
	}
	rec.ID = r.nextID
	r.nextID++
	rec.CreatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakePayrollRepo) GetByID(ctx context.Context, id int64) (payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return rec, nil
}

func (r *fakePayrollRepo) GetByPeriod(ctx context.Context, employeeID int64, year, month int) (payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.Year == year && rec.Month == month {
			return rec, nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (r *fakePayrollRepo) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Record
	for _, rec := range r.records {
		if filter.Year != 0 && rec.Year != filter.Year {
			continue
		}
		if filter.Month != 0 && rec.Month != filter.Month {
			continue
		}
		if filter.Status != nil && rec.PaymentStatus != *filter.Status {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakePayrollRepo) ListForExport(ctx context.Context, year, month int) ([]payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Record
	for _, rec := range r.records {
		if rec.Year == year && rec.Month == month &&
			(rec.PaymentStatus == payroll.StatusApproved || rec.PaymentStatus == payroll.StatusPaid) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) Update(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakePayrollRepo) SetLock(ctx context.Context, id int64, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return payroll.ErrRecordNotFound
	}
	rec.IsLocked = locked
	r.records[id] = rec
	return nil
}

func (r *fakePayrollRepo) AddHistory(ctx context.Context, rows []payroll.History) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, rows...)
	return nil
}

func (r *fakePayrollRepo) ListHistory(ctx context.Context, payrollID int64) ([]payroll.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.History
	for _, h := range r.history {
		if h.PayrollID == payrollID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[int64]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.Status == employee.StatusActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActiveByDepartment(ctx context.Context, departmentID int64) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.Status == employee.StatusActive && emp.DepartmentID != nil && *emp.DepartmentID == departmentID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListDepartmentIDsWithActiveEmployees(ctx context.Context) ([]int64, error) {
	seen := map[int64]bool{}
	var out []int64
	for _, emp := range r.employees {
		if emp.Status == employee.StatusActive && emp.DepartmentID != nil && !seen[*emp.DepartmentID] {
			seen[*emp.DepartmentID] = true
			out = append(out, *emp.DepartmentID)
		}
	}
	return out, nil
}

type fakeConfigRepo struct {
	cfg *payrollconfig.Configuration
}

func (r *fakeConfigRepo) Create(ctx context.Context, cfg payrollconfig.Configuration) (payrollconfig.Configuration, error) {
	r.cfg = &cfg
	return cfg, nil
}

func (r *fakeConfigRepo) List(ctx context.Context) ([]payrollconfig.Configuration, error) {
	if r.cfg == nil {
		return nil, nil
	}
	return []payrollconfig.Configuration{*r.cfg}, nil
}

func (r *fakeConfigRepo) ActiveFor(ctx context.Context, date time.Time) (payrollconfig.Configuration, error) {
	if r.cfg == nil {
		return payrollconfig.Configuration{}, payrollconfig.ErrConfigurationNotFound
	}
	return *r.cfg, nil
}

type fakeAttendance struct {
	counts map[int64]map[attendance.Status]int
	ot     map[int64]decimal.Decimal
}

func (f *fakeAttendance) CountByStatus(ctx context.Context, employeeID int64, start, end time.Time) (map[attendance.Status]int, error) {
	return f.counts[employeeID], nil
}

func (f *fakeAttendance) SumOvertimeHours(ctx context.Context, employeeID int64, start, end time.Time) (decimal.Decimal, error) {
	return f.ot[employeeID], nil
}

func (f *fakeAttendance) BillableDays(ctx context.Context, employeeID int64, start, end time.Time) (int, error) {
	days := 0
	for _, status := range attendance.BillableStatuses {
		days += f.counts[employeeID][status]
	}
	return days, nil
}
