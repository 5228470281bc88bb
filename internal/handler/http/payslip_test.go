package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/report"
	payrollsvc "github.com/nuzum-sa/nuzum-backend-go/internal/service/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/service/payslip"
)

type stubPayrollRepo struct {
	payroll.PayrollRepository
	record payroll.Record
}

func (s *stubPayrollRepo) GetByPeriod(_ context.Context, employeeID int64, year, month int) (payroll.Record, error) {
	if employeeID != s.record.EmployeeID || year != s.record.Year || month != s.record.Month {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return s.record, nil
}

type stubEmployeeRepo struct {
	employee.EmployeeRepository
	emp employee.Employee
}

func (s *stubEmployeeRepo) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	if id != s.emp.ID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return s.emp, nil
}

func newPayslipTestServer(t *testing.T) (*httptest.Server, *payslip.LinkService) {
	t.Helper()

	name := "سالم الحربي"
	code := "EMP-007"
	rec := payroll.Record{
		ID:           1,
		EmployeeID:   7,
		Year:         2025,
		Month:        3,
		BasicSalary:  decimal.NewFromInt(5000),
		GrossSalary:  decimal.NewFromInt(5000),
		NetPayable:   decimal.NewFromInt(4500),
		EmployeeName: &name,
		EmployeeCode: &code,
	}
	emp := employee.Employee{ID: 7, FullName: name, NationalID: "2345678901"}

	links := payslip.NewLinkService(config.LinkConfig{Secret: "payslip-test-secret", KeyID: "v1"}, "http://localhost:8080")
	svc := payrollsvc.NewPayrollService(&stubPayrollRepo{record: rec}, &stubEmployeeRepo{emp: emp}, nil, nil, nil)
	handler := NewPayslipHandler(svc, &stubEmployeeRepo{emp: emp}, links, nil, report.NewPDFRenderer("نُظم"))

	r := chi.NewRouter()
	r.Get("/secure-payslip/{token}", handler.SecurePayslip)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, links
}

func TestSecurePayslip_FullFlow(t *testing.T) {
	srv, links := newPayslipTestServer(t)

	token, err := links.Issue(7, 2025, 3, "2345678901")
	require.NoError(t, err)

	// No challenge answer yet: the identity form, never the document.
	resp, err := http.Get(srv.URL + "/secure-payslip/" + token)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	// Correct id answer serves the PDF.
	resp2, err := http.Get(srv.URL + "/secure-payslip/" + token + "?id_number=2345678901")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, "application/pdf", resp2.Header.Get("Content-Type"))
	assert.Equal(t, "no-store", resp2.Header.Get("Cache-Control"))
}

func TestSecurePayslip_WrongIdentity(t *testing.T) {
	srv, links := newPayslipTestServer(t)

	token, err := links.Issue(7, 2025, 3, "2345678901")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/secure-payslip/" + token + "?id_number=1111111111")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSecurePayslip_TamperedToken(t *testing.T) {
	srv, links := newPayslipTestServer(t)

	token, err := links.Issue(7, 2025, 3, "2345678901")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/secure-payslip/" + token + "x?id_number=2345678901")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSecurePayslip_ArabicIndicDigitsAccepted(t *testing.T) {
	srv, links := newPayslipTestServer(t)

	token, err := links.Issue(7, 2025, 3, "2345678901")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/secure-payslip/" + token + "?id_number=%D9%A2%D9%A3%D9%A4%D9%A5%D9%A6%D9%A7%D9%A8%D9%A9%D9%A0%D9%A1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}
