package response

import (
	"errors"
	"net/http"

	"github.com/nuzum-sa/nuzum-backend-go/internal/bridge/erpnext"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/accounting"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/bankexport"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payrollconfig"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/jobs"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/validator"
	"github.com/nuzum-sa/nuzum-backend-go/internal/service/invoice"
	"github.com/nuzum-sa/nuzum-backend-go/internal/service/payslip"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var unbalanced *accounting.UnbalancedError
	if errors.As(err, &unbalanced) {
		BadRequest(w, unbalanced.Error(), nil)
		return
	}

	var apiErr *erpnext.APIError
	if errors.As(err, &apiErr) {
		BadGateway(w, apiErr.Error())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrRecordLocked):
		Conflict(w, "Payroll record is locked")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrInconsistentAttendance):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrEmptyExport):
		BadRequest(w, "No payroll records match the export criteria", nil)

	// Employee / configuration
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payrollconfig.ErrConfigurationNotFound):
		NotFound(w, "Payroll configuration not found")
	case errors.Is(err, payrollconfig.ErrInvalidWindow):
		BadRequest(w, err.Error(), nil)

	// Contract domain errors
	case errors.Is(err, contract.ErrContractNotFound):
		NotFound(w, "Contract not found")
	case errors.Is(err, contract.ErrNoActiveContract):
		NotFound(w, "Department has no active contract")
	case errors.Is(err, contract.ErrResourceNotFound):
		NotFound(w, "Contract resource not found")
	case errors.Is(err, contract.ErrActiveContractOverlap):
		Conflict(w, "Department already has an active contract in that window")
	case errors.Is(err, contract.ErrResourceAlreadyExists):
		Conflict(w, "Employee is already a resource on this contract")
	case errors.Is(err, contract.ErrNegativeBillingRate):
		BadRequest(w, err.Error(), nil)

	// Accounting domain errors
	case errors.Is(err, accounting.ErrAccountNotFound):
		NotFound(w, "Account not found")
	case errors.Is(err, accounting.ErrFiscalYearNotFound):
		NotFound(w, "Fiscal year not found")
	case errors.Is(err, accounting.ErrCostCenterNotFound):
		NotFound(w, "Cost center not found")
	case errors.Is(err, accounting.ErrTransactionNotFound):
		NotFound(w, "Transaction not found")
	case errors.Is(err, accounting.ErrAccountCodeExists):
		Conflict(w, "Account code already exists")
	case errors.Is(err, accounting.ErrAccountReferenced):
		Conflict(w, "Account has transaction entries and cannot be deleted")
	case errors.Is(err, accounting.ErrNoOpenPeriod),
		errors.Is(err, accounting.ErrInvalidAccount),
		errors.Is(err, accounting.ErrOneSidedEntry),
		errors.Is(err, accounting.ErrTooFewEntries):
		BadRequest(w, err.Error(), nil)

	// Bank export
	case errors.Is(err, bankexport.ErrFileNotFound):
		NotFound(w, "Bank transfer file not found")
	case errors.Is(err, bankexport.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, bankexport.ErrInvalidStatusMove):
		Conflict(w, err.Error())

	// Invoicing and the finance bridge
	case errors.Is(err, invoice.ErrNoBillableLines):
		BadRequest(w, "No billable lines for this period", nil)
	case errors.Is(err, erpnext.ErrNotConfigured):
		BadRequest(w, "Finance bridge is not configured", nil)
	case errors.Is(err, erpnext.ErrAuth):
		BadGateway(w, "Finance bridge rejected the credentials")
	case errors.Is(err, erpnext.ErrUnavailable):
		BadGateway(w, "Finance bridge is unreachable")
	case errors.Is(err, erpnext.ErrFormat):
		BadGateway(w, "Finance bridge returned an unexpected response")

	// Secure payslip links
	case errors.Is(err, payslip.ErrInvalidLink):
		Unauthorized(w, "Payslip link is invalid")
	case errors.Is(err, payslip.ErrExpiredLink):
		Unauthorized(w, "Payslip link has expired")
	case errors.Is(err, payslip.ErrChallengeFailed):
		Forbidden(w, "Identity check failed")
	case errors.Is(err, payslip.ErrUnknownChannel):
		BadRequest(w, err.Error(), nil)

	// Background jobs
	case errors.Is(err, jobs.ErrNotFound):
		NotFound(w, "Job not found")
	case errors.Is(err, jobs.ErrUnauthorized):
		Forbidden(w, "Job belongs to another owner")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
