package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/middleware"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
	payrollsvc "github.com/nuzum-sa/nuzum-backend-go/internal/service/payroll"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Unapprove(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	BatchApprove(w http.ResponseWriter, r *http.Request)
	SetLock(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService *payrollsvc.ServiceImpl
}

func NewPayrollHandler(payrollService *payrollsvc.ServiceImpl) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

type generatePayrollRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req generatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePeriod(r.Context(), req.Year, req.Month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	result, err := h.payrollService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := payroll.ListFilter{
		Year:  queryInt(r, "year"),
		Month: queryInt(r, "month"),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := payroll.Status(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("department_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid department_id", nil)
			return
		}
		filter.DepartmentID = &id
	}
	if v := r.URL.Query().Get("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid employee_id", nil)
			return
		}
		filter.EmployeeID = &id
	}

	result, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	result, err := h.payrollService.History(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type approvePayrollRequest struct {
	Notes *string `json:"notes"`
}

func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	var req approvePayrollRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.payrollService.Approve(r.Context(), id, middleware.CurrentUser(r), req.Notes)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record approved", result)
}

type rejectPayrollRequest struct {
	Reason string `json:"reason"`
}

func (h *payrollHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	var req rejectPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Reason == "" {
		response.BadRequest(w, "Rejection reason is required", nil)
		return
	}

	result, err := h.payrollService.Reject(r.Context(), id, middleware.CurrentUser(r), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record rejected", result)
}

type markPaidRequest struct {
	PaymentDate *time.Time `json:"payment_date"`
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	var req markPaidRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.payrollService.MarkPaid(r.Context(), id, middleware.CurrentUser(r), req.PaymentDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record marked paid", result)
}

func (h *payrollHandlerImpl) Unapprove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	result, err := h.payrollService.Unapprove(r.Context(), id, middleware.CurrentUser(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record returned to pending", result)
}

type recalculateRequest struct {
	LateDeduction       decimal.Decimal `json:"late_deduction"`
	EarlyLeaveDeduction decimal.Decimal `json:"early_leave_deduction"`
	LoanDeduction       decimal.Decimal `json:"loan_deduction"`
	AdvanceDeduction    decimal.Decimal `json:"advance_deduction"`
	InsuranceDeduction  decimal.Decimal `json:"insurance_deduction"`
	OtherDeduction      decimal.Decimal `json:"other_deduction"`
}

func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	var req recalculateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	adj := payroll.Adjustments{
		LateDeduction:       req.LateDeduction,
		EarlyLeaveDeduction: req.EarlyLeaveDeduction,
		LoanDeduction:       req.LoanDeduction,
		AdvanceDeduction:    req.AdvanceDeduction,
		InsuranceDeduction:  req.InsuranceDeduction,
		OtherDeduction:      req.OtherDeduction,
	}

	result, err := h.payrollService.Recalculate(r.Context(), id, middleware.CurrentUser(r), adj)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record recalculated", result)
}

type batchApproveRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *payrollHandlerImpl) BatchApprove(w http.ResponseWriter, r *http.Request) {
	var req batchApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.IDs) == 0 {
		response.BadRequest(w, "At least one payroll ID is required", nil)
		return
	}

	result := h.payrollService.BatchApprove(r.Context(), req.IDs, middleware.CurrentUser(r))
	response.Success(w, result)
}

type setLockRequest struct {
	Locked bool `json:"locked"`
}

func (h *payrollHandlerImpl) SetLock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	var req setLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.payrollService.SetLock(r.Context(), id, req.Locked); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll lock updated", map[string]bool{"locked": req.Locked})
}
