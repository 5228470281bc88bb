package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	acct "github.com/nuzum-sa/nuzum-backend-go/internal/domain/accounting"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/middleware"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
	accountingsvc "github.com/nuzum-sa/nuzum-backend-go/internal/service/accounting"
)

type AccountingHandler interface {
	ListAccounts(w http.ResponseWriter, r *http.Request)
	AccountTree(w http.ResponseWriter, r *http.Request)
	CreateAccount(w http.ResponseWriter, r *http.Request)
	DeleteAccount(w http.ResponseWriter, r *http.Request)

	PostJournal(w http.ResponseWriter, r *http.Request)
	GetTransaction(w http.ResponseWriter, r *http.Request)
	ListTransactions(w http.ResponseWriter, r *http.Request)

	CreateFiscalYear(w http.ResponseWriter, r *http.Request)
	ListFiscalYears(w http.ResponseWriter, r *http.Request)
	SetFiscalYearClosed(w http.ResponseWriter, r *http.Request)

	CreateCostCenter(w http.ResponseWriter, r *http.Request)
	ListCostCenters(w http.ResponseWriter, r *http.Request)
}

type accountingHandlerImpl struct {
	accountingService *accountingsvc.ServiceImpl
}

func NewAccountingHandler(accountingService *accountingsvc.ServiceImpl) AccountingHandler {
	return &accountingHandlerImpl{accountingService: accountingService}
}

const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, value)
	return d, err == nil
}

func (h *accountingHandlerImpl) ListAccounts(w http.ResponseWriter, r *http.Request) {
	result, err := h.accountingService.ListAccounts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *accountingHandlerImpl) AccountTree(w http.ResponseWriter, r *http.Request) {
	result, err := h.accountingService.AccountTree(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type createAccountRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"account_type"`
	ParentID *int64 `json:"parent_id"`
}

func (h *accountingHandlerImpl) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Code == "" || req.Name == "" {
		response.BadRequest(w, "Account code and name are required", nil)
		return
	}

	result, err := h.accountingService.CreateAccount(r.Context(), acct.Account{
		Code:     req.Code,
		Name:     req.Name,
		Type:     acct.AccountType(req.Type),
		ParentID: req.ParentID,
		IsActive: true,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Account created", result)
}

func (h *accountingHandlerImpl) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Account ID is required", nil)
		return
	}

	if err := h.accountingService.DeleteAccount(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account deleted", nil)
}

type postJournalRequest struct {
	Date         string            `json:"date"`
	Type         string            `json:"transaction_type"`
	Description  string            `json:"description"`
	CostCenterID *int64            `json:"cost_center_id"`
	Entries      []acct.EntryInput `json:"entries"`
}

func (h *accountingHandlerImpl) PostJournal(w http.ResponseWriter, r *http.Request) {
	var req postJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		response.BadRequest(w, "Invalid or missing date", nil)
		return
	}
	txType := acct.TransactionType(req.Type)
	if txType == "" {
		txType = acct.TransactionJournal
	}

	result, err := h.accountingService.PostJournal(r.Context(), date, txType,
		req.Description, req.Entries, req.CostCenterID, middleware.CurrentUser(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Journal posted", result)
}

func (h *accountingHandlerImpl) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	result, err := h.accountingService.GetTransaction(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *accountingHandlerImpl) ListTransactions(w http.ResponseWriter, r *http.Request) {
	from, okFrom := parseDate(r.URL.Query().Get("from"))
	to, okTo := parseDate(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		response.BadRequest(w, "from and to dates are required", nil)
		return
	}

	result, err := h.accountingService.ListTransactions(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type createFiscalYearRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *accountingHandlerImpl) CreateFiscalYear(w http.ResponseWriter, r *http.Request) {
	var req createFiscalYearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	start, okStart := parseDate(req.StartDate)
	end, okEnd := parseDate(req.EndDate)
	if req.Name == "" || !okStart || !okEnd || end.Before(start) {
		response.BadRequest(w, "Fiscal year needs a name and a valid date window", nil)
		return
	}

	result, err := h.accountingService.CreateFiscalYear(r.Context(), acct.FiscalYear{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Fiscal year created", result)
}

func (h *accountingHandlerImpl) ListFiscalYears(w http.ResponseWriter, r *http.Request) {
	result, err := h.accountingService.ListFiscalYears(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type setFiscalYearClosedRequest struct {
	Closed bool `json:"closed"`
}

func (h *accountingHandlerImpl) SetFiscalYearClosed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Fiscal year ID is required", nil)
		return
	}

	var req setFiscalYearClosedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.accountingService.SetFiscalYearClosed(r.Context(), id, req.Closed); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fiscal year updated", map[string]bool{"closed": req.Closed})
}

type createCostCenterRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	ParentID     *int64          `json:"parent_id"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
}

func (h *accountingHandlerImpl) CreateCostCenter(w http.ResponseWriter, r *http.Request) {
	var req createCostCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Code == "" || req.Name == "" {
		response.BadRequest(w, "Cost center code and name are required", nil)
		return
	}

	result, err := h.accountingService.CreateCostCenter(r.Context(), acct.CostCenter{
		Code:         req.Code,
		Name:         req.Name,
		ParentID:     req.ParentID,
		IsActive:     true,
		BudgetAmount: req.BudgetAmount,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Cost center created", result)
}

func (h *accountingHandlerImpl) ListCostCenters(w http.ResponseWriter, r *http.Request) {
	result, err := h.accountingService.ListCostCenters(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
