package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/bridge/erpnext"
	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/middleware"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
)

type BridgeHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	SaveSettings(w http.ResponseWriter, r *http.Request)
	TestConnection(w http.ResponseWriter, r *http.Request)
	PreviewInvoice(w http.ResponseWriter, r *http.Request)
	SubmitInvoice(w http.ResponseWriter, r *http.Request)
	ListInvoices(w http.ResponseWriter, r *http.Request)
	HealthReport(w http.ResponseWriter, r *http.Request)
	DisableAccount(w http.ResponseWriter, r *http.Request)
	UpsertPrintFormat(w http.ResponseWriter, r *http.Request)
}

type bridgeHandlerImpl struct {
	bridgeService *erpnext.Service
	instanceDir   string
}

func NewBridgeHandler(bridgeService *erpnext.Service, instanceDir string) BridgeHandler {
	return &bridgeHandlerImpl{bridgeService: bridgeService, instanceDir: instanceDir}
}

func (h *bridgeHandlerImpl) client(w http.ResponseWriter) (*erpnext.Client, bool) {
	c := h.bridgeService.Client()
	if c == nil {
		response.HandleError(w, erpnext.ErrNotConfigured)
		return nil, false
	}
	return c, true
}

func (h *bridgeHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := config.LoadBridgeSettings(h.instanceDir)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings.Masked())
}

// SaveSettings persists the document and swaps the live client. Masked
// secrets in the payload keep their stored values.
func (h *bridgeHandlerImpl) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var incoming config.BridgeSettings
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	saved, err := config.SaveBridgeSettings(h.instanceDir, incoming)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	client, err := erpnext.NewClient(saved)
	if err != nil && !errors.Is(err, erpnext.ErrNotConfigured) {
		response.HandleError(w, err)
		return
	}
	h.bridgeService.SetClient(client)

	response.SuccessWithMessage(w, "Bridge settings saved", saved.Masked())
}

func (h *bridgeHandlerImpl) TestConnection(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w)
	if !ok {
		return
	}

	user, err := client.TestConnection(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Connection OK", map[string]string{"remote_user": user})
}

type submitInvoiceRequest struct {
	ContractID    int64           `json:"contract_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	ManualOTHours decimal.Decimal `json:"manual_ot_hours"`
	DiscountPct   decimal.Decimal `json:"discount_pct"`
	PaymentTerms  string          `json:"payment_terms"`
	CostCenter    string          `json:"cost_center"`
}

// PreviewInvoice assembles the draft locally; nothing is posted.
func (h *bridgeHandlerImpl) PreviewInvoice(w http.ResponseWriter, r *http.Request) {
	var req submitInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.ContractID <= 0 || req.Year == 0 || req.Month < 1 || req.Month > 12 {
		response.BadRequest(w, "Contract and period are required", nil)
		return
	}

	draft, err := h.bridgeService.PreviewContractInvoice(r.Context(), req.ContractID, req.Month, req.Year, req.ManualOTHours)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, draft)
}

func (h *bridgeHandlerImpl) SubmitInvoice(w http.ResponseWriter, r *http.Request) {
	var req submitInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.ContractID <= 0 || req.Year == 0 || req.Month < 1 || req.Month > 12 {
		response.BadRequest(w, "Contract and period are required", nil)
		return
	}

	jobID := h.bridgeService.SubmitContractInvoice(erpnext.SubmitInvoiceInput{
		ContractID:    req.ContractID,
		Year:          req.Year,
		Month:         req.Month,
		ManualOTHours: req.ManualOTHours,
		DiscountPct:   req.DiscountPct,
		PaymentTerms:  req.PaymentTerms,
		CostCenter:    req.CostCenter,
	}, middleware.CurrentUser(r))

	response.Accepted(w, "Invoice submission queued", map[string]string{"job_id": jobID})
}

func (h *bridgeHandlerImpl) ListInvoices(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w)
	if !ok {
		return
	}

	result, err := client.ListSalesInvoices(r.Context(), queryInt(r, "limit"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bridgeHandlerImpl) HealthReport(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w)
	if !ok {
		return
	}

	result, err := client.GetAccountingHealthReport(r.Context(), queryInt(r, "limit"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type disableAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (h *bridgeHandlerImpl) DisableAccount(w http.ResponseWriter, r *http.Request) {
	var req disableAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Code == "" && req.Name == "" {
		response.BadRequest(w, "Account code or name is required", nil)
		return
	}

	client, ok := h.client(w)
	if !ok {
		return
	}

	disabled, err := client.DisableAccountByCodeOrName(r.Context(), req.Code, req.Name)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Accounts disabled", map[string]any{"disabled": disabled})
}

type printFormatRequest struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

func (h *bridgeHandlerImpl) UpsertPrintFormat(w http.ResponseWriter, r *http.Request) {
	var req printFormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Name == "" || req.HTML == "" {
		response.BadRequest(w, "Print format name and html are required", nil)
		return
	}

	client, ok := h.client(w)
	if !ok {
		return
	}

	created, err := client.UpsertPrintFormat(r.Context(), req.Name, req.HTML)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if created {
		response.Created(w, "Print format created", map[string]string{"name": req.Name})
		return
	}
	response.SuccessWithMessage(w, "Print format updated", map[string]string{"name": req.Name})
}
