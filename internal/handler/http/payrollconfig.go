package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payrollconfig"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
)

type PayrollConfigHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
}

type payrollConfigHandlerImpl struct {
	configRepo payrollconfig.ConfigurationRepository
}

func NewPayrollConfigHandler(configRepo payrollconfig.ConfigurationRepository) PayrollConfigHandler {
	return &payrollConfigHandlerImpl{configRepo: configRepo}
}

type createConfigRequest struct {
	EffectiveFrom       string          `json:"effective_from"`
	EffectiveTo         *string         `json:"effective_to"`
	GOSIEmployeePct     decimal.Decimal `json:"gosi_employee_pct"`
	GOSICompanyPct      decimal.Decimal `json:"gosi_company_pct"`
	WorkingDaysPerMonth int             `json:"working_days_per_month"`
	OvertimeMultiplier  decimal.Decimal `json:"overtime_multiplier"`
	MinimumWage         decimal.Decimal `json:"minimum_wage"`
	SaudiGOSIRequired   bool            `json:"saudi_gosi_required"`
	ExpatGOSIRequired   bool            `json:"expat_gosi_required"`
	DefaultBankCode     string          `json:"default_bank_code"`
	BankTransferFee     decimal.Decimal `json:"bank_transfer_fee"`
}

func (h *payrollConfigHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req createConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	from, ok := parseDate(req.EffectiveFrom)
	if !ok {
		response.BadRequest(w, "effective_from is required", nil)
		return
	}

	cfg := payrollconfig.Configuration{
		EffectiveFrom:       from,
		GOSIEmployeePct:     req.GOSIEmployeePct,
		GOSICompanyPct:      req.GOSICompanyPct,
		WorkingDaysPerMonth: req.WorkingDaysPerMonth,
		OvertimeMultiplier:  req.OvertimeMultiplier,
		MinimumWage:         req.MinimumWage,
		SaudiGOSIRequired:   req.SaudiGOSIRequired,
		ExpatGOSIRequired:   req.ExpatGOSIRequired,
		DefaultBankCode:     req.DefaultBankCode,
		BankTransferFee:     req.BankTransferFee,
	}
	if req.EffectiveTo != nil {
		to, okTo := parseDate(*req.EffectiveTo)
		if !okTo || to.Before(from) {
			response.HandleError(w, payrollconfig.ErrInvalidWindow)
			return
		}
		cfg.EffectiveTo = &to
	}

	result, err := h.configRepo.Create(r.Context(), cfg)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll configuration created", result)
}

func (h *payrollConfigHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.configRepo.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Active resolves the configuration in effect on a date (default today).
func (h *payrollConfigHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, ok := parseDate(v)
		if !ok {
			response.BadRequest(w, "Invalid date", nil)
			return
		}
		date = d
	}

	result, err := h.configRepo.ActiveFor(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
