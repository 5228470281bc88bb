package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/bridge/erpnext"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
	contractsvc "github.com/nuzum-sa/nuzum-backend-go/internal/service/contract"
)

type ContractHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	AddResource(w http.ResponseWriter, r *http.Request)
	UpdateResource(w http.ResponseWriter, r *http.Request)
	ListResources(w http.ResponseWriter, r *http.Request)
	SyncCustomer(w http.ResponseWriter, r *http.Request)
}

type contractHandlerImpl struct {
	contractService *contractsvc.ServiceImpl
	bridgeService   *erpnext.Service
}

func NewContractHandler(contractService *contractsvc.ServiceImpl, bridgeService *erpnext.Service) ContractHandler {
	return &contractHandlerImpl{contractService: contractService, bridgeService: bridgeService}
}

type contractRequest struct {
	DepartmentID int64   `json:"department_id"`
	ClientName   string  `json:"client_name"`
	Type         string  `json:"contract_type"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Status       string  `json:"status"`
	VATNumber    *string `json:"vat_number"`
	Notes        *string `json:"notes"`
}

func (req contractRequest) toDomain() (contract.Contract, bool) {
	start, ok := parseDate(req.StartDate)
	if !ok || req.DepartmentID <= 0 || req.ClientName == "" {
		return contract.Contract{}, false
	}
	c := contract.Contract{
		DepartmentID: req.DepartmentID,
		ClientName:   req.ClientName,
		Type:         contract.ContractType(req.Type),
		StartDate:    start,
		Status:       contract.ContractStatus(req.Status),
		VATNumber:    req.VATNumber,
		Notes:        req.Notes,
	}
	if req.EndDate != nil {
		end, ok := parseDate(*req.EndDate)
		if !ok || end.Before(start) {
			return contract.Contract{}, false
		}
		c.EndDate = &end
	}
	return c, true
}

func (h *contractHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req contractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	c, ok := req.toDomain()
	if !ok {
		response.BadRequest(w, "Contract needs a department, client name and valid dates", nil)
		return
	}

	result, err := h.contractService.Create(r.Context(), c)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Contract created", result)
}

func (h *contractHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	var req contractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	c, okReq := req.toDomain()
	if !okReq {
		response.BadRequest(w, "Contract needs a department, client name and valid dates", nil)
		return
	}
	c.ID = id

	result, err := h.contractService.Update(r.Context(), c)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *contractHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	result, err := h.contractService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *contractHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.contractService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type resourceRequest struct {
	EmployeeID       int64           `json:"employee_id"`
	BillingRate      decimal.Decimal `json:"billing_rate"`
	BillingType      string          `json:"billing_type"`
	OverheadMonthly  decimal.Decimal `json:"overhead_monthly"`
	HousingAllowance decimal.Decimal `json:"housing_allowance"`
	StartDate        string          `json:"start_date"`
	EndDate          *string         `json:"end_date"`
	IsActive         *bool           `json:"is_active"`
}

func (req resourceRequest) toDomain(contractID int64) (contract.Resource, bool) {
	start, ok := parseDate(req.StartDate)
	if !ok || req.EmployeeID <= 0 {
		return contract.Resource{}, false
	}
	res := contract.Resource{
		ContractID:       contractID,
		EmployeeID:       req.EmployeeID,
		BillingRate:      req.BillingRate,
		BillingType:      contract.BillingType(req.BillingType),
		OverheadMonthly:  req.OverheadMonthly,
		HousingAllowance: req.HousingAllowance,
		IsActive:         true,
		StartDate:        start,
	}
	if req.IsActive != nil {
		res.IsActive = *req.IsActive
	}
	if req.EndDate != nil {
		end, ok := parseDate(*req.EndDate)
		if !ok || end.Before(start) {
			return contract.Resource{}, false
		}
		res.EndDate = &end
	}
	return res, true
}

func (h *contractHandlerImpl) AddResource(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	res, okReq := req.toDomain(contractID)
	if !okReq {
		response.BadRequest(w, "Resource needs an employee and valid dates", nil)
		return
	}

	result, err := h.contractService.AddResource(r.Context(), res)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Resource added", result)
}

type updateResourceRequest struct {
	resourceRequest
	ResourceID int64 `json:"resource_id"`
}

func (h *contractHandlerImpl) UpdateResource(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	var req updateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	res, okReq := req.toDomain(contractID)
	if !okReq || req.ResourceID <= 0 {
		response.BadRequest(w, "Resource needs an id, an employee and valid dates", nil)
		return
	}
	res.ID = req.ResourceID

	result, err := h.contractService.UpdateResource(r.Context(), res)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *contractHandlerImpl) ListResources(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}
	year, month := queryInt(r, "year"), queryInt(r, "month")
	if year == 0 || month == 0 {
		now := time.Now()
		year, month = now.Year(), int(now.Month())
	}
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	result, err := h.contractService.ResourcesInEffect(r.Context(), contractID, monthStart, monthEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *contractHandlerImpl) SyncCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	customer, err := h.bridgeService.SyncContractCustomer(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Customer synced", map[string]string{"customer": customer})
}
