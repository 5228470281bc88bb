package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
	profitabilitysvc "github.com/nuzum-sa/nuzum-backend-go/internal/service/profitability"
)

type ProfitabilityHandler interface {
	ProjectReport(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type profitabilityHandlerImpl struct {
	profitabilityService *profitabilitysvc.ServiceImpl
}

func NewProfitabilityHandler(profitabilityService *profitabilitysvc.ServiceImpl) ProfitabilityHandler {
	return &profitabilityHandlerImpl{profitabilityService: profitabilityService}
}

func (h *profitabilityHandlerImpl) ProjectReport(w http.ResponseWriter, r *http.Request) {
	departmentID, err := strconv.ParseInt(chi.URLParam(r, "departmentID"), 10, 64)
	if err != nil || departmentID <= 0 {
		response.BadRequest(w, "Department ID is required", nil)
		return
	}
	year, month := queryInt(r, "year"), queryInt(r, "month")

	result, err := h.profitabilityService.ProjectReport(r.Context(), departmentID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *profitabilityHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.profitabilityService.ProjectsSummary(r.Context(), queryInt(r, "month"), queryInt(r, "year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
