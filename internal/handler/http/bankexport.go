package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/bankexport"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/middleware"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
	bankexportsvc "github.com/nuzum-sa/nuzum-backend-go/internal/service/bankexport"
)

type BankExportHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	AdvanceStatus(w http.ResponseWriter, r *http.Request)
}

type bankExportHandlerImpl struct {
	exportService *bankexportsvc.ServiceImpl
}

func NewBankExportHandler(exportService *bankexportsvc.ServiceImpl) BankExportHandler {
	return &bankExportHandlerImpl{exportService: exportService}
}

type generateExportRequest struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	BankCode string `json:"bank_code"`
	Format   string `json:"format"`
}

// Generate renders the transfer file and streams it as a download. The
// tracking row id travels in a header so clients can advance its status.
func (h *bankExportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Format == "" {
		req.Format = string(bankexport.FormatCSV)
	}

	export, err := h.exportService.Export(r.Context(), req.Year, req.Month,
		req.BankCode, bankexport.Format(req.Format), middleware.CurrentUser(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.File.FileName))
	w.Header().Set("X-Transfer-File-ID", fmt.Sprintf("%d", export.File.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Content)
}

func (h *bankExportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.List(r.Context(), queryInt(r, "year"), queryInt(r, "month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type advanceStatusRequest struct {
	Status string `json:"status"`
}

func (h *bankExportHandlerImpl) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Transfer file ID is required", nil)
		return
	}

	var req advanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.exportService.AdvanceStatus(r.Context(), id, bankexport.FileStatus(req.Status)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transfer file status updated", map[string]string{"status": req.Status})
}
