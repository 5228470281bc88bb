package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/middleware"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/report"
	payrollsvc "github.com/nuzum-sa/nuzum-backend-go/internal/service/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/service/payslip"
)

type PayslipHandler interface {
	IssueLink(w http.ResponseWriter, r *http.Request)
	Dispatch(w http.ResponseWriter, r *http.Request)
	SecurePayslip(w http.ResponseWriter, r *http.Request)
}

type payslipHandlerImpl struct {
	payrollService *payrollsvc.ServiceImpl
	employeeRepo   employee.EmployeeRepository
	links          *payslip.LinkService
	dispatcher     *payslip.Dispatcher
	renderer       report.Renderer
}

func NewPayslipHandler(
	payrollService *payrollsvc.ServiceImpl,
	employeeRepo employee.EmployeeRepository,
	links *payslip.LinkService,
	dispatcher *payslip.Dispatcher,
	renderer report.Renderer,
) PayslipHandler {
	return &payslipHandlerImpl{
		payrollService: payrollService,
		employeeRepo:   employeeRepo,
		links:          links,
		dispatcher:     dispatcher,
		renderer:       renderer,
	}
}

// IssueLink mints a signed secure link for one payroll record.
func (h *payslipHandlerImpl) IssueLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	rec, err := h.payrollService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	emp, err := h.employeeRepo.GetByID(r.Context(), rec.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, err := h.links.Issue(emp.ID, rec.Year, rec.Month, emp.NationalID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"token": token,
		"url":   h.links.URL(token),
	})
}

type dispatchRequest struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Channel      string `json:"channel"`
	CC           string `json:"cc"`
	DepartmentID *int64 `json:"department_id"`
}

func (h *payslipHandlerImpl) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	filter := payroll.ListFilter{Year: req.Year, Month: req.Month, DepartmentID: req.DepartmentID}
	jobID, err := h.dispatcher.Dispatch(req.Year, req.Month, filter,
		payslip.Channel(req.Channel), req.CC, middleware.CurrentUser(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Payslip dispatch queued", map[string]string{"job_id": jobID})
}

// challengePage asks the visitor for their national/iqama id. Kept
// inline; the link is the only way to reach it.
const challengePage = `<!doctype html>
<html lang="ar" dir="rtl">
<head><meta charset="utf-8"><title>قسيمة الراتب</title></head>
<body>
<h3>التحقق من الهوية</h3>
<p>أدخل رقم الهوية أو الإقامة لعرض قسيمة الراتب.</p>
<form method="get">
<input type="text" name="id_number" inputmode="numeric" autocomplete="off" required>
<button type="submit">عرض</button>
</form>
</body>
</html>`

// SecurePayslip redeems a signed link. The visitor must answer the
// identity challenge before the document is served; nothing here is
// cacheable.
func (h *payslipHandlerImpl) SecurePayslip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")

	claims, err := h.links.Parse(chi.URLParam(r, "token"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	presented := r.URL.Query().Get("id_number")
	if presented == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challengePage))
		return
	}

	emp, err := h.employeeRepo.GetByID(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if err := claims.VerifyChallenge(presented, emp.NationalID); err != nil {
		response.HandleError(w, err)
		return
	}

	rec, err := h.payrollService.GetByPeriod(r.Context(), claims.EmployeeID, claims.Year, claims.Month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	pdf, err := h.renderer.RenderPayslip(rec)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`inline; filename="payslip-%04d-%02d.pdf"`, claims.Year, claims.Month))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
