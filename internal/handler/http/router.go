package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/middleware"
)

type Handlers struct {
	Payroll       PayrollHandler
	PayrollConfig PayrollConfigHandler
	BankExport    BankExportHandler
	Profitability ProfitabilityHandler
	Accounting    AccountingHandler
	Contract      ContractHandler
	Bridge        BridgeHandler
	Payslip       PayslipHandler
	Jobs          JobHandler
}

func NewRouter(env string, tokenAuth *jwtauth.JWTAuth, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "nuzum-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "X-Transfer-File-ID"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Public: signed links carry their own authentication.
	r.Get("/secure-payslip/{token}", h.Payslip.SecurePayslip)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(middleware.AuthRequired(tokenAuth))

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/generate", h.Payroll.Generate)
				r.Get("/", h.Payroll.List)
				r.Post("/batch-approve", h.Payroll.BatchApprove)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Payroll.Get)
					r.Get("/history", h.Payroll.History)
					r.Post("/approve", h.Payroll.Approve)
					r.Post("/reject", h.Payroll.Reject)
					r.Post("/pay", h.Payroll.MarkPaid)
					r.Post("/unapprove", h.Payroll.Unapprove)
					r.Post("/recalculate", h.Payroll.Recalculate)
					r.Put("/lock", h.Payroll.SetLock)
					r.Post("/payslip-link", h.Payslip.IssueLink)
				})
			})

			r.Route("/payroll-configurations", func(r chi.Router) {
				r.Get("/", h.PayrollConfig.List)
				r.Post("/", h.PayrollConfig.Create)
				r.Get("/active", h.PayrollConfig.Active)
			})

			r.Route("/bank-files", func(r chi.Router) {
				r.Get("/", h.BankExport.List)
				r.Post("/generate", h.BankExport.Generate)
				r.Put("/{id}/status", h.BankExport.AdvanceStatus)
			})

			r.Route("/profitability", func(r chi.Router) {
				r.Get("/summary", h.Profitability.Summary)
				r.Get("/projects/{departmentID}", h.Profitability.ProjectReport)
			})

			r.Route("/accounting", func(r chi.Router) {
				r.Route("/accounts", func(r chi.Router) {
					r.Get("/", h.Accounting.ListAccounts)
					r.Get("/tree", h.Accounting.AccountTree)
					r.Post("/", h.Accounting.CreateAccount)
					r.Delete("/{id}", h.Accounting.DeleteAccount)
				})
				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", h.Accounting.ListTransactions)
					r.Post("/", h.Accounting.PostJournal)
					r.Get("/{id}", h.Accounting.GetTransaction)
				})
				r.Route("/fiscal-years", func(r chi.Router) {
					r.Get("/", h.Accounting.ListFiscalYears)
					r.Post("/", h.Accounting.CreateFiscalYear)
					r.Put("/{id}/closed", h.Accounting.SetFiscalYearClosed)
				})
				r.Route("/cost-centers", func(r chi.Router) {
					r.Get("/", h.Accounting.ListCostCenters)
					r.Post("/", h.Accounting.CreateCostCenter)
				})
			})

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", h.Contract.List)
				r.Post("/", h.Contract.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Contract.Get)
					r.Put("/", h.Contract.Update)
					r.Get("/resources", h.Contract.ListResources)
					r.Post("/resources", h.Contract.AddResource)
					r.Put("/resources", h.Contract.UpdateResource)
					r.Post("/sync-customer", h.Contract.SyncCustomer)
				})
			})

			r.Route("/bridge", func(r chi.Router) {
				r.Get("/settings", h.Bridge.GetSettings)
				r.Put("/settings", h.Bridge.SaveSettings)
				r.Post("/test-connection", h.Bridge.TestConnection)
				r.Post("/invoices/preview", h.Bridge.PreviewInvoice)
				r.Post("/invoices", h.Bridge.SubmitInvoice)
				r.Get("/invoices", h.Bridge.ListInvoices)
				r.Get("/health-report", h.Bridge.HealthReport)
				r.Post("/disable-account", h.Bridge.DisableAccount)
				r.Post("/print-format", h.Bridge.UpsertPrintFormat)
			})

			r.Post("/payslips/dispatch", h.Payslip.Dispatch)
			r.Get("/jobs/{id}", h.Jobs.Get)
		})
	})
	return r
}
