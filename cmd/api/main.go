package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/bridge/erpnext"
	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	appHTTP "github.com/nuzum-sa/nuzum-backend-go/internal/handler/http"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/email"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/jobs"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/report"
	"github.com/nuzum-sa/nuzum-backend-go/internal/repository/postgresql"
	accountingService "github.com/nuzum-sa/nuzum-backend-go/internal/service/accounting"
	attendanceService "github.com/nuzum-sa/nuzum-backend-go/internal/service/attendance"
	bankexportService "github.com/nuzum-sa/nuzum-backend-go/internal/service/bankexport"
	contractService "github.com/nuzum-sa/nuzum-backend-go/internal/service/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/service/invoice"
	payrollService "github.com/nuzum-sa/nuzum-backend-go/internal/service/payroll"
	payslipService "github.com/nuzum-sa/nuzum-backend-go/internal/service/payslip"
	profitabilityService "github.com/nuzum-sa/nuzum-backend-go/internal/service/profitability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	vehicleRepo := postgresql.NewVehicleRepository(db)
	configRepo := postgresql.NewPayrollConfigRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	accountingRepo := postgresql.NewAccountingRepository(db)
	transferFileRepo := postgresql.NewTransferFileRepository(db)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}
	registry := jobs.NewRegistry()
	renderer := report.NewPDFRenderer(cfg.App.CompanyName)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo)
	accountingSvc := accountingService.NewAccountingService(accountingRepo, accountingService.DefaultSalaryAccounts())
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, configRepo, attendanceSvc, accountingSvc)
	profitabilitySvc := profitabilityService.NewProfitabilityService(contractRepo, employeeRepo, payrollRepo, vehicleRepo, payrollSvc)
	bankExportSvc := bankexportService.NewBankExportService(payrollRepo, transferFileRepo)
	contractSvc := contractService.NewContractService(contractRepo)
	assembler := invoice.NewAssembler(contractRepo, attendanceSvc)

	linkSvc := payslipService.NewLinkService(cfg.Links, cfg.App.BaseURL)
	dispatcher := payslipService.NewDispatcher(payrollRepo, employeeRepo, linkSvc, emailService, registry)

	bridgeSettings, err := config.LoadBridgeSettings(cfg.App.InstanceDir)
	if err != nil {
		log.Fatal("Failed to load bridge settings:", err)
	}
	bridgeClient, err := erpnext.NewClient(bridgeSettings)
	if err != nil {
		if !errors.Is(err, erpnext.ErrNotConfigured) {
			log.Fatal("Failed to initialize bridge client:", err)
		}
		bridgeClient = nil
	}
	validateDraft := func(ctx context.Context, d invoice.Draft) error {
		_, end, err := payroll.PeriodBounds(d.Year, d.Month)
		if err != nil {
			return err
		}
		return accountingSvc.PreflightRevenue(ctx, end, d.TotalAmount)
	}
	bridgeSvc := erpnext.NewService(bridgeClient, contractRepo, assembler, registry, validateDraft)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.Links.Secret), nil)

	handlers := appHTTP.Handlers{
		Payroll:       appHTTP.NewPayrollHandler(payrollSvc),
		PayrollConfig: appHTTP.NewPayrollConfigHandler(configRepo),
		BankExport:    appHTTP.NewBankExportHandler(bankExportSvc),
		Profitability: appHTTP.NewProfitabilityHandler(profitabilitySvc),
		Accounting:    appHTTP.NewAccountingHandler(accountingSvc),
		Contract:      appHTTP.NewContractHandler(contractSvc, bridgeSvc),
		Bridge:        appHTTP.NewBridgeHandler(bridgeSvc, cfg.App.InstanceDir),
		Payslip:       appHTTP.NewPayslipHandler(payrollSvc, employeeRepo, linkSvc, dispatcher, renderer),
		Jobs:          appHTTP.NewJobHandler(registry),
	}
	router := appHTTP.NewRouter(cfg.App.Env, tokenAuth, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Println("Forced shutdown:", err)
	}
}
