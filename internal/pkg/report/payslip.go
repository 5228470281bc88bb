package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

// Renderer turns a payroll record into a downloadable document. Arabic
// typesetting lives behind this port; the built-in renderer emits the
// Latin transliteration used on bank-facing documents.
type Renderer interface {
	RenderPayslip(rec payroll.Record) ([]byte, error)
}

type pdfRenderer struct {
	companyName string
}

func NewPDFRenderer(companyName string) Renderer {
	return &pdfRenderer{companyName: companyName}
}

func (r *pdfRenderer) RenderPayslip(rec payroll.Record) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Payslip %04d-%02d", rec.Year, rec.Month), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	name := ""
	if rec.EmployeeName != nil {
		name = *rec.EmployeeName
	}
	code := ""
	if rec.EmployeeCode != nil {
		code = *rec.EmployeeCode
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Employee: %s (%s)", name, code), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(100, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, value, "1", 1, "R", false, 0, "")
	}

	row("Basic Salary", rec.BasicSalary.StringFixed(2))
	row("Housing Allowance", rec.HousingAllow.StringFixed(2))
	row("Transport Allowance", rec.TransportAllow.StringFixed(2))
	row("Meal Allowance", rec.MealAllow.StringFixed(2))
	row("Other Allowances", rec.OtherAllow.StringFixed(2))
	row("Gross Salary", rec.GrossSalary.StringFixed(2))
	row("Overtime Pay", rec.OvertimePay.StringFixed(2))
	row("Absence Deduction", rec.AbsenceDeduction.Neg().StringFixed(2))
	row("Unpaid Leave Deduction", rec.UnpaidLeaveDeduction.Neg().StringFixed(2))
	row("GOSI (Employee)", rec.GOSIEmployee.Neg().StringFixed(2))
	row("Other Deductions", rec.LateDeduction.
		Add(rec.EarlyLeaveDeduction).
		Add(rec.LoanDeduction).
		Add(rec.AdvanceDeduction).
		Add(rec.InsuranceDeduction).
		Add(rec.OtherDeduction).Neg().StringFixed(2))
	row("Total Deductions", rec.TotalDeductions.Neg().StringFixed(2))

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 8, "Net Payable (SAR)", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, rec.NetPayable.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
