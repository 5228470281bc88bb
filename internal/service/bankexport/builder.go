package bankexport

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/bankexport"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

// utf8BOM prefixes csv output so bank portals detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{
	"RecordType", "EmployeeID", "EmployeeName", "IBAN",
	"NetAmount", "Currency", "PaymentDate", "Reference",
}

// FileName follows the regulator-facing convention NUZUM_WPS_<yyyy>_<mm>.
func FileName(year, month int, format bankexport.Format) string {
	return fmt.Sprintf("NUZUM_WPS_%04d_%02d.%s", year, month, format)
}

func recordRow(rec payroll.Record) []string {
	name, code, iban := "", "", ""
	if rec.EmployeeName != nil {
		name = *rec.EmployeeName
	}
	if rec.EmployeeCode != nil {
		code = *rec.EmployeeCode
	}
	if rec.EmployeeIBAN != nil {
		iban = *rec.EmployeeIBAN
	}
	paymentDate := rec.PeriodEnd
	if rec.PaymentDate != nil {
		paymentDate = *rec.PaymentDate
	}
	return []string{
		"SALARY",
		code,
		name,
		iban,
		rec.NetPayable.StringFixed(2),
		"SAR",
		paymentDate.Format("2006-01-02"),
		fmt.Sprintf("NUZUM-%04d-%02d-%d", rec.Year, rec.Month, rec.ID),
	}
}

// Build renders the export for records already filtered and ordered by
// the repository. Output is byte-stable for identical inputs.
func Build(records []payroll.Record, format bankexport.Format) ([]byte, error) {
	if len(records) == 0 {
		return nil, payroll.ErrEmptyExport
	}

	switch format {
	case bankexport.FormatCSV:
		return buildCSV(records, true)
	case bankexport.FormatTXT:
		return buildCSV(records, false)
	case bankexport.FormatXML:
		return buildXML(records)
	case bankexport.FormatXLSX:
		return buildXLSX(records)
	default:
		return nil, bankexport.ErrUnsupportedFormat
	}
}

func buildCSV(records []payroll.Record, bom bool) ([]byte, error) {
	var buf bytes.Buffer
	if bom {
		buf.Write(utf8BOM)
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := w.Write(recordRow(rec)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type xmlTransfer struct {
	RecordType   string `xml:"record_type"`
	EmployeeID   string `xml:"employee_id"`
	EmployeeName string `xml:"employee_name"`
	IBAN         string `xml:"iban"`
	NetAmount    string `xml:"net_amount"`
	Currency     string `xml:"currency"`
	PaymentDate  string `xml:"payment_date"`
	Reference    string `xml:"reference"`
}

type xmlFile struct {
	XMLName   xml.Name      `xml:"wps_transfer_file"`
	Transfers []xmlTransfer `xml:"transfer"`
}

func buildXML(records []payroll.Record) ([]byte, error) {
	file := xmlFile{}
	for _, rec := range records {
		row := recordRow(rec)
		file.Transfers = append(file.Transfers, xmlTransfer{
			RecordType:   row[0],
			EmployeeID:   row[1],
			EmployeeName: row[2],
			IBAN:         row[3],
			NetAmount:    row[4],
			Currency:     row[5],
			PaymentDate:  row[6],
			Reference:    row[7],
		})
	}
	out, err := xml.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func buildXLSX(records []payroll.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return nil, err
	}
	for i, rec := range records {
		row := recordRow(rec)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Total sums net amounts for the transfer file record.
func Total(records []payroll.Record) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.NetPayable)
	}
	return total.RoundBank(2)
}
