package bankexport

import (
	"context"
	"fmt"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/bankexport"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

// Export is the generated file plus its tracking row.
type Export struct {
	File     bankexport.TransferFile
	Content  []byte
	MimeType string
}

type ServiceImpl struct {
	payrollRepo payroll.PayrollRepository
	fileRepo    bankexport.TransferFileRepository
}

func NewBankExportService(payrollRepo payroll.PayrollRepository, fileRepo bankexport.TransferFileRepository) *ServiceImpl {
	return &ServiceImpl{payrollRepo: payrollRepo, fileRepo: fileRepo}
}

var mimeTypes = map[bankexport.Format]string{
	bankexport.FormatCSV:  "text/csv; charset=utf-8",
	bankexport.FormatTXT:  "text/plain; charset=utf-8",
	bankexport.FormatXML:  "application/xml",
	bankexport.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Export selects approved|paid records of the period and renders the
// WPS file, recording a TransferFile row in draft→ready state.
func (s *ServiceImpl) Export(ctx context.Context, year, month int, bankCode string, format bankexport.Format, user string) (Export, error) {
	if _, ok := mimeTypes[format]; !ok {
		return Export{}, bankexport.ErrUnsupportedFormat
	}
	if _, _, err := payroll.PeriodBounds(year, month); err != nil {
		return Export{}, err
	}

	records, err := s.payrollRepo.ListForExport(ctx, year, month)
	if err != nil {
		return Export{}, fmt.Errorf("select export records: %w", err)
	}

	content, err := Build(records, format)
	if err != nil {
		return Export{}, err
	}

	file := bankexport.TransferFile{
		FileName:     FileName(year, month, format),
		Year:         year,
		Month:        month,
		BankCode:     bankCode,
		Format:       format,
		TotalRecords: len(records),
		TotalAmount:  Total(records),
		Status:       bankexport.StatusReady,
		CreatedBy:    user,
	}
	saved, err := s.fileRepo.Create(ctx, file)
	if err != nil {
		return Export{}, fmt.Errorf("record transfer file: %w", err)
	}

	return Export{File: saved, Content: content, MimeType: mimeTypes[format]}, nil
}

// statusOrder enforces draft → ready → sent → confirmed.
var statusOrder = map[bankexport.FileStatus]int{
	bankexport.StatusDraft:     0,
	bankexport.StatusReady:     1,
	bankexport.StatusSent:      2,
	bankexport.StatusConfirmed: 3,
}

func (s *ServiceImpl) AdvanceStatus(ctx context.Context, id int64, to bankexport.FileStatus) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if statusOrder[to] <= statusOrder[file.Status] {
		return bankexport.ErrInvalidStatusMove
	}
	return s.fileRepo.SetStatus(ctx, id, to)
}

func (s *ServiceImpl) List(ctx context.Context, year, month int) ([]bankexport.TransferFile, error) {
	return s.fileRepo.List(ctx, year, month)
}
