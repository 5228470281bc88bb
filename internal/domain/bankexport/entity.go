package bankexport

import (
	"time"

	"github.com/shopspring/decimal"
)

type FileStatus string

const (
	StatusDraft     FileStatus = "draft"
	StatusReady     FileStatus = "ready"
	StatusSent      FileStatus = "sent"
	StatusConfirmed FileStatus = "confirmed"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
)

// TransferFile records one generated WPS export.
type TransferFile struct {
	ID           int64
	FileName     string
	Year         int
	Month        int
	BankCode     string
	Format       Format
	TotalRecords int
	TotalAmount  decimal.Decimal
	Status       FileStatus
	CreatedBy    string
	CreatedAt    time.Time
}
