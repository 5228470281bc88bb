package payroll

import "errors"

var (
	ErrRecordNotFound          = errors.New("payroll record not found")
	ErrDuplicatePeriod         = errors.New("payroll record already exists for this period")
	ErrRecordLocked            = errors.New("payroll record is locked")
	ErrInvalidTransition       = errors.New("payroll status transition not allowed")
	ErrInconsistentAttendance  = errors.New("attendance counts exceed days in period")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
	ErrEmptyExport             = errors.New("no payroll records match the export criteria")
)
