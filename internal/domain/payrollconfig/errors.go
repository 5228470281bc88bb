package payrollconfig

import "errors"

var (
	ErrConfigurationNotFound = errors.New("payroll configuration not found")
	ErrInvalidWindow         = errors.New("effective_to must not precede effective_from")
)
