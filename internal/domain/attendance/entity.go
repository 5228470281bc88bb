package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent       Status = "present"
	StatusAbsent        Status = "absent"
	StatusLeave         Status = "leave"
	StatusSickLeave     Status = "sick_leave"
	StatusUnpaidLeave   Status = "unpaid_leave"
	StatusPublicHoliday Status = "public_holiday"
	StatusLate          Status = "late"
	StatusEarlyLeave    Status = "early_leave"
)

// BillableStatuses are the attendance statuses a client is invoiced for.
var BillableStatuses = []Status{StatusPresent, StatusLate, StatusEarlyLeave}

// Record is one attendance fact. (employee_id, date) is unique.
// Records are owned by the attendance collaborator; read-only here.
type Record struct {
	ID            int64
	EmployeeID    int64
	Date          time.Time
	Status        Status
	Hours         *decimal.Decimal
	OvertimeHours *decimal.Decimal
}
