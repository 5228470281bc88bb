package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

// ErrNoBillableLines is returned when a contract month yields no
// positive invoice lines.
var ErrNoBillableLines = errors.New("no billable lines for the period")

// Service names match the remote ERP item grouping.
const (
	ServiceLabor   = "Labor"
	ServiceLaborOT = "Labor-OT"
)

type Line struct {
	ServiceName string          `json:"service_name"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	EmployeeID  int64           `json:"employee_id,omitempty"`
}

type Draft struct {
	ContractID  int64           `json:"contract_id"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Lines       []Line          `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type Assembler struct {
	contractRepo  contract.ContractRepository
	attendanceSvc attendance.AttendanceService
}

func NewAssembler(contractRepo contract.ContractRepository, attendanceSvc attendance.AttendanceService) *Assembler {
	return &Assembler{contractRepo: contractRepo, attendanceSvc: attendanceSvc}
}

// BuildContractInvoice composes the month's invoice lines for a
// contract from billable attendance and the contract's resource rates.
// manualOTHours, when positive, adds one extra line priced at the
// first positive resource rate.
func (a *Assembler) BuildContractInvoice(ctx context.Context, contractID int64, month, year int, manualOTHours decimal.Decimal) (Draft, error) {
	monthStart, monthEnd, err := payroll.PeriodBounds(year, month)
	if err != nil {
		return Draft{}, err
	}
	if _, err := a.contractRepo.GetByID(ctx, contractID); err != nil {
		return Draft{}, err
	}

	resources, err := a.contractRepo.ResourcesInEffect(ctx, contractID, monthStart, monthEnd)
	if err != nil {
		return Draft{}, fmt.Errorf("load contract resources: %w", err)
	}

	draft := Draft{ContractID: contractID, Year: year, Month: month}
	var firstRate decimal.Decimal

	for _, r := range resources {
		if firstRate.IsZero() && r.BillingRate.IsPositive() {
			firstRate = r.BillingRate
		}
		name := fmt.Sprintf("موظف %d", r.EmployeeID)
		if r.EmployeeName != nil {
			name = *r.EmployeeName
		}

		var line Line
		if r.BillingType == contract.BillingDaily {
			days, err := a.attendanceSvc.BillableDays(ctx, r.EmployeeID, monthStart, monthEnd)
			if err != nil {
				return Draft{}, fmt.Errorf("billable days for employee %d: %w", r.EmployeeID, err)
			}
			qty := decimal.NewFromInt(int64(days))
			line = Line{
				ServiceName: ServiceLabor,
				Description: fmt.Sprintf("%s — %d يوم × %s", name, days, r.BillingRate.StringFixed(2)),
				Qty:         qty,
				Rate:        r.BillingRate,
				Amount:      qty.Mul(r.BillingRate).RoundBank(2),
				EmployeeID:  r.EmployeeID,
			}
		} else {
			line = Line{
				ServiceName: ServiceLabor,
				Description: fmt.Sprintf("%s — شهري", name),
				Qty:         decimal.NewFromInt(1),
				Rate:        r.BillingRate,
				Amount:      r.BillingRate.RoundBank(2),
				EmployeeID:  r.EmployeeID,
			}
		}
		draft.appendLine(line)

		otHours, err := a.attendanceSvc.SumOvertimeHours(ctx, r.EmployeeID, monthStart, monthEnd)
		if err != nil {
			return Draft{}, fmt.Errorf("overtime hours for employee %d: %w", r.EmployeeID, err)
		}
		if otHours.IsPositive() {
			draft.appendLine(Line{
				ServiceName: ServiceLaborOT,
				Description: fmt.Sprintf("%s — عمل إضافي %s ساعة", name, otHours.String()),
				Qty:         otHours,
				Rate:        r.BillingRate,
				Amount:      otHours.Mul(r.BillingRate).RoundBank(2),
				EmployeeID:  r.EmployeeID,
			})
		}
	}

	if manualOTHours.IsPositive() && firstRate.IsPositive() {
		draft.appendLine(Line{
			ServiceName: ServiceLaborOT,
			Description: fmt.Sprintf("عمل إضافي يدوي — %s ساعة", manualOTHours.String()),
			Qty:         manualOTHours,
			Rate:        firstRate,
			Amount:      manualOTHours.Mul(firstRate).RoundBank(2),
		})
	}

	if len(draft.Lines) == 0 {
		return Draft{}, ErrNoBillableLines
	}
	draft.TotalAmount = draft.TotalAmount.RoundBank(2)
	return draft, nil
}

// appendLine keeps only positive-amount lines and maintains the total.
func (d *Draft) appendLine(l Line) {
	if !l.Amount.IsPositive() {
		return
	}
	d.Lines = append(d.Lines, l)
	d.TotalAmount = d.TotalAmount.Add(l.Amount)
}
