package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
)

// historyFields are the audited input fields; derived amounts (gross,
// totals, net, rates) are recomputed and not versioned.
func diffRecords(oldRec, newRec payroll.Record, user, reason string) []payroll.History {
	var rows []payroll.History
	add := func(field, oldVal, newVal string) {
		if oldVal == newVal {
			return
		}
		rows = append(rows, payroll.History{
			PayrollID: oldRec.ID,
			FieldName: field,
			OldValue:  oldVal,
			NewValue:  newVal,
			ChangedBy: user,
			Reason:    reason,
		})
	}

	add("payment_status", string(oldRec.PaymentStatus), string(newRec.PaymentStatus))
	add("basic_salary", oldRec.BasicSalary.StringFixed(2), newRec.BasicSalary.StringFixed(2))
	add("housing_allowance", oldRec.HousingAllow.StringFixed(2), newRec.HousingAllow.StringFixed(2))
	add("transport_allowance", oldRec.TransportAllow.StringFixed(2), newRec.TransportAllow.StringFixed(2))
	add("meal_allowance", oldRec.MealAllow.StringFixed(2), newRec.MealAllow.StringFixed(2))
	add("other_allowance", oldRec.OtherAllow.StringFixed(2), newRec.OtherAllow.StringFixed(2))
	add("overtime_hours", oldRec.OvertimeHours.String(), newRec.OvertimeHours.String())
	add("late_deduction", oldRec.LateDeduction.StringFixed(2), newRec.LateDeduction.StringFixed(2))
	add("early_leave_deduction", oldRec.EarlyLeaveDeduction.StringFixed(2), newRec.EarlyLeaveDeduction.StringFixed(2))
	add("loan_deduction", oldRec.LoanDeduction.StringFixed(2), newRec.LoanDeduction.StringFixed(2))
	add("advance_deduction", oldRec.AdvanceDeduction.StringFixed(2), newRec.AdvanceDeduction.StringFixed(2))
	add("insurance_deduction", oldRec.InsuranceDeduction.StringFixed(2), newRec.InsuranceDeduction.StringFixed(2))
	add("other_deduction", oldRec.OtherDeduction.StringFixed(2), newRec.OtherDeduction.StringFixed(2))
	return rows
}

func (s *ServiceImpl) transition(ctx context.Context, id int64, to payroll.Status, user, reason string, mutate func(*payroll.Record)) (payroll.Record, error) {
	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Record{}, err
	}
	if rec.IsLocked {
		return payroll.Record{}, payroll.ErrRecordLocked
	}
	if !payroll.CanTransition(rec.PaymentStatus, to) {
		return payroll.Record{}, fmt.Errorf("%w: %s → %s", payroll.ErrInvalidTransition, rec.PaymentStatus, to)
	}

	updated := rec
	updated.PaymentStatus = to
	if mutate != nil {
		mutate(&updated)
	}

	saved, err := s.payrollRepo.Update(ctx, updated)
	if err != nil {
		return payroll.Record{}, err
	}

	if rows := diffRecords(rec, saved, user, reason); len(rows) > 0 {
		if err := s.payrollRepo.AddHistory(ctx, rows); err != nil {
			slog.Warn("payroll history write failed", "payroll_id", id, "err", err)
		}
	}
	return saved, nil
}

// Approve stamps the approver and posts the salary journal. A ledger
// failure is logged on the record, not rolled into the approval.
func (s *ServiceImpl) Approve(ctx context.Context, id int64, user string, notes *string) (payroll.Record, error) {
	rec, err := s.transition(ctx, id, payroll.StatusApproved, user, "approve", func(r *payroll.Record) {
		now := time.Now()
		r.ApprovedBy = &user
		r.ApprovedAt = &now
		if notes != nil {
			r.AdminNotes = notes
		}
	})
	if err != nil {
		return payroll.Record{}, err
	}

	if s.ledger != nil {
		if err := s.ledger.PostSalaryJournal(ctx, rec, user); err != nil {
			slog.Warn("salary journal post failed", "payroll_id", id, "err", err)
		}
	}
	return rec, nil
}

func (s *ServiceImpl) Reject(ctx context.Context, id int64, user, reason string) (payroll.Record, error) {
	return s.transition(ctx, id, payroll.StatusRejected, user, "reject", func(r *payroll.Record) {
		notes := "rejected: " + reason
		r.AdminNotes = &notes
	})
}

func (s *ServiceImpl) MarkPaid(ctx context.Context, id int64, user string, paymentDate *time.Time) (payroll.Record, error) {
	return s.transition(ctx, id, payroll.StatusPaid, user, "mark paid", func(r *payroll.Record) {
		date := time.Now()
		if paymentDate != nil {
			date = *paymentDate
		}
		r.PaymentDate = &date
		r.IsExported = true
		r.IsLocked = true
	})
}

func (s *ServiceImpl) Unapprove(ctx context.Context, id int64, user string) (payroll.Record, error) {
	return s.transition(ctx, id, payroll.StatusPending, user, "unapprove", func(r *payroll.Record) {
		r.ApprovedBy = nil
		r.ApprovedAt = nil
	})
}

// Recalculate replaces the financial fields of a rejected record with a
// fresh draft and returns it to pending. The record id and period stay.
func (s *ServiceImpl) Recalculate(ctx context.Context, id int64, user string, adj payroll.Adjustments) (payroll.Record, error) {
	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Record{}, err
	}
	if rec.IsLocked {
		return payroll.Record{}, payroll.ErrRecordLocked
	}
	if !payroll.CanTransition(rec.PaymentStatus, payroll.StatusPending) {
		return payroll.Record{}, fmt.Errorf("%w: %s → %s", payroll.ErrInvalidTransition, rec.PaymentStatus, payroll.StatusPending)
	}

	draft, err := s.CalculateDraft(ctx, rec.EmployeeID, rec.Year, rec.Month, adj)
	if err != nil {
		return payroll.Record{}, err
	}
	draft.ID = rec.ID
	draft.PaymentStatus = payroll.StatusPending
	draft.CreatedAt = rec.CreatedAt

	saved, err := s.payrollRepo.Update(ctx, draft)
	if err != nil {
		return payroll.Record{}, err
	}
	if rows := diffRecords(rec, saved, user, "recalculate"); len(rows) > 0 {
		if err := s.payrollRepo.AddHistory(ctx, rows); err != nil {
			slog.Warn("payroll history write failed", "payroll_id", id, "err", err)
		}
	}
	return saved, nil
}

// BatchApprove applies Approve per id; failures are collected, never
// propagated wholesale.
func (s *ServiceImpl) BatchApprove(ctx context.Context, ids []int64, user string) payroll.BatchResult {
	result := payroll.BatchResult{}
	for _, id := range ids {
		item := payroll.BatchItemResult{PayrollID: id}
		if _, err := s.Approve(ctx, id, user, nil); err != nil {
			item.Error = err.Error()
			result.Failed++
		} else {
			item.OK = true
			result.Succeeded++
		}
		result.Items = append(result.Items, item)
	}
	return result
}

// SetLock toggles the mutation guard. Unlocking a paid record is the
// only way it can change again.
func (s *ServiceImpl) SetLock(ctx context.Context, id int64, locked bool) error {
	if _, err := s.payrollRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.payrollRepo.SetLock(ctx, id, locked)
}
