package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
)

// ServiceImpl is a read-only facade over attendance facts. Weekends and
// public holidays are rows in the data, never derived here.
type ServiceImpl struct {
	repo attendance.AttendanceRepository
}

func NewAttendanceService(repo attendance.AttendanceRepository) attendance.AttendanceService {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CountByStatus(ctx context.Context, employeeID int64, start, end time.Time) (map[attendance.Status]int, error) {
	counts, err := s.repo.CountByStatus(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", attendance.ErrNotAvailable, err)
	}
	return counts, nil
}

func (s *ServiceImpl) SumOvertimeHours(ctx context.Context, employeeID int64, start, end time.Time) (decimal.Decimal, error) {
	hours, err := s.repo.SumOvertimeHours(ctx, employeeID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", attendance.ErrNotAvailable, err)
	}
	return hours, nil
}

// BillableDays counts days a client is invoiced for (present, late,
// early_leave).
func (s *ServiceImpl) BillableDays(ctx context.Context, employeeID int64, start, end time.Time) (int, error) {
	counts, err := s.CountByStatus(ctx, employeeID, start, end)
	if err != nil {
		return 0, err
	}
	days := 0
	for _, status := range attendance.BillableStatuses {
		days += counts[status]
	}
	return days, nil
}
