package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/attendance"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, employeeID int64, start, end time.Time) (map[attendance.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}
	defer rows.Close()

	counts := make(map[attendance.Status]int)
	for rows.Next() {
		var status attendance.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *attendanceRepository) SumOvertimeHours(ctx context.Context, employeeID int64, start, end time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(overtime_hours), 0)
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum overtime hours: %w", err)
	}
	return total, nil
}
