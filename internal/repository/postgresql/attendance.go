package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, records []attendance.Attendance) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, a.db)

	const cols = 6
	placeholders := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*cols)
	for i, rec := range records {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, rec.PersonType, rec.PersonID, rec.Date, rec.Status, rec.Shift, rec.MarkedBy)
	}

	query := `
		INSERT INTO attendance (person_type, person_id, date, status, shift, marked_by_employee_id)
		VALUES ` + strings.Join(placeholders, ", ") + `
		ON CONFLICT (person_type, person_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			shift = EXCLUDED.shift,
			marked_by_employee_id = EXCLUDED.marked_by_employee_id
	`

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListByPersonAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByPersonAndRange(ctx context.Context, personType attendance.PersonType, personID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, person_type, person_id, date, status, shift, marked_by_employee_id, created_at
		FROM attendance
		WHERE person_type = $1 AND person_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, personType, personID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return scanAttendance(rows)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, personType attendance.PersonType, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, person_type, person_id, date, status, shift, marked_by_employee_id, created_at
		FROM attendance
		WHERE person_type = $1 AND date = $2
		ORDER BY person_id
	`

	rows, err := q.Query(ctx, query, personType, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	return scanAttendance(rows)
}

func scanAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var list []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.PersonType, &att.PersonID, &att.Date, &att.Status,
			&att.Shift, &att.MarkedBy, &att.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		list = append(list, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return list, nil
}
