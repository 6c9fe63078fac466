package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeeID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type fakeAttendanceRepo struct {
	rows     []attendance.Attendance
	listErr  error
	upserted []attendance.Attendance
	from, to time.Time
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, records []attendance.Attendance) (int64, error) {
	f.upserted = append(f.upserted, records...)
	return int64(len(records)), nil
}

func (f *fakeAttendanceRepo) ListByPersonAndRange(ctx context.Context, personType attendance.PersonType, personID string, from, to time.Time) ([]attendance.Attendance, error) {
	f.from, f.to = from, to
	return f.rows, f.listErr
}

func (f *fakeAttendanceRepo) ListByDate(ctx context.Context, personType attendance.PersonType, date time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.rows {
		if r.PersonType == personType && r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out, f.listErr
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetMonthlySummary(t *testing.T) {
	repo := &fakeAttendanceRepo{rows: []attendance.Attendance{
		{Status: attendance.StatusPresent, Date: day(2024, 2, 1)},
		{Status: attendance.StatusPresent, Date: day(2024, 2, 2)},
		{Status: attendance.StatusAbsent, Date: day(2024, 2, 3)},
		{Status: attendance.StatusLeave, Date: day(2024, 2, 4)},
		{Status: "late", Date: day(2024, 2, 5)},
	}}
	svc := NewAttendanceService(repo)

	summary, err := svc.GetMonthlySummary(context.Background(), attendance.MonthlySummaryRequest{
		EmployeeID: employeeID, Month: 2, Year: 2024,
	})
	require.NoError(t, err)

	assert.Equal(t, 29, summary.TotalDays, "leap February")
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Leave)
	assert.Equal(t, 4, summary.RecordedDays, "unknown statuses are not recorded")
	assert.InDelta(t, 2.0/29.0, summary.Percentage, 1e-9, "ratio over all 29 days")
	assert.Equal(t, day(2024, 2, 1), repo.from)
	assert.Equal(t, day(2024, 2, 29), repo.to)
}

func TestGetMonthlySummary_FetchFailure(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{listErr: errors.New("connection reset")})

	_, err := svc.GetMonthlySummary(context.Background(), attendance.MonthlySummaryRequest{
		EmployeeID: employeeID, Month: 3, Year: 2024,
	})
	assert.ErrorIs(t, err, attendance.ErrSummaryUnavailable)
}

func TestGetMonthlySummary_Validation(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{})

	_, err := svc.GetMonthlySummary(context.Background(), attendance.MonthlySummaryRequest{
		EmployeeID: "not-a-uuid", Month: 13, Year: 2024,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "employee_id")
	assert.Contains(t, verrs.ToMap(), "month")
}

func TestMarkAttendance_LastRowPerKeyWins(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := NewAttendanceService(repo)

	resp, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		Records: []attendance.MarkAttendanceItem{
			{PersonType: "employee", PersonID: employeeID, Date: "2024-03-01", Status: "present"},
			{PersonType: "employee", PersonID: employeeID, Date: "2024-03-02", Status: "present"},
			{PersonType: "employee", PersonID: employeeID, Date: "2024-03-01", Status: "absent"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Saved)
	require.Len(t, repo.upserted, 2)
	assert.Equal(t, attendance.StatusAbsent, repo.upserted[0].Status)
	assert.Equal(t, day(2024, 3, 1), repo.upserted[0].Date)
}

func TestMarkAttendance_RejectsBadRows(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{})

	_, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		Records: []attendance.MarkAttendanceItem{
			{PersonType: "contractor", PersonID: employeeID, Date: "2024-03-01", Status: "present"},
			{PersonType: "worker", PersonID: employeeID, Date: "03/01/2024", Status: "sick"},
		},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "records[0].person_type")
	assert.Contains(t, m, "records[1].date")
	assert.Contains(t, m, "records[1].status")
}

func TestGetAttendanceByDate(t *testing.T) {
	repo := &fakeAttendanceRepo{rows: []attendance.Attendance{
		{ID: "a", PersonType: attendance.PersonTypeEmployee, PersonID: employeeID, Date: day(2024, 3, 1), Status: attendance.StatusPresent},
		{ID: "b", PersonType: attendance.PersonTypeWorker, PersonID: employeeID, Date: day(2024, 3, 1), Status: attendance.StatusPresent},
		{ID: "c", PersonType: attendance.PersonTypeEmployee, PersonID: employeeID, Date: day(2024, 3, 2), Status: attendance.StatusAbsent},
	}}
	svc := NewAttendanceService(repo)

	resp, err := svc.GetAttendanceByDate(context.Background(), attendance.AttendanceByDateRequest{Date: "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "a", resp[0].ID)
	assert.Equal(t, "2024-03-01", resp[0].Date)
}
