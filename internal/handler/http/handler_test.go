package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/config"
	"github.com/garmentworks/payroll-backend-go/internal/domain/attendance"
	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/handler/http/response"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/jwt"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "handler-test-secret"
	testWorker  = "7b0c6a1e-3f5d-4c8e-9a2b-1d4e5f6a7b8c"
	testOp      = "2c9d8e7f-6a5b-4c3d-8e1f-0a9b8c7d6e5f"
	testProdOp  = "5e4d3c2b-1a09-4f8e-b7d6-c5b4a3928170"
	testEmpl    = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	testAdminID = "1f2e3d4c-5b6a-4978-8a6b-5c4d3e2f1a0b"
)

type stubWorkerService struct {
	payroll.WorkerPayrollService

	entries    []payroll.LedgerEntry
	opsReq     payroll.WorkerOperationsRequest
	updateReq  payroll.UpdateWorkerSalaryByOpsRequest
	recordReq  payroll.RecordProductionOperationRequest
	paymentReq payroll.ProcessPaymentsRequest
	paymentRes payroll.PaymentResult
}

func (s *stubWorkerService) GetWorkerSalaries(ctx context.Context) ([]payroll.LedgerEntry, error) {
	return s.entries, nil
}

func (s *stubWorkerService) GetWorkerOperations(ctx context.Context, req payroll.WorkerOperationsRequest) ([]payroll.LedgerEntry, error) {
	s.opsReq = req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.entries, nil
}

func (s *stubWorkerService) GetWorkerMonthlySummary(ctx context.Context, req payroll.MonthRequest) ([]payroll.WorkerMonthlySummary, error) {
	return nil, req.Validate()
}

func (s *stubWorkerService) ExportWorkerMonthlySummary(ctx context.Context, req payroll.MonthRequest) (*bytes.Buffer, error) {
	return bytes.NewBufferString("xlsx-bytes"), nil
}

func (s *stubWorkerService) UpdateWorkerSalaryByOps(ctx context.Context, req payroll.UpdateWorkerSalaryByOpsRequest) (payroll.SyncResult, error) {
	s.updateReq = req
	return payroll.SyncResult{SalaryRows: 1, ProductionRows: 1, MirrorSynced: true}, nil
}

func (s *stubWorkerService) RecordProductionOperation(ctx context.Context, req payroll.RecordProductionOperationRequest) (payroll.ProductionOperationResponse, error) {
	s.recordReq = req
	return payroll.ProductionOperationResponse{ID: testProdOp, PiecesDone: req.PiecesDone}, nil
}

func (s *stubWorkerService) ProcessWorkerPayments(ctx context.Context, req payroll.ProcessPaymentsRequest) (payroll.PaymentResult, error) {
	s.paymentReq = req
	return s.paymentRes, nil
}

type stubEmployeeService struct {
	payroll.EmployeePayrollService

	createErr   error
	generateReq *payroll.GenerateSalariesRequest
}

func (s *stubEmployeeService) CreateEmployeeSalary(ctx context.Context, req payroll.CreateEmployeeSalaryRequest) (payroll.EmployeeSalaryResponse, error) {
	return payroll.EmployeeSalaryResponse{}, s.createErr
}

func (s *stubEmployeeService) GenerateEmployeeSalaries(ctx context.Context, req payroll.GenerateSalariesRequest) (payroll.GenerateSalariesResponse, error) {
	s.generateReq = &req
	return payroll.GenerateSalariesResponse{SalaryMonth: "2024-03", Created: 2}, nil
}

type stubAttendanceService struct {
	attendance.AttendanceService

	summaryErr error
}

func (s *stubAttendanceService) GetMonthlySummary(ctx context.Context, req attendance.MonthlySummaryRequest) (attendance.MonthlySummary, error) {
	if s.summaryErr != nil {
		return attendance.MonthlySummary{}, s.summaryErr
	}
	return attendance.MonthlySummary{TotalDays: 29, Present: 20, RecordedDays: 20}, nil
}

type testServer struct {
	router     http.Handler
	jwt        jwt.Service
	worker     *stubWorkerService
	employee   *stubEmployeeService
	attendance *stubAttendanceService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test", CORSAllowedOrigins: []string{"http://localhost:5173"}},
		Redis: config.RedisConfig{IdempotencyTTL: time.Hour},
	}
	ts := &testServer{
		jwt:        jwt.NewJWTService(testSecret, time.Hour),
		worker:     &stubWorkerService{},
		employee:   &stubEmployeeService{},
		attendance: &stubAttendanceService{},
	}
	ts.router = NewRouter(cfg, ts.jwt, nil,
		NewWorkerPayrollHandler(ts.worker),
		NewEmployeePayrollHandler(ts.employee),
		NewAttendanceHandler(ts.attendance),
	)
	return ts
}

func (ts *testServer) token(t *testing.T, role string) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(jwt.Claims{UserID: testAdminID, Name: "Payroll Clerk", Role: role})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRouter_Auth(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/workers/salaries", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("reads need no admin role", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/workers/salaries", ts.token(t, "viewer"), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("writes need admin role", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/production-operations", ts.token(t, "viewer"), map[string]any{})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		other := jwt.NewJWTService("another-secret", time.Hour)
		token, _, err := other.GenerateAccessToken(jwt.Claims{UserID: testAdminID, Role: jwt.RoleAdmin})
		require.NoError(t, err)
		rec := ts.do(t, http.MethodGet, "/api/v1/workers/salaries", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWorkerHandler_ListSalaries(t *testing.T) {
	ts := newTestServer(t)
	ts.worker.entries = []payroll.LedgerEntry{{
		ID:          testProdOp,
		Source:      payroll.SourceProduction,
		WorkerID:    testWorker,
		WorkerName:  "Asha",
		PiecesDone:  10,
		TotalAmount: decimal.NewFromInt(50),
		Date:        time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}}

	rec := ts.do(t, http.MethodGet, "/api/v1/workers/salaries", ts.token(t, "viewer"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                          `json:"success"`
		Data    []payroll.LedgerEntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "production", body.Data[0].Source)
	assert.Equal(t, "2024-03-09", body.Data[0].Date)
}

func TestWorkerHandler_MonthlySummaryRequiresMonth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/workers/salaries/summary?year=2024", ts.token(t, "viewer"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "month")

	rec = ts.do(t, http.MethodGet, "/api/v1/workers/salaries/summary?month=march&year=2024", ts.token(t, "viewer"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/workers/salaries/summary?month=3&year=2024", ts.token(t, "viewer"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWorkerHandler_Export(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/workers/salaries/export?month=3&year=2024", ts.token(t, "viewer"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="worker-payroll-2024-03.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", rec.Body.String())
}

func TestWorkerHandler_ListOperationsBindsPathAndQuery(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/workers/"+testWorker+"/operations?month=2&year=2024", ts.token(t, "viewer"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testWorker, ts.worker.opsReq.WorkerID)
	require.NotNil(t, ts.worker.opsReq.Month)
	assert.Equal(t, 2, *ts.worker.opsReq.Month)

	rec = ts.do(t, http.MethodGet, "/api/v1/workers/"+testWorker+"/operations?month=2", ts.token(t, "viewer"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "month without year")
}

func TestWorkerHandler_UpdateSalaryByOps(t *testing.T) {
	ts := newTestServer(t)

	path := "/api/v1/workers/" + testWorker + "/operations/" + testOp + "/salary"
	rec := ts.do(t, http.MethodPut, path, ts.token(t, jwt.RoleAdmin), map[string]any{"date": "2024-03-09", "pieces_done": 12})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, testWorker, ts.worker.updateReq.WorkerID)
	assert.Equal(t, testOp, ts.worker.updateReq.OperationID)
	require.NotNil(t, ts.worker.updateReq.PiecesDone)
	assert.Equal(t, 12, *ts.worker.updateReq.PiecesDone)
}

func TestWorkerHandler_RecordProduction(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/production-operations", ts.token(t, jwt.RoleAdmin),
		map[string]any{"operation_id": testOp, "worker_id": testWorker, "pieces_done": 25})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 25, ts.worker.recordReq.PiecesDone)

	rec = ts.do(t, http.MethodPost, "/api/v1/production-operations", ts.token(t, jwt.RoleAdmin), "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkerHandler_ProcessPaymentsPartialFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.worker.paymentRes = payroll.PaymentResult{
		Updated: 1,
		Errors:  []payroll.PaymentItemError{{ID: "bad", Message: "invalid id"}},
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/workers/salaries/payments", ts.token(t, jwt.RoleAdmin),
		map[string]any{"items": []map[string]any{{"id": "bad"}}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Payments processed with 1 failed item(s)", decodeEnvelope(t, rec).Message)
	require.Len(t, ts.worker.paymentReq.Items, 1)
}

func TestEmployeeHandler_CreateConflict(t *testing.T) {
	ts := newTestServer(t)
	ts.employee.createErr = payroll.ErrEmployeeSalaryExists

	rec := ts.do(t, http.MethodPost, "/api/v1/employees/salaries", ts.token(t, jwt.RoleAdmin),
		map[string]any{"employee_id": testEmpl, "salary_month": "2024-03"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "A salary for this employee and month already exists.", decodeEnvelope(t, rec).Error.Message)
}

func TestEmployeeHandler_GenerateWithEmptyBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/salaries/generate", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+ts.token(t, jwt.RoleAdmin))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ts.employee.generateReq)
	assert.Nil(t, ts.employee.generateReq.Month)
	assert.True(t, strings.HasPrefix(decodeEnvelope(t, rec).Message, "Generated salaries for 2024-03"))
}

func TestAttendanceHandler_MonthlySummary(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/v1/attendance/employees/" + testEmpl + "/summary?month=2&year=2024"

	rec := ts.do(t, http.MethodGet, path, ts.token(t, "viewer"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_days":29`)

	ts.attendance.summaryErr = attendance.ErrSummaryUnavailable
	rec = ts.do(t, http.MethodGet, path, ts.token(t, "viewer"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQueryMonthYear(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?month=&year=", nil)
	_, _, err := queryMonthYear(req)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}
