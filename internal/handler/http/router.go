package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/garmentworks/payroll-backend-go/internal/config"
	"github.com/garmentworks/payroll-backend-go/internal/handler/http/middleware"
	"github.com/garmentworks/payroll-backend-go/internal/handler/http/response"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

// NewRouter mounts the payroll API. A nil rdb disables the idempotency guard.
func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	rdb redis.Cmdable,
	workerHandler WorkerPayrollHandler,
	employeeHandler EmployeePayrollHandler,
	attendanceHandler AttendanceHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsDevelopment())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "garment-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	idempotent := middleware.Idempotency(rdb, cfg.Redis.IdempotencyTTL)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/workers", func(r chi.Router) {
			r.Route("/salaries", func(r chi.Router) {
				r.Get("/", workerHandler.ListSalaries)
				r.Get("/summary", workerHandler.MonthlySummary)
				r.Get("/export", workerHandler.ExportMonthlySummary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", workerHandler.AddSalary)
					r.With(idempotent).Post("/payments", workerHandler.ProcessPayments)
					r.With(idempotent).Post("/mark-paid", workerHandler.MarkPaid)
				})
			})

			r.Route("/{workerId}", func(r chi.Router) {
				r.Get("/operations", workerHandler.ListOperations)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/operations/{operationId}/salary", workerHandler.UpdateSalaryByOps)
					r.Delete("/operations/{operationId}/salary", workerHandler.DeleteSalary)
					r.Post("/advances", workerHandler.AddAdvance)
				})
			})
		})

		r.Route("/production-operations", func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Post("/", workerHandler.RecordProduction)
			r.Put("/{id}", workerHandler.EditProduction)
			r.Delete("/{id}", workerHandler.DeleteProduction)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Route("/salaries", func(r chi.Router) {
				r.Get("/", employeeHandler.ListSalaries)
				r.Get("/paid", employeeHandler.PaidEmployeeIDs)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", employeeHandler.CreateSalary)
					r.Put("/{id}", employeeHandler.UpdateSalary)
					r.With(idempotent).Post("/generate", employeeHandler.GenerateSalaries)
					r.With(idempotent).Post("/mark-paid", employeeHandler.MarkPaid)
				})
			})

			r.With(middleware.AdminOnly).Post("/{employeeId}/advances", employeeHandler.AddAdvance)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListByDate)
			r.Get("/employees/{employeeId}/summary", attendanceHandler.MonthlySummary)
			r.With(middleware.AdminOnly).Post("/", attendanceHandler.Mark)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
