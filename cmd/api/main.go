package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/config"
	appHTTP "github.com/garmentworks/payroll-backend-go/internal/handler/http"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/cron"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/database"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/jwt"
	"github.com/garmentworks/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/garmentworks/payroll-backend-go/internal/service/attendance"
	payrollService "github.com/garmentworks/payroll-backend-go/internal/service/payroll"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(db); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	workerSalaryRepo := postgresql.NewWorkerSalaryRepository(db)
	productionRepo := postgresql.NewProductionOperationRepository(db)
	workerAdvanceRepo := postgresql.NewWorkerAdvanceRepository(db)
	lookupRepo := postgresql.NewLookupRepository(db)
	employeeSalaryRepo := postgresql.NewEmployeeSalaryRepository(db)
	employeeAdvanceRepo := postgresql.NewEmployeeAdvanceRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo)
	workerPayrollSvc := payrollService.NewWorkerPayrollService(
		workerSalaryRepo,
		productionRepo,
		workerAdvanceRepo,
		lookupRepo,
	)
	employeePayrollSvc := payrollService.NewEmployeePayrollService(
		employeeSalaryRepo,
		employeeAdvanceRepo,
		employeeRepo,
		attendanceSvc,
		transactor,
	)

	// The idempotency guard stays off unless Redis is configured and reachable.
	var rdb redis.Cmdable
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Warn("Redis unreachable, idempotency guard disabled", "addr", cfg.Redis.Addr, "error", err)
			_ = client.Close()
		} else {
			rdb = client
			defer client.Close()
		}
	}

	var scheduler *cron.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = cron.NewScheduler(time.Local)
		if err := scheduler.AddJob(
			cron.SalaryGenerationJobName,
			cfg.Scheduler.SalaryGenerationCron,
			cron.SalaryGenerationJob(employeePayrollSvc),
		); err != nil {
			slog.Error("Failed to schedule salary generation", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		rdb,
		appHTTP.NewWorkerPayrollHandler(workerPayrollSvc),
		appHTTP.NewEmployeePayrollHandler(employeePayrollSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}
