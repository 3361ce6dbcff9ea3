package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"paydesk/internal/domain/dispatch"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/holiday"
	"paydesk/internal/domain/notifications"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/platform/config"
	"paydesk/internal/platform/crypto"
	"paydesk/internal/platform/db"
	"paydesk/internal/platform/ids"
	"paydesk/internal/platform/jobs"
	"paydesk/internal/platform/metrics"
	"paydesk/internal/transport/http/api"
	employeehandler "paydesk/internal/transport/http/handlers/employees"
	holidayhandler "paydesk/internal/transport/http/handlers/holidays"
	payrollhandler "paydesk/internal/transport/http/handlers/payroll"
	"paydesk/internal/transport/http/middleware"
	"paydesk/migrations"
)

type App struct {
	Config    config.Config
	DB        *db.Pool
	Router    http.Handler
	Employees *employee.Service
	Payroll   *payroll.Service
	Scheduler dispatch.Scheduler
	Calendar  *holiday.Calendar

	jobs     *jobs.Service
	stopJobs context.CancelFunc
}

// Services are the collaborators the HTTP surface needs.
type Services struct {
	Employees   employeehandler.Service
	Payroll     payrollhandler.Service
	Runs        payrollhandler.RunSubmitter
	Scheduler   dispatch.Scheduler
	Idempotency payrollhandler.IdempotencyStore
	Calendar    *holiday.Calendar
	Metrics     *metrics.Collector
	Ready       func(ctx context.Context) error
}

// New connects to Postgres, applies migrations when enabled and wires every
// service. Close releases what New acquired.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		applied, err := db.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		if len(applied) > 0 {
			slog.Info("migrations applied", "files", applied)
		}
	}

	app, err := wire(cfg, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return app, nil
}

func wire(cfg config.Config, pool *db.Pool) (*App, error) {
	collector := metrics.New()

	gen, err := ids.NewGenerator(cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("id generator: %w", err)
	}
	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("field sealer: %w", err)
	}
	if !sealer.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY not set; SIN and bank account are stored unsealed")
	}
	rules, err := holiday.Lookup(cfg.HolidayJurisdiction)
	if err != nil {
		return nil, fmt.Errorf("holiday jurisdiction %q: %w", cfg.HolidayJurisdiction, err)
	}
	calendar := holiday.NewCalendar(rules)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	jobSvc := jobs.New(jobs.NewStore(pool), collector)
	jobSvc.Start(jobCtx)

	webhook := notifications.NewWebhook(notifications.WebhookConfig{
		URL:     cfg.EmployeeWebhookURL,
		Secret:  cfg.EmployeeWebhookSecret,
		Timeout: cfg.WorkflowTimeout,
	})
	employeeSvc := employee.NewService(employee.NewStore(pool, sealer), gen, notifications.New(webhook, jobSvc))
	payrollSvc := payroll.NewService(payroll.NewStore(pool), gen, calendar, collector)

	dispatcher := dispatch.New(dispatch.Config{
		URL:             cfg.WorkflowURL,
		Secret:          cfg.WorkflowSecret,
		Timeout:         cfg.WorkflowTimeout,
		DefaultTimezone: cfg.DefaultTimezone,
	})
	if !dispatcher.Configured() {
		slog.Warn("WORKFLOW_URL not set; schedule requests will be rejected")
	}
	scheduler := dispatch.Tracked(dispatcher, jobSvc, collector)

	router := NewRouter(cfg, Services{
		Employees:   employeeSvc,
		Payroll:     payrollSvc,
		Runs:        payroll.NewOrchestrator(payrollSvc, scheduler),
		Scheduler:   scheduler,
		Idempotency: middleware.NewIdempotencyStore(pool),
		Calendar:    calendar,
		Metrics:     collector,
		Ready: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	})

	return &App{
		Config:    cfg,
		DB:        pool,
		Router:    router,
		Employees: employeeSvc,
		Payroll:   payrollSvc,
		Scheduler: scheduler,
		Calendar:  calendar,
		jobs:      jobSvc,
		stopJobs:  stopJobs,
	}, nil
}

func NewRouter(cfg config.Config, svc Services) http.Handler {
	var recorder middleware.Recorder
	if svc.Metrics != nil {
		recorder = svc.Metrics
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(recorder))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Production()))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := svc.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && svc.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", svc.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, middleware.MutationsOnly()))

		employeehandler.NewHandler(svc.Employees).RegisterRoutes(r)
		payrollhandler.NewHandler(svc.Payroll, svc.Runs, svc.Scheduler, svc.Idempotency, cfg.UpdateToken).RegisterRoutes(r)
		holidayhandler.NewHandler(svc.Calendar).RegisterRoutes(r)
	})

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      a.Config.WorkflowTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("paydesk listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("paydesk shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.stopJobs != nil {
		a.stopJobs()
		a.jobs.Wait()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
