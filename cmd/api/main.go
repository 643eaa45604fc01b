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

	"github.com/crewbook/crewbook-backend-go/internal/config"
	appHTTP "github.com/crewbook/crewbook-backend-go/internal/handler/http"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/cron"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/database"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/sse"
	"github.com/crewbook/crewbook-backend-go/internal/repository/postgresql"
	reportService "github.com/crewbook/crewbook-backend-go/internal/service/report"
	scheduleService "github.com/crewbook/crewbook-backend-go/internal/service/schedule"
)

const appName = "crewbook"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", appName),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Migrations.RunOnBoot {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	scheduleRepo := postgresql.NewScheduleRepository(db)
	workerRepo := postgresql.NewWorkerRepository(db)
	clientRepo := postgresql.NewClientRepository(db)

	location := cfg.Location()
	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Skew)

	pdfFont, err := cfg.Report.LoadPDFFont()
	if err != nil {
		return err
	}
	if pdfFont == nil {
		slog.Warn("REPORT_PDF_FONT not set; PDF exports replace Hangul with '.'")
	}

	reportCfg := reportService.Config{
		TrendMonths: cfg.Report.TrendMonths,
		Location:    location,
		PDFFont:     pdfFont,
	}
	reportSvc := reportService.NewReportService(scheduleRepo, workerRepo, clientRepo, reportCfg)
	maintenanceSvc := reportService.NewMaintenanceService(scheduleRepo, workerRepo, clientRepo, reportCfg)
	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo, workerRepo, clientRepo, hub, location)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler(ctx)
		cron.NewReportJobs(maintenanceSvc, scheduleRepo, hub).
			RegisterJobs(scheduler, cfg.Cron.ClientCacheInterval, cfg.Cron.OverdueSweepInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        appName,
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.CORSOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, db, appHTTP.Handlers{
		Report:   appHTTP.NewReportHandler(reportSvc),
		Schedule: appHTTP.NewScheduleHandler(scheduleSvc),
		Event:    appHTTP.NewEventHandler(hub, JWTService, ctx.Done()),
	})

	// No write timeout: /api/v1/events streams indefinitely.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
