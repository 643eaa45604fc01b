package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/crewbook/crewbook-backend-go/internal/cli"
	"github.com/crewbook/crewbook-backend-go/internal/config"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/database"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/crewbook/crewbook-backend-go/internal/repository/postgresql"
	reportService "github.com/crewbook/crewbook-backend-go/internal/service/report"
)

func main() {
	var root cli.CLI
	kctx := kong.Parse(&root,
		kong.Name("crewbookctl"),
		kong.Description("Operator tooling for the crewbook backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version()},
	)

	if err := run(kctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func version() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "dev"
}

func run(kctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Ctx: ctx,
		Out: os.Stdout,
		JWT: jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Skew),
	}

	if kctx.Selected() != nil && cli.NeedsDatabase(kctx.Selected().Name) {
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 4, MinConns: 1})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		scheduleRepo := postgresql.NewScheduleRepository(db)
		workerRepo := postgresql.NewWorkerRepository(db)
		clientRepo := postgresql.NewClientRepository(db)
		pdfFont, err := cfg.Report.LoadPDFFont()
		if err != nil {
			return err
		}
		reportCfg := reportService.Config{TrendMonths: cfg.Report.TrendMonths, Location: cfg.Location(), PDFFont: pdfFont}

		appCtx.Migrator = db
		appCtx.Companies = scheduleRepo
		appCtx.Reports = reportService.NewReportService(scheduleRepo, workerRepo, clientRepo, reportCfg)
		appCtx.Maintenance = reportService.NewMaintenanceService(scheduleRepo, workerRepo, clientRepo, reportCfg)
	}

	return kctx.Run(appCtx)
}
