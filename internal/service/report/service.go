package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/client"
	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/domain/worker"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/crewbook/crewbook-backend-go/internal/service/aggregation"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const topListSize = 5

type Config struct {
	TrendMonths int
	Location    *time.Location
	// PDFFont is a TrueType font used for exports. Empty falls back to
	// Helvetica, which cannot render Hangul.
	PDFFont []byte
}

type ReportServiceImpl struct {
	scheduleRepo schedule.ScheduleRepository
	workerRepo   worker.WorkerRepository
	clientRepo   client.ClientRepository
	trendMonths  int
	location     *time.Location
	pdfFont      []byte
	now          func() time.Time
}

func newReportServiceImpl(scheduleRepo schedule.ScheduleRepository, workerRepo worker.WorkerRepository, clientRepo client.ClientRepository, cfg Config) *ReportServiceImpl {
	if cfg.TrendMonths <= 0 {
		cfg.TrendMonths = aggregation.DefaultTrendMonths
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &ReportServiceImpl{
		scheduleRepo: scheduleRepo,
		workerRepo:   workerRepo,
		clientRepo:   clientRepo,
		trendMonths:  cfg.TrendMonths,
		location:     cfg.Location,
		pdfFont:      cfg.PDFFont,
		now:          time.Now,
	}
}

func NewReportService(scheduleRepo schedule.ScheduleRepository, workerRepo worker.WorkerRepository, clientRepo client.ClientRepository, cfg Config) report.ReportService {
	return newReportServiceImpl(scheduleRepo, workerRepo, clientRepo, cfg)
}

func NewMaintenanceService(scheduleRepo schedule.ScheduleRepository, workerRepo worker.WorkerRepository, clientRepo client.ClientRepository, cfg Config) report.MaintenanceService {
	return newReportServiceImpl(scheduleRepo, workerRepo, clientRepo, cfg)
}

func (s *ReportServiceImpl) today() time.Time {
	return s.now().In(s.location)
}

// loadSnapshot fetches the three collections in parallel. The first failure
// cancels the others.
func (s *ReportServiceImpl) loadSnapshot(ctx context.Context, companyID string) (aggregation.Snapshot, error) {
	var snap aggregation.Snapshot
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		schedules, err := s.scheduleRepo.ListSchedules(gCtx, companyID)
		if err != nil {
			return fmt.Errorf("list schedules: %w", err)
		}
		snap.Schedules = schedules
		return nil
	})

	g.Go(func() error {
		workers, err := s.workerRepo.ListWorkers(gCtx, companyID)
		if err != nil {
			return fmt.Errorf("list workers: %w", err)
		}
		snap.Workers = workers
		return nil
	})

	g.Go(func() error {
		clients, err := s.clientRepo.ListClients(gCtx, companyID)
		if err != nil {
			return fmt.Errorf("list clients: %w", err)
		}
		snap.Clients = clients
		return nil
	})

	if err := g.Wait(); err != nil {
		return aggregation.Snapshot{}, err
	}
	return snap, nil
}

// engine builds an engine for the caller's company. A failed fetch yields an
// engine over an empty snapshot and a meta carrying the fetch error; only a
// cancelled request is returned as an error.
func (s *ReportServiceImpl) engine(ctx context.Context, now time.Time) (*aggregation.Engine, report.ReportMeta, error) {
	meta := report.NewReportMeta(now)

	claims, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, meta, err
	}

	snap, err := s.loadSnapshot(ctx, claims.CompanyID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, meta, ctxErr
		}
		slog.Error("failed to load report data", "company_id", claims.CompanyID, "error", err)
		msg := report.ErrDataFetch.Error()
		meta.FetchError = &msg
		snap = aggregation.Snapshot{}
	}
	return aggregation.NewEngine(snap, now), meta, nil
}

// prepare resolves the window before anything is fetched so an invalid range
// never reaches the database.
func (s *ReportServiceImpl) prepare(ctx context.Context, req report.ReportRequest) (*aggregation.Engine, report.Window, report.ReportMeta, error) {
	if err := req.Validate(); err != nil {
		return nil, report.Window{}, report.ReportMeta{}, err
	}

	now := s.today()
	window, err := aggregation.ResolveWindow(req.Selector(), now)
	if err != nil {
		return nil, report.Window{}, report.ReportMeta{}, err
	}

	engine, meta, err := s.engine(ctx, now)
	if err != nil {
		return nil, report.Window{}, report.ReportMeta{}, err
	}
	return engine, window, meta, nil
}

func (s *ReportServiceImpl) GetDashboard(ctx context.Context, req report.ReportRequest) (report.DashboardResponse, error) {
	engine, window, meta, err := s.prepare(ctx, req)
	if err != nil {
		return report.DashboardResponse{}, err
	}

	current := engine.MonthlyTrend(engine.Now(), 1)[0]
	return report.DashboardResponse{
		ReportMeta:   meta,
		Window:       window.Response(),
		Totals:       engine.Totals(window),
		TopClients:   head(engine.ClientRollups(window), topListSize),
		TopWorkers:   head(engine.WorkerRollups(window), topListSize),
		CurrentMonth: &current,
	}, nil
}

func (s *ReportServiceImpl) GetCashFlow(ctx context.Context) (report.CashFlowResponse, error) {
	now := s.today()
	engine, meta, err := s.engine(ctx, now)
	if err != nil {
		return report.CashFlowResponse{}, err
	}

	open := make([]report.Receivable, 0)
	outstanding, overdue := decimal.Zero, decimal.Zero
	for _, r := range engine.Receivables(nil, now) {
		if r.Status == string(schedule.CollectionReceived) {
			continue
		}
		open = append(open, r)
		outstanding = outstanding.Add(r.Amount)
		if r.Status == string(schedule.CollectionOverdue) {
			overdue = overdue.Add(r.Amount)
		}
	}

	return report.CashFlowResponse{
		ReportMeta:       meta,
		Trend:            engine.MonthlyTrend(now, s.trendMonths),
		Receivables:      open,
		OutstandingTotal: outstanding,
		OverdueTotal:     overdue,
	}, nil
}

func (s *ReportServiceImpl) GetClientReport(ctx context.Context, req report.ReportRequest) (report.ClientReportResponse, error) {
	engine, window, meta, err := s.prepare(ctx, req)
	if err != nil {
		return report.ClientReportResponse{}, err
	}

	return report.ClientReportResponse{
		ReportMeta: meta,
		Window:     window.Response(),
		Totals:     engine.Totals(window),
		Clients:    engine.ClientRollups(window),
	}, nil
}

func (s *ReportServiceImpl) GetWorkerReport(ctx context.Context, req report.ReportRequest) (report.WorkerReportResponse, error) {
	engine, window, meta, err := s.prepare(ctx, req)
	if err != nil {
		return report.WorkerReportResponse{}, err
	}

	return report.WorkerReportResponse{
		ReportMeta: meta,
		Window:     window.Response(),
		Totals:     engine.Totals(window),
		Workers:    engine.WorkerRollups(window),
	}, nil
}

func (s *ReportServiceImpl) GetPayroll(ctx context.Context, req report.ReportRequest) (report.PayrollResponse, error) {
	engine, window, meta, err := s.prepare(ctx, req)
	if err != nil {
		return report.PayrollResponse{}, err
	}

	lines := engine.PayLines(window)
	var paid int
	for _, l := range lines {
		if l.Paid {
			paid++
		}
	}

	return report.PayrollResponse{
		ReportMeta:  meta,
		Window:      window.Response(),
		Totals:      engine.Totals(window),
		Lines:       lines,
		PaidLines:   paid,
		UnpaidLines: len(lines) - paid,
	}, nil
}

func (s *ReportServiceImpl) RefreshClientCaches(ctx context.Context, companyID string) (int64, error) {
	snap, err := s.loadSnapshot(ctx, companyID)
	if err != nil {
		return 0, errors.Join(report.ErrDataFetch, err)
	}
	if len(snap.Clients) == 0 {
		return 0, nil
	}

	now := s.today()
	caches := aggregation.NewEngine(snap, now).ClientCaches()
	n, err := s.clientRepo.UpdateDisplayCaches(ctx, companyID, caches, now)
	if err != nil {
		return 0, fmt.Errorf("failed to update client caches: %w", err)
	}
	return n, nil
}

func (s *ReportServiceImpl) NewlyOverdue(ctx context.Context, companyID string, since, until time.Time) ([]report.Receivable, error) {
	snap, err := s.loadSnapshot(ctx, companyID)
	if err != nil {
		return nil, errors.Join(report.ErrDataFetch, err)
	}

	until = until.In(s.location)
	from := since.In(s.location).Format(time.DateOnly)
	to := until.Format(time.DateOnly)

	var out []report.Receivable
	for _, r := range aggregation.NewEngine(snap, until).Receivables(nil, until) {
		if r.Status != string(schedule.CollectionOverdue) {
			continue
		}
		if r.DueDate > from && r.DueDate <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
