package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/sse"
	schedulesvc "github.com/crewbook/crewbook-backend-go/internal/service/schedule"
)

const (
	JobRefreshClientCaches = "refresh_client_caches"
	JobOverdueSweep        = "overdue_sweep"
)

// ReportJobs recomputes derived data outside of requests. Each job walks every
// company; a failing company is logged and skipped.
type ReportJobs struct {
	maintenance  report.MaintenanceService
	scheduleRepo schedule.ScheduleRepository
	publisher    sse.Publisher
	now          func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

func NewReportJobs(
	maintenance report.MaintenanceService,
	scheduleRepo schedule.ScheduleRepository,
	publisher sse.Publisher,
) *ReportJobs {
	return &ReportJobs{
		maintenance:  maintenance,
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

// RegisterJobs adds both jobs with the given intervals. The first overdue sweep
// covers one interval back from startup.
func (j *ReportJobs) RegisterJobs(scheduler *Scheduler, cacheInterval, sweepInterval time.Duration) {
	j.mu.Lock()
	if j.lastSweep.IsZero() {
		j.lastSweep = j.now().Add(-sweepInterval)
	}
	j.mu.Unlock()

	scheduler.AddJob(JobRefreshClientCaches, cacheInterval, cacheInterval, j.RefreshClientCaches)
	scheduler.AddJob(JobOverdueSweep, sweepInterval, sweepInterval, j.SweepOverdue)
}

func (j *ReportJobs) RefreshClientCaches(ctx context.Context) error {
	companyIDs, err := j.scheduleRepo.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	var updated int64
	for _, companyID := range companyIDs {
		n, err := j.maintenance.RefreshClientCaches(ctx, companyID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			slog.Error("Cron: Failed to refresh client caches", "company_id", companyID, "error", err)
			continue
		}
		updated += n
	}

	slog.Info("Cron: Refreshed client caches", "companies", len(companyIDs), "clients", updated)
	return nil
}

// SweepOverdue publishes a schedule.overdue event for every receivable whose
// due date passed since the previous successful sweep.
func (j *ReportJobs) SweepOverdue(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	until := j.now()
	since := j.lastSweep
	if since.IsZero() {
		since = until
	}

	companyIDs, err := j.scheduleRepo.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	published := 0
	var failed error
	for _, companyID := range companyIDs {
		overdue, err := j.maintenance.NewlyOverdue(ctx, companyID, since, until)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			slog.Error("Cron: Failed to sweep overdue receivables", "company_id", companyID, "error", err)
			failed = errors.Join(failed, err)
			continue
		}

		for _, r := range overdue {
			j.publisher.Publish(companyID, sse.Event{
				Event: schedulesvc.EventScheduleOverdue,
				Data:  r,
				At:    until,
			})
			published++
		}
	}

	// A failed company keeps the window open so the next sweep retries it.
	if failed == nil {
		j.lastSweep = until
	}

	slog.Info("Cron: Overdue sweep finished", "companies", len(companyIDs), "published", published)
	return failed
}
