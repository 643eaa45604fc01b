package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/client"
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/domain/worker"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/safenum"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/sse"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/validator"
	"github.com/crewbook/crewbook-backend-go/internal/service/aggregation"
)

const (
	EventScheduleCollected = "schedule.collected"
	EventAssignmentPaid    = "assignment.paid"
	EventScheduleOverdue   = "schedule.overdue"
)

type scheduleServiceImpl struct {
	scheduleRepo schedule.ScheduleRepository
	workerRepo   worker.WorkerRepository
	clientRepo   client.ClientRepository
	publisher    sse.Publisher
	location     *time.Location
	now          func() time.Time
}

func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	workerRepo worker.WorkerRepository,
	clientRepo client.ClientRepository,
	publisher sse.Publisher,
	location *time.Location,
) schedule.ScheduleService {
	if location == nil {
		location = time.Local
	}
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		workerRepo:   workerRepo,
		clientRepo:   clientRepo,
		publisher:    publisher,
		location:     location,
		now:          time.Now,
	}
}

// GetSchedule returns a schedule with pay, revenue and collection state
// derived the same way the reports derive them.
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, id string) (schedule.ScheduleDetailResponse, error) {
	if !validator.IsValidUUID(id) {
		return schedule.ScheduleDetailResponse{}, schedule.ErrScheduleNotFound
	}

	claims, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return schedule.ScheduleDetailResponse{}, err
	}

	sch, err := s.scheduleRepo.GetSchedule(ctx, id, claims.CompanyID)
	if err != nil {
		return schedule.ScheduleDetailResponse{}, err
	}

	workers, err := s.workerRepo.ListWorkers(ctx, claims.CompanyID)
	if err != nil {
		return schedule.ScheduleDetailResponse{}, err
	}
	byID := make(map[string]*worker.Worker, len(workers))
	for i := range workers {
		byID[workers[i].ID] = &workers[i]
	}

	var clientName *string
	if sch.HasClient() {
		c, err := s.clientRepo.GetByID(ctx, *sch.ClientID, claims.CompanyID)
		switch {
		case err == nil:
			clientName = &c.Name
		case errors.Is(err, client.ErrClientNotFound):
			slog.Warn("schedule references a missing client", "schedule_id", sch.ID, "client_id", *sch.ClientID)
		default:
			return schedule.ScheduleDetailResponse{}, err
		}
	}

	return mapScheduleToDetail(sch, byID, clientName, s.now().In(s.location)), nil
}

func mapScheduleToDetail(sch schedule.Schedule, workers map[string]*worker.Worker, clientName *string, today time.Time) schedule.ScheduleDetailResponse {
	resp := schedule.ScheduleDetailResponse{
		ID:               sch.ID,
		Title:            sch.Title,
		StartDate:        sch.StartDate.Format(time.DateOnly),
		EndDate:          sch.EndDate.Format(time.DateOnly),
		Category:         string(sch.Category),
		Type:             string(sch.Type),
		ClientID:         sch.ClientID,
		ClientName:       clientName,
		ContractAmount:   sch.ContractAmount,
		Revenue:          aggregation.RecognizedRevenue(sch),
		CollectionStatus: string(aggregation.CollectionStatusOf(sch, today)),
		DueDate:          aggregation.DueDate(sch).Format(time.DateOnly),
		Version:          sch.Version,
		Assignments:      make([]schedule.AssignmentDetailResponse, 0, len(sch.Assignments)),
	}

	var total aggregation.Pay
	for _, a := range sch.Assignments {
		terms := aggregation.ResolveTerms(a, workers[a.WorkerID])
		pay := aggregation.ComputePay(terms, aggregation.WorkHours(a.Periods))
		total = total.Add(pay)
		rounded := pay.Rounded()

		name := a.WorkerID
		if w, ok := workers[a.WorkerID]; ok {
			name = w.Name
		}
		resp.Assignments = append(resp.Assignments, schedule.AssignmentDetailResponse{
			ID:             a.ID,
			WorkerID:       a.WorkerID,
			WorkerName:     name,
			HourlyWage:     terms.HourlyWage,
			Withholding:    terms.Withholding,
			Hours:          rounded.Hours,
			GrossPay:       rounded.Gross,
			Withheld:       rounded.Withheld,
			NetPay:         rounded.Net,
			FuelAllowance:  safenum.NonNegativeDecimal(terms.FuelAllowance).Round(0),
			OtherAllowance: safenum.NonNegativeDecimal(terms.OtherAllowance).Round(0),
			TotalPay:       rounded.Total,
			Paid:           a.Paid,
			Version:        a.Version,
		})
	}

	rounded := total.Rounded()
	resp.TotalHours = rounded.Hours
	resp.TotalPay = rounded.Total
	resp.Revenue = resp.Revenue.Round(0)
	if resp.ContractAmount != nil {
		amount := safenum.NonNegativeDecimal(*resp.ContractAmount)
		resp.ContractAmount = &amount
	}
	return resp
}

// MarkCollected moves the receivable to received. Marking an already
// received schedule is a no-op that reports the current version.
func (s *scheduleServiceImpl) MarkCollected(ctx context.Context, req schedule.MarkCollectedRequest) (schedule.TransitionResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.TransitionResponse{}, err
	}

	claims, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return schedule.TransitionResponse{}, err
	}
	if claims.UserID == "" {
		return schedule.TransitionResponse{}, schedule.ErrActorRequired
	}

	at := s.now().In(s.location)
	res, err := s.scheduleRepo.MarkCollected(ctx, schedule.MarkCollectedCommand{
		ScheduleID:      req.ScheduleID,
		CompanyID:       claims.CompanyID,
		Actor:           claims.UserID,
		At:              at,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return schedule.TransitionResponse{}, err
	}

	if res.Changed {
		slog.Info("schedule marked collected", "schedule_id", res.ID, "company_id", claims.CompanyID, "actor", claims.UserID, "version", res.Version)
		s.publish(claims.CompanyID, EventScheduleCollected, map[string]interface{}{
			"schedule_id": res.ID,
			"version":     res.Version,
			"actor":       claims.UserID,
		})
	}

	return schedule.TransitionResponse{
		ID:      res.ID,
		Version: res.Version,
		Changed: res.Changed,
		State:   string(schedule.CollectionReceived),
		At:      at.Format(time.RFC3339),
	}, nil
}

// SetAssignmentPaid sets the paid flag. Setting it to its current value is a
// no-op.
func (s *scheduleServiceImpl) SetAssignmentPaid(ctx context.Context, req schedule.SetAssignmentPaidRequest) (schedule.TransitionResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.TransitionResponse{}, err
	}

	claims, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return schedule.TransitionResponse{}, err
	}
	if claims.UserID == "" {
		return schedule.TransitionResponse{}, schedule.ErrActorRequired
	}

	at := s.now().In(s.location)
	res, err := s.scheduleRepo.SetAssignmentPaid(ctx, schedule.SetPaidCommand{
		AssignmentID:    req.AssignmentID,
		CompanyID:       claims.CompanyID,
		Paid:            *req.Paid,
		Actor:           claims.UserID,
		At:              at,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return schedule.TransitionResponse{}, err
	}

	state := "unpaid"
	if *req.Paid {
		state = "paid"
	}
	if res.Changed {
		slog.Info("assignment paid flag changed", "assignment_id", res.ID, "company_id", claims.CompanyID, "paid", *req.Paid, "actor", claims.UserID)
		s.publish(claims.CompanyID, EventAssignmentPaid, map[string]interface{}{
			"assignment_id": res.ID,
			"paid":          *req.Paid,
			"version":       res.Version,
			"actor":         claims.UserID,
		})
	}

	return schedule.TransitionResponse{
		ID:      res.ID,
		Version: res.Version,
		Changed: res.Changed,
		State:   state,
		At:      at.Format(time.RFC3339),
	}, nil
}

func (s *scheduleServiceImpl) publish(companyID, event string, data interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(companyID, sse.Event{Event: event, Data: data})
}
