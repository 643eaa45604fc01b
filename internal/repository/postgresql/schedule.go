package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

const scheduleColumns = `
	s.id, s.company_id, s.title, s.start_date, s.end_date, s.category, s.type,
	s.client_id, s.contract_amount, s.collected, s.collected_at, s.collected_by,
	s.version, s.created_at, s.updated_at`

const assignmentColumns = `
	a.id, a.schedule_id, a.worker_id, a.hourly_wage, a.withholding,
	a.fuel_allowance, a.other_allowance, a.paid, a.paid_at, a.paid_by,
	a.version, a.created_at, a.updated_at`

const periodColumns = `
	p.id, p.assignment_id, p.start_at, p.end_at, p.work_date,
	p.start_time, p.end_time, p.break_minutes, p.position`

// loadSchedules sends the schedule, assignment and period queries as one
// batch and stitches the result. filter is appended to every query and may
// reference s.company_id ($1) and further args.
func (r *scheduleRepositoryImpl) loadSchedules(ctx context.Context, filter string, args ...interface{}) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	batch.Queue(`SELECT `+scheduleColumns+`
		FROM schedules s
		WHERE s.deleted_at IS NULL AND `+filter+`
		ORDER BY s.start_date DESC, s.created_at DESC`, args...)
	batch.Queue(`SELECT `+assignmentColumns+`
		FROM schedule_assignments a
		JOIN schedules s ON s.id = a.schedule_id
		WHERE s.deleted_at IS NULL AND `+filter+`
		ORDER BY a.created_at, a.id`, args...)
	batch.Queue(`SELECT `+periodColumns+`
		FROM work_periods p
		JOIN schedule_assignments a ON a.id = p.assignment_id
		JOIN schedules s ON s.id = a.schedule_id
		WHERE s.deleted_at IS NULL AND `+filter+`
		ORDER BY p.assignment_id, p.position, p.id`, args...)

	br := q.SendBatch(ctx, batch)
	defer br.Close()

	schedules, err := collect(br, scanSchedule)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	assignments, err := collect(br, scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule assignments: %w", err)
	}
	periods, err := collect(br, scanWorkPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to list work periods: %w", err)
	}

	periodsByAssignment := make(map[string][]schedule.WorkPeriod)
	for _, p := range periods {
		periodsByAssignment[p.AssignmentID] = append(periodsByAssignment[p.AssignmentID], p)
	}
	assignmentsBySchedule := make(map[string][]schedule.Assignment)
	for _, a := range assignments {
		a.Periods = periodsByAssignment[a.ID]
		assignmentsBySchedule[a.ScheduleID] = append(assignmentsBySchedule[a.ScheduleID], a)
	}
	for i := range schedules {
		schedules[i].Assignments = assignmentsBySchedule[schedules[i].ID]
	}
	return schedules, nil
}

func collect[T any](br pgx.BatchResults, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := br.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var (
		s              schedule.Schedule
		category, kind string
		contract       decimal.NullDecimal
	)
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Title, &s.StartDate, &s.EndDate, &category, &kind,
		&s.ClientID, &contract, &s.Collected, &s.CollectedAt, &s.CollectedBy,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, err
	}
	s.Category = schedule.Kind(category)
	s.Type = schedule.Kind(kind)
	if contract.Valid {
		s.ContractAmount = &contract.Decimal
	}
	return s, nil
}

func scanAssignment(row pgx.Row) (schedule.Assignment, error) {
	var (
		a                 schedule.Assignment
		wage, fuel, other decimal.NullDecimal
	)
	err := row.Scan(
		&a.ID, &a.ScheduleID, &a.WorkerID, &wage, &a.Withholding,
		&fuel, &other, &a.Paid, &a.PaidAt, &a.PaidBy,
		&a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return schedule.Assignment{}, err
	}
	a.HourlyWage = nullDecimalPtr(wage)
	a.FuelAllowance = nullDecimalPtr(fuel)
	a.OtherAllowance = nullDecimalPtr(other)
	return a, nil
}

func scanWorkPeriod(row pgx.Row) (schedule.WorkPeriod, error) {
	var (
		p                  schedule.WorkPeriod
		workDate           *time.Time
		startTime, endTime *string
	)
	err := row.Scan(
		&p.ID, &p.AssignmentID, &p.StartAt, &p.EndAt, &workDate,
		&startTime, &endTime, &p.BreakMinutes, &p.Position,
	)
	if err != nil {
		return schedule.WorkPeriod{}, err
	}
	if workDate != nil {
		p.WorkDate = workDate.Format(time.DateOnly)
	}
	if startTime != nil {
		p.StartTime = *startTime
	}
	if endTime != nil {
		p.EndTime = *endTime
	}
	return p, nil
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

func (r *scheduleRepositoryImpl) ListSchedules(ctx context.Context, companyID string) ([]schedule.Schedule, error) {
	return r.loadSchedules(ctx, "s.company_id = $1", companyID)
}

func (r *scheduleRepositoryImpl) GetSchedule(ctx context.Context, id string, companyID string) (schedule.Schedule, error) {
	schedules, err := r.loadSchedules(ctx, "s.company_id = $1 AND s.id = $2", companyID, id)
	if err != nil {
		return schedule.Schedule{}, err
	}
	if len(schedules) == 0 {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return schedules[0], nil
}

// MarkCollected only writes when the schedule is still uncollected and, when
// given, the version matches. A write that matches nothing is resolved into
// not found, already collected or a version conflict.
func (r *scheduleRepositoryImpl) MarkCollected(ctx context.Context, cmd schedule.MarkCollectedCommand) (schedule.TransitionResult, error) {
	if cmd.Actor == "" {
		return schedule.TransitionResult{}, schedule.ErrActorRequired
	}

	var result schedule.TransitionResult
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var version int64
		err := q.QueryRow(ctx, `
			UPDATE schedules
			SET collected = true, collected_at = $3, collected_by = $4,
			    version = version + 1, updated_at = $3
			WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
			  AND collected = false
			  AND ($5::bigint IS NULL OR version = $5)
			RETURNING version`,
			cmd.ScheduleID, cmd.CompanyID, cmd.At, cmd.Actor, cmd.ExpectedVersion,
		).Scan(&version)
		if err == nil {
			result = schedule.TransitionResult{ID: cmd.ScheduleID, Version: version, Changed: true}
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to mark schedule collected: %w", err)
		}

		var collected bool
		err = q.QueryRow(ctx, `
			SELECT collected, version FROM schedules
			WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`,
			cmd.ScheduleID, cmd.CompanyID,
		).Scan(&collected, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ErrScheduleNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get schedule state: %w", err)
		}
		if !collected {
			return schedule.ErrVersionConflict
		}
		result = schedule.TransitionResult{ID: cmd.ScheduleID, Version: version}
		return nil
	})
	return result, err
}

func (r *scheduleRepositoryImpl) SetAssignmentPaid(ctx context.Context, cmd schedule.SetPaidCommand) (schedule.TransitionResult, error) {
	if cmd.Actor == "" {
		return schedule.TransitionResult{}, schedule.ErrActorRequired
	}

	var result schedule.TransitionResult
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var version int64
		err := q.QueryRow(ctx, `
			UPDATE schedule_assignments a
			SET paid = $3,
			    paid_at = CASE WHEN $3 THEN $4::timestamptz END,
			    paid_by = CASE WHEN $3 THEN $5::text END,
			    version = a.version + 1, updated_at = $4
			FROM schedules s
			WHERE a.id = $1 AND s.id = a.schedule_id
			  AND s.company_id = $2 AND s.deleted_at IS NULL
			  AND a.paid <> $3
			  AND ($6::bigint IS NULL OR a.version = $6)
			RETURNING a.version`,
			cmd.AssignmentID, cmd.CompanyID, cmd.Paid, cmd.At, cmd.Actor, cmd.ExpectedVersion,
		).Scan(&version)
		if err == nil {
			result = schedule.TransitionResult{ID: cmd.AssignmentID, Version: version, Changed: true}
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to set assignment paid: %w", err)
		}

		var paid bool
		err = q.QueryRow(ctx, `
			SELECT a.paid, a.version
			FROM schedule_assignments a
			JOIN schedules s ON s.id = a.schedule_id
			WHERE a.id = $1 AND s.company_id = $2 AND s.deleted_at IS NULL`,
			cmd.AssignmentID, cmd.CompanyID,
		).Scan(&paid, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ErrAssignmentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get assignment state: %w", err)
		}
		if paid != cmd.Paid {
			return schedule.ErrVersionConflict
		}
		result = schedule.TransitionResult{ID: cmd.AssignmentID, Version: version}
		return nil
	})
	return result, err
}

func (r *scheduleRepositoryImpl) ListCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return ids, nil
}
