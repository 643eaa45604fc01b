package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/client"
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seeded struct {
	companyID    string
	clientID     string
	workerID     string
	scheduleID   string
	assignmentID string
}

func seed(t *testing.T, s *TestDatabaseSetup) seeded {
	t.Helper()

	var d seeded
	d.companyID = s.insertID(t, `INSERT INTO companies (name) VALUES ('Crew Test') RETURNING id`)
	d.clientID = s.insertID(t, `INSERT INTO clients (company_id, name) VALUES ($1, 'Acme') RETURNING id`, d.companyID)
	d.workerID = s.insertID(t, `
		INSERT INTO workers (company_id, name, default_hourly_wage, withholding)
		VALUES ($1, 'Kim', 10000, true) RETURNING id`, d.companyID)
	d.scheduleID = s.insertID(t, `
		INSERT INTO schedules (company_id, title, start_date, end_date, category, type, client_id, contract_amount)
		VALUES ($1, 'Acme launch', '2025-03-03', '2025-03-03', 'business', 'business', $2, 300000)
		RETURNING id`, d.companyID, d.clientID)
	d.assignmentID = s.insertID(t, `
		INSERT INTO schedule_assignments (schedule_id, worker_id, fuel_allowance)
		VALUES ($1, $2, 10000) RETURNING id`, d.scheduleID, d.workerID)
	s.insertID(t, `
		INSERT INTO work_periods (assignment_id, work_date, start_time, end_time, position)
		VALUES ($1, '2025-03-03', '09:00', '13:00', 0) RETURNING id`, d.assignmentID)
	s.insertID(t, `
		INSERT INTO work_periods (assignment_id, work_date, start_time, end_time, break_minutes, position)
		VALUES ($1, '2025-03-03', '14:00', '18:30', 30, 1) RETURNING id`, d.assignmentID)
	return d
}

func TestScheduleRepository_ListSchedules(t *testing.T) {
	s := NewTestDatabase(t)
	d := seed(t, s)
	repo := postgresql.NewScheduleRepository(s.DB)

	schedules, err := repo.ListSchedules(context.Background(), d.companyID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)

	got := schedules[0]
	assert.Equal(t, "Acme launch", got.Title)
	assert.Equal(t, schedule.KindBusiness, got.Type)
	assert.Equal(t, "2025-03-03", got.StartDate.Format(time.DateOnly))
	require.NotNil(t, got.ClientID)
	assert.Equal(t, d.clientID, *got.ClientID)
	require.NotNil(t, got.ContractAmount)
	assert.True(t, got.ContractAmount.Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, int64(1), got.Version)

	require.Len(t, got.Assignments, 1)
	a := got.Assignments[0]
	assert.Nil(t, a.HourlyWage)
	assert.Nil(t, a.Withholding)
	require.NotNil(t, a.FuelAllowance)
	assert.True(t, a.FuelAllowance.Equal(decimal.NewFromInt(10000)))

	require.Len(t, a.Periods, 2)
	assert.Equal(t, "09:00", a.Periods[0].StartTime)
	assert.Equal(t, "2025-03-03", a.Periods[0].WorkDate)
	assert.Equal(t, 30, a.Periods[1].BreakMinutes)
	assert.InDelta(t, 4.0, a.Periods[1].Hours(), 1e-9)
}

func TestScheduleRepository_GetSchedule_ScopedToCompany(t *testing.T) {
	s := NewTestDatabase(t)
	d := seed(t, s)
	repo := postgresql.NewScheduleRepository(s.DB)
	other := s.insertID(t, `INSERT INTO companies (name) VALUES ('Other') RETURNING id`)

	_, err := repo.GetSchedule(context.Background(), d.scheduleID, other)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	got, err := repo.GetSchedule(context.Background(), d.scheduleID, d.companyID)
	require.NoError(t, err)
	assert.Equal(t, d.scheduleID, got.ID)
}

func TestScheduleRepository_MarkCollected(t *testing.T) {
	s := NewTestDatabase(t)
	d := seed(t, s)
	repo := postgresql.NewScheduleRepository(s.DB)
	ctx := context.Background()
	at := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)

	stale := int64(7)
	_, err := repo.MarkCollected(ctx, schedule.MarkCollectedCommand{
		ScheduleID: d.scheduleID, CompanyID: d.companyID, Actor: "u-1", At: at, ExpectedVersion: &stale,
	})
	assert.ErrorIs(t, err, schedule.ErrVersionConflict)

	current := int64(1)
	res, err := repo.MarkCollected(ctx, schedule.MarkCollectedCommand{
		ScheduleID: d.scheduleID, CompanyID: d.companyID, Actor: "u-1", At: at, ExpectedVersion: &current,
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, int64(2), res.Version)

	res, err = repo.MarkCollected(ctx, schedule.MarkCollectedCommand{
		ScheduleID: d.scheduleID, CompanyID: d.companyID, Actor: "u-2", At: at.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, int64(2), res.Version)

	got, err := repo.GetSchedule(ctx, d.scheduleID, d.companyID)
	require.NoError(t, err)
	assert.True(t, got.Collected)
	require.NotNil(t, got.CollectedBy)
	assert.Equal(t, "u-1", *got.CollectedBy)

	_, err = repo.MarkCollected(ctx, schedule.MarkCollectedCommand{
		ScheduleID: "00000000-0000-0000-0000-000000000000", CompanyID: d.companyID, Actor: "u-1", At: at,
	})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

func TestScheduleRepository_SetAssignmentPaid(t *testing.T) {
	s := NewTestDatabase(t)
	d := seed(t, s)
	repo := postgresql.NewScheduleRepository(s.DB)
	ctx := context.Background()
	at := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)

	res, err := repo.SetAssignmentPaid(ctx, schedule.SetPaidCommand{
		AssignmentID: d.assignmentID, CompanyID: d.companyID, Paid: true, Actor: "u-1", At: at,
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)

	res, err = repo.SetAssignmentPaid(ctx, schedule.SetPaidCommand{
		AssignmentID: d.assignmentID, CompanyID: d.companyID, Paid: true, Actor: "u-1", At: at,
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = repo.SetAssignmentPaid(ctx, schedule.SetPaidCommand{
		AssignmentID: d.assignmentID, CompanyID: d.companyID, Paid: false, Actor: "u-1", At: at,
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, int64(3), res.Version)
}

func TestClientRepository_UpdateDisplayCaches(t *testing.T) {
	s := NewTestDatabase(t)
	d := seed(t, s)
	repo := postgresql.NewClientRepository(s.DB)
	ctx := context.Background()

	n, err := repo.UpdateDisplayCaches(ctx, d.companyID, []client.DisplayCache{{
		ClientID:     d.clientID,
		TotalRevenue: decimal.NewFromInt(300000),
		UnpaidAmount: decimal.NewFromInt(300000),
	}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, d.clientID, d.companyID)
	require.NoError(t, err)
	assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(300000)))
	assert.NotNil(t, got.CachedAt)
}

func TestWorkerRepository_ListWorkers(t *testing.T) {
	s := NewTestDatabase(t)
	d := seed(t, s)

	workers, err := postgresql.NewWorkerRepository(s.DB).ListWorkers(context.Background(), d.companyID)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "Kim", workers[0].Name)
	assert.True(t, workers[0].Withholding)
	assert.True(t, workers[0].DefaultHourlyWage.Equal(decimal.NewFromInt(10000)))
}
