package schedule

import "context"

// ScheduleRepository loads schedules with their assignments and work periods
// fully populated. All methods are scoped by companyID.
type ScheduleRepository interface {
	ListSchedules(ctx context.Context, companyID string) ([]Schedule, error)
	GetSchedule(ctx context.Context, id string, companyID string) (Schedule, error)

	// State transitions are conditional updates on the row version.
	MarkCollected(ctx context.Context, cmd MarkCollectedCommand) (TransitionResult, error)
	SetAssignmentPaid(ctx context.Context, cmd SetPaidCommand) (TransitionResult, error)

	ListCompanyIDs(ctx context.Context) ([]string, error)
}
