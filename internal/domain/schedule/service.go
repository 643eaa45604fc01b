package schedule

import "context"

type ScheduleService interface {
	GetSchedule(ctx context.Context, id string) (ScheduleDetailResponse, error)
	MarkCollected(ctx context.Context, req MarkCollectedRequest) (TransitionResponse, error)
	SetAssignmentPaid(ctx context.Context, req SetAssignmentPaidRequest) (TransitionResponse, error)
}
