package worker

import "context"

type WorkerRepository interface {
	ListWorkers(ctx context.Context, companyID string) ([]Worker, error)
	GetByID(ctx context.Context, id string, companyID string) (Worker, error)
}
