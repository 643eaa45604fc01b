package client

import (
	"context"
	"time"
)

type ClientRepository interface {
	ListClients(ctx context.Context, companyID string) ([]Client, error)
	GetByID(ctx context.Context, id string, companyID string) (Client, error)

	// UpdateDisplayCaches overwrites the cached totals and returns the number
	// of rows touched.
	UpdateDisplayCaches(ctx context.Context, companyID string, caches []DisplayCache, at time.Time) (int64, error)
}
