package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a paying customer. TotalRevenue and UnpaidAmount are display
// caches refreshed in the background; reports never read them.
type Client struct {
	ID           string
	CompanyID    string
	Name         string
	ContactName  *string
	Phone        *string
	Email        *string
	BankName     *string
	BankAccount  *string
	TotalRevenue decimal.Decimal
	UnpaidAmount decimal.Decimal
	CachedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayCache is a recomputed value pair for one client.
type DisplayCache struct {
	ClientID     string
	TotalRevenue decimal.Decimal
	UnpaidAmount decimal.Decimal
}
