package worker

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker holds the default pay terms that assignments fall back to.
type Worker struct {
	ID                    string
	CompanyID             string
	Name                  string
	Phone                 *string
	DefaultHourlyWage     decimal.Decimal
	Withholding           bool
	DefaultFuelAllowance  decimal.Decimal
	DefaultOtherAllowance decimal.Decimal
	BankName              *string
	BankAccount           *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
