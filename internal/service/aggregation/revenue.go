package aggregation

import (
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/safenum"
	"github.com/shopspring/decimal"
)

// Billable reports whether a schedule can carry revenue: a business schedule
// linked to a client.
func Billable(s schedule.Schedule) bool {
	return s.Type == schedule.KindBusiness && s.HasClient()
}

// RecognizedRevenue is the contract amount of a billable schedule, else zero.
func RecognizedRevenue(s schedule.Schedule) decimal.Decimal {
	if !Billable(s) || s.ContractAmount == nil {
		return decimal.Zero
	}
	return safenum.NonNegativeDecimal(*s.ContractAmount)
}

// CollectionStatusOf derives the receivable state on today's calendar date.
func CollectionStatusOf(s schedule.Schedule, today time.Time) schedule.CollectionStatus {
	if s.Collected {
		return schedule.CollectionReceived
	}
	if DaysElapsed(s, today) >= schedule.CollectionGraceDays {
		return schedule.CollectionOverdue
	}
	return schedule.CollectionPending
}

// DaysElapsed counts calendar days from the schedule's end date to today.
func DaysElapsed(s schedule.Schedule, today time.Time) int {
	return daysBetween(s.EndDate, today)
}

func DueDate(s schedule.Schedule) time.Time {
	return civilDate(s.EndDate).AddDate(0, 0, schedule.CollectionGraceDays)
}
