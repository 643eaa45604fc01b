package aggregation

import (
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/safenum"
)

// WorkHours sums the periods of one assignment. Each period is clamped at
// zero before summing so a broken period cannot offset valid ones.
func WorkHours(periods []schedule.WorkPeriod) float64 {
	var total float64
	for _, p := range periods {
		total += safenum.NonNegative("work_period.hours", p.Hours())
	}
	return safenum.NonNegative("assignment.hours", total)
}
