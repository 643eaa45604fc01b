package aggregation

import (
	"math"
	"testing"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
)

func TestWorkHours(t *testing.T) {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	tests := []struct {
		name    string
		periods []schedule.WorkPeriod
		want    float64
	}{
		{"no periods", nil, 0},
		{"two four-hour periods", []schedule.WorkPeriod{
			clock("2025-03-03", "09:00", "13:00", 0),
			clock("2025-03-03", "14:00", "18:00", 0),
		}, 8},
		{"break is subtracted", []schedule.WorkPeriod{clock("2025-03-03", "09:00", "17:00", 30)}, 7.5},
		{"overnight shift", []schedule.WorkPeriod{clock("2025-03-03", "22:00", "06:00", 0)}, 8},
		{"same start and end", []schedule.WorkPeriod{clock("2025-03-03", "09:00", "09:00", 0)}, 0},
		{"negative break is ignored", []schedule.WorkPeriod{clock("2025-03-03", "09:00", "10:00", -30)}, 1},
		{"break longer than the shift", []schedule.WorkPeriod{clock("2025-03-03", "09:00", "10:00", 120)}, 0},
		{"timestamps", []schedule.WorkPeriod{{StartAt: &start, EndAt: &end}}, 3},
		{"malformed period does not offset valid ones", []schedule.WorkPeriod{
			clock("2025-03-03", "9am", "13:00", 0),
			{StartAt: &end, EndAt: &start},
			clock("2025-03-03", "", "13:00", 0),
			clock("03/03/2025", "09:00", "13:00", 0),
			clock("2025-03-03", "09:00", "13:00", 0),
		}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkHours(tt.periods)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
		})
	}
}
