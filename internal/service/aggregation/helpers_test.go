package aggregation

import (
	"testing"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T {
	return &v
}

func clock(date, start, end string, breakMinutes int) schedule.WorkPeriod {
	return schedule.WorkPeriod{WorkDate: date, StartTime: start, EndTime: end, BreakMinutes: breakMinutes}
}

func assertWon(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.String(), msgAndArgs...)
}
