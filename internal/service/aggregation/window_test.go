package aggregation

import (
	"errors"
	"testing"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

func TestResolveWindow_Week(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"monday", time.Date(2025, 1, 13, 0, 0, 0, 0, kst)},
		{"wednesday", time.Date(2025, 1, 15, 10, 30, 0, 0, kst)},
		{"sunday night", time.Date(2025, 1, 19, 23, 59, 0, 0, kst)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodWeek}, tt.now)
			require.NoError(t, err)
			assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, kst), w.Start)
			assert.Equal(t, time.Date(2025, 1, 19, 0, 0, 0, 0, kst), w.End)
			assert.Equal(t, "2025-01-13 ~ 2025-01-19", w.Label)
		})
	}
}

func TestResolveWindow_Month(t *testing.T) {
	w, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodMonth}, time.Date(2024, 2, 10, 8, 0, 0, 0, kst))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, kst), w.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, kst), w.End)
	assert.Equal(t, "2024-02", w.Label)
}

func TestResolveWindow_Year(t *testing.T) {
	w, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodYear}, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, day("2025-01-01"), w.Start)
	assert.Equal(t, day("2025-12-31"), w.End)
	assert.Equal(t, "2025", w.Label)
}

func TestResolveWindow_Custom(t *testing.T) {
	now := time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC)

	t.Run("valid range is used verbatim", func(t *testing.T) {
		w, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodCustom, Start: "2025-01-01", End: "2025-06-30"}, now)
		require.NoError(t, err)
		assert.Equal(t, day("2025-01-01"), w.Start)
		assert.Equal(t, day("2025-06-30"), w.End)
		assert.Equal(t, "2025-01-01 ~ 2025-06-30", w.Label)
	})

	t.Run("end on today is allowed", func(t *testing.T) {
		_, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodCustom, Start: "2025-07-01", End: "2025-07-01"}, now)
		assert.NoError(t, err)
	})

	t.Run("exactly five years is allowed", func(t *testing.T) {
		_, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodCustom, Start: "2020-01-01", End: "2025-01-01"}, now)
		assert.NoError(t, err)
	})

	rejected := []struct {
		name  string
		sel   report.PeriodSelector
		field string
	}{
		{"start after end", report.PeriodSelector{Period: report.PeriodCustom, Start: "2025-06-01", End: "2025-01-01"}, "start"},
		{"span over five years", report.PeriodSelector{Period: report.PeriodCustom, Start: "2019-01-01", End: "2025-01-02"}, ""},
		{"end in the future", report.PeriodSelector{Period: report.PeriodCustom, Start: "2025-06-01", End: "2025-07-02"}, "end"},
		{"start in the future", report.PeriodSelector{Period: report.PeriodCustom, Start: "2025-08-01", End: "2025-08-02"}, "start"},
		{"missing start", report.PeriodSelector{Period: report.PeriodCustom, End: "2025-01-01"}, "start"},
		{"malformed end", report.PeriodSelector{Period: report.PeriodCustom, Start: "2025-01-01", End: "01/02/2025"}, "end"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveWindow(tt.sel, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, report.ErrInvalidRange))

			var rangeErr *report.RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.field, rangeErr.Field)
		})
	}
}

func TestResolveWindow_UnknownPeriod(t *testing.T) {
	_, err := ResolveWindow(report.PeriodSelector{Period: "decade"}, time.Now())
	assert.ErrorIs(t, err, report.ErrInvalidPeriod)
	assert.NotErrorIs(t, err, report.ErrInvalidRange)
}

func TestWindowContains(t *testing.T) {
	w, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodMonth}, time.Date(2025, 1, 15, 0, 0, 0, 0, kst))
	require.NoError(t, err)

	// schedule dates come back from the database as UTC midnight
	assert.True(t, w.Contains(day("2025-01-01")))
	assert.True(t, w.Contains(day("2025-01-31")))
	assert.False(t, w.Contains(day("2024-12-31")))
	assert.False(t, w.Contains(day("2025-02-01")))
	assert.False(t, w.Contains(time.Time{}))
}

func TestWindowPartition_SuccessiveMonths(t *testing.T) {
	jan, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodMonth}, day("2025-01-20"))
	require.NoError(t, err)
	feb, err := ResolveWindow(report.PeriodSelector{Period: report.PeriodMonth}, day("2025-02-03"))
	require.NoError(t, err)

	for d := day("2024-12-25"); d.Before(day("2025-03-05")); d = d.AddDate(0, 0, 1) {
		assert.False(t, jan.Contains(d) && feb.Contains(d), "date %s counted twice", d.Format(time.DateOnly))
	}
	assert.True(t, jan.Contains(day("2025-01-31")))
	assert.True(t, feb.Contains(day("2025-02-01")))
}
