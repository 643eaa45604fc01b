package aggregation

import (
	"fmt"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/validator"
)

// MaxCustomSpanYears bounds a custom window.
const MaxCustomSpanYears = 5

const labelRangeSep = " ~ "

// ResolveWindow turns a period selector into an inclusive date range in now's
// location. Weeks start on Monday.
func ResolveWindow(sel report.PeriodSelector, now time.Time) (report.Window, error) {
	today := dateOf(now)

	switch sel.Period {
	case report.PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		end := start.AddDate(0, 0, 6)
		return report.Window{
			Period: sel.Period,
			Start:  start,
			End:    end,
			Label:  start.Format(time.DateOnly) + labelRangeSep + end.Format(time.DateOnly),
		}, nil

	case report.PeriodMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return report.Window{
			Period: sel.Period,
			Start:  start,
			End:    start.AddDate(0, 1, -1),
			Label:  start.Format("2006-01"),
		}, nil

	case report.PeriodYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return report.Window{
			Period: sel.Period,
			Start:  start,
			End:    time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, today.Location()),
			Label:  start.Format("2006"),
		}, nil

	case report.PeriodCustom:
		return resolveCustom(sel, today)
	}

	return report.Window{}, fmt.Errorf("%w: %q", report.ErrInvalidPeriod, sel.Period)
}

func resolveCustom(sel report.PeriodSelector, today time.Time) (report.Window, error) {
	if sel.Start == "" {
		return report.Window{}, &report.RangeError{Field: "start", Reason: "is required"}
	}
	if sel.End == "" {
		return report.Window{}, &report.RangeError{Field: "end", Reason: "is required"}
	}

	start, err := validator.ParseDateIn(sel.Start, today.Location())
	if err != nil {
		return report.Window{}, &report.RangeError{Field: "start", Reason: "must be in YYYY-MM-DD format"}
	}
	end, err := validator.ParseDateIn(sel.End, today.Location())
	if err != nil {
		return report.Window{}, &report.RangeError{Field: "end", Reason: "must be in YYYY-MM-DD format"}
	}

	switch {
	case start.After(end):
		return report.Window{}, &report.RangeError{Field: "start", Reason: "is after end"}
	case end.After(start.AddDate(MaxCustomSpanYears, 0, 0)):
		return report.Window{}, &report.RangeError{Reason: fmt.Sprintf("span exceeds %d years", MaxCustomSpanYears)}
	case start.After(today):
		return report.Window{}, &report.RangeError{Field: "start", Reason: "is in the future"}
	case end.After(today):
		return report.Window{}, &report.RangeError{Field: "end", Reason: "is in the future"}
	}

	return report.Window{
		Period: report.PeriodCustom,
		Start:  start,
		End:    end,
		Label:  sel.Start + labelRangeSep + sel.End,
	}, nil
}

// dateOf truncates t to midnight of its own calendar date and location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// civilDate keeps only the Y/M/D of t, pinned to UTC, so day arithmetic
// ignores zones and DST.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(civilDate(to).Sub(civilDate(from)).Hours() / 24)
}
