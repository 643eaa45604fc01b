package schedule

import (
	"math"
	"time"
)

const clockLayout = "15:04"

// Hours is the worked duration of the period minus its break, never negative.
// A period with missing or malformed bounds counts as zero.
func (p WorkPeriod) Hours() float64 {
	start, end, ok := p.bounds()
	if !ok {
		return 0
	}

	breakMinutes := p.BreakMinutes
	if breakMinutes < 0 {
		breakMinutes = 0
	}

	h := end.Sub(start).Hours() - float64(breakMinutes)/60
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return h
}

// bounds prefers explicit timestamps and falls back to the wall-clock
// variant, where an end before the start means the shift ran past midnight.
func (p WorkPeriod) bounds() (time.Time, time.Time, bool) {
	if p.StartAt != nil && p.EndAt != nil && !p.StartAt.IsZero() && !p.EndAt.IsZero() {
		return *p.StartAt, *p.EndAt, true
	}

	if p.StartTime == "" || p.EndTime == "" {
		return time.Time{}, time.Time{}, false
	}
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if p.WorkDate != "" {
		d, err := time.Parse(time.DateOnly, p.WorkDate)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		day = d
	}

	st, err := time.Parse(clockLayout, p.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	et, err := time.Parse(clockLayout, p.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	start := day.Add(time.Duration(st.Hour())*time.Hour + time.Duration(st.Minute())*time.Minute)
	end := day.Add(time.Duration(et.Hour())*time.Hour + time.Duration(et.Minute())*time.Minute)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}
