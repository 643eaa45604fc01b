package report

import "time"

type Period string

const (
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

// PeriodSelector is the symbolic period taken from the query string. Start and
// End are YYYY-MM-DD and only read for PeriodCustom.
type PeriodSelector struct {
	Period Period `json:"period"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// Window is an inclusive calendar-date range.
type Window struct {
	Period Period
	Start  time.Time
	End    time.Time
	Label  string
}

func (w Window) Response() WindowResponse {
	return WindowResponse{
		Period: string(w.Period),
		Start:  w.Start.Format(time.DateOnly),
		End:    w.End.Format(time.DateOnly),
		Label:  w.Label,
	}
}

type WindowResponse struct {
	Period string `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Label  string `json:"label"`
}

// Contains reports whether t's calendar date lies in [Start, End]. The wall
// date of t is used as-is, without converting zones.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.Start.Location())
	return !d.Before(w.Start) && !d.After(w.End)
}
