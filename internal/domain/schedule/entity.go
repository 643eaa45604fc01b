package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is used for both the display category and the schedule type.
type Kind string

const (
	KindBusiness  Kind = "business"
	KindEducation Kind = "education"
	KindEvent     Kind = "event"
	KindMeeting   Kind = "meeting"
	KindOther     Kind = "other"
)

var KindValues = []string{
	string(KindBusiness),
	string(KindEducation),
	string(KindEvent),
	string(KindMeeting),
	string(KindOther),
}

type CollectionStatus string

const (
	CollectionReceived CollectionStatus = "received"
	CollectionPending  CollectionStatus = "pending"
	CollectionOverdue  CollectionStatus = "overdue"
)

const (
	// CollectionGraceDays is how long after a schedule ends the client has to pay
	// before the receivable counts as overdue.
	CollectionGraceDays = 14

	// WithholdingRate is the flat business-income withholding (3.3%).
	WithholdingRate = "0.033"
)

type Schedule struct {
	ID             string
	CompanyID      string
	Title          string
	StartDate      time.Time // calendar date
	EndDate        time.Time // calendar date
	Category       Kind
	Type           Kind
	ClientID       *string
	ContractAmount *decimal.Decimal
	Collected      bool
	CollectedAt    *time.Time
	CollectedBy    *string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Assignments []Assignment
}

func (s Schedule) HasClient() bool {
	return s.ClientID != nil && *s.ClientID != ""
}

// Assignment links one worker to one schedule. Nil pay terms fall back to the
// worker's defaults.
type Assignment struct {
	ID             string
	ScheduleID     string
	WorkerID       string
	HourlyWage     *decimal.Decimal
	Withholding    *bool
	FuelAllowance  *decimal.Decimal
	OtherAllowance *decimal.Decimal
	Paid           bool
	PaidAt         *time.Time
	PaidBy         *string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Periods []WorkPeriod
}

// WorkPeriod is either a StartAt/EndAt timestamp pair or a WorkDate with
// HH:MM wall-clock bounds.
type WorkPeriod struct {
	ID           string
	AssignmentID string
	StartAt      *time.Time
	EndAt        *time.Time
	WorkDate     string // YYYY-MM-DD
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	BreakMinutes int
	Position     int
}

// MarkCollectedCommand moves a schedule's receivable to received.
type MarkCollectedCommand struct {
	ScheduleID      string
	CompanyID       string
	Actor           string
	At              time.Time
	ExpectedVersion *int64
}

// SetPaidCommand sets an assignment's paid flag.
type SetPaidCommand struct {
	AssignmentID    string
	CompanyID       string
	Paid            bool
	Actor           string
	At              time.Time
	ExpectedVersion *int64
}

// TransitionResult reports the row version after a command. Changed is false
// when the row was already in the requested state.
type TransitionResult struct {
	ID      string
	Version int64
	Changed bool
}
