package aggregation

import (
	"testing"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
)

func TestRecognizedRevenue(t *testing.T) {
	clientID := ptr("c-1")

	tests := []struct {
		name string
		s    schedule.Schedule
		want string
	}{
		{"business with client", schedule.Schedule{Type: schedule.KindBusiness, ClientID: clientID, ContractAmount: dec("300000")}, "300000"},
		{"meeting with contract amount", schedule.Schedule{Type: schedule.KindMeeting, ClientID: clientID, ContractAmount: dec("500000")}, "0"},
		{"business without client", schedule.Schedule{Type: schedule.KindBusiness, ContractAmount: dec("300000")}, "0"},
		{"business with empty client id", schedule.Schedule{Type: schedule.KindBusiness, ClientID: ptr(""), ContractAmount: dec("300000")}, "0"},
		{"business without contract amount", schedule.Schedule{Type: schedule.KindBusiness, ClientID: clientID}, "0"},
		{"negative contract amount", schedule.Schedule{Type: schedule.KindBusiness, ClientID: clientID, ContractAmount: dec("-100")}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertWon(t, tt.want, RecognizedRevenue(tt.s))
		})
	}
}

func TestCollectionStatusOf(t *testing.T) {
	s := schedule.Schedule{EndDate: day("2025-01-01")}

	tests := []struct {
		name      string
		collected bool
		today     time.Time
		want      schedule.CollectionStatus
	}{
		{"nineteen days elapsed", false, day("2025-01-20"), schedule.CollectionOverdue},
		{"nine days elapsed", false, day("2025-01-10"), schedule.CollectionPending},
		{"grace period boundary", false, day("2025-01-15"), schedule.CollectionOverdue},
		{"one day before boundary", false, day("2025-01-14"), schedule.CollectionPending},
		{"late evening uses the calendar date", false, time.Date(2025, 1, 14, 23, 59, 0, 0, kst), schedule.CollectionPending},
		{"collected long ago", true, day("2026-01-01"), schedule.CollectionReceived},
		{"collected before due", true, day("2025-01-02"), schedule.CollectionReceived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Collected = tt.collected
			assert.Equal(t, tt.want, CollectionStatusOf(s, tt.today))
		})
	}
}

func TestDueDate(t *testing.T) {
	s := schedule.Schedule{EndDate: day("2025-01-01")}
	assert.Equal(t, day("2025-01-15"), DueDate(s))
	assert.Equal(t, 19, DaysElapsed(s, day("2025-01-20")))
}
