package slots

import (
	"testing"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFreeSkipsClosedDays(t *testing.T) {
	schedule := domain.DefaultClinicSchedule(1, domain.ClinicHours{Start: 8, End: 18, LunchStart: 12, LunchEnd: 13})

	// 2025-03-08 是周六
	days := FindFree(at(8, 15, 0), 3, schedule, 60, nil, at(1, 8, 0))

	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, 9, days[0].Count)
	assert.Len(t, days[0].Slots, 9)
}

func TestFindFreeSkipsFullyBookedDays(t *testing.T) {
	schedule := domain.DefaultClinicSchedule(1, domain.ClinicHours{Start: 8, End: 18, LunchStart: 12, LunchEnd: 13})
	appointments := []domain.Appointment{
		{StartTime: at(10, 8, 0), EndTime: at(10, 18, 0)},
		{StartTime: at(11, 8, 0), EndTime: at(11, 9, 0)},
	}

	days := FindFree(at(10, 0, 0), 2, schedule, 60, appointments, at(1, 8, 0))

	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-11", days[0].Date)
	assert.Equal(t, "09:00", days[0].Slots[0].Start)
	for _, slot := range days[0].Slots {
		assert.True(t, slot.Available)
	}
}

func TestFindFreeTodayDropsPastSlots(t *testing.T) {
	schedule := domain.DefaultClinicSchedule(1, domain.ClinicHours{Start: 8, End: 18, LunchStart: 12, LunchEnd: 13})

	days := FindFree(at(10, 0, 0), 1, schedule, 30, nil, at(10, 16, 10))

	require.Len(t, days, 1)
	assert.Equal(t, []string{"16:30", "17:00", "17:30"}, starts(days[0].Slots))
}

func TestFindFreeLunchDisabled(t *testing.T) {
	schedule := domain.DefaultClinicSchedule(1, domain.ClinicHours{Start: 8, End: 18, LunchStart: 12, LunchEnd: 13})
	schedule.LunchBreak.Enabled = false

	days := FindFree(at(10, 0, 0), 1, schedule, 60, nil, at(1, 8, 0))

	require.Len(t, days, 1)
	assert.Equal(t, 10, days[0].Count)
	assert.Contains(t, starts(days[0].Slots), "12:00")
}
