package slots

import (
	"fmt"
	"testing"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clinicHours = domain.ClinicHours{Start: 7, End: 22, LunchStart: 12, LunchEnd: 13}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func starts(slots []domain.TimeSlot) []string {
	s := make([]string, len(slots))
	for i, slot := range slots {
		s[i] = slot.Start
	}
	return s
}

func find(t *testing.T, slots []domain.TimeSlot, start string) domain.TimeSlot {
	t.Helper()
	for _, slot := range slots {
		if slot.Start == start {
			return slot
		}
	}
	t.Fatalf("slot %s not generated", start)
	return domain.TimeSlot{}
}

func TestGenerateCoversDayAndSkipsLunch(t *testing.T) {
	slots := Generate(at(10, 0, 0), nil, 30, clinicHours, at(1, 8, 0))

	expected := make([]string, 0)
	for hour := 7; hour < 22; hour++ {
		if hour == 12 {
			continue
		}
		expected = append(expected, fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:30", hour))
	}

	require.Equal(t, expected, starts(slots))
	assert.Equal(t, "07:30", slots[0].End)
	assert.Equal(t, "12:00", find(t, slots, "11:30").End)
	assert.Equal(t, "22:00", slots[len(slots)-1].End)
}

func TestGenerateMarksOverlappingSlotOccupied(t *testing.T) {
	appointments := []domain.Appointment{
		{ProfessionalID: 1, StartTime: at(10, 10, 0), EndTime: at(10, 10, 30)},
	}

	slots := Generate(at(10, 0, 0), appointments, 30, clinicHours, at(1, 8, 0))

	assert.False(t, find(t, slots, "10:00").Available)
	assert.True(t, find(t, slots, "09:30").Available)
	assert.True(t, find(t, slots, "10:30").Available)
}

func TestGenerateLongAppointmentBlocksCoveredSlots(t *testing.T) {
	appointments := []domain.Appointment{
		{StartTime: at(10, 14, 15), EndTime: at(10, 15, 15)},
	}

	slots := Generate(at(10, 0, 0), appointments, 30, clinicHours, at(1, 8, 0))

	assert.True(t, find(t, slots, "13:30").Available)
	assert.False(t, find(t, slots, "14:00").Available)
	assert.False(t, find(t, slots, "14:30").Available)
	assert.False(t, find(t, slots, "15:00").Available)
	assert.True(t, find(t, slots, "15:30").Available)
}

func TestGenerateExcludesPastSlotsOnlyToday(t *testing.T) {
	now := at(10, 9, 15)

	today := Generate(at(10, 0, 0), nil, 30, clinicHours, now)
	assert.False(t, find(t, today, "07:00").Available)
	assert.False(t, find(t, today, "09:00").Available)
	assert.True(t, find(t, today, "09:30").Available)

	tomorrow := Generate(at(11, 0, 0), nil, 30, clinicHours, now)
	for _, slot := range tomorrow {
		assert.True(t, slot.Available, slot.Start)
	}

	yesterday := Generate(at(9, 0, 0), nil, 30, clinicHours, now)
	for _, slot := range yesterday {
		assert.True(t, slot.Available, slot.Start)
	}
}

func TestGenerateSlotStartingNowIsAvailable(t *testing.T) {
	slots := Generate(at(10, 0, 0), nil, 30, clinicHours, at(10, 9, 30))

	assert.False(t, find(t, slots, "09:00").Available)
	assert.True(t, find(t, slots, "09:30").Available)
}

func TestGenerateIsDeterministic(t *testing.T) {
	appointments := []domain.Appointment{
		{StartTime: at(10, 8, 0), EndTime: at(10, 9, 0)},
		{StartTime: at(10, 16, 20), EndTime: at(10, 16, 40)},
	}
	now := at(10, 11, 5)

	first := Generate(at(10, 0, 0), appointments, 20, clinicHours, now)
	second := Generate(at(10, 0, 0), appointments, 20, clinicHours, now)

	require.Equal(t, first, second)
}

func TestGenerateNonDivisorDurationRestartsEachHour(t *testing.T) {
	slots := Generate(at(10, 0, 0), nil, 45, clinicHours, at(1, 8, 0))

	// 每小时两个候选（:00 与 :45），11:45 跨入午休、21:45 超出营业时间被剔除
	require.Len(t, slots, 26)
	assert.Equal(t, []string{"07:00", "07:45", "08:00", "08:45"}, starts(slots)[:4])

	assert.Equal(t, "08:30", find(t, slots, "07:45").End)
	assert.NotContains(t, starts(slots), "11:45")
	assert.NotContains(t, starts(slots), "21:45")
	assert.Contains(t, starts(slots), "10:45")
	assert.Equal(t, "21:00", slots[len(slots)-1].Start)
}

func TestGenerateNinetyMinutesOnePerHour(t *testing.T) {
	slots := Generate(at(10, 0, 0), nil, 90, clinicHours, at(1, 8, 0))

	expected := []string{
		"07:00", "08:00", "09:00", "10:00",
		"13:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
	}
	assert.Equal(t, expected, starts(slots))
}

func TestGenerateLongDurationEndingAfterLunchHour(t *testing.T) {
	slots := Generate(at(10, 0, 0), nil, 120, clinicHours, at(1, 8, 0))

	// 结束小时不等于午休开始小时，11:00-13:00 不会被午休检查剔除
	require.Len(t, slots, 13)
	assert.Equal(t, "13:00", find(t, slots, "11:00").End)
	assert.Equal(t, "12:00", find(t, slots, "10:00").End)
	assert.Equal(t, "22:00", find(t, slots, "20:00").End)
	assert.NotContains(t, starts(slots), "21:00")
}

func TestGenerateEmptyDayAllAvailable(t *testing.T) {
	now := at(10, 6, 0)

	for _, duration := range domain.AllowedDurations {
		slots := Generate(at(11, 0, 0), []domain.Appointment{}, duration, clinicHours, now)
		require.NotEmpty(t, slots, "duration %d", duration)
		for _, slot := range slots {
			assert.True(t, slot.Available, "duration %d slot %s", duration, slot.Start)
		}
	}
}

func TestGenerateDegenerateInput(t *testing.T) {
	assert.Empty(t, Generate(at(10, 0, 0), nil, 0, clinicHours, at(1, 0, 0)))
	assert.Empty(t, Generate(at(10, 0, 0), nil, -15, clinicHours, at(1, 0, 0)))

	closed := domain.ClinicHours{Start: 10, End: 10, LunchStart: 12, LunchEnd: 13}
	assert.Empty(t, Generate(at(10, 0, 0), nil, 30, closed, at(1, 0, 0)))
}

func TestGenerateIgnoresAppointmentsOnOtherDays(t *testing.T) {
	appointments := []domain.Appointment{
		{StartTime: at(11, 10, 0), EndTime: at(11, 10, 30)},
	}

	slots := Generate(at(10, 0, 0), appointments, 30, clinicHours, at(1, 8, 0))

	assert.True(t, find(t, slots, "10:00").Available)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		slotStart  time.Time
		slotEnd    time.Time
		apptStart  time.Time
		apptEnd    time.Time
		overlapped bool
	}{
		{"same interval", at(10, 10, 0), at(10, 10, 30), at(10, 10, 0), at(10, 10, 30), true},
		{"slot starts inside", at(10, 10, 15), at(10, 10, 45), at(10, 10, 0), at(10, 10, 30), true},
		{"slot ends inside", at(10, 9, 45), at(10, 10, 15), at(10, 10, 0), at(10, 10, 30), true},
		{"slot covers appointment", at(10, 9, 0), at(10, 11, 0), at(10, 10, 0), at(10, 10, 30), true},
		{"appointment covers slot", at(10, 10, 10), at(10, 10, 20), at(10, 10, 0), at(10, 10, 30), true},
		{"touching before", at(10, 9, 30), at(10, 10, 0), at(10, 10, 0), at(10, 10, 30), false},
		{"touching after", at(10, 10, 30), at(10, 11, 0), at(10, 10, 0), at(10, 10, 30), false},
		{"disjoint", at(10, 14, 0), at(10, 14, 30), at(10, 10, 0), at(10, 10, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlapped, Overlaps(tt.slotStart, tt.slotEnd, tt.apptStart, tt.apptEnd))
		})
	}
}

func TestFilterByProfessional(t *testing.T) {
	appointments := []domain.Appointment{
		{ID: 1, ProfessionalID: 1},
		{ID: 2, ProfessionalID: 2},
		{ID: 3, ProfessionalID: 1},
	}

	assert.Len(t, FilterByProfessional(appointments, 0), 3)

	filtered := FilterByProfessional(appointments, 1)
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)

	assert.Empty(t, FilterByProfessional(appointments, 9))
}

func TestActiveOnly(t *testing.T) {
	appointments := []domain.Appointment{
		{ID: 1, Status: domain.StatusScheduled},
		{ID: 2, Status: domain.StatusCancelled},
		{ID: 3, Status: domain.StatusConfirmed},
		{ID: 4, Status: domain.StatusNoShow},
		{ID: 5, Status: domain.StatusInProgress},
		{ID: 6, Status: domain.StatusCompleted},
	}

	active := ActiveOnly(appointments)

	ids := make([]int64, len(active))
	for i, appt := range active {
		ids[i] = appt.ID
	}
	assert.Equal(t, []int64{1, 3, 5}, ids)
}
