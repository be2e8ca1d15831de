package utils

import (
	"testing"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDuration(t *testing.T) {
	for _, d := range []int{15, 20, 30, 45, 60, 90, 120} {
		assert.NoError(t, ValidateDuration(d), d)
	}
	for _, d := range []int{0, -30, 10, 25, 50, 180} {
		assert.Error(t, ValidateDuration(d), d)
	}
}

func TestValidateClinicHours(t *testing.T) {
	assert.NoError(t, ValidateClinicHours(domain.ClinicHours{Start: 7, End: 22, LunchStart: 12, LunchEnd: 13}))

	invalid := []domain.ClinicHours{
		{Start: 7, End: 7, LunchStart: 12, LunchEnd: 13},
		{Start: 7, End: 25, LunchStart: 12, LunchEnd: 13},
		{Start: 7, End: 22, LunchStart: 13, LunchEnd: 12},
		{Start: 7, End: 22, LunchStart: 7, LunchEnd: 8},
		{Start: 7, End: 22, LunchStart: 21, LunchEnd: 22},
	}
	for _, hours := range invalid {
		assert.Error(t, ValidateClinicHours(hours), "%+v", hours)
	}
}

func TestValidateClinicSchedule(t *testing.T) {
	s := domain.DefaultClinicSchedule(1, domain.ClinicHours{Start: 7, End: 19, LunchStart: 12, LunchEnd: 13})
	require.NoError(t, ValidateClinicSchedule(s))

	s.Days[3].EndHour = 12
	assert.Error(t, ValidateClinicSchedule(s))

	// 不启用午休时只要求开始早于结束
	s.LunchBreak.Enabled = false
	assert.NoError(t, ValidateClinicSchedule(s))

	s.Days[3].Weekday = 2
	assert.Error(t, ValidateClinicSchedule(s))

	s.Days = s.Days[:6]
	assert.Error(t, ValidateClinicSchedule(s))
}

func TestValidateAppointmentTime(t *testing.T) {
	schedule := domain.DefaultClinicSchedule(1, domain.ClinicHours{Start: 7, End: 19, LunchStart: 12, LunchEnd: 13})
	monday := func(hour, minute int) time.Time {
		return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
	}

	ok := &domain.Appointment{StartTime: monday(9, 0), EndTime: monday(9, 30)}
	assert.NoError(t, ValidateAppointmentTime(ok, schedule, time.UTC))

	reversed := &domain.Appointment{StartTime: monday(9, 30), EndTime: monday(9, 0)}
	assert.Error(t, ValidateAppointmentTime(reversed, schedule, time.UTC))

	early := &domain.Appointment{StartTime: monday(6, 30), EndTime: monday(7, 30)}
	assert.Error(t, ValidateAppointmentTime(early, schedule, time.UTC))

	late := &domain.Appointment{StartTime: monday(18, 30), EndTime: monday(19, 30)}
	assert.Error(t, ValidateAppointmentTime(late, schedule, time.UTC))

	sunday := &domain.Appointment{
		StartTime: time.Date(2025, time.March, 9, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, time.March, 9, 9, 30, 0, 0, time.UTC),
	}
	assert.Error(t, ValidateAppointmentTime(sunday, schedule, time.UTC))

	overnight := &domain.Appointment{StartTime: monday(18, 0), EndTime: monday(18, 0).Add(24 * time.Hour)}
	assert.Error(t, ValidateAppointmentTime(overnight, schedule, time.UTC))
}

func TestValidateNoConflict(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
	}
	existing := []domain.Appointment{
		{ID: 1, ProfessionalID: 1, StartTime: at(9, 0), EndTime: at(10, 0), Status: domain.StatusConfirmed},
		{ID: 2, ProfessionalID: 2, StartTime: at(11, 0), EndTime: at(11, 30), Status: domain.StatusScheduled},
		{ID: 3, ProfessionalID: 1, StartTime: at(14, 0), EndTime: at(15, 0), Status: domain.StatusCancelled},
	}

	conflicting := &domain.Appointment{ProfessionalID: 1, StartTime: at(9, 30), EndTime: at(10, 30)}
	assert.Error(t, ValidateNoConflict(conflicting, existing))

	otherProfessional := &domain.Appointment{ProfessionalID: 1, StartTime: at(11, 0), EndTime: at(11, 30)}
	assert.NoError(t, ValidateNoConflict(otherProfessional, existing))

	overCancelled := &domain.Appointment{ProfessionalID: 1, StartTime: at(14, 0), EndTime: at(14, 30)}
	assert.NoError(t, ValidateNoConflict(overCancelled, existing))

	adjacent := &domain.Appointment{ProfessionalID: 1, StartTime: at(10, 0), EndTime: at(10, 30)}
	assert.NoError(t, ValidateNoConflict(adjacent, existing))

	// 改期时和自己比较不算冲突
	self := &domain.Appointment{ID: 1, ProfessionalID: 1, StartTime: at(9, 15), EndTime: at(10, 15)}
	assert.NoError(t, ValidateNoConflict(self, existing))
}
