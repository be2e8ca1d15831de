package utils

import (
	"testing"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomAppointmentsDoNotOverlap(t *testing.T) {
	professional := &domain.Professional{ID: 7, ClinicID: 3}
	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	hours := domain.ClinicHours{Start: 8, End: 12, LunchStart: 12, LunchEnd: 12}

	appointments := GenerateRandomAppointments(professional, date, hours, 45, nil, 100)

	// 08~11 每小时最多容纳不重叠的 45 分钟预约有限，生成数量不会超过可用时间段
	require.NotEmpty(t, appointments)
	for i, a := range appointments {
		assert.Equal(t, int64(7), a.ProfessionalID)
		assert.Equal(t, int64(3), a.ClinicID)
		assert.Equal(t, 45*time.Minute, a.EndTime.Sub(a.StartTime))
		assert.False(t, a.StartTime.Hour() < 8)
		assert.False(t, a.EndTime.After(date.Add(12*time.Hour)))

		for j := i + 1; j < len(appointments); j++ {
			b := appointments[j]
			assert.False(t, slots.Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime), "%s and %s", a.StartTime, b.StartTime)
		}
	}
}

func TestGenerateUsernameFromName(t *testing.T) {
	username := GenerateUsernameFromChineseName("王芳")

	assert.Regexp(t, `^[a-z]+[0-9]{1,3}$`, username)
}

func TestGenerateRandomPassword(t *testing.T) {
	assert.Len(t, GenerateRandomPassword(12), 12)
	assert.Len(t, GenerateRandomOTP(), 6)
}

func TestGenerateRandomPhone(t *testing.T) {
	assert.Regexp(t, `^1[3578][0-9]{9}$`, GenerateRandomPhone())
}
