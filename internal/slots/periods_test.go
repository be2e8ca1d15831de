package slots

import (
	"testing"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestGroupByPeriod(t *testing.T) {
	slots := Generate(at(10, 0, 0), nil, 60, clinicHours, at(1, 8, 0))

	p := GroupByPeriod(slots)

	assert.Equal(t, []string{"07:00", "08:00", "09:00", "10:00", "11:00"}, starts(p.Morning))
	assert.Equal(t, []string{"13:00", "14:00", "15:00", "16:00", "17:00"}, starts(p.Afternoon))
	assert.Equal(t, []string{"18:00", "19:00", "20:00", "21:00"}, starts(p.Evening))
}

func TestGroupByPeriodEmpty(t *testing.T) {
	p := GroupByPeriod([]domain.TimeSlot{})

	assert.NotNil(t, p.Morning)
	assert.Empty(t, p.Morning)
	assert.Empty(t, p.Afternoon)
	assert.Empty(t, p.Evening)
}
