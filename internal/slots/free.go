package slots

import (
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
)

type DaySlots struct {
	Date  string            `json:"date"`
	Slots []domain.TimeSlot `json:"slots"`
	Count int               `json:"count"`
}

// FindFree 从 from 所在日期开始连续查找 days 天的空闲时间段
// 不营业的日期和没有空闲时间段的日期都不会出现在结果中
func FindFree(from time.Time, days int, schedule *domain.ClinicSchedule, duration int, appointments []domain.Appointment, now time.Time) []DaySlots {
	result := make([]DaySlots, 0)

	year, month, day := from.Date()
	first := time.Date(year, month, day, 0, 0, 0, 0, from.Location())

	for d := 0; d < days; d++ {
		date := first.AddDate(0, 0, d)

		hours, open := schedule.HoursFor(date)
		if !open {
			continue
		}

		available := make([]domain.TimeSlot, 0)
		for _, slot := range Generate(date, appointments, duration, hours, now) {
			if slot.Available {
				available = append(available, slot)
			}
		}

		if len(available) == 0 {
			continue
		}

		result = append(result, DaySlots{
			Date:  date.Format(time.DateOnly),
			Slots: available,
			Count: len(available),
		})
	}

	return result
}
