// Package slots 负责根据诊所营业时间和已有预约计算可预约的时间段
package slots

import (
	"fmt"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
)

// Generate 按 duration 分钟把某一天切分成若干时间段，并标记每个时间段是否可预约
//
// 每个小时都从 0 分开始按 duration 递增，只要起始分钟小于 60 就会生成候选时间段，
// 因此当 duration 不能整除 60 时，相邻小时的候选时间段会互相重叠，且每小时的数量与整除时不同
func Generate(date time.Time, appointments []domain.Appointment, duration int, hours domain.ClinicHours, now time.Time) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	// duration 不为正时循环无法推进
	if duration <= 0 {
		return slots
	}

	loc := date.Location()
	year, month, day := date.Date()
	isToday := sameDay(date, now)

	for hour := hours.Start; hour < hours.End; hour++ {
		// 整个小时处于午休时间
		if hour >= hours.LunchStart && hour < hours.LunchEnd {
			continue
		}

		for minute := 0; minute < 60; minute += duration {
			startMinutes := hour*60 + minute
			endMinutes := startMinutes + duration
			endHour, endMinute := endMinutes/60, endMinutes%60

			// 超过营业结束时间
			if endMinutes > hours.End*60 {
				continue
			}
			// 结束时间跨入午休
			if endHour == hours.LunchStart && endMinute > 0 {
				continue
			}
			// 开始时间落在午休区间
			if startMinutes >= hours.LunchStart*60 && startMinutes < hours.LunchEnd*60 {
				continue
			}

			slotStart := time.Date(year, month, day, hour, minute, 0, 0, loc)
			slotEnd := slotStart.Add(time.Duration(duration) * time.Minute)

			occupied := false
			for _, appt := range appointments {
				if Overlaps(slotStart, slotEnd, appt.StartTime, appt.EndTime) {
					occupied = true
					break
				}
			}

			past := isToday && slotStart.Before(now)

			slots = append(slots, domain.TimeSlot{
				Start:     formatClock(hour, minute),
				End:       formatClock(endHour, endMinute),
				Available: !occupied && !past,
			})
		}
	}

	return slots
}

// Overlaps 判断时间段 [slotStart, slotEnd) 与预约 [apptStart, apptEnd) 是否冲突
func Overlaps(slotStart, slotEnd, apptStart, apptEnd time.Time) bool {
	startInside := !slotStart.Before(apptStart) && slotStart.Before(apptEnd)
	endInside := slotEnd.After(apptStart) && !slotEnd.After(apptEnd)
	covers := !slotStart.After(apptStart) && !slotEnd.Before(apptEnd)

	return startInside || endInside || covers
}

// FilterByProfessional 只保留某位医生的预约，professionalID 为 0 时返回全部
func FilterByProfessional(appointments []domain.Appointment, professionalID int64) []domain.Appointment {
	if professionalID == 0 {
		return appointments
	}

	filtered := make([]domain.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.ProfessionalID == professionalID {
			filtered = append(filtered, appt)
		}
	}
	return filtered
}

// ActiveOnly 去掉已取消、已完成、爽约的预约
func ActiveOnly(appointments []domain.Appointment) []domain.Appointment {
	active := make([]domain.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.Status.OccupiesTime() {
			active = append(active, appt)
		}
	}
	return active
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
