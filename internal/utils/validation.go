package utils

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/slots"
)

func ValidateDuration(duration int) error {
	if !slices.Contains(domain.AllowedDurations, duration) {
		return fmt.Errorf("预约时长 %d 分钟不合法，只允许 %v", duration, domain.AllowedDurations)
	}
	return nil
}

func ValidateClinicHours(hours domain.ClinicHours) error {
	if hours.Start < 0 || hours.End > 24 {
		return errors.New("营业时间必须在 0 点到 24 点之间")
	}
	if hours.Start >= hours.End {
		return errors.New("营业开始时间必须早于营业结束时间")
	}
	if !(hours.Start < hours.LunchStart && hours.LunchStart < hours.LunchEnd && hours.LunchEnd < hours.End) {
		return errors.New("午休时间必须位于营业时间之内，且开始时间早于结束时间")
	}
	return nil
}

func ValidateClinicSchedule(s *domain.ClinicSchedule) error {
	if len(s.Days) != 7 {
		return errors.New("必须提供一周七天的营业时间")
	}

	// 检查 weekday 是否覆盖 0~6 且不重复
	seen := make(map[int]bool)
	for _, day := range s.Days {
		if day.Weekday < 0 || day.Weekday > 6 {
			return fmt.Errorf("星期 %d 不合法", day.Weekday)
		}
		if seen[day.Weekday] {
			return fmt.Errorf("星期 %d 重复", day.Weekday)
		}
		seen[day.Weekday] = true
	}

	for _, day := range s.Days {
		if !day.Enabled {
			continue
		}

		if !s.LunchBreak.Enabled {
			if day.StartHour < 0 || day.EndHour > 24 || day.StartHour >= day.EndHour {
				return fmt.Errorf("星期 %d 的营业时间不合法", day.Weekday)
			}
			continue
		}

		hours := domain.ClinicHours{
			Start:      day.StartHour,
			End:        day.EndHour,
			LunchStart: s.LunchBreak.StartHour,
			LunchEnd:   s.LunchBreak.EndHour,
		}
		if err := ValidateClinicHours(hours); err != nil {
			return fmt.Errorf("星期 %d: %w", day.Weekday, err)
		}
	}

	return nil
}

// ValidateAppointmentTime 检查预约是否落在诊所当天的营业时间内
func ValidateAppointmentTime(appt *domain.Appointment, schedule *domain.ClinicSchedule, loc *time.Location) error {
	start := appt.StartTime.In(loc)
	end := appt.EndTime.In(loc)

	if !end.After(start) {
		return errors.New("预约结束时间必须晚于开始时间")
	}

	year, month, day := start.Date()
	if ey, em, ed := end.Date(); ey != year || em != month || ed != day {
		// 允许恰好在午夜结束
		midnight := time.Date(year, month, day+1, 0, 0, 0, 0, loc)
		if !end.Equal(midnight) {
			return errors.New("预约不能跨天")
		}
	}

	hours, open := schedule.HoursFor(start)
	if !open {
		return errors.New("诊所当天不营业")
	}

	opening := time.Date(year, month, day, hours.Start, 0, 0, 0, loc)
	closing := time.Date(year, month, day, hours.End, 0, 0, 0, loc)
	if start.Before(opening) || end.After(closing) {
		return fmt.Errorf("预约必须在 %02d:00 到 %02d:00 之间", hours.Start, hours.End)
	}

	return nil
}

// ValidateNoConflict 检查预约是否与同一医生的其他有效预约冲突
func ValidateNoConflict(appt *domain.Appointment, existing []domain.Appointment) error {
	for _, other := range slots.ActiveOnly(existing) {
		if other.ID == appt.ID || other.ProfessionalID != appt.ProfessionalID {
			continue
		}
		if slots.Overlaps(appt.StartTime, appt.EndTime, other.StartTime, other.EndTime) {
			return fmt.Errorf("与 %s 至 %s 的预约冲突", other.StartTime.Format("15:04"), other.EndTime.Format("15:04"))
		}
	}
	return nil
}
