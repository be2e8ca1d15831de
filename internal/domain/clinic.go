package domain

import (
	"time"
	_ "time/tzdata"
)

type Clinic struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Timezone            string    `json:"timezone"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	CreatedAt           time.Time `json:"createdAt"`
	Version             int32     `json:"-"`
}

// Location 返回诊所所在时区，时区名无效时退回 UTC
func (c *Clinic) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ClinicHours 是某一天的营业时间，均为整点小时
// 约定 Start < LunchStart < LunchEnd < End，但这里不做校验
type ClinicHours struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	LunchStart int `json:"lunchStart"`
	LunchEnd   int `json:"lunchEnd"`
}

type WeekdayHours struct {
	Weekday   int  `json:"weekday"` // 0 表示周日
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"startHour"`
	EndHour   int  `json:"endHour"`
}

type LunchBreak struct {
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"startHour"`
	EndHour   int  `json:"endHour"`
}

type ClinicSchedule struct {
	ClinicID   int64          `json:"clinicID"`
	Days       []WeekdayHours `json:"days"`
	LunchBreak LunchBreak     `json:"lunchBreak"`
	Version    int32          `json:"-"`
}

// HoursFor 解析某个日期对应的营业时间，第二个返回值为 false 表示当天不营业
func (s *ClinicSchedule) HoursFor(date time.Time) (ClinicHours, bool) {
	weekday := int(date.Weekday())

	for _, day := range s.Days {
		if day.Weekday != weekday {
			continue
		}
		if !day.Enabled {
			return ClinicHours{}, false
		}

		hours := ClinicHours{
			Start:      day.StartHour,
			End:        day.EndHour,
			LunchStart: s.LunchBreak.StartHour,
			LunchEnd:   s.LunchBreak.EndHour,
		}
		if !s.LunchBreak.Enabled {
			// 午休区间退化为 [End, End)，两道午休检查都不会命中
			hours.LunchStart = day.EndHour
			hours.LunchEnd = day.EndHour
		}
		return hours, true
	}

	return ClinicHours{}, false
}

// DefaultClinicSchedule 周一到周五营业，周末休息
func DefaultClinicSchedule(clinicID int64, hours ClinicHours) *ClinicSchedule {
	s := &ClinicSchedule{
		ClinicID: clinicID,
		Days:     make([]WeekdayHours, 7),
		LunchBreak: LunchBreak{
			Enabled:   true,
			StartHour: hours.LunchStart,
			EndHour:   hours.LunchEnd,
		},
	}

	for i := range s.Days {
		s.Days[i] = WeekdayHours{
			Weekday:   i,
			Enabled:   i != int(time.Sunday) && i != int(time.Saturday),
			StartHour: hours.Start,
			EndHour:   hours.End,
		}
	}

	return s
}
