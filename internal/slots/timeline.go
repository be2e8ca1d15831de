package slots

import (
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
)

type TimelineRow struct {
	Time         string                        `json:"time"`
	IsLunchBreak bool                          `json:"isLunchBreak"`
	Appointments map[int64]*domain.Appointment `json:"appointments"` // professionalID -> 该时刻开始的预约
}

// Timeline 生成日程视图的行：午休的每个小时一行，其余按 interval 分钟一行
func Timeline(date time.Time, hours domain.ClinicHours, interval int, appointments []domain.Appointment, professionalIDs []int64) []TimelineRow {
	rows := make([]TimelineRow, 0)

	if interval <= 0 {
		return rows
	}

	columnSet := make(map[int64]bool, len(professionalIDs))
	for _, id := range professionalIDs {
		columnSet[id] = true
	}

	// 只关心当天开始且医生在列中的预约，按 HH:MM 建索引
	byClock := make(map[string][]domain.Appointment)
	for _, appt := range appointments {
		start := appt.StartTime.In(date.Location())
		if !sameDay(date, start) || !columnSet[appt.ProfessionalID] {
			continue
		}
		key := formatClock(start.Hour(), start.Minute())
		byClock[key] = append(byClock[key], appt)
	}

	for hour := hours.Start; hour < hours.End; hour++ {
		if hour >= hours.LunchStart && hour < hours.LunchEnd {
			rows = append(rows, TimelineRow{
				Time:         formatClock(hour, 0),
				IsLunchBreak: true,
				Appointments: emptyColumns(professionalIDs),
			})
			continue
		}

		for minute := 0; minute < 60; minute += interval {
			// 最后一个小时里放不下完整间隔的行不显示
			if hour == hours.End-1 && minute+interval > 60 {
				continue
			}

			clock := formatClock(hour, minute)
			columns := emptyColumns(professionalIDs)
			for _, appt := range byClock[clock] {
				columns[appt.ProfessionalID] = &appt
			}

			rows = append(rows, TimelineRow{
				Time:         clock,
				IsLunchBreak: false,
				Appointments: columns,
			})
		}
	}

	return rows
}

func emptyColumns(professionalIDs []int64) map[int64]*domain.Appointment {
	columns := make(map[int64]*domain.Appointment, len(professionalIDs))
	for _, id := range professionalIDs {
		columns[id] = nil
	}
	return columns
}
