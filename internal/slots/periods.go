package slots

import "github.com/odontoagenda/agenda/backend/internal/domain"

const (
	afternoonStart = "12:00"
	eveningStart   = "18:00"
)

type Periods struct {
	Morning   []domain.TimeSlot `json:"morning"`
	Afternoon []domain.TimeSlot `json:"afternoon"`
	Evening   []domain.TimeSlot `json:"evening"`
}

// GroupByPeriod 按开始时间把时间段分为上午、下午、晚上三组，顺序保持不变
func GroupByPeriod(slots []domain.TimeSlot) Periods {
	p := Periods{
		Morning:   make([]domain.TimeSlot, 0),
		Afternoon: make([]domain.TimeSlot, 0),
		Evening:   make([]domain.TimeSlot, 0),
	}

	// Start 固定为 HH:MM 格式，可以直接按字符串比较
	for _, slot := range slots {
		switch {
		case slot.Start < afternoonStart:
			p.Morning = append(p.Morning, slot)
		case slot.Start < eveningStart:
			p.Afternoon = append(p.Afternoon, slot)
		default:
			p.Evening = append(p.Evening, slot)
		}
	}

	return p
}
