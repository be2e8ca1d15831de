package handler

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/slots"
	"github.com/odontoagenda/agenda/backend/internal/utils"
)

type availableSlotsResponse struct {
	Date     string            `json:"date"`
	Duration int               `json:"duration"`
	Closed   bool              `json:"closed"`
	Slots    []domain.TimeSlot `json:"slots"`
	Periods  slots.Periods     `json:"periods"`
}

type freeSlotsResponse struct {
	From     string           `json:"from"`
	Days     int              `json:"days"`
	Duration int              `json:"duration"`
	Results  []slots.DaySlots `json:"results"`
}

type agendaResponse struct {
	Date          string                 `json:"date"`
	Interval      int                    `json:"interval"`
	Closed        bool                   `json:"closed"`
	Professionals []*domain.Professional `json:"professionals"`
	Rows          []slots.TimelineRow    `json:"rows"`
}

// durationParam 未指定时使用诊所的默认预约时长
func durationParam(r *http.Request, clinic *domain.Clinic) (int, error) {
	duration, err := intParam(r, "duration", clinic.SlotDurationMinutes)
	if err != nil {
		return 0, err
	}
	if err := utils.ValidateDuration(duration); err != nil {
		return 0, err
	}
	return duration, nil
}

func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)
	loc := clinic.Location()

	date, err := h.dateParam(r, "date", loc)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	duration, err := durationParam(r, clinic)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	professionalID, err := professionalParam(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.loadSchedule(r.Context(), clinic.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resp := availableSlotsResponse{
		Date:     date.Format(time.DateOnly),
		Duration: duration,
		Slots:    make([]domain.TimeSlot, 0),
	}

	hours, open := schedule.HoursFor(date)
	if !open {
		resp.Closed = true
		resp.Periods = slots.GroupByPeriod(resp.Slots)
		h.successResponse(w, r, "诊所当天不营业", resp)
		return
	}

	from, to := dayRange(date)
	appointments, err := h.repository.GetAppointmentsBetween(clinic.ID, from, to, professionalID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resp.Slots = slots.Generate(date, slots.ActiveOnly(appointments), duration, hours, h.now().In(loc))
	resp.Periods = slots.GroupByPeriod(resp.Slots)

	h.successResponse(w, r, "获取可预约时间段成功", resp)
}

func (h *Handler) FindFreeSlots(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)
	loc := clinic.Location()

	from, err := h.dateParam(r, "from", loc)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	days, err := intParam(r, "days", 1)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if days < 1 || days > h.config.Clinic.MaxSearchDays {
		h.badRequest(w, r, fmt.Errorf("查询天数必须在 1 到 %d 之间", h.config.Clinic.MaxSearchDays))
		return
	}
	duration, err := durationParam(r, clinic)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	professionalID, err := professionalParam(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.loadSchedule(r.Context(), clinic.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	appointments, err := h.repository.GetAppointmentsBetween(clinic.ID, from, from.AddDate(0, 0, days), professionalID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	results := slots.FindFree(from, days, schedule, duration, slots.ActiveOnly(appointments), h.now().In(loc))

	h.successResponse(w, r, "查找空闲时间段成功", freeSlotsResponse{
		From:     from.Format(time.DateOnly),
		Days:     days,
		Duration: duration,
		Results:  results,
	})
}

func (h *Handler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)

	date, err := h.dateParam(r, "date", clinic.Location())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	interval, err := intParam(r, "interval", clinic.SlotDurationMinutes)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateDuration(interval); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.loadSchedule(r.Context(), clinic.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	professionals, err := h.repository.GetAllProfessionals(clinic.ID, true)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resp := agendaResponse{
		Date:          date.Format(time.DateOnly),
		Interval:      interval,
		Professionals: professionals,
		Rows:          make([]slots.TimelineRow, 0),
	}

	hours, open := schedule.HoursFor(date)
	if !open {
		resp.Closed = true
		h.successResponse(w, r, "诊所当天不营业", resp)
		return
	}

	from, to := dayRange(date)
	appointments, err := h.repository.GetAppointmentsBetween(clinic.ID, from, to, 0)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 已取消的预约不在日程中显示
	appointments = slices.DeleteFunc(appointments, func(a domain.Appointment) bool {
		return a.Status == domain.StatusCancelled
	})

	ids := make([]int64, 0, len(professionals))
	for _, p := range professionals {
		ids = append(ids, p.ID)
	}

	resp.Rows = slots.Timeline(date, hours, interval, appointments, ids)

	h.successResponse(w, r, "获取日程成功", resp)
}
