package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/utils"
)

func dayRange(date time.Time) (time.Time, time.Time) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return from, from.AddDate(0, 0, 1)
}

func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)

	date, err := h.dateParam(r, "date", clinic.Location())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	professionalID, err := professionalParam(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	from, to := dayRange(date)
	appointments, err := h.repository.GetAppointmentsBetween(clinic.ID, from, to, professionalID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取预约列表成功", appointments)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)
	h.successResponse(w, r, "获取预约成功", a)
}

// rejectedError 表示预约本身不合法，可以直接展示给用户
type rejectedError struct {
	err error
}

func (e *rejectedError) Error() string { return e.err.Error() }

func reject(err error) error { return &rejectedError{err: err} }

// checkAppointment 检查医生是否在职、时间是否在营业时间内以及是否与已有预约冲突
func (h *Handler) checkAppointment(r *http.Request, clinic *domain.Clinic, a *domain.Appointment) (*domain.Professional, error) {
	p, err := h.repository.GetProfessionalByID(clinic.ID, a.ProfessionalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reject(errors.New("医生不存在"))
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, reject(errors.New("该医生已停用"))
	}

	schedule, err := h.loadSchedule(r.Context(), clinic.ID)
	if err != nil {
		return nil, err
	}

	loc := clinic.Location()
	if err := utils.ValidateAppointmentTime(a, schedule, loc); err != nil {
		return nil, reject(err)
	}

	from, to := dayRange(a.StartTime.In(loc))
	existing, err := h.repository.GetAppointmentsBetween(clinic.ID, from, to, a.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateNoConflict(a, existing); err != nil {
		return nil, reject(err)
	}

	return p, nil
}

func (h *Handler) appointmentCheckFailed(w http.ResponseWriter, r *http.Request, err error) {
	var rejected *rejectedError
	if errors.As(err, &rejected) {
		h.badRequest(w, r, rejected)
		return
	}
	h.internalServerError(w, r, err)
}

// notifyPatient 邮件投递失败不影响预约本身，只记录日志
func (h *Handler) notifyPatient(r *http.Request, mailType string, clinic *domain.Clinic, p *domain.Professional, a *domain.Appointment) {
	if a.PatientEmail == "" {
		return
	}

	loc := clinic.Location()
	start := a.StartTime.In(loc)
	end := a.EndTime.In(loc)

	msg := domain.MailMessage{
		Type: mailType,
		To:   a.PatientEmail,
		Data: domain.AppointmentMailData{
			ClinicName:       clinic.Name,
			PatientName:      a.PatientName,
			ProfessionalName: p.FullName,
			Title:            a.Title,
			Date:             start.Format(time.DateOnly),
			StartTime:        start.Format("15:04"),
			EndTime:          end.Format("15:04"),
		},
	}
	if err := h.mail.PublishMail(r.Context(), msg); err != nil {
		slog.Error("投递预约邮件失败", "type", mailType, "appointmentID", a.ID, "requestID", requestIDFrom(r), "error", err)
	}
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfessionalID int64     `json:"professionalID" validate:"required,gt=0"`
		PatientName    string    `json:"patientName" validate:"required,max=100"`
		PatientEmail   string    `json:"patientEmail" validate:"omitempty,email"`
		PatientPhone   string    `json:"patientPhone" validate:"max=30"`
		Title          string    `json:"title" validate:"max=100"`
		Notes          string    `json:"notes"`
		StartTime      time.Time `json:"startTime" validate:"required"`
		EndTime        time.Time `json:"endTime"`
		Duration       int       `json:"duration"` // 未提供 endTime 时使用，默认为诊所的预约时长
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)

	end := req.EndTime
	if end.IsZero() {
		duration := req.Duration
		if duration == 0 {
			duration = clinic.SlotDurationMinutes
		}
		if err := utils.ValidateDuration(duration); err != nil {
			h.badRequest(w, r, err)
			return
		}
		end = req.StartTime.Add(time.Duration(duration) * time.Minute)
	}

	title := req.Title
	if title == "" {
		title = "门诊"
	}

	a := &domain.Appointment{
		ClinicID:       clinic.ID,
		ProfessionalID: req.ProfessionalID,
		PatientName:    req.PatientName,
		PatientEmail:   req.PatientEmail,
		PatientPhone:   req.PatientPhone,
		Title:          title,
		Notes:          req.Notes,
		StartTime:      req.StartTime,
		EndTime:        end,
		Status:         domain.StatusScheduled,
	}

	p, err := h.checkAppointment(r, clinic, a)
	if err != nil {
		h.appointmentCheckFailed(w, r, err)
		return
	}

	if err := h.repository.CreateAppointment(a); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "appointments_no_overlap":
			h.errorResponse(w, r, "该时间段已被其他预约占用")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyPatient(r, domain.MailTypeAppointmentConfirmation, clinic, p, a)

	h.successResponse(w, r, "预约创建成功", a)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfessionalID *int64     `json:"professionalID" validate:"omitempty,gt=0"`
		PatientName    *string    `json:"patientName" validate:"omitempty,min=1,max=100"`
		PatientEmail   *string    `json:"patientEmail" validate:"omitempty,email"`
		PatientPhone   *string    `json:"patientPhone" validate:"omitempty,max=30"`
		Title          *string    `json:"title" validate:"omitempty,max=100"`
		Notes          *string    `json:"notes"`
		StartTime      *time.Time `json:"startTime"`
		EndTime        *time.Time `json:"endTime"`
		Status         *string    `json:"status" validate:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	rescheduled := false
	if req.ProfessionalID != nil && *req.ProfessionalID != a.ProfessionalID {
		a.ProfessionalID = *req.ProfessionalID
		rescheduled = true
	}
	if req.StartTime != nil && !req.StartTime.Equal(a.StartTime) {
		// 只改开始时间时保持原有时长
		duration := a.EndTime.Sub(a.StartTime)
		a.StartTime = *req.StartTime
		a.EndTime = a.StartTime.Add(duration)
		rescheduled = true
	}
	if req.EndTime != nil && !req.EndTime.Equal(a.EndTime) {
		a.EndTime = *req.EndTime
		rescheduled = true
	}
	if req.PatientName != nil {
		a.PatientName = *req.PatientName
	}
	if req.PatientEmail != nil {
		a.PatientEmail = *req.PatientEmail
	}
	if req.PatientPhone != nil {
		a.PatientPhone = *req.PatientPhone
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	reactivated := false
	if req.Status != nil {
		status := domain.AppointmentStatus(*req.Status)
		reactivated = !a.Status.OccupiesTime() && status.OccupiesTime()
		a.Status = status
	}

	var p *domain.Professional
	if (rescheduled || reactivated) && a.Status.OccupiesTime() {
		var err error
		p, err = h.checkAppointment(r, clinic, a)
		if err != nil {
			h.appointmentCheckFailed(w, r, err)
			return
		}
	}

	if err := h.repository.UpdateAppointment(a); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "appointments_no_overlap":
			h.errorResponse(w, r, "该时间段已被其他预约占用")
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新预约失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if p != nil && rescheduled {
		h.notifyPatient(r, domain.MailTypeAppointmentConfirmation, clinic, p, a)
	}

	h.successResponse(w, r, "更新预约成功", a)
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	switch a.Status {
	case domain.StatusCancelled:
		h.errorResponse(w, r, "预约已取消")
		return
	case domain.StatusCompleted, domain.StatusNoShow:
		h.errorResponse(w, r, "预约已结束，无法取消")
		return
	}

	a.Status = domain.StatusCancelled
	if err := h.repository.UpdateAppointment(a); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "取消预约失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if a.PatientEmail != "" {
		p, err := h.repository.GetProfessionalByID(clinic.ID, a.ProfessionalID)
		if err != nil {
			slog.Error("查询医生失败，未发送取消通知", "appointmentID", a.ID, "error", err)
		} else {
			h.notifyPatient(r, domain.MailTypeAppointmentCancellation, clinic, p, a)
		}
	}

	h.successResponse(w, r, "预约已取消", a)
}
