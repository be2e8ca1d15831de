// Package reminder 为即将到来的预约发送就诊提醒邮件
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/slots"
)

type Store interface {
	GetAllClinics() ([]*domain.Clinic, error)
	GetAppointmentsBetween(clinicID int64, from, to time.Time, professionalID int64) ([]domain.Appointment, error)
	GetProfessionalByID(clinicID int64, id int64) (*domain.Professional, error)
}

type Publisher interface {
	PublishMail(ctx context.Context, msg domain.MailMessage) error
}

type Reminder struct {
	store     Store
	publisher Publisher
	daysAhead int
	logger    *slog.Logger
}

func New(store Store, publisher Publisher, daysAhead int, logger *slog.Logger) *Reminder {
	return &Reminder{
		store:     store,
		publisher: publisher,
		daysAhead: daysAhead,
		logger:    logger,
	}
}

// Run 对每个诊所，按诊所时区取 now 之后第 daysAhead 天的有效预约并投递提醒，返回投递成功的数量
func (r *Reminder) Run(ctx context.Context, now time.Time) (int, error) {
	clinics, err := r.store.GetAllClinics()
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, clinic := range clinics {
		n, err := r.remindClinic(ctx, clinic, now)
		sent += n
		if err != nil {
			errs = append(errs, fmt.Errorf("诊所 %d: %w", clinic.ID, err))
		}
	}

	return sent, errors.Join(errs...)
}

func (r *Reminder) remindClinic(ctx context.Context, clinic *domain.Clinic, now time.Time) (int, error) {
	loc := clinic.Location()
	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day()+r.daysAhead, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)

	appointments, err := r.store.GetAppointmentsBetween(clinic.ID, from, to, 0)
	if err != nil {
		return 0, err
	}

	professionals := make(map[int64]string)
	sent := 0
	var errs []error
	for _, appt := range slots.ActiveOnly(appointments) {
		if appt.PatientEmail == "" {
			continue
		}

		name, ok := professionals[appt.ProfessionalID]
		if !ok {
			professional, err := r.store.GetProfessionalByID(clinic.ID, appt.ProfessionalID)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			name = professional.FullName
			professionals[appt.ProfessionalID] = name
		}

		start := appt.StartTime.In(loc)
		end := appt.EndTime.In(loc)
		msg := domain.MailMessage{
			Type: domain.MailTypeAppointmentReminder,
			To:   appt.PatientEmail,
			Data: domain.AppointmentMailData{
				ClinicName:       clinic.Name,
				PatientName:      appt.PatientName,
				ProfessionalName: name,
				Title:            appt.Title,
				Date:             start.Format(time.DateOnly),
				StartTime:        start.Format("15:04"),
				EndTime:          end.Format("15:04"),
			},
		}
		if err := r.publisher.PublishMail(ctx, msg); err != nil {
			errs = append(errs, err)
			continue
		}

		r.logger.Info("已投递就诊提醒", slog.Int64("clinicId", clinic.ID), slog.Int64("appointmentId", appt.ID))
		sent++
	}

	return sent, errors.Join(errs...)
}
