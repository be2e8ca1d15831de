package repository

import (
	"context"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
)

const appointmentColumns = `
	id, clinic_id, professional_id, patient_name, patient_email, patient_phone,
	title, notes, start_time, end_time, status, created_at, version
`

func appointmentDst(a *domain.Appointment) []any {
	return []any{
		&a.ID,
		&a.ClinicID,
		&a.ProfessionalID,
		&a.PatientName,
		&a.PatientEmail,
		&a.PatientPhone,
		&a.Title,
		&a.Notes,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.CreatedAt,
		&a.Version,
	}
}

func (r *Repository) CreateAppointment(a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO appointments (
			clinic_id, professional_id, patient_name, patient_email, patient_phone,
			title, notes, start_time, end_time, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	args := []any{
		a.ClinicID,
		a.ProfessionalID,
		a.PatientName,
		a.PatientEmail,
		a.PatientPhone,
		a.Title,
		a.Notes,
		a.StartTime,
		a.EndTime,
		a.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAppointmentByID(clinicID int64, id int64) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT` + appointmentColumns + `FROM appointments WHERE id = $1 AND clinic_id = $2`

	a := &domain.Appointment{}
	if err := r.dbpool.QueryRowContext(ctx, query, id, clinicID).Scan(appointmentDst(a)...); err != nil {
		return nil, err
	}

	return a, nil
}

// GetAppointmentsBetween 返回开始时间落在 [from, to) 内的预约，professionalID 为 0 时不过滤医生
func (r *Repository) GetAppointmentsBetween(clinicID int64, from, to time.Time, professionalID int64) ([]domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT` + appointmentColumns + `
		FROM appointments
		WHERE clinic_id = $1
			AND start_time >= $2
			AND start_time < $3
			AND ($4 = 0 OR professional_id = $4)
		ORDER BY start_time, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, clinicID, from, to, professionalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(appointmentDst(&a)...); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (r *Repository) UpdateAppointment(a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE appointments
		SET
			professional_id = $1,
			patient_name = $2,
			patient_email = $3,
			patient_phone = $4,
			title = $5,
			notes = $6,
			start_time = $7,
			end_time = $8,
			status = $9,
			version = version + 1
		WHERE id = $10 AND clinic_id = $11 AND version = $12
		RETURNING version
	`

	args := []any{
		a.ProfessionalID,
		a.PatientName,
		a.PatientEmail,
		a.PatientPhone,
		a.Title,
		a.Notes,
		a.StartTime,
		a.EndTime,
		a.Status,
		a.ID,
		a.ClinicID,
		a.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.Version); err != nil {
		return err
	}

	return nil
}
