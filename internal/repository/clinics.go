package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
)

func (r *Repository) CreateClinic(c *domain.Clinic) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO clinics (name, timezone, slot_duration_minutes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{c.Name, c.Timezone, c.SlotDurationMinutes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetClinicByID(id int64) (*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, timezone, slot_duration_minutes, created_at, version
		FROM clinics WHERE id = $1
	`

	c := &domain.Clinic{
		ID: id,
	}

	dst := []any{&c.Name, &c.Timezone, &c.SlotDurationMinutes, &c.CreatedAt, &c.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *Repository) GetClinicByName(name string) (*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, timezone, slot_duration_minutes, created_at, version
		FROM clinics WHERE name = $1
	`

	c := &domain.Clinic{
		Name: name,
	}

	dst := []any{&c.ID, &c.Timezone, &c.SlotDurationMinutes, &c.CreatedAt, &c.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(dst...); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *Repository) GetAllClinics() ([]*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, timezone, slot_duration_minutes, created_at, version
		FROM clinics
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clinics := make([]*domain.Clinic, 0)
	for rows.Next() {
		c := &domain.Clinic{}
		dst := []any{&c.ID, &c.Name, &c.Timezone, &c.SlotDurationMinutes, &c.CreatedAt, &c.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		clinics = append(clinics, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clinics, nil
}

func (r *Repository) UpdateClinic(c *domain.Clinic) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE clinics
		SET
			name = $1,
			timezone = $2,
			slot_duration_minutes = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	args := []any{c.Name, c.Timezone, c.SlotDurationMinutes, c.ID, c.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&c.Version); err != nil {
		return err
	}

	return nil
}

// GetClinicSchedule 诊所还没有配置营业时间时返回 sql.ErrNoRows
func (r *Repository) GetClinicSchedule(clinicID int64) (*domain.ClinicSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	s := &domain.ClinicSchedule{
		ClinicID: clinicID,
		Days:     make([]domain.WeekdayHours, 0, 7),
	}

	query := `
		SELECT enabled, start_hour, end_hour, version
		FROM clinic_lunch_breaks WHERE clinic_id = $1
	`
	dst := []any{&s.LunchBreak.Enabled, &s.LunchBreak.StartHour, &s.LunchBreak.EndHour, &s.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, clinicID).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT weekday, enabled, start_hour, end_hour
		FROM clinic_weekday_hours
		WHERE clinic_id = $1
		ORDER BY weekday
	`
	rows, err := r.dbpool.QueryContext(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day domain.WeekdayHours
		if err := rows.Scan(&day.Weekday, &day.Enabled, &day.StartHour, &day.EndHour); err != nil {
			return nil, err
		}
		s.Days = append(s.Days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(s.Days) == 0 {
		return nil, sql.ErrNoRows
	}

	return s, nil
}

// SaveClinicSchedule 整体覆盖诊所的营业时间
func (r *Repository) SaveClinicSchedule(s *domain.ClinicSchedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO clinic_lunch_breaks (clinic_id, enabled, start_hour, end_hour)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (clinic_id) DO UPDATE
		SET
			enabled = EXCLUDED.enabled,
			start_hour = EXCLUDED.start_hour,
			end_hour = EXCLUDED.end_hour,
			version = clinic_lunch_breaks.version + 1
		RETURNING version
	`
	args := []any{s.ClinicID, s.LunchBreak.Enabled, s.LunchBreak.StartHour, s.LunchBreak.EndHour}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&s.Version); err != nil {
		return err
	}

	for _, day := range s.Days {
		query = `
			INSERT INTO clinic_weekday_hours (clinic_id, weekday, enabled, start_hour, end_hour)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (clinic_id, weekday) DO UPDATE
			SET
				enabled = EXCLUDED.enabled,
				start_hour = EXCLUDED.start_hour,
				end_hour = EXCLUDED.end_hour
		`
		args := []any{s.ClinicID, day.Weekday, day.Enabled, day.StartHour, day.EndHour}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
