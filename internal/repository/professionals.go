package repository

import (
	"context"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/domain"
)

func (r *Repository) CreateProfessional(p *domain.Professional) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO professionals (clinic_id, full_name, speciality, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, version
	`

	args := []any{p.ClinicID, p.FullName, p.Speciality, p.Email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.IsActive, &p.CreatedAt, &p.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetProfessionalByID(clinicID int64, id int64) (*domain.Professional, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT full_name, speciality, email, is_active, created_at, version
		FROM professionals
		WHERE id = $1 AND clinic_id = $2
	`

	p := &domain.Professional{
		ID:       id,
		ClinicID: clinicID,
	}

	dst := []any{&p.FullName, &p.Speciality, &p.Email, &p.IsActive, &p.CreatedAt, &p.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id, clinicID).Scan(dst...); err != nil {
		return nil, err
	}

	return p, nil
}

// GetAllProfessionals onlyActive 为 true 时只返回在职医生
func (r *Repository) GetAllProfessionals(clinicID int64, onlyActive bool) ([]*domain.Professional, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, full_name, speciality, email, is_active, created_at, version
		FROM professionals
		WHERE clinic_id = $1 AND (NOT $2 OR is_active)
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, clinicID, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	professionals := make([]*domain.Professional, 0)
	for rows.Next() {
		p := &domain.Professional{
			ClinicID: clinicID,
		}
		dst := []any{&p.ID, &p.FullName, &p.Speciality, &p.Email, &p.IsActive, &p.CreatedAt, &p.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		professionals = append(professionals, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return professionals, nil
}

func (r *Repository) UpdateProfessional(p *domain.Professional) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE professionals
		SET
			full_name = $1,
			speciality = $2,
			email = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND clinic_id = $6 AND version = $7
		RETURNING version
	`

	args := []any{p.FullName, p.Speciality, p.Email, p.IsActive, p.ID, p.ClinicID, p.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteProfessional(clinicID int64, id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM professionals WHERE id = $1 AND clinic_id = $2
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id, clinicID); err != nil {
		return err
	}

	return nil
}
