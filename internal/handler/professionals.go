package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/odontoagenda/agenda/backend/internal/domain"
)

func (h *Handler) GetAllProfessionals(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)
	onlyActive := r.URL.Query().Get("active") == "true"

	professionals, err := h.repository.GetAllProfessionals(clinic.ID, onlyActive)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取医生列表成功", professionals)
}

func (h *Handler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   string `json:"fullName" validate:"required,max=100"`
		Speciality string `json:"speciality" validate:"max=100"`
		Email      string `json:"email" validate:"omitempty,email"`
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

	p := &domain.Professional{
		ClinicID:   clinic.ID,
		FullName:   req.FullName,
		Speciality: req.Speciality,
		Email:      req.Email,
		IsActive:   true,
	}

	if err := h.repository.CreateProfessional(p); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "professionals_clinic_id_email_key":
			h.errorResponse(w, r, "邮箱已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "医生创建成功", p)
}

func (h *Handler) GetProfessional(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ProfessionalCtx).(*domain.Professional)
	h.successResponse(w, r, "获取医生信息成功", p)
}

func (h *Handler) UpdateProfessional(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   *string `json:"fullName" validate:"omitempty,min=1,max=100"`
		Speciality *string `json:"speciality" validate:"omitempty,max=100"`
		Email      *string `json:"email" validate:"omitempty,email"`
		IsActive   *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	p := r.Context().Value(ProfessionalCtx).(*domain.Professional)

	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Speciality != nil {
		p.Speciality = *req.Speciality
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateProfessional(p); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "professionals_clinic_id_email_key":
			h.errorResponse(w, r, "邮箱已存在")
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新医生信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新医生信息成功", p)
}

func (h *Handler) DeleteProfessional(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ProfessionalCtx).(*domain.Professional)

	if err := h.repository.DeleteProfessional(p.ClinicID, p.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "appointments_professional_id_fkey":
			h.errorResponse(w, r, "该医生仍有预约，请先停用")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除医生成功", nil)
}
