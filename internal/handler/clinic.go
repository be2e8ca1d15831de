package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/utils"
	"github.com/redis/go-redis/v9"
)

func scheduleCacheKey(clinicID int64) string {
	return fmt.Sprintf("clinic_%d_schedule", clinicID)
}

// defaultSchedule 诊所尚未配置营业时间时使用配置文件中的默认值
func (h *Handler) defaultSchedule(clinicID int64) *domain.ClinicSchedule {
	return domain.DefaultClinicSchedule(clinicID, domain.ClinicHours{
		Start:      h.config.Clinic.StartHour,
		End:        h.config.Clinic.EndHour,
		LunchStart: h.config.Clinic.LunchStartHour,
		LunchEnd:   h.config.Clinic.LunchEndHour,
	})
}

// loadSchedule 优先读取 redis 缓存，缓存不可用时直接查询数据库
func (h *Handler) loadSchedule(ctx context.Context, clinicID int64) (*domain.ClinicSchedule, error) {
	key := scheduleCacheKey(clinicID)

	if h.redisClient != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()

		cached, err := h.redisClient.Get(cacheCtx, key).Bytes()
		switch {
		case err == nil:
			s := &domain.ClinicSchedule{}
			if err := json.Unmarshal(cached, s); err == nil {
				return s, nil
			}
			slog.Warn("营业时间缓存损坏", "clinicID", clinicID)
		case !errors.Is(err, redis.Nil):
			slog.Warn("读取营业时间缓存失败", "clinicID", clinicID, "error", err)
		}
	}

	s, err := h.repository.GetClinicSchedule(clinicID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		s = h.defaultSchedule(clinicID)
	}

	if h.redisClient != nil {
		data, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		cacheCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		if err := h.redisClient.Set(cacheCtx, key, data, time.Duration(h.config.Redis.ScheduleCacheTTL)*time.Second).Err(); err != nil {
			slog.Warn("写入营业时间缓存失败", "clinicID", clinicID, "error", err)
		}
	}

	return s, nil
}

func (h *Handler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)
	h.successResponse(w, r, "获取诊所信息成功", clinic)
}

func (h *Handler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                *string `json:"name" validate:"omitempty,min=1,max=100"`
		Timezone            *string `json:"timezone" validate:"omitempty,timezone"`
		SlotDurationMinutes *int    `json:"slotDurationMinutes" validate:"omitempty,oneof=15 20 30 45 60 90 120"`
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

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Timezone != nil {
		clinic.Timezone = *req.Timezone
	}
	if req.SlotDurationMinutes != nil {
		clinic.SlotDurationMinutes = *req.SlotDurationMinutes
	}

	if err := h.repository.UpdateClinic(clinic); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "clinics_name_key":
			h.errorResponse(w, r, "诊所名称已存在")
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新诊所信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新诊所信息成功", clinic)
}

func (h *Handler) GetClinicSchedule(w http.ResponseWriter, r *http.Request) {
	clinic := r.Context().Value(ClinicCtx).(*domain.Clinic)

	s, err := h.loadSchedule(r.Context(), clinic.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取营业时间成功", s)
}

func (h *Handler) UpdateClinicSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days       []domain.WeekdayHours `json:"days" validate:"required,len=7"`
		LunchBreak domain.LunchBreak     `json:"lunchBreak"`
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

	s := &domain.ClinicSchedule{
		ClinicID:   clinic.ID,
		Days:       req.Days,
		LunchBreak: req.LunchBreak,
	}
	if err := utils.ValidateClinicSchedule(s); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveClinicSchedule(s); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 使缓存失效，下次读取时重新加载
	if h.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		if err := h.redisClient.Del(ctx, scheduleCacheKey(clinic.ID)).Err(); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "更新营业时间成功", s)
}
