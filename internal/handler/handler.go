package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/odontoagenda/agenda/backend/internal/config"
	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Store 是 handler 用到的持久化操作，由 repository.Repository 实现
type Store interface {
	GetUserByID(id int64) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	GetAllUsers(clinicID int64) ([]*domain.User, error)
	CreateUser(user *domain.User) error
	UpdateUser(user *domain.User) error
	DeleteUser(id int64) error
	CheckEmailIfExists(email string) (bool, error)

	GetClinicByID(id int64) (*domain.Clinic, error)
	UpdateClinic(c *domain.Clinic) error
	GetClinicSchedule(clinicID int64) (*domain.ClinicSchedule, error)
	SaveClinicSchedule(s *domain.ClinicSchedule) error

	CreateProfessional(p *domain.Professional) error
	GetProfessionalByID(clinicID int64, id int64) (*domain.Professional, error)
	GetAllProfessionals(clinicID int64, onlyActive bool) ([]*domain.Professional, error)
	UpdateProfessional(p *domain.Professional) error
	DeleteProfessional(clinicID int64, id int64) error

	CreateAppointment(a *domain.Appointment) error
	GetAppointmentByID(clinicID int64, id int64) (*domain.Appointment, error)
	GetAppointmentsBetween(clinicID int64, from, to time.Time, professionalID int64) ([]domain.Appointment, error)
	UpdateAppointment(a *domain.Appointment) error
}

// MailPublisher 把邮件投递到消息队列，由 queue.Publisher 实现
type MailPublisher interface {
	PublishMail(ctx context.Context, msg domain.MailMessage) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  Store
	translator  ut.Translator
	mail        MailPublisher
	redisClient redis.Cmdable
	loginLimit  *ipRateLimiter
	now         func() time.Time

	Mux *chi.Mux
}

// NewHandler rdb 为 nil 时营业时间不走缓存
func NewHandler(cfg *config.Config, repo Store, mail MailPublisher, rdb redis.Cmdable) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	perMinute := cfg.Server.LoginRateLimit
	if perMinute <= 0 {
		perMinute = 1
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mail:        mail,
		redisClient: rdb,
		loginLimit:  newIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		now:         time.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.With(h.rateLimit(h.loginLimit)).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Use(h.rateLimit(h.loginLimit))
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		// 以下 API 需要当前用户所属诊所的信息
		r.Group(func(r chi.Router) {
			r.Use(h.clinic)

			r.Route("/clinic", func(r chi.Router) {
				r.Get("/", h.GetClinic)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateClinic)
				r.Get("/schedule", h.GetClinicSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/schedule", h.UpdateClinicSchedule)
			})

			r.Route("/professionals", func(r chi.Router) {
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateProfessional)
				r.Get("/", h.GetAllProfessionals)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.professional)
					r.Get("/", h.GetProfessional)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateProfessional)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteProfessional)
				})
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.GetAppointments)
				r.Post("/", h.CreateAppointment)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.appointment)
					r.Get("/", h.GetAppointment)
					r.Patch("/", h.UpdateAppointment)
					r.Post("/cancel", h.CancelAppointment)
				})
			})

			r.Route("/availability", func(r chi.Router) {
				r.Get("/slots", h.GetAvailableSlots)
				r.Get("/free", h.FindFreeSlots)
			})

			r.Get("/agenda", h.GetAgenda)
		})
	})
}
