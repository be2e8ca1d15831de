package handler

type ContextKey string

var (
	RequestIDCtxKey ContextKey = "requestID"
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	ClinicIDCtxKey  ContextKey = "clinicID"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	ClinicCtx       ContextKey = "clinic"
	ProfessionalCtx ContextKey = "professional"
	AppointmentCtx  ContextKey = "appointment"
)
