package domain

const (
	MailTypeCreateUser              = "create_user"
	MailTypeResetPassword           = "reset_password"
	MailTypeChangeEmail             = "change_email"
	MailTypeAppointmentConfirmation = "appointment_confirmation"
	MailTypeAppointmentCancellation = "appointment_cancellation"
	MailTypeAppointmentReminder     = "appointment_reminder"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// 预约相关的三种邮件共用同一份数据
type AppointmentMailData struct {
	ClinicName       string `json:"clinicName"`
	PatientName      string `json:"patientName"`
	ProfessionalName string `json:"professionalName"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
}
