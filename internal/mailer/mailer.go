// Package mailer 把队列中的 MailMessage 渲染成可发送的邮件
package mailer

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

type kind struct {
	template string
	subject  string
}

var kinds = map[string]kind{
	domain.MailTypeCreateUser:              {"new_account_email.html", "口腔诊所预约系统 - 账户信息"},
	domain.MailTypeResetPassword:           {"reset_password_otp_email.html", "口腔诊所预约系统 - 重置密码"},
	domain.MailTypeChangeEmail:             {"change_email_email.html", "口腔诊所预约系统 - 修改邮箱"},
	domain.MailTypeAppointmentConfirmation: {"appointment_confirmation_email.html", "预约成功通知"},
	domain.MailTypeAppointmentCancellation: {"appointment_cancellation_email.html", "预约取消通知"},
	domain.MailTypeAppointmentReminder:     {"appointment_reminder_email.html", "就诊提醒"},
}

type Mailer struct {
	from      string
	templates *template.Template
}

func New(from string) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Mailer{
		from:      from,
		templates: tmpl,
	}, nil
}

// Decode 反序列化队列中的消息体
func Decode(body []byte) (domain.MailMessage, error) {
	msg := domain.MailMessage{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, err
	}
	return msg, nil
}

// Build 根据邮件类型选择模板和主题，Data 在反序列化后是 map，模板中使用 JSON 字段名访问
func (m *Mailer) Build(message domain.MailMessage) (*mail.Msg, error) {
	k, ok := kinds[message.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型: %s", message.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	tmpl := m.templates.Lookup(k.template)
	if tmpl == nil {
		return nil, fmt.Errorf("邮件模板 %s 不存在", k.template)
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, message.Data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	msg.Subject(k.subject)

	return msg, nil
}
