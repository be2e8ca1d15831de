package mailer

import (
	"encoding/json"
	"mime"
	"testing"

	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func decodeFrom(t *testing.T, msg domain.MailMessage) domain.MailMessage {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	decoded, err := Decode(body)
	require.NoError(t, err)
	return decoded
}

func TestBuildAppointmentConfirmation(t *testing.T) {
	m, err := New("noreply@clinic.example.com")
	require.NoError(t, err)

	message := decodeFrom(t, domain.MailMessage{
		Type: domain.MailTypeAppointmentConfirmation,
		To:   "patient@example.com",
		Data: domain.AppointmentMailData{
			ClinicName:       "口腔诊所",
			PatientName:      "王芳",
			ProfessionalName: "李医生",
			Title:            "洗牙",
			Date:             "2025-03-10",
			StartTime:        "09:00",
			EndTime:          "09:30",
		},
	})

	msg, err := m.Build(message)
	require.NoError(t, err)
	subject := msg.GetGenHeader(mail.HeaderSubject)
	require.Len(t, subject, 1)
	// 主题头保存的是编码后的值
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, "预约成功通知", decoded)

	recipients, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"patient@example.com"}, recipients)
}

func TestBuildEveryKnownType(t *testing.T) {
	m, err := New("noreply@clinic.example.com")
	require.NoError(t, err)

	for mailType := range kinds {
		t.Run(mailType, func(t *testing.T) {
			_, err := m.Build(domain.MailMessage{
				Type: mailType,
				To:   "someone@example.com",
				Data: map[string]any{},
			})
			require.NoError(t, err)
		})
	}
}

func TestBuildUnknownType(t *testing.T) {
	m, err := New("noreply@clinic.example.com")
	require.NoError(t, err)

	_, err = m.Build(domain.MailMessage{Type: "newsletter", To: "someone@example.com"})
	assert.Error(t, err)
}

func TestBuildInvalidRecipient(t *testing.T) {
	m, err := New("noreply@clinic.example.com")
	require.NoError(t, err)

	_, err = m.Build(domain.MailMessage{Type: domain.MailTypeResetPassword, To: "not an address"})
	assert.Error(t, err)
}

func TestDecodeInvalidBody(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)
}
