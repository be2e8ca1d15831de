package domain

import "time"

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// OccupiesTime 只有尚未结束的预约才会占用时间段
func (s AppointmentStatus) OccupiesTime() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	default:
		return false
	}
}

type Appointment struct {
	ID             int64             `json:"id"`
	ClinicID       int64             `json:"clinicID"`
	ProfessionalID int64             `json:"professionalID"`
	PatientName    string            `json:"patientName"`
	PatientEmail   string            `json:"patientEmail"`
	PatientPhone   string            `json:"patientPhone"`
	Title          string            `json:"title"`
	Notes          string            `json:"notes"`
	StartTime      time.Time         `json:"startTime"`
	EndTime        time.Time         `json:"endTime"`
	Status         AppointmentStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	Version        int32             `json:"-"`
}

// 预约时长（分钟）只允许以下取值
var AllowedDurations = []int{15, 20, 30, 45, 60, 90, 120}

type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}
