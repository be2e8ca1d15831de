package domain

import "time"

type Professional struct {
	ID         int64     `json:"id"`
	ClinicID   int64     `json:"clinicID"`
	FullName   string    `json:"fullName"`
	Speciality string    `json:"speciality"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}
