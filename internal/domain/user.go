package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin        Role = "管理员"
	RoleReceptionist Role = "前台"
	RoleDentist      Role = "牙医"
)

type User struct {
	ID           int64     `json:"id"`
	ClinicID     int64     `json:"clinicID"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
