package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleUser:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to hotel personnel (admin or staff).
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive" // staff accounts
	StatusDisabled AccountStatus = "disabled" // guest accounts
)

type Department string

const (
	DepartmentHousekeeping Department = "housekeeping"
	DepartmentMaintenance  Department = "maintenance"
	DepartmentFrontDesk    Department = "frontdesk"
)

type Shift string

const (
	ShiftDay   Shift = "day"
	ShiftNight Shift = "night"
)

// User is one account row. Admin and staff rows are the hotel's staff members;
// rows with role "user" are guest accounts managed from the dashboard.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:150;not null" json:"email"`
	DisplayName  string `gorm:"size:255" json:"displayName"`
	PasswordHash string `gorm:"size:255" json:"-"` // bcrypt, never serialized

	Role   Role          `gorm:"size:20;index;not null" json:"role"`
	Status AccountStatus `gorm:"size:20;not null;default:active" json:"status"`

	// stored staff permission record; interpreted by the permissions package
	Permissions datatypes.JSONMap `json:"permissions,omitempty"`

	Department  Department `gorm:"size:30" json:"department,omitempty"`
	Shift       Shift      `gorm:"size:10" json:"shift,omitempty"`
	PhoneNumber string     `gorm:"size:50" json:"phoneNumber,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
