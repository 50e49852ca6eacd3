package entity

import (
	"time"
)

type UserRole string

const (
	RoleDriver        UserRole = "driver"
	RolePoliceOfficer UserRole = "police_officer"
	RoleAdmin         UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleDriver, RolePoliceOfficer, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may issue fines and manage disputes.
func (r UserRole) IsStaff() bool {
	return r == RolePoliceOfficer || r == RoleAdmin
}

type User struct {
	ID     string   `json:"id" firestore:"id"`
	Email  string   `json:"email" firestore:"email"`
	Name   string   `json:"name" firestore:"name"`
	Phone  string   `json:"phone,omitempty" firestore:"phone,omitempty"`
	Role   UserRole `json:"role" firestore:"role"`
	Status string   `json:"status" firestore:"status"` // active, suspended

	// Role-specific identifiers
	LicenseNumber string `json:"license_number,omitempty" firestore:"licenseNumber,omitempty"`
	NICNumber     string `json:"nic_number,omitempty" firestore:"nicNumber,omitempty"`
	BadgeNumber   string `json:"badge_number,omitempty" firestore:"badgeNumber,omitempty"`
	Station       string `json:"station,omitempty" firestore:"station,omitempty"`

	Address string `json:"address,omitempty" firestore:"address,omitempty"`
	City    string `json:"city,omitempty" firestore:"city,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsActive() bool {
	return u.Status == "active"
}
