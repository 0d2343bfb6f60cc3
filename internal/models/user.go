package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles as used by the registry. Staff roles (rc_staff, police, admin)
// are allowed to decide claims and manage handovers.
const (
	RoleReporter = "reporter"
	RoleFinder   = "finder"
	RoleRCStaff  = "rc_staff"
	RolePolice   = "police"
	RoleAdmin    = "admin"
)

const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusArchived  = "archived"
)

type User struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	Name                   string    `json:"name" gorm:"size:100;not null"`
	Email                  string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password               string    `json:"-"` // bcrypt hash, never serialized
	AvatarURL              string    `json:"avatar_url,omitempty"`
	Role                   string    `json:"role" gorm:"size:20;not null;index"`
	Status                 string    `json:"status" gorm:"size:20;default:'active';index"`
	CredibilityScore       int       `json:"credibility_score" gorm:"default:80"`
	PhoneNumber            string    `json:"phone_number,omitempty"`
	PreferredContactMethod string    `json:"preferred_contact_method,omitempty" gorm:"size:10"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// IsStaff reports whether the user may perform staff-only registry actions.
func (u *User) IsStaff() bool {
	return u.Role == RoleRCStaff || u.Role == RolePolice || u.Role == RoleAdmin
}

type CreateUserRequest struct {
	Name                   string `json:"name" validate:"required,min=2,max=100"`
	Email                  string `json:"email" validate:"required,email"`
	Password               string `json:"password" validate:"required,min=8"`
	AvatarURL              string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Role                   string `json:"role" validate:"required,oneof=reporter finder rc_staff police admin"`
	PhoneNumber            string `json:"phone_number,omitempty"`
	PreferredContactMethod string `json:"preferred_contact_method,omitempty" validate:"omitempty,oneof=email phone"`
}

type UpdateUserRequest struct {
	Name                   string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email                  string `json:"email,omitempty" validate:"omitempty,email"`
	AvatarURL              string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Role                   string `json:"role,omitempty" validate:"omitempty,oneof=reporter finder rc_staff police admin"`
	Status                 string `json:"status,omitempty" validate:"omitempty,oneof=active suspended archived"`
	PhoneNumber            string `json:"phone_number,omitempty"`
	PreferredContactMethod string `json:"preferred_contact_method,omitempty" validate:"omitempty,oneof=email phone"`
	CredibilityScore       *int   `json:"credibility_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
