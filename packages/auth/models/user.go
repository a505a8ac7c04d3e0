package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Roles []string

// Value implements driver.Valuer so GORM can store roles as jsonb
func (r Roles) Value() (driver.Value, error) {
	if len(r) == 0 {
		return json.Marshal([]string{"user"})
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner so GORM can read roles back
func (r *Roles) Scan(value interface{}) error {
	if value == nil {
		*r = Roles{"user"}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, &r)
}

type User struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	Email               string         `json:"email" gorm:"uniqueIndex;not null"`
	Username            string         `json:"username" gorm:"uniqueIndex"`
	Password            string         `json:"-" gorm:"not null"`
	Slug                string         `json:"slug" gorm:"uniqueIndex"`
	Provider            string         `json:"provider" gorm:"size:20;default:local"` // local, google
	Verified            bool           `json:"verified" gorm:"default:false"`
	Enabled             bool           `json:"enabled" gorm:"default:true"`
	Roles               Roles          `json:"roles" gorm:"type:jsonb;default:'[\"user\"]'"`
	LastLogin           *time.Time     `json:"last_login"`
	OTPCode             *string        `json:"-"`
	OTPRequestedAt      *time.Time     `json:"-"`
	ConfirmationToken   *string        `json:"-"`
	PasswordRequestedAt *time.Time     `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user carries a specific role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole appends a role if the user does not already have it
func (u *User) AddRole(role string) {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
}

// IsOTPExpired reports whether the pending verification code is past its TTL
func (u *User) IsOTPExpired(ttl time.Duration) bool {
	if u.OTPRequestedAt == nil {
		return true
	}
	return time.Since(*u.OTPRequestedAt) > ttl
}

// IsPasswordRequestExpired reports whether the password reset request is stale
func (u *User) IsPasswordRequestExpired(ttlSeconds int) bool {
	if u.PasswordRequestedAt == nil {
		return true
	}
	return time.Since(*u.PasswordRequestedAt).Seconds() > float64(ttlSeconds)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SocialLoginRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirectUri" binding:"required"`
}

type PasswordResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	CallBackUrl string `json:"callBackUrl" binding:"required"`
}

type PasswordResetResponse struct {
	Success bool `json:"success"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type PasswordResetConfirmResponse struct {
	Success bool `json:"success"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type ChangePasswordResponse struct {
	Success bool `json:"success"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
}
