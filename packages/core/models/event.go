package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID                 uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title              string         `gorm:"size:255;not null" json:"title"`
	Slug               string         `gorm:"size:255;unique;not null" json:"slug"`
	Game               string         `gorm:"size:100;not null" json:"game"`
	Type               string         `gorm:"size:20;not null;default:tournament" json:"type"`                 // tournament, scrims
	Category           string         `gorm:"size:20;not null;default:squad" json:"category"`                  // solo, duo, squad
	Status             string         `gorm:"size:30;not null;default:registration-open" json:"status"`        // registration-open, registration-closed, live, completed
	RegistrationMode   string         `gorm:"size:20;not null;default:open" json:"registration_mode"`          // open, invite-only
	Description        string         `gorm:"type:text" json:"description"`
	CoverImage         string         `gorm:"size:512" json:"cover_image"`
	PrizePool          string         `gorm:"size:255" json:"prize_pool"`
	MaxSlots           int            `gorm:"not null;default:0" json:"max_slots"`
	JoinedSlots        int            `gorm:"not null;default:0" json:"joined_slots"`
	StartDate          *time.Time     `json:"start_date"`
	RegistrationEndsAt *time.Time     `json:"registration_ends_at"`
	OrgID              uint           `gorm:"not null;index" json:"org_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization  Organization        `gorm:"foreignKey:OrgID;references:ID" json:"organization,omitempty"`
	Rounds        []Round             `gorm:"foreignKey:EventID" json:"rounds,omitempty"`
	Registrations []EventRegistration `gorm:"foreignKey:EventID" json:"registrations,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// DTOs — event create/update come in as multipart form data because of the
// cover image upload

type CreateEventRequest struct {
	Title              string `form:"title" binding:"required"`
	Game               string `form:"game" binding:"required"`
	Type               string `form:"type" binding:"required,oneof=tournament scrims"`
	Category           string `form:"category" binding:"required,oneof=solo duo squad"`
	RegistrationMode   string `form:"registrationMode" binding:"omitempty,oneof=open invite-only"`
	Description        string `form:"description"`
	PrizePool          string `form:"prizePool"`
	MaxSlots           int    `form:"maxSlots" binding:"required,min=2"`
	StartDate          string `form:"startDate"`          // RFC 3339
	RegistrationEndsAt string `form:"registrationEndsAt"` // RFC 3339
}

type UpdateEventRequest struct {
	Title              *string `form:"title"`
	Game               *string `form:"game"`
	Description        *string `form:"description"`
	PrizePool          *string `form:"prizePool"`
	MaxSlots           *int    `form:"maxSlots" binding:"omitempty,min=2"`
	StartDate          *string `form:"startDate"`
	RegistrationEndsAt *string `form:"registrationEndsAt"`
}

type RegisterEventRequest struct {
	TeamID uint `json:"team_id" binding:"required"`
}

// Responses

// EventListResponse is the cursor page returned by the event listing
type EventListResponse struct {
	Data       []Event `json:"data"`
	NextCursor uint    `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

type RegistrationStatusResponse struct {
	Registered bool   `json:"registered"`
	Status     string `json:"status"` // approved, pending, none
}
