package models

import (
	"time"

	"gorm.io/gorm"
)

// Registration statuses
const (
	RegistrationApproved = "approved"
	RegistrationPending  = "pending"
	RegistrationNone     = "none"
)

// EventRegistration links a team to an event. Invite-only events create
// pending registrations that an organizer approves; open events approve
// immediately.
type EventRegistration struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"event_id"`
	TeamID    uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"team_id"`
	Status    string         `gorm:"size:20;not null;default:pending" json:"status"` // approved, pending
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID;references:ID" json:"event,omitempty"`
	Team  Team  `gorm:"foreignKey:TeamID;references:ID" json:"team,omitempty"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

type RegisteredTeamItem struct {
	ID     uint   `json:"id"`
	TeamID uint   `json:"team_id"`
	Status string `json:"status"`
	Team   Team   `json:"team"`
}

type PaginatedRegistrationsResponse struct {
	Data       []RegisteredTeamItem `json:"data"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}
