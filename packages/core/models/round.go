package models

import (
	"time"

	"gorm.io/gorm"
)

type Round struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RoundName       string         `gorm:"size:255;not null" json:"round_name"`
	RoundNumber     int            `gorm:"not null" json:"round_number"`
	Status          string         `gorm:"size:20;not null;default:pending" json:"status"` // pending, ongoing, completed
	EventID         uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"event_id"`
	StartTime       *time.Time     `json:"start_time"`
	GapMinutes      int            `gorm:"default:0" json:"gap_minutes"`
	MatchesPerGroup int            `gorm:"default:1" json:"matches_per_group"`
	QualifyingTeams int            `gorm:"default:0" json:"qualifying_teams"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Event  Event   `gorm:"foreignKey:EventID;references:ID" json:"event,omitempty"`
	Groups []Group `gorm:"foreignKey:RoundID" json:"groups,omitempty"`
}

func (Round) TableName() string {
	return "rounds"
}

type CreateRoundRequest struct {
	RoundName       string `json:"round_name" binding:"required"`
	StartTime       string `json:"start_time,omitempty"` // RFC 3339
	GapMinutes      int    `json:"gap_minutes,omitempty"`
	MatchesPerGroup int    `json:"matches_per_group,omitempty" binding:"omitempty,min=1"`
	QualifyingTeams int    `json:"qualifying_teams,omitempty" binding:"omitempty,min=1"`
}

type UpdateRoundStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending ongoing completed"`
}
