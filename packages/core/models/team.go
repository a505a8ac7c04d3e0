package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamName  string         `gorm:"size:255;not null" json:"team_name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	TeamLogo  string         `gorm:"size:512" json:"team_logo,omitempty"`
	OwnerID   uint           `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Team) TableName() string {
	return "teams"
}

type CreateTeamRequest struct {
	TeamName string `json:"team_name" binding:"required"`
	TeamLogo string `json:"team_logo,omitempty"`
}

type UpdateTeamRequest struct {
	TeamName *string `json:"team_name,omitempty"`
	TeamLogo *string `json:"team_logo,omitempty"`
}

type PaginatedTeamsResponse struct {
	Data       []Team `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}
