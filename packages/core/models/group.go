package models

import (
	"time"

	"gorm.io/gorm"
)

type Group struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupName     string         `gorm:"size:255;not null" json:"group_name"`
	TotalMatch    int            `gorm:"not null;default:1" json:"total_match"`
	MatchesPlayed int            `gorm:"not null;default:0" json:"matches_played"`
	MatchTime     *time.Time     `json:"match_time"`
	Status        string         `gorm:"size:20;not null;default:pending" json:"status"` // pending, ongoing, completed
	RoundID       uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"round_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Round Round  `gorm:"foreignKey:RoundID;references:ID" json:"round,omitempty"`
	Teams []Team `gorm:"many2many:group_teams;" json:"teams,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

// CreateGroupsRequest seeds a round's groups. TotalMatch defaults to the
// round's matches_per_group when omitted.
type CreateGroupsRequest struct {
	TotalMatch int    `json:"total_match,omitempty" binding:"omitempty,min=1"`
	MatchTime  string `json:"match_time,omitempty"` // RFC 3339
}

type UpdateGroupRequest struct {
	GroupName  *string `json:"group_name,omitempty"`
	TotalMatch *int    `json:"total_match,omitempty" binding:"omitempty,min=1"`
	MatchTime  *string `json:"match_time,omitempty"`
	Status     *string `json:"status,omitempty" binding:"omitempty,oneof=pending ongoing completed"`
}

// PaginatedGroupsResponse carries the page plus the metadata the clients
// cache alongside it
type PaginatedGroupsResponse struct {
	Data        []Group `json:"data"`
	TotalGroups int64   `json:"totalGroups"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
}
