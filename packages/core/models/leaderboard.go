package models

import (
	"time"

	"gorm.io/gorm"
)

// Leaderboard is 1:1 with a group; every team seeded into the group gets
// exactly one entry.
type Leaderboard struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID   uint           `gorm:"not null;uniqueIndex;constraint:OnDelete:CASCADE" json:"group_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Group   Group              `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
	Entries []LeaderboardEntry `gorm:"foreignKey:LeaderboardID" json:"entries,omitempty"`
}

func (Leaderboard) TableName() string {
	return "leaderboards"
}

type LeaderboardEntry struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	LeaderboardID uint           `gorm:"not null;index;uniqueIndex:idx_leaderboard_team;constraint:OnDelete:CASCADE" json:"leaderboard_id"`
	TeamID        uint           `gorm:"not null;uniqueIndex:idx_leaderboard_team" json:"team_id"`
	Score         int            `gorm:"default:0" json:"score"`
	Kills         int            `gorm:"default:0" json:"kills"`
	Wins          int            `gorm:"default:0" json:"wins"`
	TotalPoints   int            `gorm:"default:0" json:"total_points"`
	Position      int            `gorm:"default:0" json:"position"`
	MatchesPlayed int            `gorm:"default:0" json:"matches_played"`
	IsQualified   bool           `gorm:"default:false" json:"is_qualified"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;references:ID" json:"team,omitempty"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

// DTOs

type TeamScoreRequest struct {
	Score int `json:"score" binding:"min=0"`
	Kills int `json:"kills" binding:"min=0"`
	Wins  int `json:"wins" binding:"min=0"`
}

type TeamResult struct {
	TeamID uint `json:"team_id" binding:"required"`
	Score  int  `json:"score" binding:"min=0"`
	Kills  int  `json:"kills" binding:"min=0"`
	Wins   int  `json:"wins" binding:"min=0"`
}

type GroupResultsRequest struct {
	Results []TeamResult `json:"results" binding:"required,min=1,dive"`
}

// GroupResultsResponse returns the refreshed leaderboard together with the
// updated owning group so callers can patch both caches
type GroupResultsResponse struct {
	Leaderboard Leaderboard `json:"leaderboard"`
	Group       Group       `json:"group"`
}
