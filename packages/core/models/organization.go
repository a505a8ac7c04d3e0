package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Logo      string         `gorm:"size:512" json:"logo"`
	About     string         `gorm:"type:text" json:"about"`
	OwnerID   uint           `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Events []Event `gorm:"foreignKey:OrgID" json:"events,omitempty"`
}

func (Organization) TableName() string {
	return "organizations"
}

type CreateOrganizationRequest struct {
	Name  string `json:"name" binding:"required"`
	About string `json:"about,omitempty"`
	Logo  string `json:"logo,omitempty"`
}

type UpdateOrganizationRequest struct {
	Name  *string `json:"name,omitempty"`
	About *string `json:"about,omitempty"`
	Logo  *string `json:"logo,omitempty"`
}
