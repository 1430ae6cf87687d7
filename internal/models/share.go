package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShareRole string

const (
	ShareRoleViewer ShareRole = "viewer"
	ShareRoleEditor ShareRole = "editor"
)

func (r ShareRole) IsValid() bool {
	return r == ShareRoleViewer || r == ShareRoleEditor
}

type Share struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	ResourceType ResourceType `gorm:"type:varchar(10);not null;uniqueIndex:idx_share_target" json:"resource_type"`
	ResourceID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_share_target" json:"resource_id"`
	TargetUserID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_share_target" json:"target_user_id"`
	Role         ShareRole    `gorm:"type:varchar(10);not null" json:"role"`
	CreatedBy    uuid.UUID    `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt    time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	TargetUser *User `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
	Granter    *User `gorm:"foreignKey:CreatedBy" json:"granter,omitempty"`
}

func (Share) TableName() string {
	return "shares"
}

// BeforeCreate hook to generate UUID
func (s *Share) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
