package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublicLink struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Token        string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ResourceType ResourceType `gorm:"type:varchar(10);not null;index:idx_link_resource" json:"resource_type"`
	ResourceID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_link_resource" json:"resource_id"`
	ExpiresAt    *time.Time   `gorm:"type:timestamp with time zone" json:"expires_at"`
	CreatedBy    uuid.UUID    `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt    time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PublicLink) TableName() string {
	return "link_shares"
}

// BeforeCreate hook to generate UUID and token
func (l *PublicLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Token == "" {
		l.Token = GenerateSecureToken(48)
	}
	return nil
}

// IsResolvable reports whether the link is still usable at the given instant.
func (l *PublicLink) IsResolvable(now time.Time) bool {
	return l.ExpiresAt == nil || l.ExpiresAt.After(now)
}
