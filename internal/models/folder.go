package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Folder struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	Owner  *User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Parent *Folder  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Files  []File   `gorm:"foreignKey:FolderID" json:"-"`
}

func (Folder) TableName() string {
	return "folders"
}

// BeforeCreate hook to generate UUID
func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
