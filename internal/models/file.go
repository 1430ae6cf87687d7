package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Path      string     `gorm:"type:varchar(512);uniqueIndex;not null" json:"path"`
	Size      int64      `gorm:"type:bigint;not null" json:"size"`
	MimeType  string     `gorm:"type:varchar(100)" json:"mime_type"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	FolderID  *uuid.UUID `gorm:"type:uuid;index" json:"folder_id"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	Owner  *User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Folder *Folder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
}

func (File) TableName() string {
	return "files"
}

// BeforeCreate hook to generate UUID
func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
