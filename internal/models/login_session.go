package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginSession is the pending state between a successful password check and
// the TOTP step for accounts with two-factor enabled.
type LoginSession struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time  `gorm:"not null"`
	ExpiresAt      time.Time  `gorm:"not null;index"`
	ConsumedAt     *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
}

func (LoginSession) TableName() string {
	return "login_sessions"
}

func (s *LoginSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
