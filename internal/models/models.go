package models

// This file provides a central import point for all models
// and helper functions for database operations

import (
	"crypto/rand"
	"encoding/hex"
)

// AllModels returns all model types for GORM operations
// Note: Migrations are handled by golang-migrate, not GORM AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Folder{},
		&File{},
		&Share{},
		&PublicLink{},
		&LoginSession{},
	}
}

// GenerateSecureToken generates a secure random token of the given hex
// length. Used for public link tokens.
func GenerateSecureToken(length int) string {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
