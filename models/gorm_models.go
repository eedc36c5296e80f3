package models

import (
	"gorm.io/gorm"
)

// GormTable mirrors TableRecord for the gorm backend.
type GormTable struct {
	gorm.Model
	TableID   string `gorm:"uniqueIndex;not null"`
	GameType  string `gorm:"not null"`
	GameState string `gorm:"type:jsonb;not null"`
}

// GormSavedTable mirrors SavedTableRecord.
type GormSavedTable struct {
	gorm.Model
	SaveID      string `gorm:"uniqueIndex;not null"`
	Username    string `gorm:"index;not null"`
	GameType    string `gorm:"not null"`
	GameName    string
	GameState   string `gorm:"type:jsonb;not null"`
	PlayerNames string `gorm:"type:jsonb"`
}

// GormUser mirrors UserRecord.
type GormUser struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Locale       string `gorm:"default:en"`
	Preferences  string `gorm:"type:jsonb"`
	LastSeenAt   int64  `gorm:"default:0"`
}
