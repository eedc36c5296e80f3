// Package models holds the storage-facing record types shared by the
// persistence implementations and their consumers.
package models

import (
	"time"
)

// TableRecord is a live table flushed to storage at shutdown and loaded
// back on the next boot. GameState is the game's opaque JSON blob.
type TableRecord struct {
	TableID   string    `json:"table_id"`
	GameType  string    `json:"game_type"`
	GameState string    `json:"game_state"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedTableRecord is a table a user chose to save for later. Restoring
// requires every listed human to be online.
type SavedTableRecord struct {
	SaveID      string    `json:"save_id"`
	Username    string    `json:"username"`
	GameType    string    `json:"game_type"`
	GameName    string    `json:"game_name"`
	GameState   string    `json:"game_state"`
	PlayerNames []string  `json:"player_names"`
	SavedAt     time.Time `json:"saved_at"`
}

// UserRecord is an account. Preferences is the encoded preference set;
// the users package owns its shape.
type UserRecord struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Locale       string    `json:"locale"`
	Preferences  string    `json:"preferences"`
	CreatedAt    time.Time `json:"created_at"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}
