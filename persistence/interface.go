// Package persistence is the storage boundary: live tables flushed at
// shutdown, user-saved tables, and accounts. Three implementations
// share the Store interface; which one runs is configuration.
package persistence

import (
	"fmt"

	"github.com/James-Trimble/PlayPalace11/config"
	"github.com/James-Trimble/PlayPalace11/models"
)

// Store is the full persistence surface. Consumers that need less
// declare their own narrower interface.
type Store interface {
	// Live tables, written at shutdown and drained at startup.
	SaveTable(rec models.TableRecord) error
	LoadAllTables() ([]models.TableRecord, error)
	DeleteTable(tableID string) error
	DeleteAllTables() error

	// User-saved tables.
	SaveUserTable(rec models.SavedTableRecord) error
	GetSavedTable(saveID string) (models.SavedTableRecord, error)
	GetUserSavedTables(username string) ([]models.SavedTableRecord, error)
	DeleteSavedTable(saveID string) error

	// Accounts.
	GetUser(username string) (models.UserRecord, error)
	CreateUser(rec models.UserRecord) error
	UpdateUserLocale(username, locale string) error
	UpdateUserPreferences(username, prefs string) error
	TouchUser(username string) error

	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
	ErrUserExists     = fmt.Errorf("user already exists")
)

// New constructs the store named by the database config: "gorm" and
// "sql" talk to PostgreSQL through different stacks, "memory" keeps
// everything in-process for development.
func New(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "gorm":
		return NewGormStore(cfg.Postgres.Host, cfg.Postgres.Port,
			cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	case "sql":
		return NewSQLStore(cfg.Postgres.Host, cfg.Postgres.Port,
			cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
