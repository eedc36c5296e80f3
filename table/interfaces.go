package table

import (
	"github.com/James-Trimble/PlayPalace11/models"
)

// Store is the slice of the persistence layer the table manager needs.
// Declared on the consumer side so persistence implements it without the
// table package importing a storage backend.
type Store interface {
	SaveTable(rec models.TableRecord) error
	LoadAllTables() ([]models.TableRecord, error)
	DeleteAllTables() error

	SaveUserTable(rec models.SavedTableRecord) error
	GetSavedTable(saveID string) (models.SavedTableRecord, error)
	GetUserSavedTables(username string) ([]models.SavedTableRecord, error)
	DeleteSavedTable(saveID string) error
}
