package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/James-Trimble/PlayPalace11/models"
)

// GormStore is the PostgreSQL backend through GORM with auto-migrated
// schemas.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the database, configures the pool, and migrates.
func NewGormStore(host string, port int, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gl := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.GormTable{},
		&models.GormSavedTable{},
		&models.GormUser{},
	); err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) SaveTable(rec models.TableRecord) error {
	var existing models.GormTable
	result := s.db.Where("table_id = ?", rec.TableID).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.GormTable{
			TableID:   rec.TableID,
			GameType:  rec.GameType,
			GameState: rec.GameState,
		}).Error
	}
	if result.Error != nil {
		return result.Error
	}
	existing.GameType = rec.GameType
	existing.GameState = rec.GameState
	return s.db.Save(&existing).Error
}

func (s *GormStore) LoadAllTables() ([]models.TableRecord, error) {
	var rows []models.GormTable
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.TableRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.TableRecord{
			TableID:   row.TableID,
			GameType:  row.GameType,
			GameState: row.GameState,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (s *GormStore) DeleteTable(tableID string) error {
	return s.db.Where("table_id = ?", tableID).Delete(&models.GormTable{}).Error
}

func (s *GormStore) DeleteAllTables() error {
	return s.db.Where("1 = 1").Delete(&models.GormTable{}).Error
}

func (s *GormStore) SaveUserTable(rec models.SavedTableRecord) error {
	names, err := json.Marshal(rec.PlayerNames)
	if err != nil {
		return err
	}
	return s.db.Create(&models.GormSavedTable{
		SaveID:      rec.SaveID,
		Username:    rec.Username,
		GameType:    rec.GameType,
		GameName:    rec.GameName,
		GameState:   rec.GameState,
		PlayerNames: string(names),
	}).Error
}

func (s *GormStore) GetSavedTable(saveID string) (models.SavedTableRecord, error) {
	var row models.GormSavedTable
	if err := s.db.Where("save_id = ?", saveID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SavedTableRecord{}, ErrRecordNotFound
		}
		return models.SavedTableRecord{}, err
	}
	return savedFromGorm(row)
}

func (s *GormStore) GetUserSavedTables(username string) ([]models.SavedTableRecord, error) {
	var rows []models.GormSavedTable
	if err := s.db.Where("username = ?", username).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.SavedTableRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := savedFromGorm(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func savedFromGorm(row models.GormSavedTable) (models.SavedTableRecord, error) {
	var names []string
	if row.PlayerNames != "" {
		if err := json.Unmarshal([]byte(row.PlayerNames), &names); err != nil {
			return models.SavedTableRecord{}, err
		}
	}
	return models.SavedTableRecord{
		SaveID:      row.SaveID,
		Username:    row.Username,
		GameType:    row.GameType,
		GameName:    row.GameName,
		GameState:   row.GameState,
		PlayerNames: names,
		SavedAt:     row.CreatedAt,
	}, nil
}

func (s *GormStore) DeleteSavedTable(saveID string) error {
	return s.db.Where("save_id = ?", saveID).Delete(&models.GormSavedTable{}).Error
}

func (s *GormStore) GetUser(username string) (models.UserRecord, error) {
	var row models.GormUser
	if err := s.db.Where("username = ?", username).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UserRecord{}, ErrRecordNotFound
		}
		return models.UserRecord{}, err
	}
	return models.UserRecord{
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Locale:       row.Locale,
		Preferences:  row.Preferences,
		CreatedAt:    row.CreatedAt,
		LastSeenAt:   time.Unix(row.LastSeenAt, 0),
	}, nil
}

func (s *GormStore) CreateUser(rec models.UserRecord) error {
	var existing models.GormUser
	result := s.db.Where("username = ?", rec.Username).First(&existing)
	if result.Error == nil {
		return ErrUserExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return s.db.Create(&models.GormUser{
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Locale:       rec.Locale,
		Preferences:  rec.Preferences,
		LastSeenAt:   time.Now().Unix(),
	}).Error
}

func (s *GormStore) UpdateUserLocale(username, locale string) error {
	return s.db.Model(&models.GormUser{}).
		Where("username = ?", username).
		Update("locale", locale).Error
}

func (s *GormStore) UpdateUserPreferences(username, prefs string) error {
	return s.db.Model(&models.GormUser{}).
		Where("username = ?", username).
		Update("preferences", prefs).Error
}

func (s *GormStore) TouchUser(username string) error {
	return s.db.Model(&models.GormUser{}).
		Where("username = ?", username).
		Update("last_seen_at", time.Now().Unix()).Error
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
