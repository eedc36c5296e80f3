package persistence

import (
	"sync"
	"time"

	"github.com/James-Trimble/PlayPalace11/models"
)

// MemoryStore keeps everything in process memory. Used by tests and by
// the "memory" driver for running without a database; nothing survives
// a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]models.TableRecord
	saved  map[string]models.SavedTableRecord
	users  map[string]models.UserRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]models.TableRecord),
		saved:  make(map[string]models.SavedTableRecord),
		users:  make(map[string]models.UserRecord),
	}
}

func (s *MemoryStore) SaveTable(rec models.TableRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[rec.TableID] = rec
	return nil
}

func (s *MemoryStore) LoadAllTables() ([]models.TableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TableRecord, 0, len(s.tables))
	for _, rec := range s.tables {
		out = append(out, rec)
	}
	return out, nil
}

func (s *MemoryStore) DeleteTable(tableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, tableID)
	return nil
}

func (s *MemoryStore) DeleteAllTables() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]models.TableRecord)
	return nil
}

func (s *MemoryStore) SaveUserTable(rec models.SavedTableRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[rec.SaveID] = rec
	return nil
}

func (s *MemoryStore) GetSavedTable(saveID string) (models.SavedTableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.saved[saveID]
	if !ok {
		return models.SavedTableRecord{}, ErrRecordNotFound
	}
	return rec, nil
}

func (s *MemoryStore) GetUserSavedTables(username string) ([]models.SavedTableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SavedTableRecord
	for _, rec := range s.saved {
		if rec.Username == username {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteSavedTable(saveID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, saveID)
	return nil
}

func (s *MemoryStore) GetUser(username string) (models.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[username]
	if !ok {
		return models.UserRecord{}, ErrRecordNotFound
	}
	return rec, nil
}

func (s *MemoryStore) CreateUser(rec models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[rec.Username]; exists {
		return ErrUserExists
	}
	s.users[rec.Username] = rec
	return nil
}

func (s *MemoryStore) UpdateUserLocale(username, locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[username]
	if !ok {
		return ErrRecordNotFound
	}
	rec.Locale = locale
	s.users[username] = rec
	return nil
}

func (s *MemoryStore) UpdateUserPreferences(username, prefs string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[username]
	if !ok {
		return ErrRecordNotFound
	}
	rec.Preferences = prefs
	s.users[username] = rec
	return nil
}

func (s *MemoryStore) TouchUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[username]
	if !ok {
		return ErrRecordNotFound
	}
	rec.LastSeenAt = time.Now()
	s.users[username] = rec
	return nil
}

func (s *MemoryStore) Close() error { return nil }
