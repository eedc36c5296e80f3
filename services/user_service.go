// Package services holds account logic between the server and the
// store.
package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/James-Trimble/PlayPalace11/models"
	"github.com/James-Trimble/PlayPalace11/persistence"
	"github.com/James-Trimble/PlayPalace11/users"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
)

// UserService handles authentication and account settings. Accounts
// register on first login: an unknown username with any password
// becomes a new account.
type UserService struct {
	store persistence.Store
}

func NewUserService(store persistence.Store) *UserService {
	return &UserService{store: store}
}

// Authenticate verifies or creates the account. Returns the record and
// whether it was newly created.
func (s *UserService) Authenticate(username, password string) (models.UserRecord, bool, error) {
	if username == "" || password == "" {
		return models.UserRecord{}, false, ErrBadCredentials
	}

	rec, err := s.store.GetUser(username)
	if errors.Is(err, persistence.ErrRecordNotFound) {
		return s.register(username, password)
	}
	if err != nil {
		return models.UserRecord{}, false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return models.UserRecord{}, false, ErrBadCredentials
	}
	if err := s.store.TouchUser(username); err != nil {
		return models.UserRecord{}, false, err
	}
	return rec, false, nil
}

func (s *UserService) register(username, password string) (models.UserRecord, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.UserRecord{}, false, err
	}
	rec := models.UserRecord{
		Username:     username,
		PasswordHash: string(hash),
		Locale:       "en",
		Preferences:  users.DefaultPreferences().Encode(),
	}
	if err := s.store.CreateUser(rec); err != nil {
		if errors.Is(err, persistence.ErrUserExists) {
			// Lost a race with a concurrent first login.
			return models.UserRecord{}, false, ErrBadCredentials
		}
		return models.UserRecord{}, false, fmt.Errorf("create user: %w", err)
	}
	return rec, true, nil
}

// SetLocale persists the user's language.
func (s *UserService) SetLocale(username, locale string) error {
	return s.store.UpdateUserLocale(username, locale)
}

// SetPreferences persists the encoded preference set.
func (s *UserService) SetPreferences(username string, prefs users.Preferences) error {
	return s.store.UpdateUserPreferences(username, prefs.Encode())
}
