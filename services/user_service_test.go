package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-Trimble/PlayPalace11/persistence"
	"github.com/James-Trimble/PlayPalace11/users"
)

func TestAuthenticate_RegistersOnFirstLogin(t *testing.T) {
	svc := NewUserService(persistence.NewMemoryStore())

	rec, created, err := svc.Authenticate("alice", "hunter2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "en", rec.Locale)
	assert.NotEqual(t, "hunter2", rec.PasswordHash)

	// Second login with the same password succeeds as an existing user.
	_, created, err = svc.Authenticate("alice", "hunter2")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAuthenticate_RejectsWrongPassword(t *testing.T) {
	svc := NewUserService(persistence.NewMemoryStore())
	_, _, err := svc.Authenticate("alice", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticate_RejectsEmptyCredentials(t *testing.T) {
	svc := NewUserService(persistence.NewMemoryStore())
	_, _, err := svc.Authenticate("", "x")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = svc.Authenticate("alice", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestSettingsRoundTrip(t *testing.T) {
	store := persistence.NewMemoryStore()
	svc := NewUserService(store)
	_, _, err := svc.Authenticate("alice", "hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.SetLocale("alice", "de"))
	prefs := users.DefaultPreferences()
	prefs.PlayTurnSound = false
	require.NoError(t, svc.SetPreferences("alice", prefs))

	rec, err := store.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, "de", rec.Locale)
	assert.False(t, users.ParsePreferences(rec.Preferences).PlayTurnSound)
}
