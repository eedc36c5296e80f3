package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-Trimble/PlayPalace11/models"
)

func TestMemoryStore_TableLifecycle(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.SaveTable(models.TableRecord{TableID: "t1", GameType: "pig", GameState: "{}"}))
	require.NoError(t, s.SaveTable(models.TableRecord{TableID: "t2", GameType: "crazyeights", GameState: "{}"}))

	recs, err := s.LoadAllTables()
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	require.NoError(t, s.DeleteTable("t1"))
	recs, _ = s.LoadAllTables()
	assert.Len(t, recs, 1)

	require.NoError(t, s.DeleteAllTables())
	recs, _ = s.LoadAllTables()
	assert.Empty(t, recs)
}

func TestMemoryStore_SavedTables(t *testing.T) {
	s := NewMemoryStore()

	rec := models.SavedTableRecord{
		SaveID:      "s1",
		Username:    "alice",
		GameType:    "pig",
		GameState:   "{}",
		PlayerNames: []string{"alice", "bob"},
	}
	require.NoError(t, s.SaveUserTable(rec))

	got, err := s.GetSavedTable("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, got.PlayerNames)

	mine, err := s.GetUserSavedTables("alice")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	none, err := s.GetUserSavedTables("bob")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.DeleteSavedTable("s1"))
	_, err = s.GetSavedTable("s1")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryStore_Users(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetUser("alice")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	require.NoError(t, s.CreateUser(models.UserRecord{Username: "alice", PasswordHash: "x", Locale: "en"}))
	assert.ErrorIs(t, s.CreateUser(models.UserRecord{Username: "alice"}), ErrUserExists)

	require.NoError(t, s.UpdateUserLocale("alice", "de"))
	require.NoError(t, s.UpdateUserPreferences("alice", `{"play_turn_sound":false}`))

	got, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, "de", got.Locale)
	assert.Contains(t, got.Preferences, "play_turn_sound")
}
