package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-Trimble/PlayPalace11/locale"
)

func threePlayerGame(t *testing.T) (*countGame, []*Player) {
	t.Helper()
	g := newCountGame(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	g.JoinLobby("bob", newHuman("bob"))
	g.JoinLobby("carol", newHuman("carol"))
	g.OnStart()
	require.Equal(t, StatusPlaying, g.Status)
	// Copy so later in-place removals from g.Players don't shift the
	// caller's view of the original seats.
	players := append([]*Player(nil), g.Players...)
	return g, players
}

func TestAdvance_SkipMovesExtraSeats(t *testing.T) {
	g, players := threePlayerGame(t)

	assert.Equal(t, players[0].ID, g.CurrentPlayer().ID)

	// skip_count=1 on a 3-player rotation moves two seats, not one.
	g.Advance(1)
	assert.Equal(t, players[2].ID, g.CurrentPlayer().ID)

	g.Advance(0)
	assert.Equal(t, players[0].ID, g.CurrentPlayer().ID)
}

func TestAdvance_CurrentPlayerAlwaysActive(t *testing.T) {
	g, _ := threePlayerGame(t)

	activeIDs := make(map[string]bool)
	for _, p := range g.ActivePlayers() {
		activeIDs[p.ID] = true
	}

	for skip := 0; skip < 5; skip++ {
		g.Advance(skip)
		current := g.CurrentPlayer()
		require.NotNil(t, current)
		assert.True(t, activeIDs[current.ID])
	}
}

func TestReverse_WalksBackwards(t *testing.T) {
	g, players := threePlayerGame(t)

	g.ReverseTurnDirection()
	g.Advance(0)
	assert.Equal(t, players[2].ID, g.CurrentPlayer().ID)
	g.Advance(0)
	assert.Equal(t, players[1].ID, g.CurrentPlayer().ID)
}

func TestReverse_TwoPlayersActsLikeSkip(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	g.JoinLobby("bob", newHuman("bob"))
	g.OnStart()

	alice := g.CurrentPlayer()

	// The documented caller pattern: on two players, pair reverse with a
	// skip so the turn returns to the same player.
	g.ReverseTurnDirection()
	g.SkipNextPlayers(1)
	g.AdvanceTurn()

	assert.Equal(t, alice.ID, g.CurrentPlayer().ID)
}

func TestPendingSkips_ConsumedOnce(t *testing.T) {
	g, players := threePlayerGame(t)

	g.SkipNextPlayers(1)
	g.AdvanceTurn()
	assert.Equal(t, players[2].ID, g.CurrentPlayer().ID)

	// Skips were consumed; the next advance is a plain step.
	g.AdvanceTurn()
	assert.Equal(t, players[0].ID, g.CurrentPlayer().ID)
}

func TestTurnOrder_ExcludesSpectators(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	g.JoinLobby("bob", newHuman("bob"))
	watcher := g.SpectateLobby("sue", newHuman("sue"))
	g.OnStart()

	assert.Len(t, g.TurnPlayerIDs, 2)
	for _, id := range g.TurnPlayerIDs {
		assert.NotEqual(t, watcher.ID, id)
	}
}

func TestRemovePlayer_KeepsTurnPointerValid(t *testing.T) {
	g, players := threePlayerGame(t)

	// Remove the current player; the pointer must land on an active seat.
	g.RemovePlayer(players[0])
	current := g.CurrentPlayer()
	require.NotNil(t, current)
	assert.Len(t, g.TurnPlayerIDs, 2)
	assert.NotEqual(t, players[0].ID, current.ID)

	// Removing a seat behind the pointer shifts the index with it.
	g.AdvanceTurn()
	before := g.CurrentPlayer()
	var other *Player
	for _, p := range g.Players {
		if p.ID != before.ID {
			other = p
		}
	}
	g.RemovePlayer(other)
	require.NotNil(t, g.CurrentPlayer())
	assert.Equal(t, before.ID, g.CurrentPlayer().ID)
}
