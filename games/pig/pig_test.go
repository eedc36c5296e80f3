package pig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/locale"
	"github.com/James-Trimble/PlayPalace11/users"
)

func newHuman(name string) *users.NetworkUser {
	return users.NewNetworkUser(name, "en", locale.NewCatalog(), users.DefaultPreferences())
}

func startedGame(t *testing.T, names ...string) *Game {
	t.Helper()
	g := New(locale.NewCatalog())
	g.InitializeLobby(names[0], newHuman(names[0]))
	g.SetupLobby()
	for _, name := range names[1:] {
		g.JoinLobby(name, newHuman(name))
	}
	g.OnStart()
	require.Equal(t, game.StatusPlaying, g.Status)
	return g
}

func TestRoll_BuildsTurnPointsOrBusts(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	alice := g.PlayerByName("alice")

	g.ExecuteAction(alice, "roll")

	if g.IsCurrentPlayer(alice) {
		// Rolled 2-6: points accumulate and the turn continues.
		assert.GreaterOrEqual(t, g.TurnPoints, 2)
	} else {
		// Rolled a 1: turn points gone, next player up.
		assert.Zero(t, g.TurnPoints)
	}
}

func TestRoll_EventuallyBusts(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	busted := false
	for i := 0; i < 10000 && !busted; i++ {
		current := g.CurrentPlayer()
		points := g.TurnPoints
		g.ExecuteAction(current, "roll")
		if !g.IsCurrentPlayer(current) {
			busted = true
			assert.Zero(t, g.TurnPoints)
			_ = points
		}
	}
	assert.True(t, busted, "10000 rolls without a single 1")
}

func TestHold_BanksPointsAndAdvances(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	alice := g.PlayerByName("alice")
	bob := g.PlayerByName("bob")

	g.TurnPoints = 15
	g.ExecuteAction(alice, "hold")

	assert.Equal(t, 15, g.Scores[alice.ID])
	assert.Zero(t, g.TurnPoints)
	assert.True(t, g.IsCurrentPlayer(bob))
}

func TestHold_ReachingTargetWins(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	alice := g.PlayerByName("alice")

	g.Scores[alice.ID] = 95
	g.TurnPoints = 10
	g.ExecuteAction(alice, "hold")

	assert.Equal(t, game.StatusFinished, g.Status)
	assert.Equal(t, 105, g.Scores[alice.ID])
}

func TestRoll_OutOfTurnRejected(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	bob := g.PlayerByName("bob")

	g.ExecuteAction(bob, "roll")
	assert.Zero(t, g.TurnPoints)
	assert.True(t, g.IsCurrentPlayer(g.PlayerByName("alice")))
}

func TestChangeTarget_HostEditboxFlow(t *testing.T) {
	g := New(locale.NewCatalog())
	aliceUser := newHuman("alice")
	g.InitializeLobby("alice", aliceUser)
	g.SetupLobby()
	host := g.PlayerByName("alice")

	// The editbox renders first; the submitted value lands in the handler.
	g.ExecuteAction(host, "change_target")
	require.NotNil(t, host.Pending)
	g.HandleEvent(host, game.Event{Type: game.EventEditbox, ID: "action_input", Value: "50"})
	assert.Equal(t, 50, g.TargetScore)

	// Garbage and out-of-range values leave the target alone.
	g.ExecuteAction(host, "change_target")
	g.HandleEvent(host, game.Event{Type: game.EventEditbox, ID: "action_input", Value: "banana"})
	assert.Equal(t, 50, g.TargetScore)

	g.ExecuteAction(host, "change_target")
	g.HandleEvent(host, game.Event{Type: game.EventEditbox, ID: "action_input", Value: "9999"})
	assert.Equal(t, 50, g.TargetScore)
}

func TestChangeTarget_LockedOnceStarted(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	host := g.PlayerByName("alice")

	g.actionChangeTarget(host, "50", "change_target")
	assert.Equal(t, defaultTarget, g.TargetScore)
}

func TestBots_PlayToCompletion(t *testing.T) {
	g := New(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	g.SetupLobby()
	host := g.PlayerByName("alice")
	g.HandleEvent(host, game.Event{Type: game.EventMenu, SelectionID: "add_bot"})
	g.TargetScore = 30 // keep the test quick
	g.OnStart()

	alice := g.PlayerByName("alice")
	for i := 0; i < 200000 && g.Status == game.StatusPlaying; i++ {
		if g.IsCurrentPlayer(alice) {
			if g.TurnPoints >= botHoldAt {
				g.ExecuteAction(alice, "hold")
			} else {
				g.ExecuteAction(alice, "roll")
			}
			continue
		}
		g.OnTick()
	}
	assert.Equal(t, game.StatusFinished, g.Status)
}

func TestSerialization_MidGameRoundTrip(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	alice := g.PlayerByName("alice")
	g.TurnPoints = 12
	g.Scores[alice.ID] = 40
	g.TargetScore = 75

	blob, err := g.MarshalState()
	require.NoError(t, err)

	restored := New(locale.NewCatalog())
	require.NoError(t, restored.UnmarshalState(blob))
	restored.RebuildRuntime()

	assert.Equal(t, 12, restored.TurnPoints)
	assert.Equal(t, 75, restored.TargetScore)
	assert.Equal(t, g.Scores, restored.Scores)
	assert.Equal(t, g.TurnPlayerIDs, restored.TurnPlayerIDs)

	// The restored game still dispatches actions.
	restoredAlice := restored.PlayerByName("alice")
	restored.TurnPoints = 5
	restored.ExecuteAction(restoredAlice, "hold")
	assert.Equal(t, 45, restored.Scores[restoredAlice.ID])
}
