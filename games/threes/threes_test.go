package threes

import (
	"strconv"
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

func newHumanWithPrefs(name string, prefs users.Preferences) *users.NetworkUser {
	return users.NewNetworkUser(name, "en", locale.NewCatalog(), prefs)
}

func startedGame(t *testing.T, hosts ...users.User) *Game {
	t.Helper()
	g := New(locale.NewCatalog())
	g.InitializeLobby(hosts[0].Username(), hosts[0])
	for _, u := range hosts[1:] {
		g.JoinLobby(u.Username(), u)
	}
	g.OnStart()
	require.Equal(t, game.StatusPlaying, g.Status)
	return g
}

// rig replaces the current dice faces with known values, all free.
func (g *Game) rig(values ...int) {
	copy(g.Dice.Values, values)
	g.Dice.ClearKept()
}

func TestStart_RollsFiveDiceForFirstPlayer(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))

	require.Len(t, g.Dice.Values, 5)
	for _, v := range g.Dice.Values {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
	assert.Equal(t, 1, g.RollCount)
	assert.True(t, g.IsCurrentPlayer(g.PlayerByName("alice")))
}

func TestRoll_PreservesKeptDice(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	alice := g.PlayerByName("alice")
	g.rig(4, 3, 5, 2, 6)

	g.ExecuteAction(alice, "toggle_die_1")
	g.ExecuteAction(alice, "roll")

	assert.Equal(t, 3, g.Dice.Values[1], "kept die never rerolls")
	assert.True(t, g.Dice.Kept[1])
	assert.Equal(t, 2, g.RollCount)
	assert.Equal(t, 1, g.KeptAtRoll)
}

func TestRoll_RequiresAFreshKeep(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	alice := g.PlayerByName("alice")

	g.ExecuteAction(alice, "roll")
	assert.Equal(t, 1, g.RollCount, "rolling without keeping is refused")

	g.ExecuteAction(alice, "toggle_die_0")
	g.ExecuteAction(alice, "roll")
	assert.Equal(t, 2, g.RollCount)

	// The same kept die does not license a second reroll.
	g.ExecuteAction(alice, "roll")
	assert.Equal(t, 2, g.RollCount)
}

func TestDiceKey_TogglesByPositionByDefault(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	alice := g.PlayerByName("alice")
	g.rig(4, 3, 5, 2, 6)

	g.ExecuteAction(alice, "dice_key_2")
	assert.True(t, g.Dice.Kept[1])

	g.ExecuteAction(alice, "dice_key_2")
	assert.False(t, g.Dice.Kept[1])

	// Key 6 has no fifth-plus die to toggle in this style.
	g.ExecuteAction(alice, "dice_key_6")
	for _, k := range g.Dice.Kept {
		assert.False(t, k)
	}
}

func TestDiceKey_KeepsByValueInQuentinStyle(t *testing.T) {
	prefs := users.DefaultPreferences()
	prefs.DiceKeepingStyle = users.DiceKeepingQuentinC
	g := startedGame(t, newHumanWithPrefs("alice", prefs), newHuman("bob"))
	alice := g.PlayerByName("alice")
	g.rig(4, 3, 5, 2, 6)

	g.ExecuteAction(alice, "dice_key_5")
	assert.True(t, g.Dice.Kept[2], "the die showing 5 is kept")

	g.ExecuteAction(alice, "dice_unkeep_5")
	assert.False(t, g.Dice.Kept[2])

	// No die shows a 1; the key press is silent.
	g.ExecuteAction(alice, "dice_key_1")
	for _, k := range g.Dice.Kept {
		assert.False(t, k)
	}
}

func TestClearKeptOnRoll_ResetsSelectionEachRoll(t *testing.T) {
	prefs := users.DefaultPreferences()
	prefs.ClearKeptOnRoll = true
	g := startedGame(t, newHumanWithPrefs("alice", prefs), newHuman("bob"))
	alice := g.PlayerByName("alice")
	g.rig(4, 3, 5, 2, 6)

	g.ExecuteAction(alice, "toggle_die_1")
	g.ExecuteAction(alice, "roll")

	assert.Equal(t, 3, g.Dice.Values[1], "the keep applied to the roll itself")
	for _, k := range g.Dice.Kept {
		assert.False(t, k, "selections reset after the roll")
	}
	assert.Zero(t, g.KeptAtRoll)
}

func TestStand_ThreesScoreZero(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	alice := g.PlayerByName("alice")
	bob := g.PlayerByName("bob")
	g.rig(3, 3, 4, 5, 1)

	g.ExecuteAction(alice, "stand")

	assert.Equal(t, 10, g.Scores[alice.ID])
	assert.True(t, g.IsCurrentPlayer(bob))
	assert.Equal(t, 1, g.RollCount, "the next player got a fresh first roll")
}

func TestStand_OutOfTurnRejected(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	bob := g.PlayerByName("bob")

	g.ExecuteAction(bob, "stand")
	assert.Zero(t, g.Scores[bob.ID])
	assert.True(t, g.IsCurrentPlayer(g.PlayerByName("alice")))
}

func TestFifthRoll_ScoresAutomatically(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	alice := g.PlayerByName("alice")

	for i := 0; i < 4; i++ {
		require.True(t, g.IsCurrentPlayer(alice))
		g.ExecuteAction(alice, "toggle_die_"+strconv.Itoa(i))
		g.ExecuteAction(alice, "roll")
	}

	// Roll five happened; the turn scored itself and moved on.
	assert.True(t, g.IsCurrentPlayer(g.PlayerByName("bob")))
	assert.Contains(t, g.Scores, alice.ID)
}

func TestGame_LowestTotalWinsAfterAllRounds(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	alice := g.PlayerByName("alice")
	bob := g.PlayerByName("bob")

	for round := 0; round < totalRounds; round++ {
		g.rig(3, 3, 3, 3, 3)
		g.ExecuteAction(alice, "stand")
		g.rig(6, 6, 6, 6, 6)
		g.ExecuteAction(bob, "stand")
	}

	assert.Equal(t, game.StatusFinished, g.Status)
	assert.Zero(t, g.Scores[alice.ID])
	assert.Equal(t, 3*30, g.Scores[bob.ID])
}

func TestBots_PlayToCompletion(t *testing.T) {
	g := New(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	host := g.PlayerByName("alice")
	g.HandleEvent(host, game.Event{Type: game.EventMenu, SelectionID: "add_bot"})
	g.OnStart()

	alice := g.PlayerByName("alice")
	for i := 0; i < 200000 && g.Status == game.StatusPlaying; i++ {
		if g.IsCurrentPlayer(alice) {
			g.ExecuteAction(alice, "stand")
			continue
		}
		g.OnTick()
	}
	assert.Equal(t, game.StatusFinished, g.Status)
}

func TestBotThink_KeepsLowDiceThenRollsThenStands(t *testing.T) {
	g := New(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	host := g.PlayerByName("alice")
	g.HandleEvent(host, game.Event{Type: game.EventMenu, SelectionID: "add_bot"})
	g.OnStart()

	g.ExecuteAction(host, "stand")
	bot := g.CurrentPlayer()
	require.True(t, bot.IsBot)

	g.rig(3, 6, 1, 5, 4)
	assert.Equal(t, "toggle_die_0", g.BotThink(bot))
	g.Dice.Toggle(0)
	assert.Equal(t, "toggle_die_2", g.BotThink(bot))
	g.Dice.Toggle(2)

	// Two fresh keeps license a reroll.
	assert.Equal(t, "roll", g.BotThink(bot))

	// Nothing new kept and only high dice free: the bot stands.
	g.KeptAtRoll = 2
	assert.Equal(t, "stand", g.BotThink(bot))
}

func TestSerialization_MidTurnRoundTrip(t *testing.T) {
	g := startedGame(t, newHuman("alice"), newHuman("bob"))
	alice := g.PlayerByName("alice")
	g.rig(4, 3, 5, 2, 6)
	g.ExecuteAction(alice, "toggle_die_1")
	g.ExecuteAction(alice, "roll")
	g.Scores[alice.ID] = 7

	blob, err := g.MarshalState()
	require.NoError(t, err)

	restored := New(locale.NewCatalog())
	require.NoError(t, restored.UnmarshalState(blob))
	restored.RebuildRuntime()

	assert.Equal(t, g.Dice.Values, restored.Dice.Values)
	assert.Equal(t, g.Dice.Kept, restored.Dice.Kept)
	assert.Equal(t, 2, restored.RollCount)
	assert.Equal(t, 1, restored.KeptAtRoll)
	assert.Equal(t, g.Scores, restored.Scores)

	// The restored game keeps dispatching.
	restoredAlice := restored.PlayerByName("alice")
	restored.ExecuteAction(restoredAlice, "stand")
	assert.False(t, restored.IsCurrentPlayer(restoredAlice))
}
