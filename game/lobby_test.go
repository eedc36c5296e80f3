package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-Trimble/PlayPalace11/locale"
)

type fakeHooks struct {
	id        string
	saves     []string
	left      []string
	destroyed int
}

func (h *fakeHooks) TableID() string { return h.id }

func (h *fakeHooks) RequestSave(username string) { h.saves = append(h.saves, username) }

func (h *fakeHooks) RequestDestroy() { h.destroyed++ }

func (h *fakeHooks) PlayerLeft(username string) { h.left = append(h.left, username) }

func TestLobby_StartNeedsMinimumPlayers(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	alice := newHuman("alice")
	host := g.InitializeLobby("alice", alice)

	// One seat, minimum is two: start_game stays disabled and the
	// dispatch path drops it.
	start, _ := host.FindAction("start_game")
	require.NotNil(t, start)
	assert.False(t, start.Enabled)

	g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "start_game"})
	assert.Equal(t, StatusWaiting, g.Status)

	g.JoinLobby("bob", newHuman("bob"))
	start, _ = host.FindAction("start_game")
	assert.True(t, start.Enabled)

	g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "start_game"})
	assert.Equal(t, StatusPlaying, g.Status)
}

func TestLobby_OnlyHostControlsStartAndBots(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	bob := g.JoinLobby("bob", newHuman("bob"))

	start, _ := bob.FindAction("start_game")
	require.NotNil(t, start)
	assert.False(t, start.Enabled)
	addBot, _ := bob.FindAction("add_bot")
	assert.False(t, addBot.Enabled)

	g.HandleEvent(bob, Event{Type: EventMenu, SelectionID: "start_game"})
	assert.Equal(t, StatusWaiting, g.Status)
}

func TestLobby_AddBotRespectsMaxPlayers(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	alice := newHuman("alice")
	host := g.InitializeLobby("alice", alice)

	for i := 0; i < 3; i++ {
		g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "add_bot"})
	}
	require.Len(t, g.Players, 4)

	// At max, add_bot disables; a forced event is dropped.
	addBot, _ := host.FindAction("add_bot")
	assert.False(t, addBot.Enabled)
	g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "add_bot"})
	assert.Len(t, g.Players, 4)

	assert.Equal(t, "Bot 1", g.Players[1].Name)
	assert.Equal(t, "Bot 3", g.Players[3].Name)
}

func TestLeave_RemovePolicyDropsSeat(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	bob := g.JoinLobby("bob", newHuman("bob"))
	g.JoinLobby("carol", newHuman("carol"))
	g.OnStart()
	g.LeavePolicy = LeaveRemove

	g.HandleEvent(bob, Event{Type: EventMenu, SelectionID: "leave_table"})

	assert.Nil(t, g.PlayerByName("bob"))
	assert.Len(t, g.TurnPlayerIDs, 2)
}

func TestLeave_SubstituteBotPolicyKeepsSeat(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	bob := g.JoinLobby("bob", newHuman("bob"))
	g.JoinLobby("carol", newHuman("carol"))
	g.OnStart()
	g.LeavePolicy = LeaveSubstituteBot

	g.HandleEvent(bob, Event{Type: EventMenu, SelectionID: "leave_table"})

	seat := g.PlayerByName("bob")
	require.NotNil(t, seat)
	assert.True(t, seat.IsBot)
	assert.Len(t, g.TurnPlayerIDs, 3)
	assert.Greater(t, seat.ThinkTicks, 0)
}

func TestLeave_SpectatorIsRemovedNotSubstituted(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	g.InitializeLobby("alice", newHuman("alice"))
	g.JoinLobby("bob", newHuman("bob"))
	sue := g.SpectateLobby("sue", newHuman("sue"))
	g.OnStart()
	g.LeavePolicy = LeaveSubstituteBot

	g.HandleEvent(sue, Event{Type: EventMenu, SelectionID: "leave_table"})

	// Spectators hold no turn-order seat, so there is nothing for a bot
	// to take over; the seat just goes away.
	assert.Nil(t, g.PlayerByName("sue"))
	assert.Len(t, g.Players, 2)
	assert.Len(t, g.TurnPlayerIDs, 2)
}

func TestSpectateLobby_NotCountedAsActiveSeat(t *testing.T) {
	g := newCountGame(locale.NewCatalog())
	host := g.InitializeLobby("alice", newHuman("alice"))
	sue := g.SpectateLobby("sue", newHuman("sue"))

	// The spectator joined flagged, so the availability refresh never saw
	// them as a second active player.
	assert.True(t, sue.IsSpectator)
	start, _ := host.FindAction("start_game")
	require.NotNil(t, start)
	assert.False(t, start.Enabled)

	g.JoinLobby("bob", newHuman("bob"))
	start, _ = host.FindAction("start_game")
	assert.True(t, start.Enabled)
}

func TestLeave_LastHumanOutDestroysTable(t *testing.T) {
	hooks := &fakeHooks{id: "t1"}
	g := newCountGame(locale.NewCatalog())
	g.SetTable(hooks)
	host := g.InitializeLobby("alice", newHuman("alice"))
	g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "add_bot"})

	g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "leave_table"})
	assert.Equal(t, 1, hooks.destroyed)
}

func TestSaveAndDestroy_HostOnly(t *testing.T) {
	hooks := &fakeHooks{id: "t1"}
	g := newCountGame(locale.NewCatalog())
	g.SetTable(hooks)
	host := g.InitializeLobby("alice", newHuman("alice"))
	bob := g.JoinLobby("bob", newHuman("bob"))

	// save_table/destroy_table are host-gated twice over: non-hosts have
	// them disabled, and the handlers re-check.
	g.ExecuteAction(bob, "save_table")
	assert.Empty(t, hooks.saves)

	g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "save_table"})
	assert.Equal(t, []string{"alice"}, hooks.saves)

	g.ExecuteAction(bob, "destroy_table")
	assert.Zero(t, hooks.destroyed)
	g.HandleEvent(host, Event{Type: EventMenu, SelectionID: "destroy_table"})
	assert.Equal(t, 1, hooks.destroyed)
}
