package game

import (
	"github.com/James-Trimble/PlayPalace11/actions"
	"github.com/James-Trimble/PlayPalace11/users"
)

// Core handler names. These are what lobby actions persist, so the same
// names must be registered on every rehydrated game.
const (
	handlerStartGame    = "action_start_game"
	handlerAddBot       = "action_add_bot"
	handlerLeaveTable   = "action_leave_table"
	handlerSaveTable    = "action_save_table"
	handlerDestroyTable = "action_destroy_table"
)

func (b *BaseGame) registerCoreHandlers() {
	b.RegisterHandler(handlerStartGame, b.actionStartGame)
	b.RegisterHandler(handlerAddBot, b.actionAddBot)
	b.RegisterHandler(handlerLeaveTable, b.actionLeaveTable)
	b.RegisterHandler(handlerSaveTable, b.actionSaveTable)
	b.RegisterHandler(handlerDestroyTable, b.actionDestroyTable)
}

// InitializeLobby seats the host and builds their lobby actions. Called
// right after table creation, before anyone else joins.
func (b *BaseGame) InitializeLobby(host string, u users.User) *Player {
	b.Host = host
	p := b.AddPlayer(host, u)
	p.AddActionSet(b.createLobbyActionSet(p))
	b.refreshLobbyActions()
	b.RebuildPlayerMenu(p)
	return p
}

// JoinLobby seats an additional player mid-lobby.
func (b *BaseGame) JoinLobby(name string, u users.User) *Player {
	p := b.AddPlayer(name, u)
	p.AddActionSet(b.createLobbyActionSet(p))
	b.refreshLobbyActions()
	b.RebuildAllMenus()
	return p
}

// SpectateLobby seats a spectator. The flag is set before the lobby
// refresh so availability thresholds never count the spectator as an
// active seat.
func (b *BaseGame) SpectateLobby(name string, u users.User) *Player {
	p := b.AddPlayer(name, u)
	p.IsSpectator = true
	p.AddActionSet(b.createLobbyActionSet(p))
	b.refreshLobbyActions()
	b.RebuildAllMenus()
	return p
}

// createLobbyActionSet builds the per-player lobby set. Labels resolve
// in the player's locale at creation; games re-label on state change.
func (b *BaseGame) createLobbyActionSet(p *Player) *actions.Set {
	loc := "en"
	if u := b.User(p); u != nil {
		loc = u.Locale()
	}
	set := actions.NewSet("lobby")
	set.Add(&actions.Action{
		ID:      "start_game",
		Label:   b.catalog.Get(loc, "start-game", nil),
		Handler: handlerStartGame,
	})
	set.Add(&actions.Action{
		ID:      "add_bot",
		Label:   b.catalog.Get(loc, "add-bot", nil),
		Handler: handlerAddBot,
	})
	set.Add(&actions.Action{
		ID:      "save_table",
		Label:   b.catalog.Get(loc, "save-table", nil),
		Handler: handlerSaveTable,
		Hidden:  true,
	})
	set.Add(&actions.Action{
		ID:      "destroy_table",
		Label:   b.catalog.Get(loc, "destroy-table", nil),
		Handler: handlerDestroyTable,
		Hidden:  true,
	})
	set.Add(&actions.Action{
		ID:      "leave_table",
		Label:   b.catalog.Get(loc, "leave-table", nil),
		Handler: handlerLeaveTable,
		Enabled: true,
	})
	return set
}

// refreshLobbyActions recomputes lobby action availability for every
// player from host status, game status, and player count.
func (b *BaseGame) refreshLobbyActions() {
	desc := b.self.Descriptor()
	active := len(b.ActivePlayers())
	for _, p := range b.Players {
		set := p.ActionSet("lobby")
		if set == nil {
			continue
		}
		isHost := p.Name == b.Host
		waiting := b.Status == StatusWaiting

		if isHost && waiting && active >= desc.MinPlayers {
			set.Enable("start_game")
		} else {
			set.Disable("start_game")
		}
		if isHost && waiting && active < desc.MaxPlayers {
			set.Enable("add_bot")
		} else {
			set.Disable("add_bot")
		}
		if isHost {
			set.Enable("save_table", "destroy_table")
		} else {
			set.Disable("save_table", "destroy_table")
		}
	}
}

func (b *BaseGame) actionStartGame(p *Player, _ string, _ string) {
	if b.Status != StatusWaiting || p.Name != b.Host {
		return
	}
	if len(b.ActivePlayers()) < b.self.Descriptor().MinPlayers {
		b.SpeakTo(p, "not-enough-players", nil)
		return
	}
	b.Broadcast("game-starting", nil)
	b.self.OnStart()
	b.refreshLobbyActions()
	b.RebuildAllMenus()
}

func (b *BaseGame) actionAddBot(p *Player, _ string, _ string) {
	if b.Status != StatusWaiting || p.Name != b.Host {
		return
	}
	if len(b.ActivePlayers()) >= b.self.Descriptor().MaxPlayers {
		b.SpeakTo(p, "table-full", nil)
		return
	}
	bot := b.AddBot()
	bot.AddActionSet(b.createLobbyActionSet(bot))
	b.Broadcast("bot-added", map[string]any{"bot": bot.Name})
	b.refreshLobbyActions()
	b.RebuildAllMenus()
}

func (b *BaseGame) actionLeaveTable(p *Player, _ string, _ string) {
	b.Broadcast("player-left", map[string]any{"player": p.Name})

	switch {
	// Substitution keeps the turn order alive; spectators are never in
	// it, so they are always simply removed.
	case b.Status == StatusPlaying && b.LeavePolicy == LeaveSubstituteBot && !p.IsBot && !p.IsSpectator:
		// Keep the seat alive under a bot so play continues.
		p.IsBot = true
		b.AttachUser(p.ID, users.NewBot(p.Name))
		JoltBot(p, 20, 40)
		b.Broadcast("bot-substituted", map[string]any{"player": p.Name})
	default:
		b.RemovePlayer(p)
	}

	b.refreshLobbyActions()
	b.RebuildAllMenus()

	if b.table != nil {
		b.table.PlayerLeft(p.Name)
		if b.humanCount() == 0 {
			b.table.RequestDestroy()
		}
	}
}

func (b *BaseGame) actionSaveTable(p *Player, _ string, _ string) {
	if p.Name != b.Host || b.table == nil {
		return
	}
	b.table.RequestSave(p.Name)
}

func (b *BaseGame) actionDestroyTable(p *Player, _ string, _ string) {
	if p.Name != b.Host || b.table == nil {
		return
	}
	b.table.RequestDestroy()
}

func (b *BaseGame) humanCount() int {
	n := 0
	for _, p := range b.Players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

// BeginPlay performs the shared half of OnStart: status transition, turn
// order allocation, lobby lockdown. Concrete games call it first, then
// do their own dealing and shuffling.
func (b *BaseGame) BeginPlay() {
	b.Status = StatusPlaying
	b.GameActive = true
	b.Round = 1
	b.SetTurnPlayers(b.ActivePlayers())
	b.refreshLobbyActions()
}
