package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/James-Trimble/PlayPalace11/locale"
	"github.com/James-Trimble/PlayPalace11/users"
)

// HandlerFunc executes a named action for a player. input carries the
// collected input value when the action had an input request, "" otherwise.
type HandlerFunc func(p *Player, input string, actionID string)

// OptionsFunc produces the menu choices for a MenuInput request.
type OptionsFunc func(p *Player) []string

// InputFunc auto-picks an input value for a bot (menu choice or text).
type InputFunc func(p *Player) string

// BaseGame carries the state and machinery shared by every game variant.
// Concrete games embed it by value so its exported fields flatten into
// the game's JSON blob. Everything unexported is runtime-only and gets
// rebuilt by RebuildRuntimeBase after deserialization.
type BaseGame struct {
	Status     string    `json:"status"`
	Host       string    `json:"host"`
	Round      int       `json:"round"`
	GameActive bool      `json:"game_active"`
	Players    []*Player `json:"players"`

	// Turn order: ordered subset of active players, direction +-1.
	TurnPlayerIDs []string `json:"turn_player_ids"`
	TurnIndex     int      `json:"turn_index"`
	TurnDirection int      `json:"turn_direction"`
	PendingSkips  int      `json:"pending_skips"`

	// How mid-game leavers are handled; per-game configuration.
	LeavePolicy string `json:"leave_policy"`

	// Runtime state, never persisted.
	self      Game
	catalog   *locale.Catalog
	table     TableHooks
	userByID  map[string]users.User
	handlers  map[string]HandlerFunc
	optionFns map[string]OptionsFunc
	inputFns  map[string]InputFunc
	keybinds  map[string]*Keybind
	sounds    []scheduledSound
}

// InitBase wires the embedding game into its base. Every game factory
// calls this exactly once on construction; rehydration goes through
// RebuildRuntimeBase instead.
func (b *BaseGame) InitBase(self Game, catalog *locale.Catalog) {
	b.Status = StatusWaiting
	b.TurnDirection = 1
	b.LeavePolicy = LeaveRemove
	b.RebuildRuntimeBase(self, catalog)
}

// RebuildRuntimeBase reconstructs the runtime-only maps against a freshly
// constructed (or rehydrated) game object. Must run before any tick or
// event is delivered.
func (b *BaseGame) RebuildRuntimeBase(self Game, catalog *locale.Catalog) {
	b.self = self
	b.catalog = catalog
	b.userByID = make(map[string]users.User)
	b.handlers = make(map[string]HandlerFunc)
	b.optionFns = make(map[string]OptionsFunc)
	b.inputFns = make(map[string]InputFunc)
	b.keybinds = make(map[string]*Keybind)
	b.sounds = nil
	b.registerCoreHandlers()
}

// Base satisfies part of the Game interface for embedders.
func (b *BaseGame) Base() *BaseGame { return b }

// Catalog returns the localization catalog.
func (b *BaseGame) Catalog() *locale.Catalog { return b.catalog }

// SetTable registers the owning table's hooks.
func (b *BaseGame) SetTable(t TableHooks) { b.table = t }

// Table returns the owning table's hooks, or nil in unit tests.
func (b *BaseGame) Table() TableHooks { return b.table }

// RegisterHandler binds a handler name to a function. Actions reference
// handlers by these names so the action graph stays serializable.
func (b *BaseGame) RegisterHandler(name string, fn HandlerFunc) {
	b.handlers[name] = fn
}

// RegisterOptions binds a MenuInput options provider.
func (b *BaseGame) RegisterOptions(name string, fn OptionsFunc) {
	b.optionFns[name] = fn
}

// RegisterInput binds a bot auto-select/auto-fill provider.
func (b *BaseGame) RegisterInput(name string, fn InputFunc) {
	b.inputFns[name] = fn
}

// AddPlayer creates a seat for a user and attaches them. Returns the new
// player.
func (b *BaseGame) AddPlayer(name string, u users.User) *Player {
	p := &Player{
		ID:    uuid.New().String(),
		Name:  name,
		IsBot: u != nil && u.IsBot(),
	}
	b.Players = append(b.Players, p)
	if u != nil {
		b.userByID[p.ID] = u
	}
	return p
}

// AddBot creates a bot seat with a generated name.
func (b *BaseGame) AddBot() *Player {
	name := fmt.Sprintf("Bot %d", b.botCount()+1)
	return b.AddPlayer(name, users.NewBot(name))
}

func (b *BaseGame) botCount() int {
	n := 0
	for _, p := range b.Players {
		if p.IsBot {
			n++
		}
	}
	return n
}

// AttachUser (re)binds a user to a player seat, e.g. on reconnect or
// after a restore.
func (b *BaseGame) AttachUser(playerID string, u users.User) {
	b.userByID[playerID] = u
}

// DetachUser unbinds the user from a seat; the seat itself survives so
// the player can reconnect.
func (b *BaseGame) DetachUser(playerID string) {
	delete(b.userByID, playerID)
}

// User returns the user attached to a player, or nil.
func (b *BaseGame) User(p *Player) users.User {
	if p == nil {
		return nil
	}
	return b.userByID[p.ID]
}

// PlayerByName finds a player by display name.
func (b *BaseGame) PlayerByName(name string) *Player {
	for _, p := range b.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PlayerByID finds a player by ID.
func (b *BaseGame) PlayerByID(id string) *Player {
	for _, p := range b.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayers returns the non-spectator players in seat order.
func (b *BaseGame) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range b.Players {
		if !p.IsSpectator {
			out = append(out, p)
		}
	}
	return out
}

// RemovePlayer drops a seat entirely: players list, turn order, user map.
func (b *BaseGame) RemovePlayer(p *Player) {
	for i, existing := range b.Players {
		if existing.ID == p.ID {
			b.Players = append(b.Players[:i], b.Players[i+1:]...)
			break
		}
	}
	b.removeFromTurnOrder(p.ID)
	delete(b.userByID, p.ID)
}

// SpeakTo queues a localized message for one player's user.
func (b *BaseGame) SpeakTo(p *Player, key string, params map[string]any) {
	if u := b.User(p); u != nil {
		users.SpeakL(u, b.catalog, key, params)
	}
}

// Broadcast queues a localized message for every attached user,
// spectators included. Each user gets text in their own locale.
func (b *BaseGame) Broadcast(key string, params map[string]any) {
	for _, p := range b.Players {
		b.SpeakTo(p, key, params)
	}
}

// FinishGame moves the game to its terminal status. The table becomes
// eligible for teardown once all humans leave.
func (b *BaseGame) FinishGame() {
	b.Status = StatusFinished
	b.GameActive = false
	b.RebuildAllMenus()
}
