// Package game defines the per-table game contract: the state machine
// every variant plugs into, turn order, bot pacing, action dispatch, and
// the JSON persistence shape. The server and table layers only ever talk
// to games through the Game interface.
package game

// Game statuses. Games may layer private sub-phases but must expose the
// coarse status for routing decisions.
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Leave policies for mid-game disconnects. Which one applies is per-game
// configuration, not a fixed rule.
const (
	LeaveRemove        = "remove"
	LeaveSubstituteBot = "bot"
)

// Descriptor is the static metadata for a game variant.
type Descriptor struct {
	Type       string
	NameKey    string
	Name       string
	Category   string
	MinPlayers int
	MaxPlayers int
}

// Game is the contract every variant implements. The embedded BaseGame
// (reached via Base) carries the shared machinery: players, status, turn
// order, action dispatch, bot pacing, and message plumbing.
type Game interface {
	Descriptor() Descriptor
	Base() *BaseGame

	// OnStart transitions waiting -> playing: allocate the turn order
	// from active players and set up game-specific state. Called once.
	OnStart()

	// OnTick runs every scheduler tick. Implementations advance their
	// round timers and then call Base().TickBots(). Never blocks.
	OnTick()

	// BotThink picks an action ID for a bot whose think countdown has
	// elapsed, or "" when the bot has nothing to do yet.
	BotThink(p *Player) string

	// SetupKeybinds defines the runtime keybind table. Called on
	// construction and again after deserialization.
	SetupKeybinds()

	// MarshalState serializes all persisted state to JSON.
	MarshalState() ([]byte, error)

	// UnmarshalState restores persisted state. RebuildRuntime must be
	// called afterwards, before any tick or event is delivered.
	UnmarshalState(data []byte) error

	// RebuildRuntime reconstructs non-serialized helpers: handler
	// registry, keybind table, timers, sound queue.
	RebuildRuntime()
}

// Event is a client-originated interaction delivered to a game through
// HandleEvent. Exactly one of the type-specific fields is meaningful.
type Event struct {
	Type        string `json:"type"`
	MenuID      string `json:"menu_id,omitempty"`
	SelectionID string `json:"selection_id,omitempty"`
	Key         string `json:"key,omitempty"`
	ID          string `json:"id,omitempty"`
	Value       string `json:"value,omitempty"`
}

// Event types a game understands.
const (
	EventMenu    = "menu"
	EventKeybind = "keybind"
	EventEditbox = "editbox"
)

// TableHooks is what a game may ask of its owning table. The table layer
// registers itself here; games never talk to persistence directly.
type TableHooks interface {
	TableID() string
	RequestSave(username string)
	RequestDestroy()

	// PlayerLeft tells the table a named player walked away so table
	// membership stays in sync with the seats.
	PlayerLeft(username string)
}
