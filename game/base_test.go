package game

import (
	"encoding/json"

	"github.com/James-Trimble/PlayPalace11/actions"
	"github.com/James-Trimble/PlayPalace11/locale"
	"github.com/James-Trimble/PlayPalace11/users"
)

// countGame is a minimal variant for exercising the contract: each turn
// the current player "takes" once; first to Target takes wins.
type countGame struct {
	BaseGame
	Takes  map[string]int `json:"takes"`
	Target int            `json:"target"`
}

func newCountGame(catalog *locale.Catalog) *countGame {
	g := &countGame{Takes: make(map[string]int), Target: 3}
	g.InitBase(g, catalog)
	g.registerHandlers()
	g.SetupKeybinds()
	return g
}

func (g *countGame) registerHandlers() {
	g.RegisterHandler("action_take", g.actionTake)
	g.RegisterOptions("take_amounts", func(p *Player) []string {
		return []string{"one", "two"}
	})
	g.RegisterInput("bot_take_amount", func(p *Player) string {
		return "one"
	})
}

func (g *countGame) Descriptor() Descriptor {
	return Descriptor{
		Type:       "count",
		Name:       "Counting",
		NameKey:    "count-name",
		Category:   "category-test",
		MinPlayers: 2,
		MaxPlayers: 4,
	}
}

func (g *countGame) OnStart() {
	g.BeginPlay()
	for _, p := range g.Players {
		set := actions.NewSet("turn")
		set.Add(&actions.Action{
			ID: "take", Label: "Take", Handler: "action_take", Enabled: true,
		})
		set.Add(&actions.Action{
			ID: "cheat", Label: "Cheat", Handler: "action_take",
		})
		p.AddActionSet(set)
	}
	g.AnnounceTurn("")
	g.JoltBots(2, 2)
}

func (g *countGame) OnTick() {
	g.TickBase()
}

func (g *countGame) BotThink(p *Player) string {
	if g.IsCurrentPlayer(p) {
		return "take"
	}
	return ""
}

func (g *countGame) SetupKeybinds() {
	g.SetupCoreKeybinds()
	g.DefineKeybind("t", "Take", []string{"take"}, false)
}

func (g *countGame) actionTake(p *Player, _ string, _ string) {
	if g.Status != StatusPlaying {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}
	g.Takes[p.ID]++
	if g.Takes[p.ID] >= g.Target {
		g.Broadcast("count-winner", map[string]any{"player": p.Name})
		g.FinishGame()
		return
	}
	g.AdvanceTurn()
	g.AnnounceTurn("")
	g.JoltBots(2, 2)
}

func (g *countGame) MarshalState() ([]byte, error) {
	return json.Marshal(g)
}

func (g *countGame) UnmarshalState(data []byte) error {
	return json.Unmarshal(data, g)
}

func (g *countGame) RebuildRuntime() {
	g.RebuildRuntimeBase(g, g.Catalog())
	g.registerHandlers()
	g.SetupKeybinds()
}

// testUser drains into a slice for assertions.
func drainUser(u *users.NetworkUser) []users.Message {
	return u.DrainMessages()
}

func newHuman(name string) *users.NetworkUser {
	return users.NewNetworkUser(name, "en", locale.NewCatalog(), users.DefaultPreferences())
}

func messagesOfType(msgs []users.Message, typ string) []users.Message {
	var out []users.Message
	for _, m := range msgs {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}
