// Package pig implements the dice game Pig: roll to build turn points,
// hold to bank them, roll a 1 and lose the turn. First to the target
// score wins.
package pig

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/James-Trimble/PlayPalace11/actions"
	"github.com/James-Trimble/PlayPalace11/dice"
	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/locale"
)

const (
	handlerRoll         = "action_roll"
	handlerHold         = "action_hold"
	handlerScores       = "action_scores"
	handlerChangeTarget = "action_change_target"
)

// Bot pacing and strategy knobs.
const (
	botThinkMin   = 10
	botThinkMax   = 30
	botHoldAt     = 20
	minTarget     = 10
	maxTarget     = 1000
	defaultTarget = 100
)

type Game struct {
	game.BaseGame
	Scores      map[string]int `json:"scores"`
	TurnPoints  int            `json:"turn_points"`
	TargetScore int            `json:"target_score"`
}

// New creates a fresh Pig game in its lobby.
func New(catalog *locale.Catalog) *Game {
	g := &Game{Scores: make(map[string]int), TargetScore: defaultTarget}
	g.InitBase(g, catalog)
	g.LeavePolicy = game.LeaveSubstituteBot
	g.registerHandlers()
	g.SetupKeybinds()
	return g
}

func (g *Game) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:       "pig",
		NameKey:    "pig-name",
		Name:       "Pig",
		Category:   "category-dice",
		MinPlayers: 2,
		MaxPlayers: 6,
	}
}

func (g *Game) registerHandlers() {
	g.RegisterHandler(handlerRoll, g.actionRoll)
	g.RegisterHandler(handlerHold, g.actionHold)
	g.RegisterHandler(handlerScores, g.actionScores)
	g.RegisterHandler(handlerChangeTarget, g.actionChangeTarget)
	g.RegisterInput("bot_target", func(p *game.Player) string {
		return strconv.Itoa(defaultTarget)
	})
}

// SetupLobby gives the host the pre-game options.
func (g *Game) SetupLobby() {
	host := g.PlayerByName(g.Host)
	if host == nil {
		return
	}
	set := actions.NewSet("game_options")
	set.Add(&actions.Action{
		ID:      "change_target",
		Label:   g.labelFor(host, "change-target"),
		Handler: handlerChangeTarget,
		Enabled: true,
		Editbox: &actions.EditboxInput{
			Prompt:   "target-prompt",
			Default:  strconv.Itoa(defaultTarget),
			BotInput: "bot_target",
		},
	})
	host.AddActionSet(set)
}

func (g *Game) labelFor(p *game.Player, key string) string {
	loc := "en"
	if u := g.User(p); u != nil {
		loc = u.Locale()
	}
	return g.Catalog().Get(loc, key, nil)
}

func (g *Game) OnStart() {
	g.BeginPlay()
	for _, p := range g.ActivePlayers() {
		g.Scores[p.ID] = 0
		set := actions.NewSet("turn")
		set.Add(&actions.Action{ID: "roll", Label: g.labelFor(p, "roll"), Handler: handlerRoll, Enabled: true})
		set.Add(&actions.Action{ID: "hold", Label: g.labelFor(p, "hold"), Handler: handlerHold, Enabled: true})
		set.Add(&actions.Action{ID: "scores", Label: g.labelFor(p, "scores"), Handler: handlerScores, Enabled: true})
		p.AddActionSet(set)
	}
	g.Broadcast("pig-target", map[string]any{"target": g.TargetScore})
	g.AnnounceTurn("dice")
	g.JoltBots(botThinkMin, botThinkMax)
	g.RebuildAllMenus()
}

func (g *Game) OnTick() {
	g.TickBase()
}

func (g *Game) BotThink(p *game.Player) string {
	if g.Status != game.StatusPlaying || !g.IsCurrentPlayer(p) {
		return ""
	}
	if g.Scores[p.ID]+g.TurnPoints >= g.TargetScore || g.TurnPoints >= botHoldAt {
		return "hold"
	}
	return "roll"
}

func (g *Game) SetupKeybinds() {
	g.SetupCoreKeybinds()
	g.DefineKeybind("r", "Roll", []string{"roll"}, false)
	g.DefineKeybind("h", "Hold", []string{"hold"}, false)
	g.DefineKeybind("s", "Scores", []string{"scores"}, true)
}

func (g *Game) actionRoll(p *game.Player, _ string, _ string) {
	if g.Status != game.StatusPlaying {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}

	roll := dice.RollDie(6)
	g.ScheduleSound("dice", 0)
	if roll == 1 {
		g.Broadcast("pig-bust", map[string]any{"player": p.Name})
		g.TurnPoints = 0
		g.nextTurn()
		return
	}
	g.TurnPoints += roll
	g.Broadcast("pig-roll", map[string]any{
		"player": p.Name,
		"roll":   roll,
		"points": g.TurnPoints,
	})
}

func (g *Game) actionHold(p *game.Player, _ string, _ string) {
	if g.Status != game.StatusPlaying {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}

	g.Scores[p.ID] += g.TurnPoints
	g.Broadcast("pig-hold", map[string]any{
		"player": p.Name,
		"banked": g.TurnPoints,
		"total":  g.Scores[p.ID],
	})
	g.TurnPoints = 0

	if g.Scores[p.ID] >= g.TargetScore {
		g.Broadcast("pig-winner", map[string]any{
			"player": p.Name,
			"total":  g.Scores[p.ID],
		})
		g.FinishGame()
		return
	}
	g.nextTurn()
}

func (g *Game) actionScores(p *game.Player, _ string, _ string) {
	players := g.ActivePlayers()
	sorted := make([]*game.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		return g.Scores[sorted[i].ID] > g.Scores[sorted[j].ID]
	})

	parts := make([]string, 0, len(sorted))
	for _, other := range sorted {
		parts = append(parts, fmt.Sprintf("%s: %d", other.Name, g.Scores[other.ID]))
	}
	g.SpeakTo(p, "score-report", map[string]any{"scores": strings.Join(parts, ", ")})
}

func (g *Game) actionChangeTarget(p *game.Player, input string, _ string) {
	if p.Name != g.Host || g.Status != game.StatusWaiting {
		return
	}
	target, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || target < minTarget || target > maxTarget {
		g.SpeakTo(p, "invalid-target", nil)
		return
	}
	g.TargetScore = target
	g.Broadcast("target-changed", map[string]any{"target": target})
}

func (g *Game) nextTurn() {
	g.AdvanceTurn()
	g.AnnounceTurn("dice")
	g.JoltBots(botThinkMin, botThinkMax)
}

func (g *Game) MarshalState() ([]byte, error) {
	return json.Marshal(g)
}

func (g *Game) UnmarshalState(data []byte) error {
	return json.Unmarshal(data, g)
}

func (g *Game) RebuildRuntime() {
	g.RebuildRuntimeBase(g, g.Catalog())
	g.registerHandlers()
	g.SetupKeybinds()
}
