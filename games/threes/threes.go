// Package threes implements the dice game Threes: five dice, threes
// count zero, everything else counts face value. Keep at least one die
// between rolls, stand when you like what you have; after three rounds
// the lowest total wins.
package threes

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
	"github.com/James-Trimble/PlayPalace11/users"
)

const (
	handlerRoll      = "action_roll"
	handlerStand     = "action_stand"
	handlerToggleDie = "action_toggle_die"
	handlerDiceKey   = "action_dice_key"
	handlerUnkeep    = "action_dice_unkeep"
	handlerReadDice  = "action_read_dice"
	handlerScores    = "action_scores"
)

const (
	numDice     = 5
	maxRolls    = 5
	totalRounds = 3
	botThinkMin = 12
	botThinkMax = 35
)

type Game struct {
	game.BaseGame
	Dice   *dice.Set      `json:"dice"`
	Scores map[string]int `json:"scores"`

	// Per-turn bookkeeping: how often the current player rolled, and how
	// many dice were kept when they last did. A fresh keep is required
	// before every reroll.
	RollCount  int `json:"roll_count"`
	KeptAtRoll int `json:"kept_at_roll"`
	TurnsTaken int `json:"turns_taken"`
}

// New creates a fresh Threes game in its lobby.
func New(catalog *locale.Catalog) *Game {
	g := &Game{Scores: make(map[string]int)}
	g.InitBase(g, catalog)
	g.LeavePolicy = game.LeaveSubstituteBot
	g.registerHandlers()
	g.SetupKeybinds()
	return g
}

func (g *Game) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:       "threes",
		NameKey:    "threes-name",
		Name:       "Threes",
		Category:   "category-dice",
		MinPlayers: 2,
		MaxPlayers: 6,
	}
}

func (g *Game) registerHandlers() {
	g.RegisterHandler(handlerRoll, g.actionRoll)
	g.RegisterHandler(handlerStand, g.actionStand)
	g.RegisterHandler(handlerToggleDie, g.actionToggleDie)
	g.RegisterHandler(handlerDiceKey, g.actionDiceKey)
	g.RegisterHandler(handlerUnkeep, g.actionUnkeep)
	g.RegisterHandler(handlerReadDice, g.actionReadDice)
	g.RegisterHandler(handlerScores, g.actionScores)
}

func (g *Game) OnStart() {
	g.BeginPlay()
	for _, p := range g.ActivePlayers() {
		g.Scores[p.ID] = 0
		p.AddActionSet(g.createTurnActionSet(p))
	}
	g.PlayMusic("dice-table")
	g.Broadcast("threes-rounds", map[string]any{"rounds": totalRounds})
	g.AnnounceTurn("dice")
	g.startTurn()
	g.JoltBots(botThinkMin, botThinkMax)
}

func (g *Game) createTurnActionSet(p *game.Player) *actions.Set {
	set := actions.NewSet("turn")
	set.Add(&actions.Action{ID: "roll", Label: g.labelFor(p, "roll"), Handler: handlerRoll, Enabled: true})
	set.Add(&actions.Action{ID: "stand", Label: g.labelFor(p, "stand"), Handler: handlerStand, Enabled: true})
	for i := 0; i < numDice; i++ {
		set.Add(&actions.Action{
			ID:      "toggle_die_" + strconv.Itoa(i),
			Label:   g.labelFor(p, "die"),
			Handler: handlerToggleDie,
			Enabled: true,
		})
	}
	// Keybind targets; which die a key touches depends on the user's
	// keeping style, so these stay out of the rendered menu.
	for v := 1; v <= 6; v++ {
		set.Add(&actions.Action{
			ID:      "dice_key_" + strconv.Itoa(v),
			Handler: handlerDiceKey,
			Enabled: true,
			Hidden:  true,
		})
		set.Add(&actions.Action{
			ID:      "dice_unkeep_" + strconv.Itoa(v),
			Handler: handlerUnkeep,
			Enabled: true,
			Hidden:  true,
		})
	}
	set.Add(&actions.Action{ID: "dice", Label: g.labelFor(p, "read-dice"), Handler: handlerReadDice, Enabled: true})
	set.Add(&actions.Action{ID: "scores", Label: g.labelFor(p, "scores"), Handler: handlerScores, Enabled: true})
	return set
}

func (g *Game) labelFor(p *game.Player, key string) string {
	return g.Catalog().Get(g.locOf(p), key, nil)
}

func (g *Game) locOf(p *game.Player) string {
	if u := g.User(p); u != nil {
		return u.Locale()
	}
	return "en"
}

func (g *Game) OnTick() {
	g.TickBase()
}

// BotThink keeps threes and low dice one at a time, rerolls while that
// made progress, and stands once only high dice remain.
func (g *Game) BotThink(p *game.Player) string {
	if g.Status != game.StatusPlaying || !g.IsCurrentPlayer(p) || g.Dice == nil {
		return ""
	}
	for i, v := range g.Dice.Values {
		if !g.Dice.Kept[i] && v <= 3 {
			return "toggle_die_" + strconv.Itoa(i)
		}
	}
	if g.keptCount() > g.KeptAtRoll && g.RollCount < maxRolls && !g.Dice.AllKept() {
		return "roll"
	}
	return "stand"
}

func (g *Game) SetupKeybinds() {
	g.SetupCoreKeybinds()
	g.DefineKeybind("r", "Roll", []string{"roll"}, false)
	g.DefineKeybind("s", "Stand", []string{"stand"}, false)
	g.DefineKeybind("d", "Read dice", []string{"dice"}, false)
	g.DefineKeybind("t", "Scores", []string{"scores"}, true)
	for v := 1; v <= 6; v++ {
		key := strconv.Itoa(v)
		g.DefineKeybind(key, "Dice key "+key, []string{"dice_key_" + key}, false)
		g.DefineKeybind("shift+"+key, "Unkeep "+key, []string{"dice_unkeep_" + key}, false)
	}
}

func (g *Game) keptCount() int {
	n := 0
	for _, k := range g.Dice.Kept {
		if k {
			n++
		}
	}
	return n
}

// keepingStyle resolves the acting user's dice key mapping; bots and
// detached seats get the default position-toggle style.
func (g *Game) keepingStyle(p *game.Player) string {
	if u, ok := g.User(p).(interface{ DiceKeepingStyle() string }); ok {
		return u.DiceKeepingStyle()
	}
	return users.DiceKeepingPlayPalace
}

func (g *Game) clearKeptOnRoll(p *game.Player) bool {
	if u, ok := g.User(p).(interface{ ClearKeptOnRoll() bool }); ok {
		return u.ClearKeptOnRoll()
	}
	return false
}

// startTurn hands the current player a fresh set of five rolled dice.
func (g *Game) startTurn() {
	p := g.CurrentPlayer()
	if p == nil {
		return
	}
	g.Dice = dice.NewSet(numDice, 6)
	g.Dice.RollAll()
	g.RollCount = 1
	g.KeptAtRoll = 0
	g.ScheduleSound("dice", 0)
	g.announceRoll(p)
	g.refreshDiceLabels()
	g.RebuildAllMenus()
}

func (g *Game) announceRoll(p *game.Player) {
	g.Broadcast("threes-roll", map[string]any{
		"player": p.Name,
		"dice":   g.diceString(),
	})
}

func (g *Game) diceString() string {
	parts := make([]string, len(g.Dice.Values))
	for i, v := range g.Dice.Values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// refreshDiceLabels relabels the current player's die entries with the
// faces showing and a kept marker.
func (g *Game) refreshDiceLabels() {
	p := g.CurrentPlayer()
	if p == nil || g.Dice == nil {
		return
	}
	set := p.ActionSet("turn")
	if set == nil {
		return
	}
	for i, v := range g.Dice.Values {
		id := "toggle_die_" + strconv.Itoa(i)
		if g.Dice.Kept[i] {
			set.SetLabel(id, g.Catalog().Get(g.locOf(p), "die-kept", map[string]any{"value": v}))
		} else {
			set.SetLabel(id, strconv.Itoa(v))
		}
	}
}

func (g *Game) actionRoll(p *game.Player, _ string, _ string) {
	if g.Status != game.StatusPlaying {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}
	kept := g.keptCount()
	if kept <= g.KeptAtRoll {
		g.SpeakTo(p, "keep-one-first", nil)
		return
	}
	if g.Dice.AllKept() {
		g.scoreTurn(p)
		return
	}

	g.Dice.Roll()
	g.RollCount++
	g.ScheduleSound("dice", 0)
	if g.clearKeptOnRoll(p) {
		g.Dice.ClearKept()
		g.KeptAtRoll = 0
	} else {
		g.KeptAtRoll = kept
	}
	g.announceRoll(p)

	if g.RollCount >= maxRolls {
		g.scoreTurn(p)
		return
	}
	g.refreshDiceLabels()
	g.RebuildPlayerMenu(p)
}

func (g *Game) actionStand(p *game.Player, _ string, _ string) {
	if g.Status != game.StatusPlaying {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}
	g.scoreTurn(p)
}

func (g *Game) actionToggleDie(p *game.Player, _ string, actionID string) {
	if g.Status != game.StatusPlaying {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}
	i, err := strconv.Atoi(strings.TrimPrefix(actionID, "toggle_die_"))
	if err != nil {
		return
	}
	g.toggleDie(p, i)
}

func (g *Game) toggleDie(p *game.Player, i int) {
	if i < 0 || i >= len(g.Dice.Values) {
		return
	}
	g.Dice.Toggle(i)
	key := "dice-rerolling"
	if g.Dice.Kept[i] {
		key = "dice-keeping"
	}
	g.SpeakTo(p, key, map[string]any{"value": g.Dice.Values[i]})
	g.refreshDiceLabels()
	g.RebuildPlayerMenu(p)
}

// actionDiceKey maps keys 1-6 per the user's keeping style: toggle the
// die at that position, or keep the first free die showing that face.
func (g *Game) actionDiceKey(p *game.Player, _ string, actionID string) {
	if g.Status != game.StatusPlaying || !g.IsCurrentPlayer(p) {
		return
	}
	v, err := strconv.Atoi(strings.TrimPrefix(actionID, "dice_key_"))
	if err != nil {
		return
	}
	if g.keepingStyle(p) == users.DiceKeepingQuentinC {
		if g.Dice.KeepByValue(v) {
			g.SpeakTo(p, "dice-keeping", map[string]any{"value": v})
			g.refreshDiceLabels()
			g.RebuildPlayerMenu(p)
		}
		return
	}
	if v <= numDice {
		g.toggleDie(p, v-1)
	}
}

// actionUnkeep frees one kept die by face value; only meaningful in the
// keep-by-value style.
func (g *Game) actionUnkeep(p *game.Player, _ string, actionID string) {
	if g.Status != game.StatusPlaying || !g.IsCurrentPlayer(p) {
		return
	}
	if g.keepingStyle(p) != users.DiceKeepingQuentinC {
		return
	}
	v, err := strconv.Atoi(strings.TrimPrefix(actionID, "dice_unkeep_"))
	if err != nil {
		return
	}
	if g.Dice.UnkeepByValue(v) {
		g.SpeakTo(p, "dice-rerolling", map[string]any{"value": v})
		g.refreshDiceLabels()
		g.RebuildPlayerMenu(p)
	}
}

func (g *Game) actionReadDice(p *game.Player, _ string, _ string) {
	if g.Dice == nil {
		return
	}
	var kept, free []string
	for i, v := range g.Dice.Values {
		if g.Dice.Kept[i] {
			kept = append(kept, strconv.Itoa(v))
		} else {
			free = append(free, strconv.Itoa(v))
		}
	}
	if len(kept) == 0 {
		kept = []string{"-"}
	}
	if len(free) == 0 {
		free = []string{"-"}
	}
	g.SpeakTo(p, "threes-dice", map[string]any{
		"free": strings.Join(free, " "),
		"kept": strings.Join(kept, " "),
	})
}

func (g *Game) actionScores(p *game.Player, _ string, _ string) {
	players := g.ActivePlayers()
	sorted := make([]*game.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		return g.Scores[sorted[i].ID] < g.Scores[sorted[j].ID]
	})

	parts := make([]string, 0, len(sorted))
	for _, other := range sorted {
		parts = append(parts, fmt.Sprintf("%s: %d", other.Name, g.Scores[other.ID]))
	}
	g.SpeakTo(p, "score-report", map[string]any{"scores": strings.Join(parts, ", ")})
}

// scoreTurn banks the dice (threes are worth nothing) and passes play on.
func (g *Game) scoreTurn(p *game.Player) {
	points := 0
	for _, v := range g.Dice.Values {
		if v != 3 {
			points += v
		}
	}
	g.Scores[p.ID] += points
	g.ScheduleSound("score", 0)
	g.Broadcast("threes-scored", map[string]any{
		"player": p.Name,
		"points": points,
		"total":  g.Scores[p.ID],
	})
	g.endTurn()
}

func (g *Game) endTurn() {
	g.TurnsTaken++
	if g.TurnsTaken >= len(g.TurnPlayerIDs) {
		if g.Round >= totalRounds {
			g.finish()
			return
		}
		g.Round++
		g.TurnsTaken = 0
		g.Broadcast("round-start", map[string]any{"round": g.Round})
	}
	g.AdvanceTurn()
	g.AnnounceTurn("dice")
	g.startTurn()
	g.JoltBots(botThinkMin, botThinkMax)
}

func (g *Game) finish() {
	var winner *game.Player
	for _, p := range g.ActivePlayers() {
		if winner == nil || g.Scores[p.ID] < g.Scores[winner.ID] {
			winner = p
		}
	}
	if winner != nil {
		g.Broadcast("threes-winner", map[string]any{
			"player": winner.Name,
			"total":  g.Scores[winner.ID],
		})
	}
	g.PlayMusic("victory")
	g.FinishGame()
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
