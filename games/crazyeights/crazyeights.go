// Package crazyeights implements Crazy Eights: match the top discard by
// rank or suit, eights are wild, aces reverse, queens skip. A hand ends
// when someone goes out and collects the value of everyone else's
// cards; first to the target total wins the game.
package crazyeights

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/James-Trimble/PlayPalace11/actions"
	"github.com/James-Trimble/PlayPalace11/cards"
	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/locale"
	"github.com/James-Trimble/PlayPalace11/logger"
	"github.com/James-Trimble/PlayPalace11/timer"
)

const (
	handlerPlay   = "action_play"
	handlerDraw   = "action_draw"
	handlerPass   = "action_pass"
	handlerHand   = "action_hand"
	handlerStatus = "action_status"
	handlerPause  = "action_pause_timer"
)

const (
	targetTotal   = 100
	botThinkMin   = 15
	botThinkMax   = 40
	nextRoundWait = 5 * time.Second
)

var suitNames = map[string]int{
	"diamonds": cards.Diamonds,
	"clubs":    cards.Clubs,
	"hearts":   cards.Hearts,
	"spades":   cards.Spades,
}

type Game struct {
	game.BaseGame
	Hands       map[string][]cards.Card `json:"hands"`
	DrawPile    *cards.Deck             `json:"draw_pile"`
	DiscardPile []cards.Card            `json:"discard_pile"`
	CurrentSuit int                     `json:"current_suit"`
	Scores      map[string]int          `json:"scores"`
	RoundActive bool                    `json:"round_active"`

	// Round timer snapshot, synced on marshal so a restored table's
	// between-rounds countdown resumes where it stopped.
	TimerState string `json:"timer_state"`
	TimerTicks int    `json:"timer_ticks"`

	roundTimer *timer.RoundTimer
}

// New creates a fresh Crazy Eights game in its lobby.
func New(catalog *locale.Catalog) *Game {
	g := &Game{
		Hands:  make(map[string][]cards.Card),
		Scores: make(map[string]int),
	}
	g.InitBase(g, catalog)
	g.LeavePolicy = game.LeaveSubstituteBot
	g.registerHandlers()
	g.SetupKeybinds()
	g.roundTimer = timer.New(nextRoundWait, g.startRound)
	return g
}

func (g *Game) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:       "crazyeights",
		NameKey:    "crazyeights-name",
		Name:       "Crazy Eights",
		Category:   "category-cards",
		MinPlayers: 2,
		MaxPlayers: 5,
	}
}

func (g *Game) registerHandlers() {
	g.RegisterHandler(handlerPlay, g.actionPlay)
	g.RegisterHandler(handlerDraw, g.actionDraw)
	g.RegisterHandler(handlerPass, g.actionPass)
	g.RegisterHandler(handlerHand, g.actionHand)
	g.RegisterHandler(handlerStatus, g.actionStatus)
	g.RegisterHandler(handlerPause, g.actionPauseTimer)
	g.RegisterOptions("suit_options", func(p *game.Player) []string {
		return []string{"spades", "hearts", "diamonds", "clubs"}
	})
	g.RegisterInput("bot_suit", g.botSuitChoice)
}

func (g *Game) OnStart() {
	g.BeginPlay()
	for _, p := range g.ActivePlayers() {
		g.Scores[p.ID] = 0
		set := actions.NewSet("info")
		set.Add(&actions.Action{ID: "hand", Label: g.labelFor(p, "read-hand"), Handler: handlerHand, Enabled: true})
		set.Add(&actions.Action{ID: "status", Label: g.labelFor(p, "table-status"), Handler: handlerStatus, Enabled: true})
		set.Add(&actions.Action{ID: "pause_timer", Label: g.labelFor(p, "pause-timer"), Handler: handlerPause, Enabled: true, Hidden: true})
		p.AddActionSet(set)
	}
	g.startRound()
}

func (g *Game) labelFor(p *game.Player, key string) string {
	loc := "en"
	if u := g.User(p); u != nil {
		loc = u.Locale()
	}
	return g.Catalog().Get(loc, key, nil)
}

// startRound shuffles, deals, and flips the starter. Also the round
// timer's onReady callback for every round after the first.
func (g *Game) startRound() {
	if g.Status != game.StatusPlaying {
		return
	}
	active := g.ActivePlayers()
	g.DrawPile = cards.StandardDeck(1)
	g.DiscardPile = nil

	handSize := 5
	if len(active) == 2 {
		handSize = 7
	}
	for _, p := range active {
		g.Hands[p.ID] = g.DrawPile.Draw(handSize)
	}

	// The starter card must not be an eight; bury any we flip.
	for {
		c := g.DrawPile.DrawOne()
		if c.Rank != 8 {
			g.DiscardPile = append(g.DiscardPile, *c)
			g.CurrentSuit = c.Suit
			break
		}
		g.DrawPile.Add([]cards.Card{*c})
	}

	g.RoundActive = true
	g.SetTurnPlayers(active)
	for _, p := range active {
		g.rebuildHandActions(p)
	}
	g.Broadcast("round-start", map[string]any{"round": g.Round})
	g.announceTop()
	g.AnnounceTurn("card")
	g.JoltBots(botThinkMin, botThinkMax)
	g.RebuildAllMenus()
}

func (g *Game) OnTick() {
	if g.roundTimer != nil {
		g.roundTimer.OnTick()
	}
	g.TickBase()
}

func (g *Game) BotThink(p *game.Player) string {
	if !g.RoundActive || !g.IsCurrentPlayer(p) {
		return ""
	}
	for _, c := range g.Hands[p.ID] {
		if g.playable(c) {
			return "play:" + strconv.Itoa(c.ID)
		}
	}
	if !g.DrawPile.IsEmpty() || len(g.DiscardPile) > 1 {
		return "draw"
	}
	return "pass"
}

func (g *Game) SetupKeybinds() {
	g.SetupCoreKeybinds()
	g.DefineKeybind("d", "Draw", []string{"draw"}, false)
	g.DefineKeybind("p", "Pass", []string{"pass"}, false)
	g.DefineKeybind("c", "Hand", []string{"hand"}, false)
	g.DefineKeybind("t", "Status", []string{"status"}, true)
	g.DefineKeybind("f9", "Pause timer", []string{"pause_timer"}, false)
}

// rebuildHandActions regenerates the player's turn set: one action per
// card plus draw and pass. Eights carry a suit menu.
func (g *Game) rebuildHandActions(p *game.Player) {
	set := actions.NewSet("turn")
	for _, c := range cards.SortCards(g.Hands[p.ID], true) {
		a := &actions.Action{
			ID:      "play:" + strconv.Itoa(c.ID),
			Label:   cards.Name(g.Catalog(), g.locOf(p), c),
			Handler: handlerPlay,
			Enabled: true,
		}
		if c.Rank == 8 {
			a.Menu = &actions.MenuInput{
				Prompt:    "choose-suit",
				Options:   "suit_options",
				BotSelect: "bot_suit",
			}
		}
		set.Add(a)
	}
	set.Add(&actions.Action{ID: "draw", Label: g.labelFor(p, "draw-card"), Handler: handlerDraw, Enabled: true})
	set.Add(&actions.Action{ID: "pass", Label: g.labelFor(p, "pass"), Handler: handlerPass, Enabled: true, Hidden: true})
	p.AddActionSet(set)
}

func (g *Game) locOf(p *game.Player) string {
	if u := g.User(p); u != nil {
		return u.Locale()
	}
	return "en"
}

func (g *Game) topCard() cards.Card {
	return g.DiscardPile[len(g.DiscardPile)-1]
}

func (g *Game) playable(c cards.Card) bool {
	return c.Rank == 8 || c.Rank == g.topCard().Rank || c.Suit == g.CurrentSuit
}

func (g *Game) handIndex(p *game.Player, cardID int) int {
	for i, c := range g.Hands[p.ID] {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func (g *Game) actionPlay(p *game.Player, input string, actionID string) {
	if !g.RoundActive {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}
	cardID, err := strconv.Atoi(strings.TrimPrefix(actionID, "play:"))
	if err != nil {
		return
	}
	idx := g.handIndex(p, cardID)
	if idx < 0 {
		return
	}
	c := g.Hands[p.ID][idx]
	if !g.playable(c) {
		g.SpeakTo(p, "cannot-play-card", nil)
		return
	}

	g.Hands[p.ID] = append(g.Hands[p.ID][:idx], g.Hands[p.ID][idx+1:]...)
	g.DiscardPile = append(g.DiscardPile, c)
	g.CurrentSuit = c.Suit
	logger.Log.Debugf("crazyeights: %s played %s", p.Name, cards.ShortName(c))
	g.ScheduleSound("card", 0)
	g.Broadcast("played-card", map[string]any{"player": p.Name})

	if c.Rank == 8 {
		if suit, ok := suitNames[input]; ok {
			g.CurrentSuit = suit
		}
		g.Broadcast("suit-chosen", map[string]any{"player": p.Name, "suit": g.suitName(g.CurrentSuit)})
	}

	if len(g.Hands[p.ID]) == 0 {
		g.endRound(p)
		return
	}

	switch c.Rank {
	case 1: // ace reverses; on two players that means the turn comes back
		g.ReverseTurnDirection()
		if len(g.TurnPlayerIDs) == 2 {
			g.SkipNextPlayers(1)
		}
		g.Broadcast("direction-reversed", nil)
	case 12: // queen skips the next player
		skipped := g.PlayerByID(g.NextPlayerID())
		g.SkipNextPlayers(1)
		if skipped != nil {
			g.Broadcast("player-skipped", map[string]any{"player": skipped.Name})
		}
	}

	g.rebuildHandActions(p)
	g.RebuildPlayerMenu(p)
	g.nextTurn()
}

func (g *Game) actionDraw(p *game.Player, _ string, _ string) {
	if !g.RoundActive {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}
	if g.DrawPile.IsEmpty() {
		g.recycleDiscard()
	}
	c := g.DrawPile.DrawOne()
	if c == nil {
		g.SpeakTo(p, "deck-empty", nil)
		return
	}
	g.Hands[p.ID] = append(g.Hands[p.ID], *c)
	g.ScheduleSound("draw", 0)
	g.SpeakTo(p, "you-drew", map[string]any{
		"card": cards.Name(g.Catalog(), g.locOf(p), *c),
	})
	for _, other := range g.Players {
		if other.ID != p.ID {
			g.SpeakTo(other, "player-drew", map[string]any{"player": p.Name})
		}
	}
	g.rebuildHandActions(p)
	g.RebuildPlayerMenu(p)
}

// recycleDiscard shuffles everything but the top discard back into the
// draw pile.
func (g *Game) recycleDiscard() {
	if len(g.DiscardPile) < 2 {
		return
	}
	top := g.topCard()
	buried := g.DiscardPile[:len(g.DiscardPile)-1]
	g.DrawPile.Add(buried)
	g.DrawPile.Shuffle()
	g.DiscardPile = []cards.Card{top}
}

func (g *Game) actionPass(p *game.Player, _ string, _ string) {
	if !g.RoundActive {
		return
	}
	if !g.IsCurrentPlayer(p) {
		g.SpeakTo(p, "not-your-turn", nil)
		return
	}
	// Passing is only legal with nothing left to draw.
	if !g.DrawPile.IsEmpty() || len(g.DiscardPile) > 1 {
		g.SpeakTo(p, "must-draw", nil)
		return
	}
	g.Broadcast("player-passed", map[string]any{"player": p.Name})
	g.nextTurn()
}

func (g *Game) actionHand(p *game.Player, _ string, _ string) {
	g.SpeakTo(p, "your-hand", map[string]any{
		"cards": cards.ReadCards(g.Catalog(), g.locOf(p), cards.SortCards(g.Hands[p.ID], true)),
	})
}

func (g *Game) actionStatus(p *game.Player, _ string, _ string) {
	if len(g.DiscardPile) == 0 {
		return
	}
	g.SpeakTo(p, "top-card", map[string]any{
		"card": cards.Name(g.Catalog(), g.locOf(p), g.topCard()),
		"suit": g.suitName(g.CurrentSuit),
	})
}

func (g *Game) actionPauseTimer(p *game.Player, _ string, _ string) {
	if p.Name != g.Host || !g.roundTimer.IsActive() {
		return
	}
	state := g.roundTimer.TogglePause()
	if state == timer.StatePaused {
		g.Broadcast("timer-paused", nil)
	} else {
		g.Broadcast("timer-resumed", nil)
	}
}

func (g *Game) suitName(suit int) string {
	for name, s := range suitNames {
		if s == suit {
			return name
		}
	}
	return ""
}

func (g *Game) botSuitChoice(p *game.Player) string {
	counts := make(map[int]int)
	for _, c := range g.Hands[p.ID] {
		if c.Rank != 8 {
			counts[c.Suit]++
		}
	}
	best, bestCount := cards.Spades, -1
	for suit, n := range counts {
		if n > bestCount {
			best, bestCount = suit, n
		}
	}
	return g.suitName(best)
}

func (g *Game) nextTurn() {
	g.AdvanceTurn()
	g.AnnounceTurn("card")
	g.JoltBots(botThinkMin, botThinkMax)
}

func cardPoints(c cards.Card) int {
	switch {
	case c.Rank == 8:
		return 50
	case c.Rank >= 11:
		return 10
	default:
		return c.Rank
	}
}

func (g *Game) endRound(winner *game.Player) {
	g.RoundActive = false
	points := 0
	for _, p := range g.ActivePlayers() {
		if p.ID == winner.ID {
			continue
		}
		for _, c := range g.Hands[p.ID] {
			points += cardPoints(c)
		}
	}
	g.Scores[winner.ID] += points
	g.Broadcast("round-won", map[string]any{
		"player": winner.Name,
		"points": points,
		"total":  g.Scores[winner.ID],
	})

	if g.Scores[winner.ID] >= targetTotal {
		g.Broadcast("game-winner", map[string]any{"player": winner.Name})
		g.FinishGame()
		return
	}

	g.Round++
	g.Broadcast("next-round-soon", map[string]any{
		"seconds": int(nextRoundWait / time.Second),
	})
	g.roundTimer.Start()
}

func (g *Game) announceTop() {
	for _, p := range g.Players {
		g.actionStatus(p, "", "")
	}
}

func (g *Game) MarshalState() ([]byte, error) {
	g.TimerState, g.TimerTicks = g.roundTimer.Snapshot()
	return json.Marshal(g)
}

func (g *Game) UnmarshalState(data []byte) error {
	return json.Unmarshal(data, g)
}

func (g *Game) RebuildRuntime() {
	g.RebuildRuntimeBase(g, g.Catalog())
	g.registerHandlers()
	g.SetupKeybinds()
	g.roundTimer = timer.New(nextRoundWait, g.startRound)
	g.roundTimer.Restore(g.TimerState, g.TimerTicks)
}
