package game

import (
	"github.com/James-Trimble/PlayPalace11/actions"
	"github.com/James-Trimble/PlayPalace11/logger"
	"github.com/James-Trimble/PlayPalace11/users"
)

// actionInputMenu is the menu/editbox ID used when collecting input for
// an action's input request.
const actionInputMenu = "action_input"

// HandleEvent is the single entry point for client-originated
// interaction. Rule violations never propagate: an unknown or disabled
// action is dropped silently, and handlers themselves explain rejections
// to humans.
func (b *BaseGame) HandleEvent(p *Player, ev Event) {
	if p == nil {
		return
	}
	switch ev.Type {
	case EventMenu:
		if ev.MenuID == actionInputMenu && p.Pending != nil {
			b.CompleteInput(p, ev.SelectionID)
			return
		}
		b.ExecuteAction(p, ev.SelectionID)
	case EventKeybind:
		b.handleKeybind(p, ev.Key)
	case EventEditbox:
		if ev.ID == actionInputMenu && p.Pending != nil {
			b.CompleteInput(p, ev.Value)
		}
	default:
		// Protocol noise; drop it.
	}
}

func (b *BaseGame) handleKeybind(p *Player, key string) {
	kb := b.keybinds[key]
	if kb == nil {
		return
	}
	if p.IsSpectator && !kb.IncludeSpectators {
		return
	}
	for _, id := range kb.ActionIDs {
		if a, _ := p.FindAction(id); a != nil && a.Enabled {
			b.ExecuteAction(p, id)
			return
		}
	}
}

// ExecuteAction resolves and runs an action by ID. Actions carrying an
// input request are not directly executable: the input is collected
// first (menu/editbox for humans, auto-select for bots) and replayed
// into the handler.
func (b *BaseGame) ExecuteAction(p *Player, actionID string) {
	a, _ := p.FindAction(actionID)
	if a == nil || !a.Enabled {
		// InvalidAction: silently ignored, bots included.
		return
	}

	if a.Menu != nil {
		if p.IsBot {
			b.callHandler(p, a.Handler, b.botMenuChoice(p, a), actionID)
			return
		}
		u := b.User(p)
		if u == nil {
			return
		}
		opts := b.menuOptions(p, a)
		items := make([]users.MenuItem, 0, len(opts))
		for _, opt := range opts {
			items = append(items, users.MenuItem{Text: opt, ID: opt})
		}
		p.Pending = &PendingInput{ActionID: actionID, Kind: "menu"}
		users.ShowMenu(u, actionInputMenu, items)
		return
	}

	if a.Editbox != nil {
		if p.IsBot {
			value := a.Editbox.Default
			if fn := b.inputFns[a.Editbox.BotInput]; fn != nil {
				value = fn(p)
			}
			b.callHandler(p, a.Handler, value, actionID)
			return
		}
		u := b.User(p)
		if u == nil {
			return
		}
		prompt := b.catalog.Get(u.Locale(), a.Editbox.Prompt, nil)
		p.Pending = &PendingInput{ActionID: actionID, Kind: "editbox"}
		users.ShowEditbox(u, actionInputMenu, prompt, a.Editbox.Default)
		return
	}

	b.callHandler(p, a.Handler, "", actionID)
}

// CompleteInput delivers a collected input value back into the pending
// action's handler.
func (b *BaseGame) CompleteInput(p *Player, value string) {
	pending := p.Pending
	p.Pending = nil
	if pending == nil {
		return
	}
	a, _ := p.FindAction(pending.ActionID)
	if a == nil || !a.Enabled {
		return
	}
	b.callHandler(p, a.Handler, value, a.ID)
}

// menuOptions resolves a MenuInput's options handler by name.
func (b *BaseGame) menuOptions(p *Player, a *actions.Action) []string {
	if fn := b.optionFns[a.Menu.Options]; fn != nil {
		return fn(p)
	}
	logger.Log.Warnf("No options provider registered for %q (action %s)", a.Menu.Options, a.ID)
	return nil
}

// botMenuChoice picks a menu option for a bot: the BotSelect handler
// when registered, otherwise the first option.
func (b *BaseGame) botMenuChoice(p *Player, a *actions.Action) string {
	if fn := b.inputFns[a.Menu.BotSelect]; fn != nil {
		return fn(p)
	}
	if opts := b.menuOptions(p, a); len(opts) > 0 {
		return opts[0]
	}
	return ""
}

func (b *BaseGame) callHandler(p *Player, name, input, actionID string) {
	fn := b.handlers[name]
	if fn == nil {
		logger.Log.Warnf("No handler registered for %q (action %s)", name, actionID)
		return
	}
	fn(p, input, actionID)
}

// RebuildPlayerMenu pushes the player's current visible actions as a
// menu. Bots and detached seats are skipped.
func (b *BaseGame) RebuildPlayerMenu(p *Player) {
	u := b.User(p)
	if u == nil || u.IsBot() {
		return
	}
	visible := p.VisibleActions()
	items := make([]users.MenuItem, 0, len(visible))
	for _, a := range visible {
		items = append(items, users.MenuItem{Text: a.Label, ID: a.ID})
	}
	users.ShowMenu(u, "game_actions", items)
}

// RebuildAllMenus re-pushes menus to every attached human.
func (b *BaseGame) RebuildAllMenus() {
	for _, p := range b.Players {
		b.RebuildPlayerMenu(p)
	}
}
