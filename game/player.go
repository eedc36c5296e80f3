package game

import (
	"github.com/James-Trimble/PlayPalace11/actions"
)

// PendingInput records that an action is waiting on collected input; the
// action is not directly executable until the value arrives.
type PendingInput struct {
	ActionID string `json:"action_id"`
	Kind     string `json:"kind"` // "menu" or "editbox"
}

// Player is one seat at a table. Owned exclusively by the game that
// created it and never shared across tables. Serialized wholesale with
// the game, action sets included; the attached user is runtime-only and
// re-attached on restore.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsBot       bool   `json:"is_bot"`
	IsSpectator bool   `json:"is_spectator"`

	ActionSets []*actions.Set `json:"action_sets"`
	Pending    *PendingInput  `json:"pending_input,omitempty"`

	// Bot pacing: a jolted bot counts ThinkTicks down to zero, then the
	// decision hook runs once per tick until it yields an action, which
	// is queued here and executed on a subsequent tick.
	ThinkTicks       int    `json:"bot_think_ticks"`
	PendingBotAction string `json:"pending_bot_action,omitempty"`
}

// ActionSet returns the named set, or nil.
func (p *Player) ActionSet(name string) *actions.Set {
	for _, s := range p.ActionSets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// AddActionSet appends a set, replacing any existing set with the same
// name in place.
func (p *Player) AddActionSet(s *actions.Set) {
	for i, existing := range p.ActionSets {
		if existing.Name == s.Name {
			p.ActionSets[i] = s
			return
		}
	}
	p.ActionSets = append(p.ActionSets, s)
}

// FindAction locates an action by ID across the player's sets, in set
// order. Returns the action and its owning set, or nils.
func (p *Player) FindAction(id string) (*actions.Action, *actions.Set) {
	for _, s := range p.ActionSets {
		if a := s.Get(id); a != nil {
			return a, s
		}
	}
	return nil, nil
}

// VisibleActions flattens the visible actions of every set, preserving
// set order then insertion order. This is the rendered menu.
func (p *Player) VisibleActions() []*actions.Action {
	var out []*actions.Action
	for _, s := range p.ActionSets {
		out = append(out, s.VisibleActions()...)
	}
	return out
}

// EnabledActions flattens the enabled actions of every set.
func (p *Player) EnabledActions() []*actions.Action {
	var out []*actions.Action
	for _, s := range p.ActionSets {
		out = append(out, s.EnabledActions()...)
	}
	return out
}
