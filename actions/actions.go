package actions

// MenuInput asks the acting player to pick from a menu before the action
// handler runs. Options and BotSelect are handler names resolved against
// the owning game at execution time, never function values, so the whole
// action graph stays JSON-serializable.
type MenuInput struct {
	Prompt    string `json:"prompt"`
	Options   string `json:"options"`
	BotSelect string `json:"bot_select,omitempty"`
}

// EditboxInput asks the acting player for free text before the action
// handler runs. BotInput is a handler name used to auto-fill for bots.
type EditboxInput struct {
	Prompt   string `json:"prompt"`
	Default  string `json:"default,omitempty"`
	BotInput string `json:"bot_input,omitempty"`
}

// Action is a serializable unit of player capability. Handler is a method
// name looked up on the game object when the action executes, which lets
// actions survive game object replacement across save/restore.
//
// An enabled+hidden action is still triggerable via keybind but is not
// listed in a rendered menu.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Handler string `json:"handler"`
	Enabled bool   `json:"enabled"`
	Hidden  bool   `json:"hidden"`

	Menu    *MenuInput    `json:"menu,omitempty"`
	Editbox *EditboxInput `json:"editbox,omitempty"`
}

// HasInputRequest reports whether the action needs input collected before
// its handler may run.
func (a *Action) HasInputRequest() bool {
	return a.Menu != nil || a.Editbox != nil
}

// Set is a named, ordered collection of actions scoped to a context such
// as "turn" or "lobby". Insertion order is the menu display order. Games
// manage availability imperatively via Enable/Disable/Show/Hide; all
// operations on unknown IDs are no-ops because games issue blanket
// enable/disable calls without checking existence first.
type Set struct {
	Name    string             `json:"name"`
	Actions map[string]*Action `json:"actions"`
	Order   []string           `json:"order"`
}

// NewSet creates an empty action set.
func NewSet(name string) *Set {
	return &Set{
		Name:    name,
		Actions: make(map[string]*Action),
		Order:   make([]string, 0),
	}
}

// Add inserts an action, preserving first-seen order. Re-adding an
// existing ID replaces it in place without changing its position.
func (s *Set) Add(a *Action) {
	if _, exists := s.Actions[a.ID]; !exists {
		s.Order = append(s.Order, a.ID)
	}
	s.Actions[a.ID] = a
}

// Remove drops an action from the set.
func (s *Set) Remove(id string) {
	if _, exists := s.Actions[id]; !exists {
		return
	}
	delete(s.Actions, id)
	for i, aid := range s.Order {
		if aid == id {
			s.Order = append(s.Order[:i], s.Order[i+1:]...)
			break
		}
	}
}

// RemoveByPrefix drops every action whose ID starts with prefix. Card
// games use this to rebuild per-slot play actions after a hand changes.
func (s *Set) RemoveByPrefix(prefix string) {
	kept := s.Order[:0]
	for _, aid := range s.Order {
		if len(aid) >= len(prefix) && aid[:len(prefix)] == prefix {
			delete(s.Actions, aid)
			continue
		}
		kept = append(kept, aid)
	}
	s.Order = kept
}

// Get returns an action by ID, or nil.
func (s *Set) Get(id string) *Action {
	return s.Actions[id]
}

// Enable marks actions executable.
func (s *Set) Enable(ids ...string) {
	for _, id := range ids {
		if a, ok := s.Actions[id]; ok {
			a.Enabled = true
		}
	}
}

// Disable marks actions non-executable.
func (s *Set) Disable(ids ...string) {
	for _, id := range ids {
		if a, ok := s.Actions[id]; ok {
			a.Enabled = false
		}
	}
}

// Show clears the hidden flag.
func (s *Set) Show(ids ...string) {
	for _, id := range ids {
		if a, ok := s.Actions[id]; ok {
			a.Hidden = false
		}
	}
}

// Hide sets the hidden flag. Hidden actions stay keybindable while
// enabled but do not appear in menus.
func (s *Set) Hide(ids ...string) {
	for _, id := range ids {
		if a, ok := s.Actions[id]; ok {
			a.Hidden = true
		}
	}
}

// SetLabel mutates an action label. Labels are not derived; each game
// recomputes them on state change.
func (s *Set) SetLabel(id, label string) {
	if a, ok := s.Actions[id]; ok {
		a.Label = label
	}
}

// VisibleActions returns, in set order, all actions that are enabled and
// not hidden. This is exactly the menu rendering list.
func (s *Set) VisibleActions() []*Action {
	var out []*Action
	for _, aid := range s.Order {
		if a, ok := s.Actions[aid]; ok && a.Enabled && !a.Hidden {
			out = append(out, a)
		}
	}
	return out
}

// EnabledActions returns all enabled actions in set order regardless of
// the hidden flag. Used for the full action list view and keybind
// dispatch validation.
func (s *Set) EnabledActions() []*Action {
	var out []*Action
	for _, aid := range s.Order {
		if a, ok := s.Actions[aid]; ok && a.Enabled {
			out = append(out, a)
		}
	}
	return out
}
