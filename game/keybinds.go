package game

// Keybind maps a key press to candidate action IDs. The first enabled
// action found on the pressing player executes. Keybinds are runtime
// state, rebuilt by SetupKeybinds after every load; they are never
// persisted.
type Keybind struct {
	Key               string
	Description       string
	ActionIDs         []string
	IncludeSpectators bool
}

// DefineKeybind registers or replaces a keybind.
func (b *BaseGame) DefineKeybind(key, description string, actionIDs []string, includeSpectators bool) {
	b.keybinds[key] = &Keybind{
		Key:               key,
		Description:       description,
		ActionIDs:         actionIDs,
		IncludeSpectators: includeSpectators,
	}
}

// Keybind looks up the binding for a key, or nil.
func (b *BaseGame) Keybind(key string) *Keybind {
	return b.keybinds[key]
}

// SetupCoreKeybinds defines the bindings every game shares. Concrete
// SetupKeybinds implementations call this first.
func (b *BaseGame) SetupCoreKeybinds() {
	b.DefineKeybind("f1", "Leave table", []string{"leave_table"}, true)
	b.DefineKeybind("f8", "Save table", []string{"save_table"}, false)
}
