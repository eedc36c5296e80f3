package actions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSet() *Set {
	s := NewSet("turn")
	s.Add(&Action{ID: "roll", Label: "Roll", Handler: "action_roll", Enabled: true})
	s.Add(&Action{ID: "hold", Label: "Hold", Handler: "action_hold", Enabled: true})
	s.Add(&Action{ID: "peek", Label: "Peek", Handler: "action_peek", Enabled: true, Hidden: true})
	s.Add(&Action{ID: "quit", Label: "Quit", Handler: "action_quit"})
	return s
}

func ids(actions []*Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.ID)
	}
	return out
}

func TestSet_InsertionOrderPreserved(t *testing.T) {
	s := newTestSet()
	assert.Equal(t, []string{"roll", "hold", "peek", "quit"}, s.Order)

	// Re-adding an existing id replaces in place, order unchanged.
	s.Add(&Action{ID: "hold", Label: "Hold everything", Handler: "action_hold", Enabled: true})
	assert.Equal(t, []string{"roll", "hold", "peek", "quit"}, s.Order)
	assert.Equal(t, "Hold everything", s.Get("hold").Label)
}

func TestSet_VisibleSubsetOfEnabled(t *testing.T) {
	s := newTestSet()

	visible := ids(s.VisibleActions())
	enabled := ids(s.EnabledActions())

	assert.Equal(t, []string{"roll", "hold"}, visible)
	assert.Equal(t, []string{"roll", "hold", "peek"}, enabled)

	// Every visible action is enabled.
	enabledSet := make(map[string]bool)
	for _, id := range enabled {
		enabledSet[id] = true
	}
	for _, id := range visible {
		assert.True(t, enabledSet[id], "visible action %s must be enabled", id)
	}
}

func TestSet_ToggleIdempotence(t *testing.T) {
	s := newTestSet()

	s.Disable("roll")
	once := ids(s.EnabledActions())
	s.Disable("roll")
	twice := ids(s.EnabledActions())
	assert.Equal(t, once, twice)

	s.Hide("hold")
	onceVisible := ids(s.VisibleActions())
	s.Hide("hold")
	twiceVisible := ids(s.VisibleActions())
	assert.Equal(t, onceVisible, twiceVisible)

	s.Show("hold", "hold")
	assert.Contains(t, ids(s.VisibleActions()), "hold")
}

func TestSet_UnknownIDsAreNoOps(t *testing.T) {
	s := newTestSet()

	s.Enable("nope")
	s.Disable("nope")
	s.Show("nope")
	s.Hide("nope")
	s.SetLabel("nope", "x")
	s.Remove("nope")

	assert.Equal(t, []string{"roll", "hold", "peek", "quit"}, s.Order)
	assert.Nil(t, s.Get("nope"))
}

func TestSet_Remove(t *testing.T) {
	s := newTestSet()
	s.Remove("hold")
	assert.Equal(t, []string{"roll", "peek", "quit"}, s.Order)
	assert.Nil(t, s.Get("hold"))
}

func TestSet_RemoveByPrefix(t *testing.T) {
	s := NewSet("turn")
	s.Add(&Action{ID: "play_1", Enabled: true})
	s.Add(&Action{ID: "draw", Enabled: true})
	s.Add(&Action{ID: "play_2", Enabled: true})

	s.RemoveByPrefix("play_")

	assert.Equal(t, []string{"draw"}, s.Order)
	assert.Nil(t, s.Get("play_1"))
	assert.Nil(t, s.Get("play_2"))
}

func TestSet_SerializationRoundTrip(t *testing.T) {
	s := newTestSet()
	s.Get("roll").Menu = &MenuInput{Prompt: "pick-die", Options: "roll_options", BotSelect: "bot_pick_die"}
	s.Get("quit").Editbox = &EditboxInput{Prompt: "confirm-quit", Default: "yes"}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Set
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, s.Order, restored.Order)
	assert.Equal(t, ids(s.VisibleActions()), ids(restored.VisibleActions()))
	require.NotNil(t, restored.Get("roll").Menu)
	assert.Equal(t, "bot_pick_die", restored.Get("roll").Menu.BotSelect)
	require.NotNil(t, restored.Get("quit").Editbox)
	assert.Equal(t, "yes", restored.Get("quit").Editbox.Default)
	assert.True(t, restored.Get("roll").HasInputRequest())
	assert.False(t, restored.Get("hold").HasInputRequest())
}
