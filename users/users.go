// Package users holds the user boundary: humans reachable over the
// network and bots. Games talk to both through the same interface; bots
// simply discard anything rendered for them.
package users

import (
	"sync"

	"github.com/James-Trimble/PlayPalace11/locale"
)

// Message is an outbound JSON-serializable payload queued for a user and
// flushed to the transport on the next tick.
type Message map[string]any

// MenuItem is one entry in a rendered menu.
type MenuItem struct {
	Text string `json:"text"`
	ID   string `json:"id"`
}

// User is anything a game can address: queue a message, ask its locale.
type User interface {
	Username() string
	Locale() string
	IsBot() bool
	Queue(msg Message)
}

// NetworkUser is a human connected over the transport. Messages queue
// here and the server flushes them once per tick, preserving the
// one-logical-thread ordering guarantees.
type NetworkUser struct {
	name        string
	locale      string
	catalog     *locale.Catalog
	Preferences Preferences

	mu    sync.Mutex
	queue []Message
}

// NewNetworkUser creates a user with the given locale and preferences.
func NewNetworkUser(name, loc string, catalog *locale.Catalog, prefs Preferences) *NetworkUser {
	return &NetworkUser{
		name:        name,
		locale:      loc,
		catalog:     catalog,
		Preferences: prefs,
	}
}

func (u *NetworkUser) Username() string { return u.name }
func (u *NetworkUser) Locale() string   { return u.locale }
func (u *NetworkUser) IsBot() bool      { return false }

// SetLocale changes the user's language for subsequent messages.
func (u *NetworkUser) SetLocale(loc string) { u.locale = loc }

// TurnSoundEnabled reports whether turn announcements should carry a
// sound for this user.
func (u *NetworkUser) TurnSoundEnabled() bool { return u.Preferences.PlayTurnSound }

// DiceKeepingStyle reports how this user's dice keys map: toggle by
// position or keep by face value.
func (u *NetworkUser) DiceKeepingStyle() string { return u.Preferences.DiceKeepingStyle }

// ClearKeptOnRoll reports whether kept-dice selections reset after each
// roll, so the player re-picks every time.
func (u *NetworkUser) ClearKeptOnRoll() bool { return u.Preferences.ClearKeptOnRoll }

// Queue appends an outbound message.
func (u *NetworkUser) Queue(msg Message) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.queue = append(u.queue, msg)
}

// DrainMessages returns and clears the queued messages.
func (u *NetworkUser) DrainMessages() []Message {
	u.mu.Lock()
	defer u.mu.Unlock()
	msgs := u.queue
	u.queue = nil
	return msgs
}

// Bot is a non-human user. It accepts the same messages as a NetworkUser
// and drops them; bot decisions come from the game's internal hook, not
// from rendered UI.
type Bot struct {
	name string
}

// NewBot creates a bot identity.
func NewBot(name string) *Bot {
	return &Bot{name: name}
}

func (b *Bot) Username() string  { return b.name }
func (b *Bot) Locale() string    { return "en" }
func (b *Bot) IsBot() bool       { return true }
func (b *Bot) Queue(msg Message) {}

// Speak queues plain text for the user.
func Speak(u User, text string) {
	u.Queue(Message{"type": "speak", "text": text})
}

// SpeakL resolves a localization key in the user's locale and queues it.
func SpeakL(u User, catalog *locale.Catalog, key string, params map[string]any) {
	u.Queue(Message{"type": "speak", "text": catalog.Get(u.Locale(), key, params)})
}

// ShowMenu queues a menu render.
func ShowMenu(u User, menuID string, items []MenuItem) {
	u.Queue(Message{"type": "menu", "menu_id": menuID, "items": items})
}

// ShowEditbox queues a free-text prompt.
func ShowEditbox(u User, boxID, prompt, defaultValue string) {
	u.Queue(Message{
		"type":    "editbox",
		"id":      boxID,
		"prompt":  prompt,
		"default": defaultValue,
	})
}

// PlaySound queues a sound effect.
func PlaySound(u User, name string) {
	u.Queue(Message{"type": "sound", "name": name})
}

// PlayMusic queues a music change.
func PlayMusic(u User, name string) {
	u.Queue(Message{"type": "music", "name": name})
}
