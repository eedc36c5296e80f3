// Package table wraps one running game with its membership and wires it
// to persistence through the manager. Tables never talk to the network;
// they queue messages on users and the server flushes them.
package table

import (
	"sync"
	"time"

	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/users"
)

// Table is one live game and the users present at it. Membership is
// distinct from the game's seats: a disconnected player keeps their seat
// but drops out of the member map until they reconnect.
type Table struct {
	ID        string
	GameType  string
	CreatedAt time.Time
	Game      game.Game

	manager *Manager

	mu      sync.RWMutex
	members map[string]users.User // username -> attached user
}

// TableID implements game.TableHooks.
func (t *Table) TableID() string { return t.ID }

// RequestSave implements game.TableHooks: persist the table as a saved
// game for username and close it.
func (t *Table) RequestSave(username string) {
	t.manager.saveForUser(t, username)
}

// RequestDestroy implements game.TableHooks.
func (t *Table) RequestDestroy() {
	t.manager.Destroy(t)
}

// PlayerLeft implements game.TableHooks: drop the leaver from the
// member list and send them back to the main menu. The seat's user
// binding is the game's business (it may have just been handed to a
// substitute bot), so only membership changes here.
func (t *Table) PlayerLeft(username string) {
	t.mu.Lock()
	u := t.members[username]
	delete(t.members, username)
	t.mu.Unlock()

	if u != nil && !u.IsBot() {
		u.Queue(users.Message{"type": "table_closed", "table_id": t.ID})
	}
}

// Attach binds a user to the table member list and to their seat, if
// they hold one. Used on join, reconnect, and restore.
func (t *Table) Attach(username string, u users.User) {
	t.mu.Lock()
	t.members[username] = u
	t.mu.Unlock()

	if p := t.Game.Base().PlayerByName(username); p != nil {
		t.Game.Base().AttachUser(p.ID, u)
	}
}

// Detach drops the user from the member list. Their seat survives so a
// reconnect can reclaim it.
func (t *Table) Detach(username string) {
	t.mu.Lock()
	delete(t.members, username)
	t.mu.Unlock()

	if p := t.Game.Base().PlayerByName(username); p != nil {
		t.Game.Base().DetachUser(p.ID)
	}
}

// Member returns the attached user for a username, or nil.
func (t *Table) Member(username string) users.User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.members[username]
}

// HasMember reports whether the username is present at the table.
func (t *Table) HasMember(username string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.members[username]
	return ok
}

// Members returns a snapshot of the attached users.
func (t *Table) Members() []users.User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]users.User, 0, len(t.members))
	for _, u := range t.members {
		out = append(out, u)
	}
	return out
}

// MemberCount returns the number of attached users.
func (t *Table) MemberCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.members)
}

// IsJoinable reports whether the table is still in its lobby with a free
// seat.
func (t *Table) IsJoinable() bool {
	b := t.Game.Base()
	return b.Status == game.StatusWaiting &&
		len(b.ActivePlayers()) < t.Game.Descriptor().MaxPlayers
}
