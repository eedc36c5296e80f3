// Package broadcast delivers queued user messages to live sessions.
// Games never touch the transport: they queue on users, and the server
// flushes through here once per tick.
package broadcast

import (
	"errors"

	"github.com/James-Trimble/PlayPalace11/logger"
	"github.com/James-Trimble/PlayPalace11/session"
	"github.com/James-Trimble/PlayPalace11/users"
)

var (
	ErrUserOffline = errors.New("user offline")
)

// Flusher fans user-addressed messages out to sessions.
type Flusher struct {
	sessions *session.Manager
}

func NewFlusher(sessions *session.Manager) *Flusher {
	return &Flusher{sessions: sessions}
}

// FlushUser drains the user's outbound queue onto their session. A
// disconnected user's messages are dropped; the game state they reflect
// is resent as menus when the user reconnects.
func (f *Flusher) FlushUser(username string, u *users.NetworkUser) {
	msgs := u.DrainMessages()
	if len(msgs) == 0 {
		return
	}
	sess := f.sessions.GetByUsername(username)
	if sess == nil {
		return
	}
	for _, msg := range msgs {
		if err := sess.Send(msg); err != nil {
			logger.Log.Warnf("Send to %s failed: %v", username, err)
			return
		}
	}
}

// ToUser sends one message directly, bypassing the queue. Used for
// auth replies and pongs that should not wait for the next tick.
func (f *Flusher) ToUser(username string, msg users.Message) error {
	sess := f.sessions.GetByUsername(username)
	if sess == nil {
		return ErrUserOffline
	}
	return sess.Send(msg)
}

// ToAll sends a message to every authenticated session.
func (f *Flusher) ToAll(msg users.Message) {
	for _, name := range f.sessions.OnlineUsernames() {
		if sess := f.sessions.GetByUsername(name); sess != nil {
			if err := sess.Send(msg); err != nil {
				logger.Log.Warnf("Send to %s failed: %v", name, err)
			}
		}
	}
}
