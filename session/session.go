// Package session tracks live connections and which account each one
// authenticated as.
package session

import (
	"sync"
	"time"

	"github.com/James-Trimble/PlayPalace11/network"
)

// Session is one websocket connection. Username is empty until the
// authorize handshake succeeds.
type Session struct {
	ID        string
	Conn      network.Connection
	CreatedAt time.Time

	mutex      sync.RWMutex
	username   string
	lastActive time.Time
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		lastActive: now,
	}
}

// Authenticate binds the session to an account.
func (s *Session) Authenticate(username string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.username = username
}

// Username returns the bound account name, or "" pre-auth.
func (s *Session) Username() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.username
}

// IsAuthenticated reports whether the handshake completed.
func (s *Session) IsAuthenticated() bool {
	return s.Username() != ""
}

// Touch records activity for idle accounting.
func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

// LastActive returns the time of the last inbound message.
func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

// Send writes a message to the connection.
func (s *Session) Send(msg any) error {
	return s.Conn.Send(msg)
}

// Close tears the connection down.
func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager indexes sessions by ID and by account.
type Manager struct {
	mutex    sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		byUser:   make(map[string]*Session),
	}
}

func (m *Manager) Add(s *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[s.ID] = s
}

// Bind records the session as username's connection. An account has at
// most one session; the previous one, if any, is returned so the caller
// can close it.
func (m *Manager) Bind(username string, s *Session) *Session {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	old := m.byUser[username]
	m.byUser[username] = s
	return old
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	delete(m.sessions, sessionID)
	if name := s.Username(); name != "" && m.byUser[name] == s {
		delete(m.byUser, name)
	}
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// GetByUsername returns the account's live session, or nil.
func (m *Manager) GetByUsername(username string) *Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.byUser[username]
}

// OnlineUsernames lists every authenticated account.
func (m *Manager) OnlineUsernames() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]string, 0, len(m.byUser))
	for name := range m.byUser {
		out = append(out, name)
	}
	return out
}

// Count returns the number of open sessions, authenticated or not.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
