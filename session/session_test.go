package session

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-Trimble/PlayPalace11/network"
)

type fakeConn struct {
	sent   []any
	closed bool
}

func (c *fakeConn) Send(msg any) error { c.sent = append(c.sent, msg); return nil }

func (c *fakeConn) ReadMessage() (*network.ClientMessage, error) { return nil, nil }

func (c *fakeConn) Close() error { c.closed = true; return nil }

func (c *fakeConn) RemoteAddr() net.Addr { return nil }

func (c *fakeConn) SetHeartbeat(time.Duration) {}

func TestSession_AuthenticateBindsAccount(t *testing.T) {
	s := NewSession("s1", &fakeConn{})
	assert.False(t, s.IsAuthenticated())

	s.Authenticate("alice")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "alice", s.Username())
}

func TestManager_BindReplacesPreviousSession(t *testing.T) {
	m := NewManager()
	first := NewSession("s1", &fakeConn{})
	first.Authenticate("alice")
	m.Add(first)
	require.Nil(t, m.Bind("alice", first))

	second := NewSession("s2", &fakeConn{})
	second.Authenticate("alice")
	m.Add(second)
	old := m.Bind("alice", second)
	assert.Equal(t, first, old)
	assert.Equal(t, second, m.GetByUsername("alice"))
}

func TestManager_RemoveDropsUserIndex(t *testing.T) {
	m := NewManager()
	s := NewSession("s1", &fakeConn{})
	s.Authenticate("alice")
	m.Add(s)
	m.Bind("alice", s)

	m.Remove("s1")
	assert.Nil(t, m.GetByUsername("alice"))
	assert.Zero(t, m.Count())
}

func TestManager_RemoveKeepsNewerBinding(t *testing.T) {
	m := NewManager()
	first := NewSession("s1", &fakeConn{})
	first.Authenticate("alice")
	m.Add(first)
	m.Bind("alice", first)

	second := NewSession("s2", &fakeConn{})
	second.Authenticate("alice")
	m.Add(second)
	m.Bind("alice", second)

	// Closing the stale session must not unbind the live one.
	m.Remove("s1")
	assert.Equal(t, second, m.GetByUsername("alice"))
	assert.ElementsMatch(t, []string{"alice"}, m.OnlineUsernames())
}
