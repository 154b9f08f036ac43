package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegisteredConn(cm *ConnectionManager, id string) *Connection {
	conn := &Connection{
		ID:          id,
		Send:        make(chan []byte, 4),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}
	cm.mu.Lock()
	cm.byID[conn.ID] = conn
	cm.mu.Unlock()
	return conn
}

func TestSendAfterUnregisterIsRefused(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	conn := newRegisteredConn(cm, "c1")
	conn.Attach("ROOM1", RolePlayer)

	require.True(t, conn.trySend([]byte(`{"type":"x"}`)))

	cm.removeConnection(conn)

	// The dispatcher may still hold this connection from a pool
	// snapshot taken before removal; the late send must be refused
	// rather than hit the closed channel.
	assert.False(t, conn.trySend([]byte(`{"type":"late"}`)))
	assert.Equal(t, 0, cm.ConnCount("ROOM1"))
}

func TestSendRefusedWhenBufferFull(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	conn := newRegisteredConn(cm, "c1")

	for i := 0; i < cap(conn.Send); i++ {
		require.True(t, conn.trySend([]byte("x")))
	}
	assert.False(t, conn.trySend([]byte("overflow")))
}

func TestCloseSendIsIdempotent(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	conn := newRegisteredConn(cm, "c1")

	conn.closeSend()
	conn.closeSend()

	_, open := <-conn.Send
	assert.False(t, open)
}
