package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Role is what kind of client a connection represents once it has
// attached to a room.
type Role string

const (
	RoleNone   Role = ""
	RoleHost   Role = "host"
	RoleBoard  Role = "board"
	RolePlayer Role = "player"
)

// ConnectionConfig holds websocket tuning knobs.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns the default websocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// Connection is one websocket client. A connection starts unattached
// and gains a room and role through create/join/reclaim commands.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	mu       sync.Mutex
	roomCode string
	role     Role
	closed   bool

	ConnectedAt time.Time
	LastPing    time.Time
}

// Attach binds the connection to a room with the given role.
func (c *Connection) Attach(roomCode string, role Role) {
	c.mu.Lock()
	prev := c.roomCode
	c.roomCode = roomCode
	c.role = role
	c.mu.Unlock()
	c.Manager.moveConnection(c, prev, roomCode)
}

// Room returns the room code and role the connection is attached to.
func (c *Connection) Room() (string, Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode, c.role
}

// trySend queues data for the write pump. Returns false when the send
// buffer is full or the connection has already been unregistered; the
// closed check and the channel send happen under the same lock that
// closeSend takes, so the dispatcher can never send on a closed
// channel.
func (c *Connection) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// closeSend marks the connection closed and shuts its send channel.
// Idempotent.
func (c *Connection) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// broadcastMessage is a queued outbound event, optionally targeted at
// a single connection.
type broadcastMessage struct {
	roomCode string
	connID   string
	event    *RoomEvent
}

// ConnectionManager owns the websocket connection pools, one per room
// code, plus the broadcast dispatch loop.
type ConnectionManager struct {
	mu        sync.RWMutex
	roomConns map[string]map[*Connection]bool
	byID      map[string]*Connection

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcastCh chan broadcastMessage

	// Set by the service before any connection is accepted.
	OnMessage    func(conn *Connection, raw []byte)
	OnDisconnect func(conn *Connection)
}

// NewConnectionManager creates a connection manager.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		roomConns: make(map[string]map[*Connection]bool),
		byID:      make(map[string]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcastMessage, 1000),
	}
}

// Start runs the broadcast dispatch loop until ctx is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case msg := <-cm.broadcastCh:
			cm.dispatch(msg)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a websocket and starts
// its read/write pumps.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	ws, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	conn := &Connection{
		ID:          uuid.New().String(),
		Conn:        ws,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	cm.mu.Lock()
	cm.byID[conn.ID] = conn
	cm.mu.Unlock()

	go conn.writePump()
	go conn.readPump()

	log.Info().Str("connection_id", conn.ID).Msg("websocket connection established")
	return nil
}

// BroadcastToRoom queues an event for every connection in the room.
func (cm *ConnectionManager) BroadcastToRoom(roomCode string, event *RoomEvent) {
	select {
	case cm.broadcastCh <- broadcastMessage{roomCode: roomCode, event: event}:
	default:
		log.Warn().Str("room_code", roomCode).Msg("broadcast channel full, dropping message")
	}
}

// SendToConn queues an event for one connection.
func (cm *ConnectionManager) SendToConn(connID string, event *RoomEvent) {
	select {
	case cm.broadcastCh <- broadcastMessage{connID: connID, event: event}:
	default:
		log.Warn().Str("connection_id", connID).Msg("broadcast channel full, dropping message")
	}
}

// ConnCount returns the number of connections attached to a room.
func (cm *ConnectionManager) ConnCount(roomCode string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.roomConns[roomCode])
}

func (cm *ConnectionManager) dispatch(msg broadcastMessage) {
	data, err := json.Marshal(msg.event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	cm.mu.RLock()
	var targets []*Connection
	if msg.connID != "" {
		if conn, ok := cm.byID[msg.connID]; ok {
			targets = append(targets, conn)
		}
	} else {
		for conn := range cm.roomConns[msg.roomCode] {
			targets = append(targets, conn)
		}
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		if !conn.trySend(data) {
			// Connection is slow/dead, close it.
			log.Warn().Str("connection_id", conn.ID).Msg("connection send buffer full, closing connection")
			cm.removeConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("event_type", string(msg.event.Type)).
		Str("room_code", msg.event.RoomCode).
		Int("connections", len(targets)).
		Msg("event dispatched")
}

// moveConnection updates the room pools when a connection attaches.
func (cm *ConnectionManager) moveConnection(conn *Connection, from, to string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if from != "" {
		if pool, ok := cm.roomConns[from]; ok {
			delete(pool, conn)
			if len(pool) == 0 {
				delete(cm.roomConns, from)
			}
		}
	}
	if to != "" {
		if cm.roomConns[to] == nil {
			cm.roomConns[to] = make(map[*Connection]bool)
		}
		cm.roomConns[to][conn] = true
	}
}

// removeConnection drops the connection from all pools and closes its
// send channel.
func (cm *ConnectionManager) removeConnection(conn *Connection) {
	roomCode, _ := conn.Room()

	cm.mu.Lock()
	if _, ok := cm.byID[conn.ID]; !ok {
		cm.mu.Unlock()
		return
	}
	delete(cm.byID, conn.ID)
	if pool, ok := cm.roomConns[roomCode]; ok {
		delete(pool, conn)
		if len(pool) == 0 {
			delete(cm.roomConns, roomCode)
		}
	}
	conn.closeSend()
	cm.mu.Unlock()

	if cm.OnDisconnect != nil {
		cm.OnDisconnect(conn)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("room_code", roomCode).
		Msg("connection unregistered")
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.removeConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Manager.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected websocket close error")
			}
			break
		}

		if c.Manager.OnMessage != nil {
			c.Manager.OnMessage(c, message)
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
