package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/quizwire/server/internal/models"
)

var (
	// ErrRoomNotFound means the room code matches no live room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull means the room is at its participant cap.
	ErrRoomFull = errors.New("room full")
	// ErrInvalidToken means the credential token matches no live
	// (room, participant) pair.
	ErrInvalidToken = errors.New("invalid credential token")
)

// Config holds registry limits.
type Config struct {
	MaxPlayers int
	RoomExpiry time.Duration
}

// DefaultConfig returns the registry defaults.
func DefaultConfig() Config {
	return Config{
		MaxPlayers: 12,
		RoomExpiry: 2 * time.Hour,
	}
}

// Binding ties a live connection to its room and participant.
type Binding struct {
	RoomCode      string
	ParticipantID string
}

// entry is one independently lockable room slot. All mutating work on a
// room happens under its mutex; the registry-level lock is only ever
// held for map bookkeeping.
type entry struct {
	mu   sync.Mutex
	room *models.Room
}

// Registry owns the durable mapping of room codes to rooms and player
// credential tokens to identities, plus the connection bindings that
// tie live sockets to participants. Constructed once per process and
// injected into every collaborator.
type Registry struct {
	clock clockwork.Clock
	cfg   Config

	mu         sync.RWMutex
	rooms      map[string]*entry
	tokens     map[string]Binding
	connBind   map[string]Binding // connection id -> binding
	playerConn map[string]string  // participant id -> connection id
}

// New creates an empty registry.
func New(clock clockwork.Clock, cfg Config) *Registry {
	return &Registry{
		clock:      clock,
		cfg:        cfg,
		rooms:      make(map[string]*entry),
		tokens:     make(map[string]Binding),
		connBind:   make(map[string]Binding),
		playerConn: make(map[string]string),
	}
}

// CreateRoom mints a new room in LOBBY with a unique code and a host
// secret bound to the creating connection.
func (r *Registry) CreateRoom(hostConnID string, settings models.GameSettings) *models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.generateCodeLocked()
	now := r.clock.Now()
	room := &models.Room{
		Code:           code,
		HostConnID:     hostConnID,
		HostSecret:     generatePin(),
		Phase:          models.PhaseLobby,
		Players:        make(map[string]*models.Player),
		Settings:       settings,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	r.rooms[code] = &entry{room: room}

	log.Info().Str("room_code", code).Msg("room created")
	return room.Clone()
}

// JoinRoom creates a participant in the room and mints a credential
// token for later rejoins. The returned player is a copy.
func (r *Registry) JoinRoom(code, displayName, connID string) (*models.Player, string, error) {
	e, ok := r.lookup(code)
	if !ok {
		return nil, "", ErrRoomNotFound
	}

	e.mu.Lock()
	if len(e.room.Players) >= r.cfg.MaxPlayers {
		e.mu.Unlock()
		return nil, "", ErrRoomFull
	}

	player := &models.Player{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		Score:       0,
		Connected:   true,
	}
	next := e.room.Clone()
	next.Players[player.ID] = player
	next.LastActivityAt = r.clock.Now()
	e.room = next
	e.mu.Unlock()

	token := generateToken()
	r.mu.Lock()
	r.tokens[token] = Binding{RoomCode: code, ParticipantID: player.ID}
	r.bindLocked(connID, Binding{RoomCode: code, ParticipantID: player.ID})
	r.mu.Unlock()

	pc := *player
	return &pc, token, nil
}

// Rejoin re-authenticates a participant from a new connection using the
// credential token issued at join time. The old connection binding, if
// any, is superseded; at most one live connection per participant.
func (r *Registry) Rejoin(code, token, connID string) (string, error) {
	r.mu.RLock()
	bind, ok := r.tokens[token]
	r.mu.RUnlock()
	if !ok || bind.RoomCode != code {
		return "", ErrInvalidToken
	}

	e, ok := r.lookup(code)
	if !ok {
		return "", ErrRoomNotFound
	}

	e.mu.Lock()
	if _, ok := e.room.Players[bind.ParticipantID]; !ok {
		e.mu.Unlock()
		return "", ErrInvalidToken
	}
	next := e.room.Clone()
	next.Players[bind.ParticipantID].Connected = true
	next.LastActivityAt = r.clock.Now()
	e.room = next
	e.mu.Unlock()

	r.mu.Lock()
	if old, ok := r.playerConn[bind.ParticipantID]; ok {
		delete(r.connBind, old)
	}
	r.bindLocked(connID, bind)
	r.mu.Unlock()

	return bind.ParticipantID, nil
}

// HandleDisconnect drops the connection binding and flips the bound
// participant's liveness. The participant itself survives; disconnect
// is not departure.
func (r *Registry) HandleDisconnect(connID string) (Binding, bool) {
	r.mu.Lock()
	bind, ok := r.connBind[connID]
	if !ok {
		r.mu.Unlock()
		return Binding{}, false
	}
	delete(r.connBind, connID)
	if r.playerConn[bind.ParticipantID] == connID {
		delete(r.playerConn, bind.ParticipantID)
	}
	r.mu.Unlock()

	if e, found := r.lookup(bind.RoomCode); found {
		e.mu.Lock()
		if p, ok := e.room.Players[bind.ParticipantID]; ok {
			next := e.room.Clone()
			next.Players[p.ID].Connected = false
			e.room = next
		}
		e.mu.Unlock()
	}

	return bind, true
}

// ReclaimHost re-binds the host identity to a new connection iff the
// secret matches.
func (r *Registry) ReclaimHost(code, secret, connID string) bool {
	e, ok := r.lookup(code)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.room.HostSecret != secret {
		return false
	}
	next := e.room.Clone()
	next.HostConnID = connID
	next.LastActivityAt = r.clock.Now()
	e.room = next
	return true
}

// SetBoard replaces the room's question grid wholesale.
func (r *Registry) SetBoard(code string, board *models.Board) error {
	e, ok := r.lookup(code)
	if !ok {
		return ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.room.Clone()
	next.Board = board.Clone()
	next.LastActivityAt = r.clock.Now()
	e.room = next
	return nil
}

// WithRoom runs fn with exclusive ownership of the room. fn receives a
// clone; returning a non-nil room swaps it in wholesale, returning an
// error leaves the stored state untouched. This is the atomic unit that
// makes "first processed wins" a total order per room.
func (r *Registry) WithRoom(code string, fn func(room *models.Room) (*models.Room, error)) (*models.Room, error) {
	e, ok := r.lookup(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.room.Clone())
	if err != nil {
		return nil, err
	}
	if next != nil {
		e.room = next
	}
	return e.room.Clone(), nil
}

// GetRoom returns a copy of the room, or false if the code is unknown.
func (r *Registry) GetRoom(code string) (*models.Room, bool) {
	e, ok := r.lookup(code)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.room.Clone(), true
}

// Snapshot returns the client-safe projection of the room.
func (r *Registry) Snapshot(code string) (*models.Snapshot, bool) {
	e, ok := r.lookup(code)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.PublicSnapshot(e.room), true
}

// ConnBinding returns the (room, participant) identity bound to a
// connection.
func (r *Registry) ConnBinding(connID string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bind, ok := r.connBind[connID]
	return bind, ok
}

// PlayerConn returns the live connection id for a participant, if any.
func (r *Registry) PlayerConn(participantID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.playerConn[participantID]
	return connID, ok
}

// SweepExpired removes every room idle longer than the configured
// expiry, along with its tokens and bindings. Best effort: rooms are
// checked one at a time under their own lock, never all at once.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.RLock()
	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	r.mu.RUnlock()

	removed := 0
	for _, code := range codes {
		e, ok := r.lookup(code)
		if !ok {
			continue
		}
		e.mu.Lock()
		expired := now.Sub(e.room.LastActivityAt) > r.cfg.RoomExpiry
		e.mu.Unlock()
		if !expired {
			continue
		}

		r.mu.Lock()
		delete(r.rooms, code)
		for token, bind := range r.tokens {
			if bind.RoomCode == code {
				delete(r.tokens, token)
			}
		}
		for connID, bind := range r.connBind {
			if bind.RoomCode == code {
				delete(r.connBind, connID)
				delete(r.playerConn, bind.ParticipantID)
			}
		}
		r.mu.Unlock()

		log.Info().Str("room_code", code).Msg("expired room removed")
		removed++
	}
	return removed
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) lookup(code string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[code]
	return e, ok
}

// bindLocked records both directions of a connection binding. Caller
// holds r.mu.
func (r *Registry) bindLocked(connID string, bind Binding) {
	r.connBind[connID] = bind
	r.playerConn[bind.ParticipantID] = connID
}
