package timers

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Orchestrator owns at most one outstanding delayed callback per room.
// Arming replaces any live timer for that room; disarming is
// idempotent. Fire callbacks run on the clock's goroutine and must
// re-validate room state themselves (check-then-act), because a race
// window may close by other means while the callback is in flight.
type Orchestrator struct {
	clock clockwork.Clock

	mu     sync.Mutex
	armed  map[string]clockwork.Timer
	gen    map[string]uint64
	nextID uint64
}

// New creates an orchestrator driven by the given clock.
func New(clock clockwork.Clock) *Orchestrator {
	return &Orchestrator{
		clock: clock,
		armed: make(map[string]clockwork.Timer),
		gen:   make(map[string]uint64),
	}
}

// Arm schedules fire to run after d, cancelling any timer already
// outstanding for the room.
func (o *Orchestrator) Arm(roomCode string, d time.Duration, fire func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if t, ok := o.armed[roomCode]; ok {
		t.Stop()
	}

	o.nextID++
	id := o.nextID
	o.gen[roomCode] = id

	o.armed[roomCode] = o.clock.AfterFunc(d, func() {
		o.mu.Lock()
		stale := o.gen[roomCode] != id
		if !stale {
			delete(o.armed, roomCode)
			delete(o.gen, roomCode)
		}
		o.mu.Unlock()
		if stale {
			// A newer timer replaced this one between fire and lock.
			return
		}
		fire()
	})

	log.Debug().Str("room_code", roomCode).Dur("after", d).Msg("room timer armed")
}

// Disarm cancels the room's outstanding timer, if any.
func (o *Orchestrator) Disarm(roomCode string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if t, ok := o.armed[roomCode]; ok {
		t.Stop()
		delete(o.armed, roomCode)
		delete(o.gen, roomCode)
		log.Debug().Str("room_code", roomCode).Msg("room timer disarmed")
	}
}

// Armed reports whether the room currently has a live timer.
func (o *Orchestrator) Armed(roomCode string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.armed[roomCode]
	return ok
}
