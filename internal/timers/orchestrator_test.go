package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fire callbacks run on their own goroutine, so tests synchronize on a
// channel rather than asserting immediately after Advance.
func waitFired(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func assertNotFired(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("timer fired unexpectedly")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestArmFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock)

	fired := make(chan struct{}, 1)
	o.Arm("ABCDE", 5*time.Second, func() { fired <- struct{}{} })
	assert.True(t, o.Armed("ABCDE"))

	clock.Advance(4 * time.Second)
	assertNotFired(t, fired)

	clock.Advance(time.Second)
	waitFired(t, fired)
	assert.Eventually(t, func() bool { return !o.Armed("ABCDE") }, 2*time.Second, 10*time.Millisecond)
}

func TestDisarmCancels(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock)

	fired := make(chan struct{}, 1)
	o.Arm("ABCDE", 5*time.Second, func() { fired <- struct{}{} })
	o.Disarm("ABCDE")
	assert.False(t, o.Armed("ABCDE"))

	clock.Advance(10 * time.Second)
	assertNotFired(t, fired)
}

func TestDisarmIsIdempotent(t *testing.T) {
	o := New(clockwork.NewFakeClock())

	o.Disarm("ABCDE")
	o.Disarm("ABCDE")
	assert.False(t, o.Armed("ABCDE"))
}

func TestArmReplacesOutstandingTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock)

	var stale atomic.Int32
	fired := make(chan struct{}, 1)
	o.Arm("ABCDE", 5*time.Second, func() { stale.Add(1) })
	o.Arm("ABCDE", 10*time.Second, func() { fired <- struct{}{} })

	clock.Advance(5 * time.Second)
	assertNotFired(t, fired)

	clock.Advance(5 * time.Second)
	waitFired(t, fired)
	assert.Equal(t, int32(0), stale.Load())
}

func TestTimersArePerRoom(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock)

	var a atomic.Int32
	b := make(chan struct{}, 1)
	o.Arm("AAAAA", 2*time.Second, func() { a.Add(1) })
	o.Arm("BBBBB", 5*time.Second, func() { b <- struct{}{} })

	o.Disarm("AAAAA")
	clock.Advance(5 * time.Second)

	waitFired(t, b)
	assert.Equal(t, int32(0), a.Load())
}

func TestRearmFromInsideFire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := New(clock)

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	o.Arm("ABCDE", time.Second, func() {
		o.Arm("ABCDE", time.Second, func() { second <- struct{}{} })
		first <- struct{}{}
	})

	clock.Advance(time.Second)
	waitFired(t, first)
	require.True(t, o.Armed("ABCDE"))

	clock.Advance(time.Second)
	waitFired(t, second)
}
