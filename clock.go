package agent

import "time"

// Clock is a virtual timer list driven by the host loop. Every suspension
// point in the package (frame advance, word reveal, balloon auto-hide, drag
// polling, motion steps) is a Timer on the agent's Clock.
//
// Clock is not safe for concurrent use. Like the rest of the package it
// assumes a single thread that calls Advance once per tick.
type Clock struct {
	now    time.Duration
	seq    uint64
	timers []*Timer
}

// Timer is a pending callback registered with Clock.AfterFunc.
type Timer struct {
	clock *Clock
	due   time.Duration
	seq   uint64
	fn    func()
	live  bool
}

// NewClock returns a clock at time zero with no pending timers.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the virtual time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// AfterFunc arranges for fn to run once d has elapsed on the clock.
// A non-positive d runs fn on the next Advance, including Advance(0).
func (c *Clock) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &Timer{clock: c, due: c.now + d, seq: c.seq, fn: fn, live: true}
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer. It reports whether the call prevented the timer
// from firing. Stop on a nil timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || !t.live {
		return false
	}
	t.live = false
	t.clock.remove(t)
	return true
}

// Active reports whether the timer is still waiting to fire.
func (t *Timer) Active() bool {
	return t != nil && t.live
}

// Pending returns the number of live timers.
func (c *Clock) Pending() int {
	return len(c.timers)
}

// Advance moves the clock forward by d, firing due timers in order of due
// time and then scheduling order. Timers armed by a callback fire within
// the same call when they fall due before the new time.
func (c *Clock) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := c.now + d
	for {
		t := c.earliest()
		if t == nil || t.due > target {
			break
		}
		c.now = t.due
		t.live = false
		c.remove(t)
		t.fn()
	}
	c.now = target
}

func (c *Clock) earliest() *Timer {
	var best *Timer
	for _, t := range c.timers {
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *Clock) remove(t *Timer) {
	for i := range c.timers {
		if c.timers[i] == t {
			copy(c.timers[i:], c.timers[i+1:])
			c.timers[len(c.timers)-1] = nil
			c.timers = c.timers[:len(c.timers)-1]
			return
		}
	}
}
