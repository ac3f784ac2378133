package agent

import (
	"slices"
	"testing"
	"time"
)

func TestClockFiresInDueOrder(t *testing.T) {
	c := NewClock()
	var got []string
	c.AfterFunc(30*ms, func() { got = append(got, "c") })
	c.AfterFunc(10*ms, func() { got = append(got, "a") })
	c.AfterFunc(20*ms, func() { got = append(got, "b") })
	c.AfterFunc(10*ms, func() { got = append(got, "a2") })

	c.Advance(25 * ms)
	if want := []string{"a", "a2", "b"}; !slices.Equal(got, want) {
		t.Fatalf("fired = %v, want %v", got, want)
	}
	if c.Now() != 25*ms {
		t.Errorf("Now = %v, want 25ms", c.Now())
	}
	if c.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", c.Pending())
	}
}

func TestClockNowDuringCallback(t *testing.T) {
	c := NewClock()
	var at time.Duration
	c.AfterFunc(40*ms, func() { at = c.Now() })
	c.Advance(time.Second)
	if at != 40*ms {
		t.Errorf("Now inside callback = %v, want 40ms", at)
	}
}

func TestClockChainedTimersFireInOneAdvance(t *testing.T) {
	c := NewClock()
	n := 0
	var tick func()
	tick = func() {
		n++
		c.AfterFunc(10*ms, tick)
	}
	c.AfterFunc(10*ms, tick)

	c.Advance(55 * ms)
	if n != 5 {
		t.Errorf("ticks = %d, want 5", n)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", c.Pending())
	}
}

func TestTimerStop(t *testing.T) {
	c := NewClock()
	fired := false
	tm := c.AfterFunc(10*ms, func() { fired = true })

	if !tm.Active() {
		t.Fatal("timer should be active before Stop")
	}
	if !tm.Stop() {
		t.Error("first Stop should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}

	var nilTimer *Timer
	if nilTimer.Stop() || nilTimer.Active() {
		t.Error("nil timer should be inert")
	}
}

func TestClockZeroDelay(t *testing.T) {
	c := NewClock()
	fired := false
	c.AfterFunc(-5*ms, func() { fired = true })
	c.Advance(0)
	if !fired {
		t.Error("non-positive delay should fire on Advance(0)")
	}
}
