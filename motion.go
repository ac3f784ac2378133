package agent

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Motion animates a position from its start to a target over a fixed
// duration, stepping on clock timers. Each step writes the eased position
// through apply. The final step always lands exactly on the target.
type Motion struct {
	clock    *Clock
	interval time.Duration
	tweenX   *gween.Tween
	tweenY   *gween.Tween
	to       Vec2
	apply    func(Vec2)
	done     func()
	last     time.Duration
	timer    *Timer
	finished bool
	stopped  bool
}

// StartMotion begins moving from one point to another over duration. apply receives every
// intermediate position and done, which may be nil, runs once after the
// final position has been applied.
func StartMotion(clock *Clock, interval time.Duration, from, to Vec2, duration time.Duration, fn ease.TweenFunc, apply func(Vec2), done func()) *Motion {
	if fn == nil {
		fn = ease.InOutSine
	}
	secs := float32(duration.Seconds())
	m := &Motion{
		clock:    clock,
		interval: interval,
		tweenX:   gween.New(float32(from.X), float32(to.X), secs, fn),
		tweenY:   gween.New(float32(from.Y), float32(to.Y), secs, fn),
		to:       to,
		apply:    apply,
		done:     done,
		last:     clock.Now(),
	}
	if duration <= 0 {
		m.finish()
		return m
	}
	m.timer = clock.AfterFunc(interval, m.step)
	return m
}

func (m *Motion) step() {
	now := m.clock.Now()
	dt := float32((now - m.last).Seconds())
	m.last = now

	x, doneX := m.tweenX.Update(dt)
	y, doneY := m.tweenY.Update(dt)
	if doneX && doneY {
		m.finish()
		return
	}
	m.apply(Vec2{X: float64(x), Y: float64(y)})
	m.timer = m.clock.AfterFunc(m.interval, m.step)
}

func (m *Motion) finish() {
	m.finished = true
	m.timer = nil
	m.apply(m.to)
	if m.done != nil {
		m.done()
	}
}

// Stop cancels the motion where it is. done is not called.
func (m *Motion) Stop() {
	if m == nil {
		return
	}
	m.stopped = true
	m.timer.Stop()
	m.timer = nil
}

// Pause suspends stepping. Resume continues from the paused position,
// counting only time that passes after the resume.
func (m *Motion) Pause() {
	if m == nil || m.finished {
		return
	}
	m.timer.Stop()
	m.timer = nil
}

// Resume restarts stepping after Pause.
func (m *Motion) Resume() {
	if m == nil || m.finished || m.stopped || m.timer.Active() {
		return
	}
	m.last = m.clock.Now()
	m.timer = m.clock.AfterFunc(m.interval, m.step)
}

// Done reports whether the target has been reached.
func (m *Motion) Done() bool {
	return m.finished
}
