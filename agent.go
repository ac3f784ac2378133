package agent

import (
	"errors"
	"time"
)

// Surface is everything an Agent needs from its presentation layer.
// Positions are the top-left corner of the character in viewport
// coordinates; the character's size is the catalog frame size.
type Surface interface {
	OverlayRenderer
	BalloonView
	SetPosition(x, y float64)
	Viewport() Rect
	Show()
	Hide()
}

// Resources are the loaded inputs of an Agent. Catalog is required.
type Resources struct {
	Catalog *Catalog
	Sounds  SoundBank
	Jokes   []string
}

// Agent is an animated character. It runs one queued action at a time and
// fills every gap with an idle clip.
//
// Agent is single-threaded: every method, and the host's Update, must be
// called from the same goroutine.
type Agent struct {
	cfg      Config
	clock    *Clock
	rng      Random
	surface  Surface
	catalog  *Catalog
	jokes    []string
	queue    *Queue
	animator *Animator
	balloon  *Balloon

	pos     Vec2
	placed  bool
	hidden  bool
	visible bool

	idlePending bool
	idleWaiters []func()
	idleGuard   *Timer

	motion *Motion

	dragging   bool
	dragOffset Vec2
	dragTarget Vec2
	dragPoll   *Timer
}

// New builds a hidden agent over res, drawing onto surface. Call Show to
// bring it on screen and Update once per tick to drive it.
func New(res Resources, surface Surface, cfg Config) (*Agent, error) {
	if res.Catalog == nil {
		return nil, errors.New("agent: resources have no catalog")
	}
	if surface == nil {
		return nil, errors.New("agent: nil surface")
	}
	cfg = cfg.withDefaults()
	if cfg.Clock == nil {
		cfg.Clock = NewClock()
	}
	if cfg.Rand == nil {
		cfg.Rand = defaultRand{}
	}

	a := &Agent{
		cfg:     cfg,
		clock:   cfg.Clock,
		rng:     cfg.Rand,
		surface: surface,
		catalog: res.Catalog,
		jokes:   res.Jokes,
		hidden:  true,
	}
	a.queue = NewQueue(a.onQueueEmpty)
	a.queue.debug = cfg.Debug
	a.animator = NewAnimator(res.Catalog, a.clock, surface, res.Sounds, a.rng)
	a.animator.debug = cfg.Debug
	a.balloon = NewBalloon(surface, a.clock, cfg)
	return a, nil
}

// Update advances the agent's clock by dt, firing every timer that falls
// due. Hosts call it once per frame.
func (a *Agent) Update(dt time.Duration) {
	a.clock.Advance(dt)
}

// Clock returns the clock driving the agent.
func (a *Agent) Clock() *Clock { return a.clock }

// Config returns the effective configuration.
func (a *Agent) Config() Config { return a.cfg }

// Catalog returns the animation catalog.
func (a *Agent) Catalog() *Catalog { return a.catalog }

// Balloon returns the agent's speech balloon.
func (a *Agent) Balloon() *Balloon { return a.balloon }

// Current returns the name of the clip on screen.
func (a *Agent) Current() string { return a.animator.Current() }

// Hidden reports whether the agent has been hidden.
func (a *Agent) Hidden() bool { return a.hidden }

// Dragging reports whether a pointer drag is in progress.
func (a *Agent) Dragging() bool { return a.dragging }

// QueueLen returns the number of actions waiting behind the running one.
func (a *Agent) QueueLen() int { return a.queue.Len() }

// Busy reports whether an action is running.
func (a *Agent) Busy() bool { return a.queue.Active() }

// HasAnimation reports whether the catalog holds a clip called name.
func (a *Agent) HasAnimation(name string) bool {
	return a.animator.Has(name)
}

// Animations returns every clip name in sorted order.
func (a *Agent) Animations() []string {
	return a.catalog.Names()
}

// --- Actions ---

// GestureAt queues a gesture toward (x, y), preferring a Gesture clip for
// the resolved direction and falling back to the matching Look clip. It
// returns false when neither exists.
func (a *Agent) GestureAt(x, y float64) bool {
	d := a.direction(x, y).String()
	name := "Gesture" + d
	if !a.HasAnimation(name) {
		name = "Look" + d
	}
	return a.Play(name)
}

// MoveTo queues a move of the character's top-left corner to (x, y) over
// duration. The directional Move clip plays while travelling when the
// catalog has one. A zero duration teleports.
func (a *Agent) MoveTo(x, y float64, duration time.Duration) {
	name := "Move" + a.direction(x, y).String()
	to := Vec2{X: x, Y: y}

	a.queue.Enqueue(func(done func()) {
		if duration <= 0 {
			a.SetPosition(x, y)
			a.Reposition()
			done()
			return
		}
		if !a.HasAnimation(name) {
			a.moveTo(to, duration, done)
			return
		}

		var travel *Motion
		a.playInternal(name, func(_ string, state AnimationState) {
			switch state {
			case StateWaiting:
				if travel != nil {
					return
				}
				travel = a.moveTo(to, duration, a.exitCurrent())
			case StateExited:
				if travel != nil {
					a.stopMotion(travel)
					done()
					return
				}
				// The clip ended before it could hold (an early Stop, or a
				// clip without exit branching): travel without it.
				travel = a.moveTo(to, duration, done)
			}
		}, nil)
	})
}

func (a *Agent) moveTo(to Vec2, duration time.Duration, done func()) *Motion {
	a.motion.Stop()
	var m *Motion
	m = StartMotion(a.clock, a.cfg.MotionInterval, a.pos, to, duration, nil,
		func(p Vec2) { a.SetPosition(p.X, p.Y) },
		func() {
			if a.motion == m {
				a.motion = nil
			}
			done()
		})
	if !m.Done() {
		a.motion = m
	}
	return m
}

// stopMotion halts m where it is.
func (a *Agent) stopMotion(m *Motion) {
	m.Stop()
	if a.motion == m {
		a.motion = nil
	}
}

// exitCurrent returns a func that requests an exit of the clip on screen
// now, and does nothing once another clip has been shown.
func (a *Agent) exitCurrent() func() {
	shows := a.animator.Shows()
	return func() {
		if a.animator.Shows() == shows {
			a.animator.Exit()
		}
	}
}

// Speak queues text for the balloon. The action completes once the words
// are out, or for a held balloon, once CloseBalloon or StopCurrent releases
// it.
func (a *Agent) Speak(text string, hold bool) {
	a.queue.Enqueue(func(done func()) {
		a.balloon.Reposition(a.Bounds(), a.surface.Viewport())
		a.balloon.Speak(text, hold, done)
	})
}

// CloseBalloon hides the balloon after the close delay.
func (a *Agent) CloseBalloon() {
	a.balloon.Hide(false)
}

// Delay queues a pause of d. The idle clip fills the pause. d <= 0 uses the
// configured default.
func (a *Agent) Delay(d time.Duration) {
	if d <= 0 {
		d = a.cfg.DelayDuration
	}
	a.queue.Enqueue(func(done func()) {
		a.onQueueEmpty()
		a.clock.AfterFunc(d, done)
	})
}

// Play queues the clip called name with the configured timeout. It returns
// false without queueing when the clip is unknown.
func (a *Agent) Play(name string) bool {
	return a.PlayWithTimeout(name, a.cfg.PlayTimeout, nil)
}

// PlayWithTimeout queues the clip called name. When the clip has not
// exited within timeout an exit is requested; timeout <= 0 waits without
// limit. cb, if not nil, runs when the clip exits.
func (a *Agent) PlayWithTimeout(name string, timeout time.Duration, cb func()) bool {
	if !a.HasAnimation(name) {
		if a.cfg.Debug {
			debugf("play: unknown animation %q", name)
		}
		return false
	}

	a.queue.Enqueue(func(done func()) {
		completed := false
		var timer *Timer
		a.playInternal(name, func(_ string, state AnimationState) {
			if state != StateExited || completed {
				return
			}
			completed = true
			timer.Stop()
			if cb != nil {
				cb()
			}
			done()
		}, func() {
			if timeout > 0 && !completed {
				exit := a.exitCurrent()
				timer = a.clock.AfterFunc(timeout, func() {
					if !completed {
						exit()
					}
				})
			}
		})
	})
	return true
}

// playInternal shows name right away, or after the running idle clip has
// exited. started runs once the clip is actually on screen.
func (a *Agent) playInternal(name string, onState StateFunc, started func()) {
	show := func() {
		a.animator.Show(name, onState)
		if started != nil {
			started()
		}
	}
	if !a.idleBusy() {
		show()
		return
	}
	a.idleWaiters = append(a.idleWaiters, show)
	a.animator.Exit()
	if a.idleGuard == nil {
		a.idleGuard = a.clock.AfterFunc(a.cfg.PlayTimeout.Abs(), a.releaseIdle)
	}
}

// Animate queues a random non-idle clip. It returns false when the catalog
// has none.
func (a *Agent) Animate() bool {
	names := a.catalog.Names()
	candidates := 0
	for _, n := range names {
		if !a.isIdleClip(n) {
			candidates++
		}
	}
	if candidates == 0 {
		return false
	}
	for {
		name := names[a.rng.IntN(len(names))]
		if !a.isIdleClip(name) {
			return a.Play(name)
		}
	}
}

// Show brings the agent on screen and plays its Show clip. The first Show
// without a prior SetPosition places the character at 80% of the viewport.
func (a *Agent) Show() bool {
	a.hidden = false
	if !a.placed {
		vp := a.surface.Viewport()
		a.SetPosition(vp.X+vp.Width*0.8, vp.Y+vp.Height*0.8)
	}
	a.setVisible(true)
	a.Resume()
	if a.Play("Show") {
		return true
	}
	a.onQueueEmpty()
	return false
}

// ShowAt positions the character at (x, y) and shows it.
func (a *Agent) ShowAt(x, y float64) bool {
	a.SetPosition(x, y)
	return a.Show()
}

// ShowFast brings the agent on screen without the Show clip and goes
// straight to idling.
func (a *Agent) ShowFast() {
	a.hidden = false
	if !a.placed {
		vp := a.surface.Viewport()
		a.SetPosition(vp.X+vp.Width*0.8, vp.Y+vp.Height*0.8)
	}
	a.setVisible(true)
	a.Resume()
	a.onQueueEmpty()
}

// Hide stops everything and takes the agent off screen. Unless fast is set
// the Hide clip plays first. cb, if not nil, runs once the agent is gone.
// The running action is ended along with the queue, so a later Show starts
// from an empty queue.
func (a *Agent) Hide(fast bool, cb func()) {
	a.hidden = true
	a.Stop()
	a.stopMotion(a.motion)
	a.endDrag()
	a.queue.Release()
	if fast || !a.HasAnimation("Hide") {
		a.setVisible(false)
		a.Pause()
		if cb != nil {
			cb()
		}
		return
	}

	gone := false
	a.playInternal("Hide", func(string, AnimationState) {
		if gone {
			return
		}
		gone = true
		a.setVisible(false)
		a.Pause()
		if cb != nil {
			cb()
		}
	}, nil)
}

func (a *Agent) setVisible(v bool) {
	a.visible = v
	if v {
		a.surface.Show()
	} else {
		a.surface.Hide()
	}
}

// Stop drops every queued action, asks the current clip to exit and takes
// the balloon down at once. A running action is not completed by force,
// with one deliberate exception: a speech whose words were cut off ends
// with its balloon, since nothing else would ever complete it.
func (a *Agent) Stop() {
	a.queue.Clear()
	a.balloon.Interrupt()
	a.animator.Exit()
}

// StopCurrent asks the current clip to exit and closes the balloon, leaving
// queued actions in place.
func (a *Agent) StopCurrent() {
	a.animator.Exit()
	a.balloon.Close()
}

// Pause freezes the animation, the balloon and any motion in progress.
func (a *Agent) Pause() {
	a.animator.Pause()
	a.balloon.Pause()
	a.motion.Pause()
}

// Resume continues after Pause. The animation always takes one fresh step
// immediately rather than finishing the paused frame's remaining time.
func (a *Agent) Resume() {
	a.animator.Resume()
	a.balloon.Resume()
	a.motion.Resume()
}

// --- Position ---

// SetPosition moves the character's top-left corner to (x, y) at once.
func (a *Agent) SetPosition(x, y float64) {
	a.pos = Vec2{X: x, Y: y}
	a.placed = true
	a.surface.SetPosition(x, y)
}

// Position returns the character's top-left corner.
func (a *Agent) Position() Vec2 { return a.pos }

// Bounds returns the character's rectangle.
func (a *Agent) Bounds() Rect {
	size := a.catalog.FrameSize()
	return Rect{X: a.pos.X, Y: a.pos.Y, Width: size.X, Height: size.Y}
}

// Reposition pulls the character back inside the viewport and re-attaches
// the balloon. It does nothing while the agent is off screen. Hosts call it
// when the viewport changes size.
func (a *Agent) Reposition() {
	if !a.visible {
		return
	}
	vp := a.surface.Viewport()
	b := a.Bounds()
	m := a.cfg.ViewportMargin

	x, y := b.X, b.Y
	if y-m < vp.Y {
		y = vp.Y + m
	} else if y+b.Height+m > vp.Y+vp.Height {
		y = vp.Y + vp.Height - b.Height - m
	}
	if x-m < vp.X {
		x = vp.X + m
	} else if x+b.Width+m > vp.X+vp.Width {
		x = vp.X + vp.Width - b.Width - m
	}
	a.SetPosition(x, y)
	a.balloon.Reposition(a.Bounds(), vp)
}

func (a *Agent) direction(x, y float64) Direction {
	d := DirectionTo(a.Bounds().Center(), Vec2{X: x, Y: y})
	if a.cfg.MirrorDirections {
		d = d.Mirror()
	}
	return d
}

// --- Pointer ---

// DoubleClick plays the ClickedOn clip, or tells a joke when there is none,
// or plays a random clip when there are no jokes either. A hidden agent
// ignores it.
func (a *Agent) DoubleClick() {
	if a.hidden {
		return
	}
	if a.Play("ClickedOn") {
		return
	}
	if len(a.jokes) > 0 {
		a.Speak(a.jokes[a.rng.IntN(len(a.jokes))], false)
		return
	}
	a.Animate()
}

// PointerDown starts dragging the character from the pointer at (x, y).
// Everything pauses and the balloon hides until PointerUp. A hidden agent
// cannot be dragged.
func (a *Agent) PointerDown(x, y float64) {
	if a.dragging || a.hidden {
		return
	}
	a.dragging = true
	a.Pause()
	a.balloon.Hide(true)
	a.dragOffset = Vec2{X: x - a.pos.X, Y: y - a.pos.Y}
	a.dragTarget = a.pos
	a.dragPoll = a.clock.AfterFunc(a.cfg.DragPollInterval, a.updateDrag)
}

// PointerMove records the latest pointer position of a drag. The character
// follows on the next poll.
func (a *Agent) PointerMove(x, y float64) {
	if !a.dragging {
		return
	}
	a.dragTarget = Vec2{X: x - a.dragOffset.X, Y: y - a.dragOffset.Y}
}

// PointerUp ends a drag: the character settles on the last pointer target,
// the balloon comes back, the character is pulled inside the viewport and
// everything resumes.
func (a *Agent) PointerUp() {
	if !a.dragging {
		return
	}
	a.dragging = false
	a.dragPoll.Stop()
	a.dragPoll = nil
	a.SetPosition(a.dragTarget.X, a.dragTarget.Y)
	a.balloon.Show()
	a.Reposition()
	a.Resume()
}

// endDrag abandons a drag in progress without settling the character.
func (a *Agent) endDrag() {
	if !a.dragging {
		return
	}
	a.dragging = false
	a.dragPoll.Stop()
	a.dragPoll = nil
}

func (a *Agent) updateDrag() {
	a.SetPosition(a.dragTarget.X, a.dragTarget.Y)
	a.dragPoll = a.clock.AfterFunc(a.cfg.DragPollInterval, a.updateDrag)
}

// --- Idle ---

func (a *Agent) isIdleClip(name string) bool {
	clip, ok := a.catalog.Clip(name)
	return ok && clip.Idle
}

// idleBusy reports whether an idle clip is on screen and has not exited.
func (a *Agent) idleBusy() bool {
	return a.idlePending && a.isIdleClip(a.animator.Current())
}

func (a *Agent) onQueueEmpty() {
	if a.hidden || a.idleBusy() {
		return
	}
	a.startIdle()
}

func (a *Agent) startIdle() {
	names := a.catalog.IdleNames()
	if len(names) == 0 {
		return
	}
	name := names[a.rng.IntN(len(names))]
	a.idlePending = true
	a.animator.Show(name, a.onIdleState)
}

func (a *Agent) onIdleState(_ string, state AnimationState) {
	if state != StateExited {
		return
	}
	if len(a.idleWaiters) > 0 {
		a.releaseIdle()
		return
	}
	a.idlePending = false
	if !a.hidden && !a.queue.Active() {
		a.startIdle()
	}
}

// releaseIdle resolves the idle latch and starts the clips waiting on it.
// The idle guard calls it too, so an idle clip with no way out cannot hold
// actions back for longer than the play timeout.
func (a *Agent) releaseIdle() {
	a.idlePending = false
	a.idleGuard.Stop()
	a.idleGuard = nil
	waiters := a.idleWaiters
	a.idleWaiters = nil
	for _, fn := range waiters {
		fn()
	}
}
