package agent

import (
	"math"
	"time"
)

const (
	defaultDoubleClickWindow = 500 * time.Millisecond
	defaultClickSlop         = 4.0 // pixels
)

// PointerTarget receives the gestures a PointerTracker recognizes. *Agent
// implements it.
type PointerTarget interface {
	Bounds() Rect
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp()
	DoubleClick()
}

// PointerSample is the pointer state of one frame.
type PointerSample struct {
	X, Y    float64
	Pressed bool
}

// PointerTracker turns per-frame pointer samples into drag and double-click
// gestures on a target. A press that lands on the target's bounds starts a
// drag immediately; two presses released within the double-click window,
// close together, make a double click.
//
// Samples queued with Inject stand in for the real pointer, one per Sample
// call, so scripted gestures go through the same recognition as a mouse.
type PointerTracker struct {
	target PointerTarget
	clock  *Clock

	// DoubleClickWindow is the longest gap between two clicks. Default 500ms.
	DoubleClickWindow time.Duration
	// ClickSlop is how far the pointer may travel for a press and release
	// to count as a click. Default 4 pixels.
	ClickSlop float64

	down      bool
	captured  bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	moved     bool
	lastClick time.Duration
	clicks    int
	clickX    float64
	clickY    float64

	scripted []PointerSample
}

// NewPointerTracker creates a tracker feeding target. Click timing is read
// from clock.
func NewPointerTracker(target PointerTarget, clock *Clock) *PointerTracker {
	return &PointerTracker{
		target:            target,
		clock:             clock,
		DoubleClickWindow: defaultDoubleClickWindow,
		ClickSlop:         defaultClickSlop,
	}
}

// Sample feeds the pointer state of one frame. While scripted samples
// remain, the next one is processed in place of (x, y, pressed) and Sample
// reports true.
func (p *PointerTracker) Sample(x, y float64, pressed bool) bool {
	if len(p.scripted) == 0 {
		p.process(x, y, pressed)
		return false
	}
	next := p.scripted[0]
	p.scripted = p.scripted[1:]
	if len(p.scripted) == 0 {
		p.scripted = nil
	}
	p.process(next.X, next.Y, next.Pressed)
	return true
}

// Pending returns the number of scripted samples not yet consumed.
func (p *PointerTracker) Pending() int {
	return len(p.scripted)
}

func (p *PointerTracker) process(x, y float64, pressed bool) {
	switch {
	case pressed && !p.down:
		p.down = true
		p.startX, p.startY = x, y
		p.lastX, p.lastY = x, y
		p.moved = false
		p.captured = p.target.Bounds().Contains(x, y)
		if p.captured {
			p.target.PointerDown(x, y)
		}

	case pressed && p.down:
		if x == p.lastX && y == p.lastY {
			return
		}
		if !p.moved && math.Hypot(x-p.startX, y-p.startY) > p.ClickSlop {
			p.moved = true
		}
		p.lastX, p.lastY = x, y
		if p.captured {
			p.target.PointerMove(x, y)
		}

	case !pressed && p.down:
		p.down = false
		if !p.captured {
			return
		}
		p.captured = false
		if x != p.lastX || y != p.lastY {
			p.target.PointerMove(x, y)
		}
		if math.Hypot(x-p.startX, y-p.startY) > p.ClickSlop {
			p.moved = true
		}
		p.target.PointerUp()
		if p.moved {
			p.clicks = 0
			return
		}
		p.click(x, y)

	default:
		p.lastX, p.lastY = x, y
	}
}

func (p *PointerTracker) click(x, y float64) {
	now := p.clock.Now()
	if p.clicks > 0 && now-p.lastClick <= p.DoubleClickWindow &&
		math.Hypot(x-p.clickX, y-p.clickY) <= p.ClickSlop {
		p.clicks = 0
		p.target.DoubleClick()
		return
	}
	p.clicks = 1
	p.lastClick = now
	p.clickX, p.clickY = x, y
}

// Inject appends samples to the script.
func (p *PointerTracker) Inject(samples ...PointerSample) {
	p.scripted = append(p.scripted, samples...)
}

// InjectClick scripts n clicks at (x, y), two samples each. n of 2 is a
// double click.
func (p *PointerTracker) InjectClick(x, y float64, n int) {
	for range n {
		p.Inject(PointerSample{X: x, Y: y, Pressed: true}, PointerSample{X: x, Y: y})
	}
}

// InjectDrag scripts a straight drag from one point to another lasting
// frames samples: the press, the moves between, and the release at to.
// frames is at least 2.
func (p *PointerTracker) InjectDrag(from, to Vec2, frames int) {
	frames = max(frames, 2)
	last := float64(frames - 1)
	for i := range frames {
		t := float64(i) / last
		p.Inject(PointerSample{
			X:       from.X + (to.X-from.X)*t,
			Y:       from.Y + (to.Y-from.Y)*t,
			Pressed: i < frames-1,
		})
	}
}
