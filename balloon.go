package agent

import (
	"strings"
	"time"
)

// Corner names the side of the character a balloon is attached to.
type Corner uint8

const (
	CornerTopLeft     Corner = iota // above, right edges aligned
	CornerTopRight                  // above, left edges aligned
	CornerBottomLeft                // below, right edges aligned
	CornerBottomRight               // below, left edges aligned
)

// String returns the corner name in kebab case, e.g. "top-left".
func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// placementOrder is the fixed priority in which corners are tried.
var placementOrder = [...]Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight}

// Placement is where the balloon's top-left corner goes and which corner of
// the character it hangs from.
type Placement struct {
	X, Y   float64
	Corner Corner
}

// PlaceBalloon picks the first corner, in the order top-left, top-right,
// bottom-left, bottom-right, whose balloon rectangle lies inside viewport
// shrunk by edge. margin is the gap between balloon and character. When no
// corner fits, the last candidate is returned.
func PlaceBalloon(target Rect, size Vec2, viewport Rect, margin, edge float64) Placement {
	inner := viewport.Inset(edge)
	var p Placement
	for _, c := range placementOrder {
		p = placeAt(c, target, size, margin)
		if inner.ContainsRect(Rect{X: p.X, Y: p.Y, Width: size.X, Height: size.Y}) {
			return p
		}
	}
	return p
}

func placeAt(c Corner, t Rect, size Vec2, margin float64) Placement {
	p := Placement{Corner: c}
	switch c {
	case CornerTopLeft:
		p.X = t.X + t.Width - size.X
		p.Y = t.Y - size.Y - margin
	case CornerTopRight:
		p.X = t.X
		p.Y = t.Y - size.Y - margin
	case CornerBottomLeft:
		p.X = t.X + t.Width - size.X
		p.Y = t.Y + t.Height + margin
	case CornerBottomRight:
		p.X = t.X
		p.Y = t.Y + t.Height + margin
	}
	return p
}

// BalloonView is the presentation side of a Balloon.
type BalloonView interface {
	ShowBalloon()
	HideBalloon()
	SetBalloonText(text string)
	// MeasureBalloon returns the balloon size needed to hold text in full.
	MeasureBalloon(text string) Vec2
	PlaceBalloon(p Placement)
}

// Balloon reveals text one word per tick and manages its own display
// lifecycle: shown on Speak, auto-hidden after the text completes unless
// held open.
type Balloon struct {
	view  BalloonView
	clock *Clock

	wordInterval time.Duration
	closeDelay   time.Duration
	margin       float64
	edge         float64

	words    []string
	idx      int
	text     string
	hold     bool
	active   bool
	hidden   bool
	complete func()

	loop   *Timer
	hiding *Timer

	size     Vec2
	target   Rect
	viewport Rect
}

// NewBalloon creates a hidden balloon using the timing and spacing from cfg.
func NewBalloon(view BalloonView, clock *Clock, cfg Config) *Balloon {
	cfg = cfg.withDefaults()
	return &Balloon{
		view:         view,
		clock:        clock,
		wordInterval: cfg.WordInterval,
		closeDelay:   cfg.BalloonCloseDelay,
		margin:       cfg.BalloonMargin,
		edge:         cfg.ViewportMargin,
		hidden:       true,
	}
}

// Text returns the words revealed so far, joined by single spaces.
func (b *Balloon) Text() string { return b.text }

// Hidden reports whether the balloon has finished hiding.
func (b *Balloon) Hidden() bool { return b.hidden }

// Revealing reports whether words are still being added.
func (b *Balloon) Revealing() bool { return b.active }

// Held reports whether the balloon stays open after the reveal finishes.
func (b *Balloon) Held() bool { return b.hold }

// Speak shows the balloon and reveals text word by word. When the last
// word is out, complete is called and the balloon hides after the close
// delay, unless hold is set; a held balloon stays open and keeps complete
// until Close.
func (b *Balloon) Speak(text string, hold bool, complete func()) {
	b.loop.Stop()
	b.hiding.Stop()
	b.hiding = nil

	b.hidden = false
	b.Show()
	if b.view != nil {
		b.size = b.view.MeasureBalloon(text)
	}
	b.setText("")
	b.place()

	b.complete = complete
	b.active = true
	b.hold = hold
	b.words = strings.Fields(text)
	b.idx = 1
	b.addWord()
}

func (b *Balloon) addWord() {
	if !b.active {
		return
	}
	if b.idx > len(b.words) {
		b.active = false
		if !b.hold {
			b.finish()
			if !b.active && !b.hidden {
				b.Hide(false)
			}
		}
		return
	}
	b.setText(strings.Join(b.words[:b.idx], " "))
	b.idx++
	b.loop.Stop()
	b.loop = b.clock.AfterFunc(b.wordInterval, b.addWord)
}

// finish hands the stored completion out exactly once.
func (b *Balloon) finish() {
	fn := b.complete
	b.complete = nil
	if fn != nil {
		fn()
	}
}

// Close ends a conversation. While words are still being revealed it only
// drops the hold so the reveal completes normally; on a held balloon it
// calls the stored completion right away.
func (b *Balloon) Close() {
	if b.active {
		b.hold = false
	} else if b.hold {
		b.finish()
	}
}

// Show makes a balloon that is in use visible again. It does nothing once
// the balloon has hidden.
func (b *Balloon) Show() {
	if b.hidden || b.view == nil {
		return
	}
	b.view.ShowBalloon()
}

// Hide hides the balloon. fast hides the view immediately without ending
// the conversation; otherwise hiding happens after the close delay and is
// skipped if a reveal is running by then.
func (b *Balloon) Hide(fast bool) {
	if fast {
		if b.view != nil {
			b.view.HideBalloon()
		}
		return
	}
	b.hiding.Stop()
	b.hiding = b.clock.AfterFunc(b.closeDelay, b.finishHide)
}

func (b *Balloon) finishHide() {
	b.hiding = nil
	if b.active {
		return
	}
	if b.view != nil {
		b.view.HideBalloon()
	}
	b.hidden = true
}

// Interrupt cancels the reveal and any pending hide, hides the balloon at
// once and releases the stored completion so the speech job ends.
func (b *Balloon) Interrupt() {
	b.loop.Stop()
	b.loop = nil
	b.hiding.Stop()
	b.hiding = nil

	b.active = false
	b.hold = false
	if b.view != nil {
		b.view.HideBalloon()
	}
	b.hidden = true
	b.finish()
}

// Pause cancels the reveal and auto-hide timers.
func (b *Balloon) Pause() {
	b.loop.Stop()
	b.loop = nil
	b.hiding.Stop()
	b.hiding = nil
}

// Resume reveals the next word immediately when a reveal was interrupted,
// or re-arms the auto-hide of a finished, unheld balloon.
func (b *Balloon) Resume() {
	if b.active {
		b.addWord()
		return
	}
	if !b.hold && !b.hidden {
		b.hiding.Stop()
		b.hiding = b.clock.AfterFunc(b.closeDelay, b.finishHide)
	}
}

// Reposition attaches the balloon to target, keeping it inside viewport.
func (b *Balloon) Reposition(target, viewport Rect) {
	b.target = target
	b.viewport = viewport
	b.place()
}

func (b *Balloon) place() {
	if b.view == nil {
		return
	}
	b.view.PlaceBalloon(PlaceBalloon(b.target, b.size, b.viewport, b.margin, b.edge))
}

func (b *Balloon) setText(s string) {
	b.text = s
	if b.view != nil {
		b.view.SetBalloonText(s)
	}
}
