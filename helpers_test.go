package agent

import (
	"testing"
	"time"
)

// --- Fakes ---

type overlayCall struct {
	layer   int
	offset  Offset
	visible bool
}

// fakeSurface records everything an Agent asks of its presentation layer.
type fakeSurface struct {
	overlays   []overlayCall
	pos        Vec2
	positions  []Vec2
	shown      bool
	balloonOn  bool
	texts      []string
	placements []Placement
	viewport   Rect
	size       Vec2
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		viewport: Rect{Width: 800, Height: 600},
		size:     Vec2{X: 120, Y: 40},
	}
}

func (s *fakeSurface) SetOverlayFrame(layer int, offset Offset, visible bool) {
	s.overlays = append(s.overlays, overlayCall{layer, offset, visible})
}
func (s *fakeSurface) SetPosition(x, y float64) {
	s.pos = Vec2{X: x, Y: y}
	s.positions = append(s.positions, s.pos)
}
func (s *fakeSurface) Viewport() Rect             { return s.viewport }
func (s *fakeSurface) Show()                      { s.shown = true }
func (s *fakeSurface) Hide()                      { s.shown = false }
func (s *fakeSurface) ShowBalloon()               { s.balloonOn = true }
func (s *fakeSurface) HideBalloon()               { s.balloonOn = false }
func (s *fakeSurface) SetBalloonText(text string) { s.texts = append(s.texts, text) }
func (s *fakeSurface) MeasureBalloon(string) Vec2 { return s.size }
func (s *fakeSurface) PlaceBalloon(p Placement)   { s.placements = append(s.placements, p) }
func (s *fakeSurface) lastText() string {
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

// stubRand replays fixed draws, then returns zero.
type stubRand struct {
	floats []float64
	ints   []int
}

func (r *stubRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *stubRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

type countSound struct{ plays int }

func (s *countSound) Play() { s.plays++ }

// --- Catalog fixtures ---

const ms = time.Millisecond

func frames(n int) []Frame {
	out := make([]Frame, n)
	for i := range out {
		out[i] = Frame{Duration: 100 * ms, Images: []Offset{{X: i * 10, Y: 0}}}
	}
	return out
}

// testClips is a small catalog shaped like a real agent: a two-frame idle,
// a held move clip with an exit branch, a held wave, and a show clip.
func testClips() []Clip {
	move := frames(3)
	move[1].ExitBranch = 2
	move[1].HasExitBranch = true
	return []Clip{
		{Name: "IdleBlink", Frames: frames(2), Idle: true},
		{Name: "MoveRight", Frames: move, UseExitBranching: true},
		{Name: "Wave", Frames: frames(2), UseExitBranching: true},
		{Name: "Show", Frames: frames(1)},
		{Name: "LookLeft", Frames: frames(2)},
	}
}

func mustCatalog(t *testing.T, clips ...Clip) *Catalog {
	t.Helper()
	cat, err := NewCatalog(Vec2{X: 100, Y: 100}, 1, nil, clips)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func newTestAgent(t *testing.T, clips []Clip, rng Random) (*Agent, *fakeSurface) {
	t.Helper()
	surface := newFakeSurface()
	if rng == nil {
		rng = &stubRand{}
	}
	a, err := New(Resources{Catalog: mustCatalog(t, clips...)}, surface, Config{Rand: rng})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, surface
}
