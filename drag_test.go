package agent

import (
	"testing"
	"time"
)

type fakeTarget struct {
	bounds  Rect
	downs   []Vec2
	moves   []Vec2
	ups     int
	doubles int
}

func (f *fakeTarget) Bounds() Rect             { return f.bounds }
func (f *fakeTarget) PointerDown(x, y float64) { f.downs = append(f.downs, Vec2{X: x, Y: y}) }
func (f *fakeTarget) PointerMove(x, y float64) { f.moves = append(f.moves, Vec2{X: x, Y: y}) }
func (f *fakeTarget) PointerUp()               { f.ups++ }
func (f *fakeTarget) DoubleClick()             { f.doubles++ }

func newTracker() (*PointerTracker, *fakeTarget, *Clock) {
	clock := NewClock()
	target := &fakeTarget{bounds: Rect{X: 10, Y: 10, Width: 100, Height: 100}}
	return NewPointerTracker(target, clock), target, clock
}

func TestPointerPressOutsideIgnored(t *testing.T) {
	p, target, _ := newTracker()
	p.Sample(500, 500, true)
	p.Sample(520, 520, true)
	p.Sample(520, 520, false)
	if len(target.downs) != 0 || len(target.moves) != 0 || target.ups != 0 {
		t.Errorf("target saw events: %+v", target)
	}
}

func TestPointerDrag(t *testing.T) {
	p, target, _ := newTracker()
	p.Sample(50, 50, false)
	p.Sample(50, 50, true)
	p.Sample(50, 50, true) // no motion, no event
	p.Sample(80, 90, true)
	p.Sample(100, 120, false)

	if len(target.downs) != 1 || target.downs[0] != (Vec2{X: 50, Y: 50}) {
		t.Errorf("downs = %v", target.downs)
	}
	want := []Vec2{{X: 80, Y: 90}, {X: 100, Y: 120}}
	if len(target.moves) != len(want) {
		t.Fatalf("moves = %v, want %v", target.moves, want)
	}
	for i := range want {
		if target.moves[i] != want[i] {
			t.Errorf("moves[%d] = %v, want %v", i, target.moves[i], want[i])
		}
	}
	if target.ups != 1 {
		t.Errorf("ups = %d, want 1", target.ups)
	}
	if target.doubles != 0 {
		t.Error("a drag is not a click")
	}
}

func TestPointerDoubleClick(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		move float64
		want int
	}{
		{"quick", 100 * ms, 0, 1},
		{"at window", 500 * ms, 0, 1},
		{"too slow", 501 * ms, 0, 0},
		{"within slop", 100 * ms, 3, 1},
		{"too far apart", 100 * ms, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, target, clock := newTracker()
			p.Sample(50, 50, true)
			p.Sample(50, 50, false)
			clock.Advance(tt.gap)
			x := 50 + tt.move
			p.Sample(x, 50, true)
			p.Sample(x, 50, false)
			if target.doubles != tt.want {
				t.Errorf("doubles = %d, want %d", target.doubles, tt.want)
			}
		})
	}
}

func TestPointerTripleClickIsOneDouble(t *testing.T) {
	p, target, _ := newTracker()
	for range 3 {
		p.Sample(50, 50, true)
		p.Sample(50, 50, false)
	}
	if target.doubles != 1 {
		t.Errorf("doubles = %d, want 1", target.doubles)
	}
}

func TestPointerScript(t *testing.T) {
	p, target, _ := newTracker()
	p.InjectDrag(Vec2{X: 20, Y: 20}, Vec2{X: 60, Y: 100}, 5)
	if p.Pending() != 5 {
		t.Fatalf("Pending = %d, want 5", p.Pending())
	}
	for i := 0; p.Pending() > 0; i++ {
		if !p.Sample(0, 0, false) {
			t.Fatalf("sample %d did not use a scripted sample", i)
		}
	}
	if p.Sample(0, 0, false) {
		t.Error("Sample reported a scripted sample with none queued")
	}
	if len(target.downs) != 1 || target.ups != 1 {
		t.Errorf("downs=%d ups=%d, want 1 1", len(target.downs), target.ups)
	}
	if len(target.moves) != 4 {
		t.Errorf("moves = %v, want 4 entries", target.moves)
	}
	if last := target.moves[len(target.moves)-1]; last != (Vec2{X: 60, Y: 100}) {
		t.Errorf("last move = %v, want {60 100}", last)
	}

	p.InjectClick(30, 30, 2)
	for p.Pending() > 0 {
		p.Sample(0, 0, false)
	}
	if target.doubles != 1 {
		t.Errorf("doubles = %d, want 1", target.doubles)
	}
}

func TestPointerDrivesAgent(t *testing.T) {
	a, s := newTestAgent(t, testClips(), nil)
	a.SetPosition(0, 0)
	a.ShowFast()
	p := NewPointerTracker(a, a.Clock())
	p.InjectDrag(Vec2{X: 50, Y: 50}, Vec2{X: 250, Y: 150}, 4)
	for p.Pending() > 0 {
		p.Sample(0, 0, false)
		a.Update(16 * ms)
	}
	if a.Dragging() {
		t.Error("drag did not end")
	}
	if got := a.Position(); got != (Vec2{X: 200, Y: 100}) {
		t.Errorf("Position = %v, want {200 100}", got)
	}
	if got := s.pos; got != (Vec2{X: 200, Y: 100}) {
		t.Errorf("surface position = %v", got)
	}
}
