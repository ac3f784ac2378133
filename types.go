package agent

import "math/rand/v2"

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inset returns r shrunk by m on every side.
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X + m, Y: r.Y + m, Width: r.Width - 2*m, Height: r.Height - 2*m}
}

// ContainsRect reports whether other lies fully inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Offset is a sprite-sheet coordinate of one overlay layer's image.
type Offset struct {
	X, Y int
}

// AnimationState is the notification an Animator sends when a clip reaches
// its terminal frame.
type AnimationState uint8

const (
	StateExited  AnimationState = iota // clip finished, no longer active
	StateWaiting                       // held on the terminal frame until Exit is called
)

// String returns the state name.
func (s AnimationState) String() string {
	switch s {
	case StateExited:
		return "EXITED"
	case StateWaiting:
		return "WAITING"
	default:
		return "UNKNOWN"
	}
}

// StateFunc receives clip state notifications from an Animator.
type StateFunc func(name string, state AnimationState)

// Random is the source of every random draw: branch selection, idle and
// animate picks, joke choice. *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// defaultRand draws from the math/rand/v2 global source.
type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }
func (defaultRand) IntN(n int) int   { return rand.IntN(n) }
