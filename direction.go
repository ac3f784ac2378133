package agent

import "math"

// Direction is one of the four buckets used to pick gesture and move clips.
type Direction uint8

const (
	DirectionRight Direction = iota
	DirectionUp
	DirectionLeft
	DirectionDown
)

// String returns the clip-name suffix for the direction.
func (d Direction) String() string {
	switch d {
	case DirectionRight:
		return "Right"
	case DirectionUp:
		return "Up"
	case DirectionLeft:
		return "Left"
	case DirectionDown:
		return "Down"
	default:
		return "Unknown"
	}
}

// Mirror swaps Left and Right.
func (d Direction) Mirror() Direction {
	switch d {
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	}
	return d
}

// DirectionTo resolves the bucket of target as seen from center. The angle
// is measured in screen terms, Y growing downward, and rounded to whole
// degrees:
//
//	Right [-45, 45)   Up [45, 135)   Left [135, 180] and [-180, -135)   Down [-135, -45)
func DirectionTo(center, target Vec2) Direction {
	return directionForAngle(math.Round(math.Atan2(center.Y-target.Y, target.X-center.X) * 180 / math.Pi))
}

func directionForAngle(r float64) Direction {
	switch {
	case -45 <= r && r < 45:
		return DirectionRight
	case 45 <= r && r < 135:
		return DirectionUp
	case -135 <= r && r < -45:
		return DirectionDown
	default:
		return DirectionLeft
	}
}
