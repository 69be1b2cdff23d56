package caster

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultSpeed is the world distance covered by one movement step.
	DefaultSpeed = 5.0
	// DefaultTurnStep is the heading change per rotation input (5 degrees).
	DefaultTurnStep = math.Pi / 36
)

// KeyState is the per-tick snapshot of the four logical movement inputs.
type KeyState struct {
	Forward   bool
	Backward  bool
	TurnLeft  bool
	TurnRight bool
}

// Any reports whether any input is held.
func (k KeyState) Any() bool {
	return k.Forward || k.Backward || k.TurnLeft || k.TurnRight
}

// Turn is a rotation direction.
type Turn int

const (
	TurnLeft  Turn = -1 // counter-clockwise on screen (y down)
	TurnRight Turn = 1
)

// Viewpoint is the single moving observer. It is a value type: every
// operation returns an updated copy and leaves the receiver untouched.
type Viewpoint struct {
	Pos      mgl64.Vec2 // world units
	Facing   float64    // radians, 0 = right, pi/2 = down; never wrapped
	Radius   float64    // marker size; not used by collision
	Speed    float64    // world units per step
	TurnStep float64    // radians per rotation input
	Color    color.RGBA
}

// NewViewpoint returns a viewpoint with default speed, turn step and a red
// marker.
func NewViewpoint(x, y, radius, facing float64) Viewpoint {
	return Viewpoint{
		Pos:      mgl64.Vec2{x, y},
		Facing:   facing,
		Radius:   radius,
		Speed:    DefaultSpeed,
		TurnStep: DefaultTurnStep,
		Color:    color.RGBA{R: 255, A: 255},
	}
}

// Direction returns the unit vector along the current facing.
func (v Viewpoint) Direction() mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(v.Facing), math.Sin(v.Facing)}
}

// Rotate turns the viewpoint one step in the given direction.
func (v Viewpoint) Rotate(t Turn) Viewpoint {
	v.Facing += float64(t) * v.TurnStep
	return v
}

// MoveForward returns the viewpoint advanced one step along its facing,
// without any collision check.
func (v Viewpoint) MoveForward() Viewpoint {
	v.Pos = v.Pos.Add(v.Direction().Mul(v.Speed))
	return v
}

// MoveBackward returns the viewpoint moved one step against its facing,
// without any collision check.
func (v Viewpoint) MoveBackward() Viewpoint {
	v.Pos = v.Pos.Sub(v.Direction().Mul(v.Speed))
	return v
}

// StepResult describes what one tick of input did to the viewpoint.
type StepResult struct {
	Moved     bool       // a translation input was held
	Blocked   bool       // the folded candidate landed in a wall and was rejected
	Candidate mgl64.Vec2 // the folded candidate position
}

// Step folds one tick of input into a new viewpoint.
//
// Inputs are applied in a fixed order: forward, turn left, backward, turn
// right. Forward and backward accumulate into a single candidate position
// (backward uses the heading as it stands after a left turn), and that one
// candidate is checked against b. A blocked candidate leaves the position
// unchanged; rotation always applies.
func (v Viewpoint) Step(keys KeyState, b Blocker) (Viewpoint, StepResult) {
	next := v
	candidate := v

	if keys.Forward {
		candidate = candidate.MoveForward()
	}
	if keys.TurnLeft {
		candidate = candidate.Rotate(TurnLeft)
	}
	if keys.Backward {
		candidate = candidate.MoveBackward()
	}
	if keys.TurnRight {
		candidate = candidate.Rotate(TurnRight)
	}
	next.Facing = candidate.Facing

	res := StepResult{
		Moved:     keys.Forward || keys.Backward,
		Candidate: candidate.Pos,
	}
	if !res.Moved {
		return next, res
	}
	if b.IsBlocked(candidate.Pos) {
		res.Blocked = true
		return next, res
	}
	next.Pos = candidate.Pos
	return next, res
}
