package caster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultStepLength is how far a ray cursor advances per march step.
	DefaultStepLength = 2.0
	// DefaultRayCount is the number of rays in a fan.
	DefaultRayCount = 150
	// DefaultFOV is the angular width of the fan (60 degrees).
	DefaultFOV = math.Pi / 3
)

// HitResult is the outcome of marching one ray.
type HitResult struct {
	Angle    float64    // ray heading, radians
	Distance float64    // Euclidean distance from origin to Point
	Point    mgl64.Vec2 // cursor position where the wall was detected
	Col, Row int        // cell that stopped the ray
	Hit      bool       // false when the step bound ran out first
}

// Caster marches rays through a grid in fixed-length steps.
type Caster struct {
	StepLength float64
	// MaxSteps caps iterations per ray. Zero derives the cap from the grid
	// diagonal.
	MaxSteps int
}

// NewCaster returns a caster with the default step length and a cap derived
// from each grid.
func NewCaster() Caster {
	return Caster{StepLength: DefaultStepLength}
}

// maxSteps returns the iteration cap for grid: enough steps to cross the whole
// diagonal, plus one.
func (c Caster) maxSteps(grid *GridMap) int {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	return int(math.Ceil(grid.Diagonal()/c.StepLength)) + 1
}

// Cast marches a single ray from origin along angle until it reaches a wall
// cell or exhausts the step cap.
func (c Caster) Cast(grid *GridMap, origin mgl64.Vec2, angle float64) HitResult {
	if !(c.StepLength > 0) {
		c.StepLength = DefaultStepLength
	}
	dir := mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
	step := dir.Mul(c.StepLength)
	limit := c.maxSteps(grid)

	cursor := origin
	for i := 0; i < limit; i++ {
		col, row := grid.WorldToCell(cursor)
		if grid.CellAt(col, row) == Wall {
			return HitResult{
				Angle:    angle,
				Distance: cursor.Sub(origin).Len(),
				Point:    cursor,
				Col:      col,
				Row:      row,
				Hit:      true,
			}
		}
		cursor = cursor.Add(step)
	}

	col, row := grid.WorldToCell(cursor)
	return HitResult{
		Angle:    angle,
		Distance: cursor.Sub(origin).Len(),
		Point:    cursor,
		Col:      col,
		Row:      row,
	}
}

// CastFan casts rayCount rays spread evenly across fov, centred on the
// viewpoint's facing. Ray i has angle facing - fov/2 + i*fov/rayCount, so the
// result runs left to right across the screen.
func (c Caster) CastFan(vp Viewpoint, grid *GridMap, rayCount int, fov float64) []HitResult {
	if rayCount <= 0 {
		return nil
	}
	hits := make([]HitResult, rayCount)
	start := vp.Facing - fov/2
	delta := fov / float64(rayCount)
	for i := range hits {
		hits[i] = c.Cast(grid, vp.Pos, start+float64(i)*delta)
	}
	return hits
}

// CastFan casts a fan with the default caster.
func CastFan(vp Viewpoint, grid *GridMap, rayCount int, fov float64) []HitResult {
	return NewCaster().CastFan(vp, grid, rayCount, fov)
}
