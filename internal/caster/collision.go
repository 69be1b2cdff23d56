package caster

import "github.com/go-gl/mathgl/mgl64"

// Blocker decides whether a world point is impassable.
type Blocker interface {
	IsBlocked(p mgl64.Vec2) bool
}

// CollisionResolver answers point-in-wall queries against a grid.
//
// The test is a bare point test: a viewpoint's radius plays no part, so a
// viewpoint may stand closer to a wall than its radius.
// TODO: add a radius-aware (circle vs. cell) resolver behind Blocker.
type CollisionResolver struct {
	grid *GridMap
}

// NewCollisionResolver returns a resolver over grid.
func NewCollisionResolver(grid *GridMap) CollisionResolver {
	return CollisionResolver{grid: grid}
}

// IsBlocked reports whether p lies inside a wall cell. Points outside the
// grid are blocked.
func (cr CollisionResolver) IsBlocked(p mgl64.Vec2) bool {
	col, row := cr.grid.WorldToCell(p)
	return cr.grid.CellAt(col, row) == Wall
}
