package caster

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// samplePoints returns points spread across the inside of a cell, including
// its top-left corner and a point just short of the far corner.
func samplePoints(gm *GridMap, col, row int) []mgl64.Vec2 {
	ts := gm.TileSize()
	o := gm.CellOrigin(col, row)
	offsets := []float64{0, 0.001, ts / 4, ts / 2, ts * 3 / 4, ts - 0.001}
	var pts []mgl64.Vec2
	for _, dx := range offsets {
		for _, dy := range offsets {
			pts = append(pts, o.Add(mgl64.Vec2{dx, dy}))
		}
	}
	return pts
}

func TestCollision_MatchesCellKind(t *testing.T) {
	for _, gm := range []*GridMap{DefaultGrid(), mustGrid(t, 32, boxRows...), mustGrid(t, 7, "#.", ".#")} {
		cr := NewCollisionResolver(gm)
		gm.Each(func(col, row int, c Cell) {
			for _, p := range samplePoints(gm, col, row) {
				if got := cr.IsBlocked(p); got != (c == Wall) {
					t.Fatalf("IsBlocked(%v) in %s cell (%d,%d) = %t", p, c, col, row, got)
				}
			}
		})
	}
}

func TestCollision_OutsideGridBlocked(t *testing.T) {
	gm := mustGrid(t, 32, "...", "...", "...")
	cr := NewCollisionResolver(gm)
	for _, p := range []mgl64.Vec2{{-0.01, 10}, {10, -0.01}, {96, 10}, {10, 96}, {1e6, 1e6}} {
		if !cr.IsBlocked(p) {
			t.Fatalf("point %v outside the grid should be blocked", p)
		}
	}
	if cr.IsBlocked(mgl64.Vec2{95.99, 95.99}) {
		t.Fatal("point inside the last floor cell should be free")
	}
}

func TestCollision_IgnoresRadius(t *testing.T) {
	gm := mustGrid(t, 32, boxRows...)
	cr := NewCollisionResolver(gm)
	// One unit from the right wall: a circle of radius 16 would overlap it,
	// the point test does not care.
	vp := NewViewpoint(63, 48, 16, 0)
	if cr.IsBlocked(vp.Pos) {
		t.Fatal("point test should accept a position whose radius overlaps a wall")
	}
}
