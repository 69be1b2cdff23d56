package caster

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment is an overhead debug line from the viewpoint to a ray's hit.
type Segment struct {
	From, To mgl64.Vec2
}

// Frame is everything a compositor needs to draw one tick: the overhead
// grid, the viewpoint marker, the ordered wall strips and the debug rays.
type Frame struct {
	Tick      int
	Grid      *GridMap
	Viewpoint Viewpoint
	Hits      []HitResult
	Strips    []ProjectedStrip
	Rays      []Segment
	Blocked   bool // the tick's movement was rejected
}

// DistanceStats returns min, mean and max ray distance. All zero for an
// empty fan.
func (f Frame) DistanceStats() (lo, mean, hi float64) {
	if len(f.Hits) == 0 {
		return 0, 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, h := range f.Hits {
		lo = math.Min(lo, h.Distance)
		hi = math.Max(hi, h.Distance)
		sum += h.Distance
	}
	return lo, sum / float64(len(f.Hits)), hi
}

// Report renders a plain-text debug summary of the frame.
func (f Frame) Report() string {
	var b strings.Builder
	vp := f.Viewpoint
	fmt.Fprintf(&b, "--- grid-caster frame report ---\n")
	fmt.Fprintf(&b, "tick=%d pos=(%.2f, %.2f) facing=%.4frad (%.1fdeg) blocked=%t\n",
		f.Tick, vp.Pos.X(), vp.Pos.Y(), vp.Facing, vp.Facing*180/math.Pi, f.Blocked)
	if f.Grid != nil {
		col, row := f.Grid.WorldToCell(vp.Pos)
		fmt.Fprintf(&b, "grid=%dx%d tile=%.0f cell=(%d,%d)\n", f.Grid.Cols(), f.Grid.Rows(), f.Grid.TileSize(), col, row)
	}
	lo, mean, hi := f.DistanceStats()
	fmt.Fprintf(&b, "rays=%d dist[min/avg/max]=%.1f/%.1f/%.1f\n", len(f.Hits), lo, mean, hi)

	misses := 0
	for _, h := range f.Hits {
		if !h.Hit {
			misses++
		}
	}
	if misses > 0 {
		fmt.Fprintf(&b, "unbounded rays: %d\n", misses)
	}
	if n := len(f.Hits); n > 0 {
		mid := f.Hits[n/2]
		fmt.Fprintf(&b, "centre ray: angle=%.4f dist=%.2f hit=(%.1f, %.1f) cell=(%d,%d)\n",
			mid.Angle, mid.Distance, mid.Point.X(), mid.Point.Y(), mid.Col, mid.Row)
	}
	return b.String()
}

// FrameSnapshot is a flat, serialisable view of a frame.
type FrameSnapshot struct {
	Tick      int       `msgpack:"tick"`
	X         float64   `msgpack:"x"`
	Y         float64   `msgpack:"y"`
	Facing    float64   `msgpack:"facing"`
	Blocked   bool      `msgpack:"blocked"`
	Distances []float64 `msgpack:"distances"`
	Heights   []float64 `msgpack:"heights"`
	Shades    []uint8   `msgpack:"shades"`
}

// Snapshot flattens the frame for dumping.
func (f Frame) Snapshot() FrameSnapshot {
	s := FrameSnapshot{
		Tick:      f.Tick,
		X:         f.Viewpoint.Pos.X(),
		Y:         f.Viewpoint.Pos.Y(),
		Facing:    f.Viewpoint.Facing,
		Blocked:   f.Blocked,
		Distances: make([]float64, len(f.Hits)),
		Heights:   make([]float64, len(f.Strips)),
		Shades:    make([]uint8, len(f.Strips)),
	}
	for i, h := range f.Hits {
		s.Distances[i] = h.Distance
	}
	for i, st := range f.Strips {
		s.Heights[i] = st.Height
		s.Shades[i] = st.Color().R
	}
	return s
}
