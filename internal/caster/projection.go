package caster

import (
	"image/color"
	"math"
)

const (
	// DefaultWallScale is the numerator of the inverse-distance wall height.
	DefaultWallScale = 21000.0
	// DefaultEpsilon keeps the height finite at distance zero.
	DefaultEpsilon = 0.0001
	// DefaultAttenuation controls the inverse-square shading falloff.
	DefaultAttenuation = 0.0001
)

// ProjectedStrip is one screen-space wall column.
type ProjectedStrip struct {
	X, Width    float64
	Top, Height float64
	Shade       float64 // 0..255 grey level
}

// Bottom returns the strip's lower edge.
func (s ProjectedStrip) Bottom() float64 { return s.Top + s.Height }

// Color returns the strip's opaque grey.
func (s ProjectedStrip) Color() color.RGBA {
	return ShadeColor(s.Shade)
}

// ShadeColor converts a 0..255 intensity to an opaque grey.
func ShadeColor(shade float64) color.RGBA {
	v := uint8(math.Max(0, math.Min(255, shade)))
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// Projector maps ray distances to wall strips inside the 3D half of a
// viewport. The 3D view starts at OffsetX and spans half of ViewportWidth.
type Projector struct {
	ViewportWidth  float64
	ViewportHeight float64
	OffsetX        float64
	RayCount       int

	WallScale   float64
	Epsilon     float64
	Attenuation float64
}

// NewProjector returns a projector with default constants. The 3D view is
// placed at the horizontal midpoint of the viewport.
func NewProjector(viewportWidth, viewportHeight float64, rayCount int) Projector {
	return Projector{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		OffsetX:        viewportWidth / 2,
		RayCount:       rayCount,
		WallScale:      DefaultWallScale,
		Epsilon:        DefaultEpsilon,
		Attenuation:    DefaultAttenuation,
	}
}

// Scale is the horizontal spacing between adjacent strips.
func (p Projector) Scale() float64 {
	if p.RayCount <= 0 {
		return 0
	}
	return (p.ViewportWidth / 2) / float64(p.RayCount)
}

// WallHeight returns the unclamped strip height for a distance.
func (p Projector) WallHeight(distance float64) float64 {
	return p.WallScale / (distance + p.Epsilon)
}

// Shade returns the grey level for a distance, falling off with its square.
func (p Projector) Shade(distance float64) float64 {
	return 255 / (1 + distance*distance*p.Attenuation)
}

// Project converts a hit into the strip for screen column rayIndex. The strip
// is vertically centred and its height clamped so it never extends below
// the viewport.
func (p Projector) Project(hit HitResult, rayIndex int) ProjectedStrip {
	h := p.WallHeight(hit.Distance)
	top := p.ViewportHeight/2 - h/2
	h = math.Min(h, p.ViewportHeight-top)

	scale := p.Scale()
	return ProjectedStrip{
		X:      p.OffsetX + float64(rayIndex)*scale,
		Width:  scale * 2,
		Top:    top,
		Height: h,
		Shade:  p.Shade(hit.Distance),
	}
}

// ProjectAll projects a whole fan, preserving order.
func (p Projector) ProjectAll(hits []HitResult) []ProjectedStrip {
	strips := make([]ProjectedStrip, len(hits))
	for i, h := range hits {
		strips[i] = p.Project(h, i)
	}
	return strips
}
