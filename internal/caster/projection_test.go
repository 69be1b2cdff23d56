package caster

import (
	"math"
	"testing"
)

func TestProject_HeightAndShadeDecreaseWithDistance(t *testing.T) {
	p := NewProjector(1088, 512, 150)
	prev := p.Project(HitResult{Distance: 0.5}, 0)
	for d := 1.0; d <= 2000; d += 0.5 {
		s := p.Project(HitResult{Distance: d}, 0)
		if !(s.Height < prev.Height) {
			t.Fatalf("height did not drop from d=%v (%v) to d=%v (%v)", d-0.5, prev.Height, d, s.Height)
		}
		if !(s.Shade < prev.Shade) {
			t.Fatalf("shade did not drop from d=%v (%v) to d=%v (%v)", d-0.5, prev.Shade, d, s.Shade)
		}
		prev = s
	}
}

func TestProject_ZeroDistanceIsFinite(t *testing.T) {
	p := NewProjector(1088, 512, 150)
	s := p.Project(HitResult{Distance: 0}, 3)
	for _, v := range []float64{s.X, s.Width, s.Top, s.Height, s.Shade} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("strip has a non-finite field: %+v", s)
		}
	}
	if s.Shade != 255 {
		t.Fatalf("shade at distance 0 should be 255, got %v", s.Shade)
	}
}

func TestProject_NeverPastViewportBottom(t *testing.T) {
	p := NewProjector(1088, 512, 150)
	for _, d := range []float64{0, 0.01, 1, 10, 41, 42, 100, 1000} {
		s := p.Project(HitResult{Distance: d}, 0)
		if s.Bottom() > p.ViewportHeight+1e-6 {
			t.Fatalf("d=%v: strip bottom %v exceeds viewport %v", d, s.Bottom(), p.ViewportHeight)
		}
	}
}

func TestProject_VerticallyCentred(t *testing.T) {
	p := NewProjector(1088, 512, 150)
	s := p.Project(HitResult{Distance: 100}, 0)
	want := 21000 / (100 + 0.0001)
	if math.Abs(s.Height-want) > 1e-9 {
		t.Fatalf("height %v, want %v", s.Height, want)
	}
	if mid := s.Top + s.Height/2; math.Abs(mid-256) > 1e-9 {
		t.Fatalf("unclamped strip should be centred on 256, centre is %v", mid)
	}
}

func TestProject_ShadeFalloff(t *testing.T) {
	p := NewProjector(1088, 512, 150)
	if got := p.Shade(100); math.Abs(got-127.5) > 1e-9 {
		t.Fatalf("shade at 100 should be half intensity, got %v", got)
	}
	c := p.Project(HitResult{Distance: 100}, 0).Color()
	if c.R != c.G || c.G != c.B || c.A != 255 {
		t.Fatalf("wall colour should be opaque grey, got %+v", c)
	}
}

func TestProject_ColumnLayout(t *testing.T) {
	p := NewProjector(1088, 512, 150)
	scale := 544.0 / 150
	for _, i := range []int{0, 1, 75, 149} {
		s := p.Project(HitResult{Distance: 50}, i)
		if want := 544 + float64(i)*scale; math.Abs(s.X-want) > 1e-9 {
			t.Fatalf("ray %d: x=%v want %v", i, s.X, want)
		}
		if math.Abs(s.Width-2*scale) > 1e-9 {
			t.Fatalf("ray %d: width=%v want %v", i, s.Width, 2*scale)
		}
	}
}

func TestProjectAll_PreservesOrder(t *testing.T) {
	p := NewProjector(1088, 512, 4)
	hits := []HitResult{{Distance: 10}, {Distance: 40}, {Distance: 20}, {Distance: 80}}
	strips := p.ProjectAll(hits)
	if len(strips) != len(hits) {
		t.Fatalf("expected %d strips, got %d", len(hits), len(strips))
	}
	for i := range strips {
		if strips[i] != p.Project(hits[i], i) {
			t.Fatalf("strip %d differs from Project(hit %d)", i, i)
		}
		if i > 0 && strips[i].X <= strips[i-1].X {
			t.Fatalf("strip %d is not right of strip %d", i, i-1)
		}
	}
}

func TestShadeColor_Clamps(t *testing.T) {
	if c := ShadeColor(300); c.R != 255 {
		t.Fatalf("expected clamp to 255, got %d", c.R)
	}
	if c := ShadeColor(-5); c.R != 0 {
		t.Fatalf("expected clamp to 0, got %d", c.R)
	}
}
