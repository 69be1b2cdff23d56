// Package term draws caster frames into a character terminal with tcell.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Garsondee/grid-caster/internal/caster"
)

// shadeRamp goes from nearest to farthest wall.
var shadeRamp = []rune{'█', '▓', '▒', '░'}

var (
	ceilingStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(100, 100, 100))
	floorStyle   = tcell.StyleDefault.Background(tcell.NewRGBColor(200, 200, 200))
	hudStyle     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack)
	markerStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	hitStyle     = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Renderer paints frames onto a tcell screen: the wall view fills the screen,
// the overhead map sits in the top-left corner and a one-line HUD runs along
// the bottom.
type Renderer struct {
	screen    tcell.Screen
	projector caster.Projector
	ShowMap   bool
}

// NewRenderer draws with p's viewport as the source coordinate space.
func NewRenderer(screen tcell.Screen, p caster.Projector) *Renderer {
	return &Renderer{screen: screen, projector: p, ShowMap: true}
}

// Draw renders f. The caller is responsible for Show.
func (r *Renderer) Draw(f caster.Frame) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if w <= 0 || h <= 1 {
		return
	}
	viewH := h - 1 // last row is the HUD

	r.drawBackground(w, viewH)
	r.drawWalls(f.Strips, w, viewH)
	if r.ShowMap && f.Grid != nil {
		r.drawMap(f, w, viewH)
	}
	r.drawHUD(f, w, h-1)
}

func (r *Renderer) drawBackground(w, viewH int) {
	for y := 0; y < viewH; y++ {
		st := floorStyle
		if y < viewH/2 {
			st = ceilingStyle
		}
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, st)
		}
	}
}

// drawWalls resamples the strips onto terminal columns. Each column takes the
// strip whose ray covers it and scales its vertical span from the projector's
// viewport to the available rows.
func (r *Renderer) drawWalls(strips []caster.ProjectedStrip, w, viewH int) {
	if len(strips) == 0 || r.projector.ViewportHeight <= 0 {
		return
	}
	sy := float64(viewH) / r.projector.ViewportHeight
	for x := 0; x < w; x++ {
		s := strips[x*len(strips)/w]
		top := int(s.Top * sy)
		bottom := int(s.Bottom()*sy + 0.5)
		if top < 0 {
			top = 0
		}
		if bottom > viewH {
			bottom = viewH
		}
		glyph := shadeGlyph(s.Shade)
		c := s.Color()
		st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).Background(tcell.ColorBlack)
		for y := top; y < bottom; y++ {
			r.screen.SetContent(x, y, glyph, nil, st)
		}
	}
}

// shadeGlyph picks a block character for a 0-255 shade.
func shadeGlyph(shade float64) rune {
	switch {
	case shade >= 192:
		return shadeRamp[0]
	case shade >= 128:
		return shadeRamp[1]
	case shade >= 64:
		return shadeRamp[2]
	default:
		return shadeRamp[3]
	}
}

// drawMap draws one character per grid cell. Ray hits inside the grid are
// marked and the viewpoint is drawn last.
func (r *Renderer) drawMap(f caster.Frame, w, viewH int) {
	gm := f.Grid
	legend := gm.Legend()
	f.Grid.Each(func(col, row int, c caster.Cell) {
		if col >= w || row >= viewH {
			return
		}
		g := legend.Glyph(c)
		st := tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(g.Color.R), int32(g.Color.G), int32(g.Color.B))).
			Background(tcell.ColorBlack)
		r.screen.SetContent(col, row, g.Symbol, nil, st)
	})
	for _, h := range f.Hits {
		col, row := gm.WorldToCell(h.Point)
		if gm.InBounds(col, row) && col < w && row < viewH {
			r.screen.SetContent(col, row, '*', nil, hitStyle)
		}
	}
	col, row := gm.WorldToCell(f.Viewpoint.Pos)
	if gm.InBounds(col, row) && col < w && row < viewH {
		r.screen.SetContent(col, row, '@', nil, markerStyle)
	}
}

func (r *Renderer) drawHUD(f caster.Frame, w, y int) {
	lo, mean, hi := f.DistanceStats()
	line := fmt.Sprintf(" tick %d  pos (%.0f, %.0f)  facing %.2f  dist %.0f/%.0f/%.0f  WASD move · m map · q quit",
		f.Tick, f.Viewpoint.Pos.X(), f.Viewpoint.Pos.Y(), f.Viewpoint.Facing, lo, mean, hi)
	if f.Blocked {
		line = " BLOCKED" + line
	}
	putText(r.screen, 0, y, runewidth.Truncate(line, w, "…"), hudStyle)
}

// putText writes s from (x, y), advancing by each rune's display width.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	for _, ch := range s {
		if x >= sw {
			break
		}
		scr.SetContent(x, y, ch, nil, st)
		x += runewidth.RuneWidth(ch)
	}
}
