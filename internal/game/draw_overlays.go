package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/grid-caster/internal/caster"
)

var (
	skyColor   = color.RGBA{R: 100, G: 100, B: 100, A: 255} // upper half of the 3D view
	floorColor = color.RGBA{R: 200, G: 200, B: 200, A: 255} // lower half of the 3D view
	rayColor   = color.RGBA{R: 255, A: 255}
	gridColor  = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	hudColor   = color.RGBA{R: 255, G: 255, B: 80, A: 255}
)

// Draw paints the overhead map on the left and the projected walls on the
// right.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	f := g.frame
	g.drawBackground(screen)
	if f.Grid != nil {
		drawOverhead(screen, f.Grid)
	}
	if g.showRays {
		drawRays(screen, f.Rays)
	}
	drawViewpoint(screen, f.Viewpoint)
	drawStrips(screen, f.Strips)

	if g.showHUD {
		g.drawHUD(screen)
	}
	if f.Blocked {
		ebitenutil.DebugPrintAt(screen, "blocked", g.width-60, g.height-20)
	}
}

// drawBackground splits the 3D half into ceiling and floor bands.
func (g *Game) drawBackground(screen *ebiten.Image) {
	p := g.engine.Projector()
	x := float32(p.OffsetX)
	w := float32(p.ViewportWidth - p.OffsetX)
	half := float32(p.ViewportHeight / 2)
	vector.FillRect(screen, x, 0, w, half, skyColor, false)
	vector.FillRect(screen, x, half, w, half, floorColor, false)
}

// drawOverhead fills each tile with its legend colour and outlines it.
func drawOverhead(screen *ebiten.Image, gm *caster.GridMap) {
	ts := float32(gm.TileSize())
	legend := gm.Legend()
	gm.Each(func(col, row int, c caster.Cell) {
		x := float32(col) * ts
		y := float32(row) * ts
		vector.FillRect(screen, x, y, ts-1, ts-1, legend.ColorOf(c), false)
	})
	w, h := gm.WorldSize()
	vector.StrokeRect(screen, 0, 0, float32(w), float32(h), 1.0, gridColor, false)
}

func drawRays(screen *ebiten.Image, rays []caster.Segment) {
	for _, r := range rays {
		vector.StrokeLine(screen,
			float32(r.From.X()), float32(r.From.Y()),
			float32(r.To.X()), float32(r.To.Y()),
			1.0, rayColor, false)
	}
}

func drawViewpoint(screen *ebiten.Image, vp caster.Viewpoint) {
	if vp.Radius <= 0 {
		return
	}
	vector.FillCircle(screen, float32(vp.Pos.X()), float32(vp.Pos.Y()), float32(vp.Radius), vp.Color, false)
}

// drawStrips paints one grey column per ray. Strips whose top is above the
// screen are clipped by the destination image.
func drawStrips(screen *ebiten.Image, strips []caster.ProjectedStrip) {
	for _, s := range strips {
		vector.FillRect(screen,
			float32(s.X), float32(s.Top),
			float32(s.Width), float32(s.Height),
			s.Color(), false)
	}
}

// drawHUD prints the FPS counter and key legend in the top-left corner.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("FPS %.0f  TPS %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		"WASD/arrows move   R rays   H hud   C copy report   Esc quit",
	}
	lineH := g.hudFace.Size + 4
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(6, 6+float64(i)*lineH)
		op.ColorScale.ScaleWithColor(hudColor)
		text.Draw(screen, line, g.hudFace, op)
	}
}
