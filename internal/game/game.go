package game

import (
	"bytes"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/grid-caster/internal/caster"
)

// hudFontSize is the point size of the FPS and key-legend text.
const hudFontSize = 13

// Game is the windowed compositor: it polls the keyboard, ticks the engine
// once per Update and paints the latest frame in Draw.
type Game struct {
	engine *caster.Engine
	frame  caster.Frame
	width  int
	height int

	showRays bool // red overhead debug lines
	showHUD  bool // FPS and key legend

	hudFace *text.GoTextFace
	log     logrus.FieldLogger

	// writeClipboard receives the frame report on C. Swapped in tests.
	writeClipboard func(string) error
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes compositor logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Game) { g.log = l }
}

// WithRays sets whether the overhead debug rays start visible.
func WithRays(show bool) Option {
	return func(g *Game) { g.showRays = show }
}

// New wraps an engine. The window matches the engine's viewport and the first
// frame is rendered immediately so Draw never sees an empty frame.
func New(engine *caster.Engine, opts ...Option) (*Game, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", caster.ErrConfig)
	}
	p := engine.Projector()
	g := &Game{
		engine:         engine,
		width:          int(p.ViewportWidth),
		height:         int(p.ViewportHeight),
		showRays:       true,
		showHUD:        true,
		log:            logrus.StandardLogger(),
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(g)
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	g.hudFace = &text.GoTextFace{Source: src, Size: hudFontSize}

	g.frame = engine.Render()
	return g, nil
}

// Frame returns the most recently rendered frame.
func (g *Game) Frame() caster.Frame { return g.frame }

// Update ticks the engine with the keys held this frame. Escape ends the run.
func (g *Game) Update() error {
	g.handleToggles()

	in := caster.Input{
		Keys: keyState(ebiten.IsKeyPressed),
		Quit: ebiten.IsKeyPressed(ebiten.KeyEscape),
	}
	f, ok := g.engine.Tick(in)
	if !ok {
		return ebiten.Termination
	}
	g.frame = f
	return nil
}

// keyState maps held keys to movement. WASD and the arrow keys are
// equivalent.
func keyState(pressed func(ebiten.Key) bool) caster.KeyState {
	return caster.KeyState{
		Forward:   pressed(ebiten.KeyW) || pressed(ebiten.KeyArrowUp),
		Backward:  pressed(ebiten.KeyS) || pressed(ebiten.KeyArrowDown),
		TurnLeft:  pressed(ebiten.KeyA) || pressed(ebiten.KeyArrowLeft),
		TurnRight: pressed(ebiten.KeyD) || pressed(ebiten.KeyArrowRight),
	}
}

// handleToggles processes edge-triggered keys.
func (g *Game) handleToggles() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.toggleRays()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
}

func (g *Game) toggleRays() {
	g.showRays = !g.showRays
	g.log.WithField("rays", g.showRays).Debug("debug rays toggled")
}

// copyReport puts the current frame report on the system clipboard. A
// missing clipboard backend is logged, not fatal.
func (g *Game) copyReport() {
	if err := g.writeClipboard(g.frame.Report()); err != nil {
		g.log.WithError(err).Warn("copy frame report")
		return
	}
	g.log.WithField("tick", g.frame.Tick).Info("frame report copied")
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
