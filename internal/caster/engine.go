package caster

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// Input is the per-tick snapshot handed to the engine by whatever polls the
// keyboard.
type Input struct {
	Keys KeyState
	Quit bool
}

// Engine owns the viewpoint and advances the world one tick at a time.
// It never touches a window or a terminal; compositors consume its Frames.
type Engine struct {
	grid      *GridMap
	resolver  CollisionResolver
	caster    Caster
	projector Projector
	vp        Viewpoint

	rayCount int
	fov      float64
	tick     int
	blocked  int

	log logrus.FieldLogger
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithFOV sets the fan width in radians.
func WithFOV(fov float64) EngineOption {
	return func(e *Engine) { e.fov = fov }
}

// WithRayCount sets how many rays are cast per frame.
func WithRayCount(n int) EngineOption {
	return func(e *Engine) { e.rayCount = n }
}

// WithViewport sets the drawable size. The 3D view occupies the right half.
func WithViewport(width, height float64) EngineOption {
	return func(e *Engine) {
		e.projector.ViewportWidth = width
		e.projector.ViewportHeight = height
		e.projector.OffsetX = width / 2
	}
}

// WithProjector replaces the projector wholesale. Its RayCount is overwritten
// with the engine's.
func WithProjector(p Projector) EngineOption {
	return func(e *Engine) { e.projector = p }
}

// WithCaster replaces the ray marcher.
func WithCaster(c Caster) EngineOption {
	return func(e *Engine) { e.caster = c }
}

// WithLogger routes engine logs to l.
func WithLogger(l logrus.FieldLogger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// NewEngine validates the configuration and returns an engine ready to tick.
// By default the viewport is two grids wide and one grid tall, with the
// overhead map on the left and the 3D view on the right.
func NewEngine(grid *GridMap, vp Viewpoint, opts ...EngineOption) (*Engine, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrConfig)
	}
	w, h := grid.WorldSize()
	e := &Engine{
		grid:      grid,
		resolver:  NewCollisionResolver(grid),
		caster:    NewCaster(),
		projector: NewProjector(w*2, h, DefaultRayCount),
		vp:        vp,
		rayCount:  DefaultRayCount,
		fov:       DefaultFOV,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.projector.RayCount = e.rayCount

	if err := e.validate(); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"cols":      grid.Cols(),
		"rows":      grid.Rows(),
		"tile_size": grid.TileSize(),
		"rays":      e.rayCount,
		"fov":       e.fov,
		"viewport":  fmt.Sprintf("%.0fx%.0f", e.projector.ViewportWidth, e.projector.ViewportHeight),
	}).Info("engine ready")
	return e, nil
}

func (e *Engine) validate() error {
	switch {
	case e.rayCount <= 0:
		return fmt.Errorf("%w: ray count %d must be positive", ErrConfig, e.rayCount)
	case !(e.fov > 0) || e.fov >= 2*math.Pi:
		return fmt.Errorf("%w: fov %v outside (0, 2pi)", ErrConfig, e.fov)
	case !(e.projector.ViewportWidth > 0) || !(e.projector.ViewportHeight > 0):
		return fmt.Errorf("%w: viewport %vx%v", ErrConfig, e.projector.ViewportWidth, e.projector.ViewportHeight)
	case !(e.vp.Speed >= 0) || !(e.vp.TurnStep >= 0):
		return fmt.Errorf("%w: negative speed or turn step", ErrConfig)
	case e.log == nil:
		return fmt.Errorf("%w: nil logger", ErrConfig)
	}
	if e.resolver.IsBlocked(e.vp.Pos) {
		col, row := e.grid.WorldToCell(e.vp.Pos)
		return fmt.Errorf("%w: viewpoint (%.1f, %.1f) spawns inside wall cell (%d,%d)",
			ErrConfig, e.vp.Pos.X(), e.vp.Pos.Y(), col, row)
	}
	return nil
}

// Grid returns the engine's map.
func (e *Engine) Grid() *GridMap { return e.grid }

// Viewpoint returns the current viewpoint.
func (e *Engine) Viewpoint() Viewpoint { return e.vp }

// Projector returns the projector in use.
func (e *Engine) Projector() Projector { return e.projector }

// CurrentTick returns how many ticks have been advanced.
func (e *Engine) CurrentTick() int { return e.tick }

// BlockedMoves returns how many ticks had their movement rejected.
func (e *Engine) BlockedMoves() int { return e.blocked }

// Position is shorthand for the viewpoint position.
func (e *Engine) Position() mgl64.Vec2 { return e.vp.Pos }

// Tick advances one frame: move, cast, project. It returns false, and leaves
// all state untouched, when the input carries a quit request.
func (e *Engine) Tick(in Input) (Frame, bool) {
	if in.Quit {
		e.log.WithField("tick", e.tick).Info("quit requested")
		return Frame{}, false
	}
	e.tick++

	next, res := e.vp.Step(in.Keys, e.resolver)
	if res.Blocked {
		e.blocked++
		e.log.WithFields(logrus.Fields{
			"tick": e.tick,
			"x":    res.Candidate.X(),
			"y":    res.Candidate.Y(),
		}).Debug("move blocked")
	}
	e.vp = next

	f := e.Render()
	f.Blocked = res.Blocked
	return f, true
}

// Render casts and projects from the current viewpoint without advancing.
func (e *Engine) Render() Frame {
	hits := e.caster.CastFan(e.vp, e.grid, e.rayCount, e.fov)
	rays := make([]Segment, len(hits))
	for i, h := range hits {
		rays[i] = Segment{From: e.vp.Pos, To: h.Point}
		if !h.Hit {
			e.log.WithFields(logrus.Fields{
				"tick":  e.tick,
				"ray":   i,
				"angle": h.Angle,
			}).Warn("ray exhausted march bound")
		}
	}
	return Frame{
		Tick:      e.tick,
		Grid:      e.grid,
		Viewpoint: e.vp,
		Hits:      hits,
		Strips:    e.projector.ProjectAll(hits),
		Rays:      rays,
	}
}
