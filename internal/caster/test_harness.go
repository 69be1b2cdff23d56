package caster

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// TestSim is a headless harness that drives an Engine with scripted input.
// It mirrors a compositor's tick loop without any window or terminal and
// records what happened to a SimLog.
type TestSim struct {
	Engine *Engine
	SimLog *SimLog
	Frames []Frame // latest frame, or all of them with WithKeepFrames
	Done   bool    // a scripted quit was reached

	rows     []string
	tileSize float64
	legend   Legend
	vp       Viewpoint
	engOpts  []EngineOption
	log      logrus.FieldLogger
	keepAll  bool
}

// SimOption is a builder function applied to a TestSim during construction.
type SimOption func(*TestSim)

// WithRows sets the map rows and tile size.
func WithRows(tileSize float64, rows ...string) SimOption {
	return func(ts *TestSim) {
		ts.rows = rows
		ts.tileSize = tileSize
	}
}

// WithLegend overrides the map legend.
func WithLegend(l Legend) SimOption {
	return func(ts *TestSim) { ts.legend = l }
}

// WithSpawn places the viewpoint.
func WithSpawn(x, y, facing float64) SimOption {
	return func(ts *TestSim) {
		ts.vp.Pos[0], ts.vp.Pos[1] = x, y
		ts.vp.Facing = facing
	}
}

// WithSpeed sets the movement step.
func WithSpeed(speed float64) SimOption {
	return func(ts *TestSim) { ts.vp.Speed = speed }
}

// WithEngineOptions forwards options to the engine.
func WithEngineOptions(opts ...EngineOption) SimOption {
	return func(ts *TestSim) { ts.engOpts = append(ts.engOpts, opts...) }
}

// WithVerbose enables per-tick pose logging.
func WithVerbose(v bool) SimOption {
	return func(ts *TestSim) { ts.SimLog = NewSimLog(v) }
}

// WithSimLogger routes engine logs to l instead of discarding them.
func WithSimLogger(l logrus.FieldLogger) SimOption {
	return func(ts *TestSim) { ts.log = l }
}

// WithKeepFrames keeps every produced frame in Frames. Off by default only
// the latest frame is kept.
func WithKeepFrames(keep bool) SimOption {
	return func(ts *TestSim) { ts.keepAll = keep }
}

// NewTestSim builds the grid and engine. It defaults to the built-in map and
// spawn, and discards engine logs.
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	ts := &TestSim{
		SimLog:   NewSimLog(false),
		rows:     DefaultRows,
		tileSize: DefaultTileSize,
		legend:   DefaultLegend,
		vp:       DefaultViewpoint(),
		log:      quiet,
	}
	for _, opt := range opts {
		opt(ts)
	}

	grid, err := ParseGrid(ts.rows, ts.tileSize, ts.legend)
	if err != nil {
		return nil, err
	}
	engOpts := append([]EngineOption{WithLogger(ts.log)}, ts.engOpts...)
	ts.Engine, err = NewEngine(grid, ts.vp, engOpts...)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// Step advances one tick with the given input and logs what changed.
// It returns false once a quit has been processed.
func (ts *TestSim) Step(in Input) bool {
	if ts.Done {
		return false
	}
	before := ts.Engine.Viewpoint()
	f, ok := ts.Engine.Tick(in)
	if !ok {
		ts.Done = true
		ts.SimLog.Add(ts.Engine.CurrentTick(), "loop", "quit", "", 0)
		return false
	}
	ts.record(f)

	after := f.Viewpoint
	tick := f.Tick
	if after.Facing != before.Facing {
		ts.SimLog.Add(tick, "turn", "facing", strconv.FormatFloat(after.Facing, 'f', 4, 64), after.Facing)
	}
	switch {
	case f.Blocked:
		ts.SimLog.Add(tick, "move", "blocked",
			fmt.Sprintf("(%.1f, %.1f)", before.Pos.X(), before.Pos.Y()), 0)
	case after.Pos != before.Pos:
		d := after.Pos.Sub(before.Pos).Len()
		ts.SimLog.Add(tick, "move", "accepted",
			fmt.Sprintf("(%.1f, %.1f) -> (%.1f, %.1f)", before.Pos.X(), before.Pos.Y(), after.Pos.X(), after.Pos.Y()), d)
	}
	lo, mean, hi := f.DistanceStats()
	ts.SimLog.AddVerbose(tick, "ray", "distance",
		fmt.Sprintf("min=%.1f avg=%.1f max=%.1f", lo, mean, hi), mean)
	return true
}

func (ts *TestSim) record(f Frame) {
	if ts.keepAll || len(ts.Frames) == 0 {
		ts.Frames = append(ts.Frames, f)
		return
	}
	ts.Frames[0] = f
}

// Run feeds inputs in order, stopping early on quit. It returns the number
// of ticks advanced.
func (ts *TestSim) Run(inputs []Input) int {
	n := 0
	for _, in := range inputs {
		if !ts.Step(in) {
			break
		}
		n++
	}
	return n
}

// RunTicks holds the same keys for n ticks.
func (ts *TestSim) RunTicks(keys KeyState, n int) int {
	done := 0
	for i := 0; i < n; i++ {
		if !ts.Step(Input{Keys: keys}) {
			break
		}
		done++
	}
	return done
}

// LastFrame returns the most recent frame, or false before the first tick.
func (ts *TestSim) LastFrame() (Frame, bool) {
	if len(ts.Frames) == 0 {
		return Frame{}, false
	}
	return ts.Frames[len(ts.Frames)-1], true
}

// ParseScript turns a compact key script into per-tick inputs.
//
// Tokens are separated by whitespace. Each token lists the keys held for one
// tick (w forward, s backward, a turn left, d turn right, q quit, '.' for no
// keys), optionally followed by *N to repeat it N times:
//
//	w*10 a*3 wd . q
func ParseScript(script string) ([]Input, error) {
	var out []Input
	for _, tok := range strings.Fields(script) {
		keys, count := tok, 1
		if i := strings.IndexByte(tok, '*'); i >= 0 {
			n, err := strconv.Atoi(tok[i+1:])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad repeat in %q", ErrConfig, tok)
			}
			keys, count = tok[:i], n
		}
		var in Input
		for _, r := range keys {
			switch r {
			case 'w', 'W':
				in.Keys.Forward = true
			case 's', 'S':
				in.Keys.Backward = true
			case 'a', 'A':
				in.Keys.TurnLeft = true
			case 'd', 'D':
				in.Keys.TurnRight = true
			case 'q', 'Q':
				in.Quit = true
			case '.':
			default:
				return nil, fmt.Errorf("%w: unknown key %q in %q", ErrConfig, r, tok)
			}
		}
		for i := 0; i < count; i++ {
			out = append(out, in)
		}
	}
	return out, nil
}
