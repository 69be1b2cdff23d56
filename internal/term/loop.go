package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/grid-caster/internal/caster"
)

// Session couples an engine to a terminal. Terminals report key presses, not
// held keys, so every press seen between two ticks counts as held for the
// next tick only.
type Session struct {
	screen   tcell.Screen
	engine   *caster.Engine
	renderer *Renderer
	log      logrus.FieldLogger

	pending caster.Input
	last    caster.Frame
}

// NewSession draws the engine's current view straight away.
func NewSession(screen tcell.Screen, engine *caster.Engine, log logrus.FieldLogger) (*Session, error) {
	if screen == nil || engine == nil {
		return nil, fmt.Errorf("%w: session needs a screen and an engine", caster.ErrConfig)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Session{
		screen:   screen,
		engine:   engine,
		renderer: NewRenderer(screen, engine.Projector()),
		log:      log,
	}
	s.last = engine.Render()
	s.redraw()
	return s, nil
}

// Renderer exposes the session's renderer for toggles.
func (s *Session) Renderer() *Renderer { return s.renderer }

// Pending returns the input queued for the next tick.
func (s *Session) Pending() caster.Input { return s.pending }

// HandleEvent folds one terminal event into the pending input.
func (s *Session) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
		s.redraw()
	case *tcell.EventKey:
		if toggleMap(ev) {
			s.renderer.ShowMap = !s.renderer.ShowMap
			s.redraw()
			return
		}
		s.pending = mergeKey(s.pending, ev)
	}
}

// Advance ticks the engine with the pending input and redraws. It returns
// false once the engine has accepted a quit.
func (s *Session) Advance() bool {
	in := s.pending
	s.pending = caster.Input{}
	f, ok := s.engine.Tick(in)
	if !ok {
		return false
	}
	s.last = f
	s.redraw()
	return true
}

func (s *Session) redraw() {
	s.renderer.Draw(s.last)
	s.screen.Show()
}

// Run polls the screen on its own goroutine and advances one tick per period
// until quit, the screen closes, or ctx is cancelled.
func (s *Session) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("%w: tick period %v", caster.ErrConfig, period)
	}

	events := make(chan tcell.Event, 32)
	go func() {
		defer close(events)
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.WithField("tick", s.engine.CurrentTick()).Info("session cancelled")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.HandleEvent(ev)
		case <-ticker.C:
			if !s.Advance() {
				return nil
			}
		}
	}
}

// mergeKey adds a key press to in. Arrow keys mirror WASD; Escape, q and
// Ctrl-C quit.
func mergeKey(in caster.Input, ev *tcell.EventKey) caster.Input {
	switch ev.Key() {
	case tcell.KeyUp:
		in.Keys.Forward = true
	case tcell.KeyDown:
		in.Keys.Backward = true
	case tcell.KeyLeft:
		in.Keys.TurnLeft = true
	case tcell.KeyRight:
		in.Keys.TurnRight = true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		in.Quit = true
	case tcell.KeyRune:
		switch ev.Rune() {
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
		}
	}
	return in
}

func toggleMap(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyRune && (ev.Rune() == 'm' || ev.Rune() == 'M')
}
