package main

import (
	"context"
	"flag"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/grid-caster/internal/caster"
	"github.com/Garsondee/grid-caster/internal/term"
)

func main() {
	mapPath := flag.String("map", "", "map file (default: built-in map)")
	rays := flag.Int("rays", 80, "rays per frame")
	fovDeg := flag.Float64("fov", 60, "field of view in degrees")
	fps := flag.Int("fps", 30, "ticks per second")
	logPath := flag.String("log", "", "log file (default: discard, the terminal is in use)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logrus.WithError(err).Fatal("open log")
		}
		defer f.Close()
		logger.SetOutput(f)
	}
	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		logrus.Fatal(err)
	}
	logger.SetLevel(lvl)

	grid := caster.DefaultGrid()
	if *mapPath != "" {
		grid, err = caster.LoadGridFile(*mapPath, caster.DefaultTileSize, caster.DefaultLegend)
		if err != nil {
			logrus.WithError(err).Fatal("load map")
		}
	}
	if *fps <= 0 {
		logrus.Fatal("-fps must be > 0")
	}

	w, h := grid.WorldSize()
	eng, err := caster.NewEngine(grid, caster.DefaultViewpoint(),
		caster.WithRayCount(*rays),
		caster.WithFOV(*fovDeg*math.Pi/180),
		caster.WithViewport(2*w, h),
		caster.WithLogger(logger),
	)
	if err != nil {
		logrus.WithError(err).Fatal("start engine")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logrus.WithError(err).Fatal("open terminal")
	}
	if err := screen.Init(); err != nil {
		logrus.WithError(err).Fatal("init terminal")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := term.NewSession(screen, eng, logger)
	if err != nil {
		screen.Fini()
		logrus.WithError(err).Fatal("start session")
	}
	runErr := sess.Run(ctx, time.Second/time.Duration(*fps))
	screen.Fini()
	if runErr != nil {
		logrus.Fatal(runErr)
	}
	logrus.Infof("quit after %d ticks, %d blocked moves", eng.CurrentTick(), eng.BlockedMoves())
}
