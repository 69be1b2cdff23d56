package main

import (
	"flag"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/grid-caster/internal/caster"
	"github.com/Garsondee/grid-caster/internal/game"
)

func main() {
	mapPath := flag.String("map", "", "map file (default: built-in map)")
	tile := flag.Float64("tile", caster.DefaultTileSize, "tile size in world units")
	rays := flag.Int("rays", caster.DefaultRayCount, "rays per frame")
	fovDeg := flag.Float64("fov", 60, "field of view in degrees")
	fps := flag.Int("fps", 30, "ticks per second")
	x := flag.Float64("x", 100, "spawn x")
	y := flag.Float64("y", 100, "spawn y")
	facingDeg := flag.Float64("facing", 90, "spawn facing in degrees")
	hideRays := flag.Bool("no-rays", false, "start with debug rays hidden")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.SetLevel(lvl)

	grid := caster.DefaultGrid()
	if *mapPath != "" {
		grid, err = caster.LoadGridFile(*mapPath, *tile, caster.DefaultLegend)
		if err != nil {
			logrus.WithError(err).Fatal("load map")
		}
	}

	vp := caster.NewViewpoint(*x, *y, caster.DefaultTileSize/2, *facingDeg*math.Pi/180)
	w, h := grid.WorldSize()
	eng, err := caster.NewEngine(grid, vp,
		caster.WithRayCount(*rays),
		caster.WithFOV(*fovDeg*math.Pi/180),
		caster.WithViewport(2*w, h),
	)
	if err != nil {
		logrus.WithError(err).Fatal("start engine")
	}

	g, err := game.New(eng, game.WithRays(!*hideRays))
	if err != nil {
		logrus.WithError(err).Fatal("start window")
	}

	ebiten.SetWindowTitle("Grid Caster")
	ebiten.SetWindowSize(int(2*w), int(h))
	ebiten.SetTPS(*fps)
	if err := ebiten.RunGame(g); err != nil {
		logrus.Fatal(err)
	}
}
