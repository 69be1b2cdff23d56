package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Garsondee/grid-caster/internal/caster"
)

// Every run starts from the built-in spawn point.
var spawn = mgl64.Vec2{100, 100}

type runStats struct {
	runIndex int
	facing   float64 // spawn facing in degrees

	ticks          int
	accepted       int
	blocked        int
	turns          int
	firstBlockTick int
	quit           bool

	travelled float64 // sum of accepted step lengths
	netDist   float64 // straight-line spawn to final position
	final     caster.Viewpoint

	distMin, distAvg, distMax float64
}

type config struct {
	runs       int
	script     string
	ticks      int
	mapPath    string
	facingBase float64
	facingStep float64
	verbose    bool
	dumpPath   string
	copyOut    bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.runs, "runs", 4, "number of scripted runs")
	flag.StringVar(&cfg.script, "script", "", "key script, e.g. \"w*20 a*6 w*20\" (default: hold forward)")
	flag.IntVar(&cfg.ticks, "ticks", 300, "ticks per run when no script is given")
	flag.StringVar(&cfg.mapPath, "map", "", "map file (default: built-in map)")
	flag.Float64Var(&cfg.facingBase, "facing-base", 90, "spawn facing in degrees for run 1")
	flag.Float64Var(&cfg.facingStep, "facing-step", 90, "facing increment between runs")
	flag.BoolVar(&cfg.verbose, "verbose", false, "print the sim log of every run")
	flag.StringVar(&cfg.dumpPath, "dump", "", "write msgpack frame snapshots of the last run to this file")
	flag.BoolVar(&cfg.copyOut, "copy", false, "copy the report to the clipboard")
	flag.Parse()

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func run(cfg config, stdout io.Writer) error {
	if cfg.runs <= 0 {
		return fmt.Errorf("-runs must be > 0")
	}
	if cfg.script == "" {
		if cfg.ticks <= 0 {
			return fmt.Errorf("-ticks must be > 0")
		}
		cfg.script = fmt.Sprintf("w*%d", cfg.ticks)
	}
	inputs, err := caster.ParseScript(cfg.script)
	if err != nil {
		return err
	}
	rows := caster.DefaultRows
	if cfg.mapPath != "" {
		rows, err = readRows(cfg.mapPath)
		if err != nil {
			return err
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "=== Headless Caster Report ===\n")
	fmt.Fprintf(&out, "runs=%d inputs=%d facing_base=%.0f facing_step=%.0f\n\n", cfg.runs, len(inputs), cfg.facingBase, cfg.facingStep)

	all := make([]runStats, 0, cfg.runs)
	var last *caster.TestSim
	for i := 0; i < cfg.runs; i++ {
		facing := cfg.facingBase + float64(i)*cfg.facingStep
		ts, err := caster.NewTestSim(
			caster.WithRows(caster.DefaultTileSize, rows...),
			caster.WithSpawn(spawn.X(), spawn.Y(), facing*math.Pi/180),
			caster.WithVerbose(cfg.verbose),
			caster.WithKeepFrames(cfg.dumpPath != ""),
		)
		if err != nil {
			return err
		}
		ts.Run(inputs)
		rs := collect(i+1, facing, ts)
		all = append(all, rs)
		printRun(&out, rs)
		if cfg.verbose {
			out.WriteString(ts.SimLog.Format())
			out.WriteString("\n")
		}
		last = ts
	}
	printAggregate(&out, all)

	if cfg.dumpPath != "" {
		if err := dumpFrames(cfg.dumpPath, last.Frames); err != nil {
			return err
		}
		fmt.Fprintf(&out, "dumped %d frames to %s\n", len(last.Frames), cfg.dumpPath)
	}

	fmt.Fprint(stdout, out.String())
	if cfg.copyOut {
		if err := clipboard.WriteAll(out.String()); err != nil {
			logrus.WithError(err).Warn("copy report")
		}
	}
	return nil
}

// readRows loads a map file through the grid parser so errors match the
// game's, then re-serialises it for the harness.
func readRows(path string) ([]string, error) {
	gm, err := caster.LoadGridFile(path, caster.DefaultTileSize, caster.DefaultLegend)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(gm.String(), "\n"), "\n"), nil
}

func collect(runIndex int, facing float64, ts *caster.TestSim) runStats {
	rs := runStats{
		runIndex:       runIndex,
		facing:         facing,
		ticks:          ts.Engine.CurrentTick(),
		accepted:       ts.SimLog.CountCategory("move", "accepted"),
		blocked:        ts.SimLog.CountCategory("move", "blocked"),
		turns:          ts.SimLog.CountCategory("turn", "facing"),
		firstBlockTick: firstTick(ts.SimLog.Entries(), "move", "blocked"),
		quit:           ts.Done,
		final:          ts.Engine.Viewpoint(),
	}
	for _, e := range ts.SimLog.Filter("move", "accepted") {
		rs.travelled += e.NumVal
	}
	rs.netDist = rs.final.Pos.Sub(spawn).Len()
	if f, ok := ts.LastFrame(); ok {
		rs.distMin, rs.distAvg, rs.distMax = f.DistanceStats()
	}
	return rs
}

func firstTick(entries []caster.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// detectStuck reports whether a run spent most of its movement input pressed
// against walls without getting anywhere.
func detectStuck(rs runStats) (bool, string) {
	attempts := rs.accepted + rs.blocked
	if attempts == 0 {
		return false, "no_movement_input"
	}
	blockedRatio := float64(rs.blocked) / float64(attempts)
	var reasons []string
	if blockedRatio >= 0.5 {
		reasons = append(reasons, fmt.Sprintf("blocked_ratio=%.2f", blockedRatio))
	}
	if rs.netDist < caster.DefaultTileSize {
		reasons = append(reasons, fmt.Sprintf("net_dist=%.1f", rs.netDist))
	}
	if len(reasons) < 2 {
		return false, "moving"
	}
	return true, strings.Join(reasons, ",")
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (facing=%.0f) ---\n", rs.runIndex, rs.facing)
	fmt.Fprintf(w, "ticks=%d quit=%t first_block=%d\n", rs.ticks, rs.quit, rs.firstBlockTick)
	fmt.Fprintf(w, "moves: accepted=%d blocked=%d turns=%d travelled=%.1f net=%.1f\n",
		rs.accepted, rs.blocked, rs.turns, rs.travelled, rs.netDist)
	fmt.Fprintf(w, "final_pose: x=%.1f y=%.1f facing=%.3f\n", rs.final.Pos.X(), rs.final.Pos.Y(), rs.final.Facing)
	fmt.Fprintf(w, "last_frame_dist: min=%.1f avg=%.1f max=%.1f\n", rs.distMin, rs.distAvg, rs.distMax)
	stuck, reason := detectStuck(rs)
	fmt.Fprintf(w, "stuck=%t (%s)\n\n", stuck, reason)
}

func printAggregate(w io.Writer, all []runStats) {
	totalAccepted := 0
	totalBlocked := 0
	totalTravelled := 0.0
	stuckRuns := 0
	blockTicks := make([]int, 0, len(all))
	for _, rs := range all {
		totalAccepted += rs.accepted
		totalBlocked += rs.blocked
		totalTravelled += rs.travelled
		if stuck, _ := detectStuck(rs); stuck {
			stuckRuns++
		}
		if rs.firstBlockTick >= 0 {
			blockTicks = append(blockTicks, rs.firstBlockTick)
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d stuck_runs=%d\n", len(all), stuckRuns)
	fmt.Fprintf(w, "avg_per_run: accepted=%.1f blocked=%.1f travelled=%.1f\n",
		avg(totalAccepted, len(all)), avg(totalBlocked, len(all)), totalTravelled/math.Max(1, float64(len(all))))
	fmt.Fprintf(w, "first_block_avg_tick=%s\n", avgTickString(blockTicks))
}

// dumpFrames streams one msgpack-encoded snapshot per frame.
func dumpFrames(path string, frames []caster.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := msgpack.NewEncoder(bw)
	for _, fr := range frames {
		if err := enc.Encode(fr.Snapshot()); err != nil {
			return fmt.Errorf("encode tick %d: %w", fr.Tick, err)
		}
	}
	return bw.Flush()
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
