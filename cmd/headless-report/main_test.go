package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Garsondee/grid-caster/internal/caster"
)

func TestDetectStuck_TrueWhenMostlyBlockedAndStationary(t *testing.T) {
	rs := runStats{accepted: 2, blocked: 18, netDist: 10}
	stuck, reason := detectStuck(rs)
	if !stuck {
		t.Fatalf("expected stuck=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "blocked_ratio=0.90") {
		t.Fatalf("expected reason to mention the blocked ratio, got: %s", reason)
	}
}

func TestDetectStuck_FalseWhenTravelledFar(t *testing.T) {
	rs := runStats{accepted: 10, blocked: 30, netDist: 50}
	if stuck, reason := detectStuck(rs); stuck {
		t.Fatalf("a run that got away from spawn is not stuck (reason=%s)", reason)
	}
}

func TestDetectStuck_FalseWithoutMovement(t *testing.T) {
	stuck, reason := detectStuck(runStats{turns: 12})
	if stuck || reason != "no_movement_input" {
		t.Fatalf("turn-only run should not be stuck, got %t (%s)", stuck, reason)
	}
}

func TestRun_ReportsEveryRun(t *testing.T) {
	var buf bytes.Buffer
	cfg := config{runs: 2, script: "w*5 a*3 w*5", facingBase: 0, facingStep: 90}
	if err := run(cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"--- Run 1 (facing=0) ---", "--- Run 2 (facing=90) ---", "=== Aggregate ===", "runs=2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRun_RejectsBadInput(t *testing.T) {
	if err := run(config{runs: 0, ticks: 10}, io.Discard); err == nil {
		t.Fatal("zero runs should be rejected")
	}
	if err := run(config{runs: 1, ticks: 0}, io.Discard); err == nil {
		t.Fatal("zero ticks without a script should be rejected")
	}
	if err := run(config{runs: 1, script: "w*x"}, io.Discard); !errors.Is(err, caster.ErrConfig) {
		t.Fatalf("bad script should surface ErrConfig, got %v", err)
	}
}

func TestRun_DumpsMsgpackFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.msgpack")
	cfg := config{runs: 1, script: "w*4 d*2", facingBase: 90, dumpPath: path}
	if err := run(cfg, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	var snaps []caster.FrameSnapshot
	for {
		var s caster.FrameSnapshot
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("decode: %v", err)
		}
		snaps = append(snaps, s)
	}
	if len(snaps) != 6 {
		t.Fatalf("expected 6 snapshots, got %d", len(snaps))
	}
	for i, s := range snaps {
		if s.Tick != i+1 {
			t.Fatalf("snapshot %d has tick %d", i, s.Tick)
		}
		if len(s.Distances) != caster.DefaultRayCount {
			t.Fatalf("snapshot %d has %d distances", i, len(s.Distances))
		}
	}
}

func TestReadRows_RoundTripsMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.map")
	body := "// test box\n#####\n#...#\n#####\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	rows, err := readRows(path)
	if err != nil {
		t.Fatalf("readRows: %v", err)
	}
	if len(rows) != 3 || rows[1] != "#...#" {
		t.Fatalf("unexpected rows %q", rows)
	}
}
