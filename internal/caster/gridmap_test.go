package caster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// boxRows is a 3x3 grid that is all wall except the centre cell.
var boxRows = []string{
	"###",
	"#.#",
	"###",
}

func mustGrid(t *testing.T, tile float64, rows ...string) *GridMap {
	t.Helper()
	gm, err := ParseGrid(rows, tile, DefaultLegend)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return gm
}

func TestParseGrid_DefaultMap(t *testing.T) {
	gm := DefaultGrid()
	if gm.Cols() != 17 || gm.Rows() != 16 {
		t.Fatalf("expected 17x16, got %dx%d", gm.Cols(), gm.Rows())
	}
	w, h := gm.WorldSize()
	if w != 544 || h != 512 {
		t.Fatalf("expected world 544x512, got %vx%v", w, h)
	}
	if gm.CellAt(0, 0) != Wall || gm.CellAt(1, 1) != Floor {
		t.Fatal("corner should be wall and (1,1) floor")
	}
}

func TestParseGrid_Errors(t *testing.T) {
	cases := []struct {
		name   string
		rows   []string
		tile   float64
		legend Legend
		want   error
	}{
		{"no rows", nil, 32, DefaultLegend, ErrEmptyGrid},
		{"empty row", []string{""}, 32, DefaultLegend, ErrEmptyGrid},
		{"ragged", []string{"###", "#.", "###"}, 32, DefaultLegend, ErrRaggedRows},
		{"unknown symbol", []string{"###", "#x#", "###"}, 32, DefaultLegend, ErrUnknownSymbol},
		{"zero tile", boxRows, 0, DefaultLegend, ErrTileSize},
		{"negative tile", boxRows, -4, DefaultLegend, ErrTileSize},
		{"duplicate legend symbol", boxRows, 32, Legend{Wall: Glyph{Symbol: '#'}, Floor: Glyph{Symbol: '#'}}, ErrLegend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gm, err := ParseGrid(tc.rows, tc.tile, tc.legend)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if gm != nil {
				t.Fatal("no grid should be returned on error")
			}
		})
	}
}

func TestParseGrid_CustomLegend(t *testing.T) {
	legend := Legend{Wall: Glyph{Symbol: 'X'}, Floor: Glyph{Symbol: ' '}}
	gm, err := ParseGrid([]string{"XXX", "X X", "XXX"}, 10, legend)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	if gm.CellAt(1, 1) != Floor || gm.CellAt(0, 1) != Wall {
		t.Fatal("custom legend decoded wrongly")
	}
	// The default symbols mean nothing under a custom legend.
	if _, err := ParseGrid([]string{"#.#"}, 10, legend); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestGridMap_OutOfBoundsIsWall(t *testing.T) {
	gm := mustGrid(t, 32, "...", "...", "...")
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {100, 100}} {
		if gm.CellAt(c[0], c[1]) != Wall {
			t.Fatalf("cell %v outside the grid should be wall", c)
		}
	}
	if gm.CellAt(2, 2) != Floor {
		t.Fatal("in-bounds floor cell reported as wall")
	}
}

func TestGridMap_WorldToCell(t *testing.T) {
	gm := mustGrid(t, 32, boxRows...)
	cases := []struct {
		x, y     float64
		col, row int
	}{
		{48, 48, 1, 1},
		{0, 0, 0, 0},
		{31.999, 0, 0, 0},
		{32, 0, 1, 0},
		{64, 95.9, 2, 2},
		{-0.5, 10, -1, 0},
		{10, -32.1, 0, -2},
	}
	for _, tc := range cases {
		col, row := gm.WorldToCell(mgl64.Vec2{tc.x, tc.y})
		if col != tc.col || row != tc.row {
			t.Fatalf("WorldToCell(%v,%v) = (%d,%d), want (%d,%d)", tc.x, tc.y, col, row, tc.col, tc.row)
		}
	}
}

func TestGridMap_CellCenter(t *testing.T) {
	gm := mustGrid(t, 32, boxRows...)
	c := gm.CellCenter(1, 1)
	if c.X() != 48 || c.Y() != 48 {
		t.Fatalf("centre of (1,1) should be (48,48), got %v", c)
	}
	col, row := gm.WorldToCell(c)
	if col != 1 || row != 1 {
		t.Fatalf("centre should map back to (1,1), got (%d,%d)", col, row)
	}
}

func TestGridMap_StringRoundTrip(t *testing.T) {
	gm := DefaultGrid()
	want := strings.Join(DefaultRows, "\n") + "\n"
	if gm.String() != want {
		t.Fatalf("String() did not reproduce the source rows:\n%s", gm.String())
	}
}

func TestGridMap_Each(t *testing.T) {
	gm := mustGrid(t, 32, boxRows...)
	walls, floors := 0, 0
	gm.Each(func(col, row int, c Cell) {
		if c != gm.CellAt(col, row) {
			t.Fatalf("Each reported %s at (%d,%d), CellAt says %s", c, col, row, gm.CellAt(col, row))
		}
		if c == Wall {
			walls++
		} else {
			floors++
		}
	})
	if walls != 8 || floors != 1 {
		t.Fatalf("expected 8 walls and 1 floor, got %d and %d", walls, floors)
	}
}

func TestLoadGridFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "box.map")
	body := "// a tiny box\r\n###\r\n#.#\r\n\r\n###\r\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	gm, err := LoadGridFile(path, 32, DefaultLegend)
	if err != nil {
		t.Fatalf("LoadGridFile: %v", err)
	}
	if gm.Cols() != 3 || gm.Rows() != 3 || gm.CellAt(1, 1) != Floor {
		t.Fatalf("unexpected grid:\n%s", gm)
	}
}

func TestLoadGridFile_Errors(t *testing.T) {
	if _, err := LoadGridFile(filepath.Join(t.TempDir(), "missing.map"), 32, DefaultLegend); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.map")
	if err := os.WriteFile(path, []byte("###\n#?#\n###\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGridFile(path, 32, DefaultLegend); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}
