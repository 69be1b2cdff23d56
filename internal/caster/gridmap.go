package caster

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Configuration errors. Every constructor error wraps one of these.
var (
	ErrEmptyGrid     = errors.New("empty grid")
	ErrRaggedRows    = errors.New("rows have unequal length")
	ErrUnknownSymbol = errors.New("unknown map symbol")
	ErrLegend        = errors.New("invalid legend")
	ErrTileSize      = errors.New("tile size must be positive")
	ErrConfig        = errors.New("invalid configuration")
)

// GridMap is the immutable tile grid the viewpoint moves through.
// Cells are stored row-major: index = row*cols + col.
type GridMap struct {
	cols     int
	rows     int
	tileSize float64
	cells    []Cell
	legend   Legend
}

// ParseGrid builds a GridMap from text rows using the given legend.
// Rows must be non-empty, of equal length, and contain only the legend's two
// symbols.
func ParseGrid(rows []string, tileSize float64, legend Legend) (*GridMap, error) {
	if err := legend.Validate(); err != nil {
		return nil, err
	}
	if !(tileSize > 0) || math.IsInf(tileSize, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrTileSize, tileSize)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyGrid
	}

	cols := len([]rune(rows[0]))
	if cols == 0 {
		return nil, fmt.Errorf("%w: row 0 has no cells", ErrEmptyGrid)
	}

	gm := &GridMap{
		cols:     cols,
		rows:     len(rows),
		tileSize: tileSize,
		cells:    make([]Cell, 0, cols*len(rows)),
		legend:   legend,
	}
	for y, row := range rows {
		symbols := []rune(row)
		if len(symbols) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, y, len(symbols), cols)
		}
		for x, r := range symbols {
			c, ok := legend.Decode(r)
			if !ok {
				return nil, fmt.Errorf("%w: %q at col %d row %d", ErrUnknownSymbol, r, x, y)
			}
			gm.cells = append(gm.cells, c)
		}
	}
	return gm, nil
}

// LoadGridFile reads a text map from disk. Blank lines and lines starting
// with "//" are skipped.
func LoadGridFile(path string, tileSize float64, legend Legend) (*GridMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()

	var rows []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "//") {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}

	gm, err := ParseGrid(rows, tileSize, legend)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return gm, nil
}

// Cols returns the grid width in cells.
func (gm *GridMap) Cols() int { return gm.cols }

// Rows returns the grid height in cells.
func (gm *GridMap) Rows() int { return gm.rows }

// TileSize returns the world units per cell.
func (gm *GridMap) TileSize() float64 { return gm.tileSize }

// Legend returns the legend the grid was parsed with.
func (gm *GridMap) Legend() Legend { return gm.legend }

// WorldSize returns the grid extent in world units.
func (gm *GridMap) WorldSize() (w, h float64) {
	return float64(gm.cols) * gm.tileSize, float64(gm.rows) * gm.tileSize
}

// Diagonal returns the length of the grid's world-space diagonal.
func (gm *GridMap) Diagonal() float64 {
	w, h := gm.WorldSize()
	return math.Hypot(w, h)
}

// InBounds reports whether (col, row) is a cell of the grid.
func (gm *GridMap) InBounds(col, row int) bool {
	return col >= 0 && col < gm.cols && row >= 0 && row < gm.rows
}

// CellAt returns the cell at (col, row). Anything outside the grid is a wall.
func (gm *GridMap) CellAt(col, row int) Cell {
	if !gm.InBounds(col, row) {
		return Wall
	}
	return gm.cells[row*gm.cols+col]
}

// WorldToCell converts a world point to the cell containing it. Coordinates
// are floor-divided so points left of or above the origin map to negative
// (out of bounds) cells.
func (gm *GridMap) WorldToCell(p mgl64.Vec2) (col, row int) {
	return int(math.Floor(p.X() / gm.tileSize)), int(math.Floor(p.Y() / gm.tileSize))
}

// CellOrigin returns the world position of a cell's top-left corner.
func (gm *GridMap) CellOrigin(col, row int) mgl64.Vec2 {
	return mgl64.Vec2{float64(col) * gm.tileSize, float64(row) * gm.tileSize}
}

// CellCenter returns the world position of a cell's centre.
func (gm *GridMap) CellCenter(col, row int) mgl64.Vec2 {
	half := gm.tileSize / 2
	return gm.CellOrigin(col, row).Add(mgl64.Vec2{half, half})
}

// Each calls fn for every cell in row-major order.
func (gm *GridMap) Each(fn func(col, row int, c Cell)) {
	for i, c := range gm.cells {
		fn(i%gm.cols, i/gm.cols, c)
	}
}

// String renders the grid back to text rows using its legend.
func (gm *GridMap) String() string {
	var sb strings.Builder
	for row := 0; row < gm.rows; row++ {
		for col := 0; col < gm.cols; col++ {
			sb.WriteRune(gm.legend.Glyph(gm.CellAt(col, row)).Symbol)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
