package caster

import (
	"fmt"
	"image/color"
)

// Cell is the kind of a single grid tile. There are exactly two.
type Cell uint8

const (
	Floor Cell = iota // walkable, transparent
	Wall              // blocks movement and rays
)

// String returns a short label for the cell kind.
func (c Cell) String() string {
	switch c {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Glyph is the text symbol and render colour for one cell kind.
type Glyph struct {
	Symbol rune
	Color  color.RGBA
}

// Legend maps each cell kind to its glyph. It is a closed mapping: one entry
// for walls, one for floors, and nothing else.
type Legend struct {
	Wall  Glyph
	Floor Glyph
}

// DefaultLegend is the classic '#' wall / '.' floor legend.
var DefaultLegend = Legend{
	Wall:  Glyph{Symbol: '#', Color: color.RGBA{R: 100, G: 100, B: 100, A: 255}},
	Floor: Glyph{Symbol: '.', Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
}

// Validate rejects legends whose two symbols collide.
func (l Legend) Validate() error {
	if l.Wall.Symbol == l.Floor.Symbol {
		return fmt.Errorf("%w: wall and floor share symbol %q", ErrLegend, l.Wall.Symbol)
	}
	return nil
}

// Decode returns the cell kind for a map symbol.
func (l Legend) Decode(r rune) (Cell, bool) {
	switch r {
	case l.Wall.Symbol:
		return Wall, true
	case l.Floor.Symbol:
		return Floor, true
	default:
		return Floor, false
	}
}

// Glyph returns the glyph for a cell kind.
func (l Legend) Glyph(c Cell) Glyph {
	if c == Wall {
		return l.Wall
	}
	return l.Floor
}

// ColorOf returns the overhead render colour for a cell kind.
func (l Legend) ColorOf(c Cell) color.RGBA {
	return l.Glyph(c).Color
}
