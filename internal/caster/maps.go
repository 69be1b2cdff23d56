package caster

import "math"

// DefaultTileSize is the world size of one cell in the built-in map.
const DefaultTileSize = 32

// DefaultRows is the built-in 17x16 arena.
var DefaultRows = []string{
	"#################",
	"#..........#....#",
	"#.......#.......#",
	"#....#..........#",
	"#.........#.....#",
	"#......####.....#",
	"#....#....#.....#",
	"#....#....#.....#",
	"#....#....#.....#",
	"#....#....#.....#",
	"#....######.....#",
	"#..#....####....#",
	"#.......####....#",
	"#..#........#...#",
	"#........#......#",
	"#################",
}

// DefaultGrid parses DefaultRows with the default legend and tile size.
func DefaultGrid() *GridMap {
	gm, err := ParseGrid(DefaultRows, DefaultTileSize, DefaultLegend)
	if err != nil {
		panic("caster: built-in map is invalid: " + err.Error())
	}
	return gm
}

// DefaultViewpoint is the spawn pose used with the built-in map.
func DefaultViewpoint() Viewpoint {
	return NewViewpoint(100, 100, DefaultTileSize/2, math.Pi/2)
}
