// Package render turns a laid out store and its references into SVG
// documents, terminal tables and Graphviz graphs.
package render

import (
	"math"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

type dirs uint8

const (
	up dirs = 1 << iota
	down
	left
	right
)

func (d dirs) rune() rune {
	switch d {
	case up:
		return '╵'
	case down:
		return '╷'
	case left:
		return '╴'
	case right:
		return '╶'
	case up | down:
		return '│'
	case left | right:
		return '─'
	case down | left:
		return '╮'
	case down | right:
		return '╭'
	case up | left:
		return '╯'
	case up | right:
		return '╰'
	case up | down | left:
		return '┤'
	case up | down | right:
		return '├'
	case left | right | down:
		return '┬'
	case left | right | up:
		return '┴'
	case up | down | left | right:
		return '┼'
	}
	return ' '
}

const (
	nodeRune  = '●'
	stashRune = '◆'
	eps       = 1e-6
)

// Cell is one lane of one row of the text graph.
type Cell struct {
	Rune  rune
	Color string
}

// Grid is a box-drawing rendition of the lane layout, one row per commit.
type Grid struct {
	Rows [][]Cell

	geom  graph.Geometry
	marks [][]dirs
}

// NewGrid rasterizes the placed nodes. Unplaced nodes keep an empty row.
func NewGrid(nodes []*graph.Node, geom graph.Geometry) *Grid {
	lanes := 0
	for _, n := range nodes {
		lanes = max(lanes, n.Lane()+1)
		for _, c := range n.Children() {
			lanes = max(lanes, c.Lane()+1)
		}
	}
	g := &Grid{
		Rows:  make([][]Cell, len(nodes)),
		geom:  geom,
		marks: make([][]dirs, len(nodes)),
	}
	for i := range nodes {
		g.Rows[i] = make([]Cell, lanes)
		g.marks[i] = make([]dirs, lanes)
		for j := range g.Rows[i] {
			g.Rows[i][j].Rune = ' '
		}
	}
	for _, n := range nodes {
		if !n.IsPlaced() {
			continue
		}
		for _, line := range n.Path().Polylines(1) {
			for k := 1; k < len(line); k++ {
				g.segment(line[k-1], line[k], n.Color())
			}
		}
	}
	for i, row := range g.marks {
		for j, d := range row {
			if d == 0 {
				continue
			}
			g.Rows[i][j].Rune = d.rune()
		}
	}
	for _, n := range nodes {
		if !n.IsPlaced() || n.Index() >= len(g.Rows) {
			continue
		}
		r := nodeRune
		if n.IsStash {
			r = stashRune
		}
		g.Rows[n.Index()][n.Lane()] = Cell{Rune: r, Color: n.Color()}
	}
	return g
}

// Line returns row i as plain text.
func (g *Grid) Line(i int) string {
	out := make([]rune, len(g.Rows[i]))
	for j, c := range g.Rows[i] {
		out[j] = c.Rune
	}
	return string(out)
}

func (g *Grid) segment(a, b graph.Point, color string) {
	switch {
	case math.Abs(a.X-b.X) < eps:
		g.vertical(a.X, a.Y, b.Y, color)
	case math.Abs(a.Y-b.Y) < eps:
		g.horizontal(a.Y, a.X, b.X, color)
	default:
		g.corner(a, b, color)
	}
}

func (g *Grid) vertical(x, y1, y2 float64, color string) {
	lane, ok := g.laneAt(x)
	if !ok {
		return
	}
	lo, hi := math.Min(y1, y2), math.Max(y1, y2)
	for row := range g.marks {
		if c := g.rowCenter(row); c > lo+eps && c < hi-eps {
			g.mark(row, lane, up|down, color)
		}
	}
}

func (g *Grid) horizontal(y, x1, x2 float64, color string) {
	row, ok := g.rowAt(y)
	if !ok {
		return
	}
	l1, l2 := g.nearestLane(x1), g.nearestLane(x2)
	if l1 > l2 {
		l1, l2 = l2, l1
	}
	for lane := l1; lane <= l2; lane++ {
		g.mark(row, lane, left|right, color)
	}
}

// corner handles a bend: one end sits on a lane centre, the other on a row
// centre, and the bend cell is where both meet.
func (g *Grid) corner(a, b graph.Point, color string) {
	vert, horiz := a, b
	if _, ok := g.laneAt(a.X); !ok {
		vert, horiz = b, a
	}
	lane, ok := g.laneAt(vert.X)
	if !ok {
		return
	}
	row, ok := g.rowAt(horiz.Y)
	if !ok {
		return
	}
	var d dirs
	if vert.Y > horiz.Y {
		d |= down
	} else {
		d |= up
	}
	if horiz.X < vert.X {
		d |= left
	} else {
		d |= right
	}
	g.mark(row, lane, d, color)
}

func (g *Grid) mark(row, lane int, d dirs, color string) {
	if row < 0 || row >= len(g.marks) || lane < 0 || lane >= len(g.marks[row]) {
		return
	}
	g.marks[row][lane] |= d
	g.Rows[row][lane].Color = color
}

func (g *Grid) rowCenter(row int) float64 {
	return float64(row)*g.geom.RowHeight + g.geom.RowHeight/2
}

func (g *Grid) rowAt(y float64) (int, bool) {
	f := (y - g.geom.RowHeight/2) / g.geom.RowHeight
	r := math.Round(f)
	return int(r), math.Abs(f-r) < eps
}

func (g *Grid) laneAt(x float64) (int, bool) {
	f := (x - g.geom.RowHeight/2) / g.geom.LaneWidth
	r := math.Round(f)
	return int(r), math.Abs(f-r) < eps
}

func (g *Grid) nearestLane(x float64) int {
	return int(math.Round((x - g.geom.RowHeight/2) / g.geom.LaneWidth))
}
