package graph

import (
	"math"
	"strconv"
	"strings"
)

type SegmentKind uint8

const (
	SegMove SegmentKind = iota
	SegVertical
	SegHorizontal
	SegQuad
)

// Segment is one absolute drawing command. Vertical and horizontal segments
// only use the coordinate they move along; Ctrl is set for quadratic curves.
type Segment struct {
	Kind SegmentKind
	To   Point
	Ctrl Point
}

type GlyphKind uint8

const (
	GlyphCircle GlyphKind = iota
	GlyphStash
)

// Glyph is the marker drawn on top of a node's edges.
type Glyph struct {
	Kind   GlyphKind
	Center Point
	Radius float64
}

// Path is the drawing of one node: the edges towards its children and its
// glyph. Edges are stroked with the node colour; a stash glyph is filled.
type Path struct {
	Segments []Segment
	Glyph    Glyph
}

func (p *Path) moveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegMove, To: Point{x, y}})
}

func (p *Path) vertical(y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegVertical, To: Point{p.cursor().X, y}})
}

func (p *Path) horizontal(x float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegHorizontal, To: Point{x, p.cursor().Y}})
}

func (p *Path) quad(cx, cy, x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegQuad, Ctrl: Point{cx, cy}, To: Point{x, y}})
}

func (p *Path) cursor() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[len(p.Segments)-1].To
}

// EdgeData renders the edges as SVG path data.
func (p *Path) EdgeData() string {
	var b strings.Builder
	for _, seg := range p.Segments {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		switch seg.Kind {
		case SegMove:
			b.WriteString("M ")
			writeNums(&b, seg.To.X, seg.To.Y)
		case SegVertical:
			b.WriteString("V ")
			writeNums(&b, seg.To.Y)
		case SegHorizontal:
			b.WriteString("H ")
			writeNums(&b, seg.To.X)
		case SegQuad:
			b.WriteString("Q ")
			writeNums(&b, seg.Ctrl.X, seg.Ctrl.Y, seg.To.X, seg.To.Y)
		}
	}
	return b.String()
}

// GlyphData renders the glyph as SVG path data.
func (p *Path) GlyphData() string {
	var b strings.Builder
	c, r := p.Glyph.Center, p.Glyph.Radius
	switch p.Glyph.Kind {
	case GlyphStash:
		b.WriteString("M ")
		writeNums(&b, c.X, c.Y-stashOffset)
		b.WriteByte(' ')
		b.WriteString(stashMark)
	default:
		b.WriteString("M ")
		writeNums(&b, c.X-r, c.Y)
		b.WriteString(" a ")
		writeNums(&b, r, r, 0, 1, 0, 2*r, 0)
		b.WriteString(" a ")
		writeNums(&b, r, r, 0, 1, 0, -2*r, 0)
		b.WriteString(" Z")
	}
	return b.String()
}

// String is the full SVG path data, edges first.
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	edges := p.EdgeData()
	if edges == "" {
		return p.GlyphData()
	}
	return edges + " " + p.GlyphData()
}

// Polylines flattens the edges into point lists for canvases without curve
// support. Each move starts a new polyline and quadratic curves are sampled
// with steps points.
func (p *Path) Polylines(steps int) [][]Point {
	if steps < 1 {
		steps = 1
	}
	var (
		out [][]Point
		cur []Point
	)
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, seg := range p.Segments {
		switch seg.Kind {
		case SegMove:
			flush()
			cur = []Point{seg.To}
		case SegVertical, SegHorizontal:
			cur = append(cur, seg.To)
		case SegQuad:
			if len(cur) == 0 {
				cur = []Point{seg.Ctrl}
			}
			from := cur[len(cur)-1]
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				mt := 1 - t
				cur = append(cur, Point{
					X: mt*mt*from.X + 2*mt*t*seg.Ctrl.X + t*t*seg.To.X,
					Y: mt*mt*from.Y + 2*mt*t*seg.Ctrl.Y + t*t*seg.To.Y,
				})
			}
		}
	}
	flush()
	return out
}

func writeNums(b *strings.Builder, nums ...float64) {
	for i, n := range nums {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatNum(n))
	}
}

// FormatNum formats a coordinate the way path data writes it: rounded to
// three decimals without trailing zeros.
func FormatNum(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stashIcon is a 24x24 crossed-circle icon in relative commands, drawn at
// half size from the top of the node.
const stashIcon = "c-5.53,0,-10,4.47,-10,10s4.47,10,10,10s10,-4.47,10,-10s-4.47,-10,-10,-10zm5,13.59l-1.41,1.41l-3.59,-3.59l-3.59,3.59l-1.41,-1.41l3.59,-3.59l-3.59,-3.59l1.41,-1.41l3.59,3.59l3.59,-3.59l1.41,1.41l-3.59,3.59l3.59,3.59z"

const stashOffset = 5

var stashMark = scalePathData(stashIcon, 0.5)

// scalePathData multiplies every number in relative path data by f.
func scalePathData(data string, f float64) string {
	var b strings.Builder
	for i := 0; i < len(data); {
		c := data[i]
		if (c < '0' || c > '9') && c != '.' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(data) && (data[j] >= '0' && data[j] <= '9' || data[j] == '.') {
			j++
		}
		v, err := strconv.ParseFloat(data[i:j], 64)
		if err != nil {
			b.WriteString(data[i:j])
		} else {
			b.WriteString(FormatNum(v * f))
		}
		i = j
	}
	return b.String()
}
