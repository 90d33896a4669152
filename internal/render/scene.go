package render

import (
	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

// DefaultCurveSteps is how finely curves are flattened for canvases that
// only draw straight lines.
const DefaultCurveSteps = 6

// Line is a polyline in one colour.
type Line struct {
	Points []graph.Point
	Color  string
	Width  float64
}

// Glyph is the marker of one commit.
type Glyph struct {
	CommitID string
	Center   graph.Point
	Radius   float64
	Color    string
	Stash    bool
}

// LabelBox is a reference tag with its measured box.
type LabelBox struct {
	Ref        string
	Text       string
	Color      string
	Checkedout bool
	X, Y, W, H float64
}

// Caption is the summary text of a commit row.
type Caption struct {
	CommitID string
	X, Y     float64
	Text     string
}

// Scene is a drawing of the store made of primitives any canvas can render.
type Scene struct {
	Width, Height float64
	Edges         []Line
	Links         []Line
	Glyphs        []Glyph
	Labels        []LabelBox
	Captions      []Caption
}

// NewScene flattens the placed nodes, their labels and the label connectors.
// Curves are sampled with steps points.
func NewScene(store *graph.Store, reg *refs.Registry, steps int) Scene {
	if steps <= 0 {
		steps = DefaultCurveSteps
	}
	geom := store.Geometry()
	sc := Scene{Height: store.Height()}
	labelX := max(store.Width(), reg.Width()) + geom.LabelGap
	sc.Width = labelX

	for _, n := range store.Commits() {
		if !n.IsPlaced() {
			continue
		}
		path := n.Path()
		for _, pts := range path.Polylines(steps) {
			sc.Edges = append(sc.Edges, Line{Points: pts, Color: n.Color(), Width: strokeWidth})
		}
		sc.Glyphs = append(sc.Glyphs, Glyph{
			CommitID: n.ID,
			Center:   path.Glyph.Center,
			Radius:   path.Glyph.Radius,
			Color:    n.Color(),
			Stash:    path.Glyph.Kind == graph.GlyphStash,
		})

		labels, caption := layoutRow(reg, n, labelX, geom.RowHeight)
		sc.Labels = append(sc.Labels, labels...)
		sc.Captions = append(sc.Captions, caption)
		sc.Width = max(sc.Width, caption.X+textWidth(caption.Text))
	}
	for _, l := range reg.Links() {
		sc.Links = append(sc.Links, Line{
			Points: []graph.Point{l.From, {X: l.ToX, Y: l.From.Y}},
			Color:  l.Color,
			Width:  1,
		})
	}
	return sc
}

// layoutRow places the tags of n left to right from its connector end and
// the summary after them.
func layoutRow(reg *refs.Registry, n *graph.Node, labelX, rowHeight float64) ([]LabelBox, Caption) {
	y := n.Position().Y
	x := labelX
	if l, ok := reg.Link(n.ID); ok {
		x = l.ToX
	}
	h := rowHeight - 8
	var boxes []LabelBox
	for _, ref := range reg.ForCommit(n.ID) {
		w := textWidth(ref.Tag.Text) + 2*labelPadX
		boxes = append(boxes, LabelBox{
			Ref:        ref.Name,
			Text:       ref.Tag.Text,
			Color:      ref.Tag.Color,
			Checkedout: ref.Tag.Checkedout,
			X:          x,
			Y:          y - h/2,
			W:          w,
			H:          h,
		})
		x += w + labelGap
	}
	return boxes, Caption{CommitID: n.ID, X: x, Y: y, Text: n.DisplaySummary()}
}

// RowAt maps a canvas y coordinate to a row index.
func RowAt(geom graph.Geometry, y float64) int {
	if y < 0 || geom.RowHeight <= 0 {
		return -1
	}
	return int(y / geom.RowHeight)
}
