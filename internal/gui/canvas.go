package gui

import (
	"log/slog"
	"strings"

	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/render"
	"github.com/thiagokokada/gitlanes/internal/session"

	. "modernc.org/tk9.0"
)

const (
	labelFont     = "TkFixedFont 9"
	labelBoldFont = "TkFixedFont 9 bold"
	captionFont   = "TkFixedFont 9"
	labelPadX     = 4
	scrollUnits   = 3
)

// scheduleRedraw coalesces redraw requests from any goroutine into one
// redraw on the Tk thread.
func (a *Controller) scheduleRedraw() {
	if !a.state.canvas.redrawPending.CompareAndSwap(false, true) {
		return
	}
	PostEvent(func() {
		a.state.canvas.redrawPending.Store(false)
		a.redraw()
	}, false)
}

func (a *Controller) current() *session.Generation {
	if a.session == nil {
		return nil
	}
	return a.session.Current()
}

func (a *Controller) redraw() {
	canvas := a.ui.canvas
	if canvas == nil {
		return
	}
	canvas.Delete("all")
	gen := a.current()
	if gen == nil {
		a.setScrollRegion(0, 0)
		return
	}
	sc := render.NewScene(gen.Store, gen.Registry, render.DefaultCurveSteps)
	a.drawSelection(gen, sc.Width)
	for _, l := range sc.Edges {
		drawPolyline(canvas, l)
	}
	for _, l := range sc.Links {
		drawPolyline(canvas, l)
	}
	for _, g := range sc.Glyphs {
		a.drawGlyph(g)
	}
	for _, box := range sc.Labels {
		a.drawLabel(box)
	}
	for _, c := range sc.Captions {
		canvas.CreateText(c.X, c.Y,
			Anchor(W),
			Txt(firstLine(c.Text)),
			Font(captionFont),
			Fill(a.palette.Text),
		)
	}
	a.setScrollRegion(sc.Width, sc.Height)
	a.updateStatus(gen)
}

func drawPolyline(canvas *CanvasWidget, l render.Line) {
	for i := 1; i < len(l.Points); i++ {
		p, q := l.Points[i-1], l.Points[i]
		canvas.CreateLine(p.X, p.Y, q.X, q.Y, Width(l.Width), Fill(l.Color))
	}
}

func (a *Controller) drawGlyph(g render.Glyph) {
	canvas := a.ui.canvas
	c, r := g.Center, g.Radius
	if !g.Stash {
		canvas.CreateOval(c.X-r, c.Y-r, c.X+r, c.Y+r,
			Fill(g.Color),
			Outline(g.Color),
			Width(1),
		)
		return
	}
	d := r + 1
	diamond := []graph.Point{
		{X: c.X, Y: c.Y - d},
		{X: c.X + d, Y: c.Y},
		{X: c.X, Y: c.Y + d},
		{X: c.X - d, Y: c.Y},
		{X: c.X, Y: c.Y - d},
	}
	drawPolyline(canvas, render.Line{Points: diamond, Color: g.Color, Width: 2})
}

func (a *Controller) drawLabel(box render.LabelBox) {
	canvas := a.ui.canvas
	canvas.CreateRectangle(box.X, box.Y, box.X+box.W, box.Y+box.H,
		Fill(a.palette.Background),
		Outline(box.Color),
		Width(1),
	)
	font := labelFont
	if box.Checkedout {
		font = labelBoldFont
	}
	canvas.CreateText(box.X+labelPadX, box.Y+box.H/2,
		Anchor(W),
		Txt(box.Text),
		Font(font),
		Fill(box.Color),
	)
}

func (a *Controller) drawSelection(gen *session.Generation, width float64) {
	row := a.state.selection.row(gen.Store.Commits())
	if row < 0 {
		return
	}
	h := gen.Store.Geometry().RowHeight
	y := float64(row) * h
	a.ui.canvas.CreateRectangle(0, y, width, y+h,
		Fill(a.palette.Selection),
		Width(0),
	)
}

func (a *Controller) setScrollRegion(w, h float64) {
	a.state.canvas.width, a.state.canvas.height = w, h
	if _, err := tkEval("%s configure -scrollregion {0 0 %s %s}",
		a.ui.canvas, graph.FormatNum(w), graph.FormatNum(h)); err != nil {
		slog.Error("canvas scrollregion", slog.Any("error", err))
	}
}

// canvasPoint converts window coordinates of an event to canvas coordinates.
func (a *Controller) canvasPoint(e *Event) graph.Point {
	return graph.Point{
		X: tkFloat(tkEvalOrEmpty("%s canvasx %v", a.ui.canvas, e.X)),
		Y: tkFloat(tkEvalOrEmpty("%s canvasy %v", a.ui.canvas, e.Y)),
	}
}

func (a *Controller) bindCanvas() {
	canvas := a.ui.canvas
	Bind(canvas, "<Button-1>", Command(func(e *Event) {
		a.onCanvasClick(a.canvasPoint(e))
	}))
	Bind(canvas, "<Double-Button-1>", Command(func(e *Event) {
		a.onCanvasDoubleClick(a.canvasPoint(e))
	}))
	Bind(canvas, "<Button-4>", Command(func() { a.scrollCanvas(-scrollUnits) }))
	Bind(canvas, "<Button-5>", Command(func() { a.scrollCanvas(scrollUnits) }))
	if _, err := tkEval("bind %s <MouseWheel> {%s yview scroll [expr {-%%D/120}] units}", canvas, canvas); err != nil {
		slog.Debug("canvas wheel binding", slog.Any("error", err))
	}
}

func (a *Controller) onCanvasClick(p graph.Point) {
	gen := a.current()
	if gen == nil {
		return
	}
	row := render.RowAt(gen.Store.Geometry(), p.Y)
	a.selectRow(gen, row)
}

// onCanvasDoubleClick checks out the reference whose label was hit.
func (a *Controller) onCanvasDoubleClick(p graph.Point) {
	gen := a.current()
	if gen == nil {
		return
	}
	sc := render.NewScene(gen.Store, gen.Registry, 1)
	box, ok := labelAt(sc.Labels, p)
	if !ok {
		return
	}
	a.checkoutRef(box.Ref)
}

// labelAt finds the label box containing p.
func labelAt(labels []render.LabelBox, p graph.Point) (render.LabelBox, bool) {
	for _, box := range labels {
		if p.X >= box.X && p.X <= box.X+box.W && p.Y >= box.Y && p.Y <= box.Y+box.H {
			return box, true
		}
	}
	return render.LabelBox{}, false
}

func (a *Controller) scrollCanvas(units int) {
	if a.ui.canvas == nil || units == 0 {
		return
	}
	if _, err := tkEval("%s yview scroll %d units", a.ui.canvas, units); err != nil {
		slog.Error("canvas scroll", slog.Any("error", err))
	}
}

// seeRow scrolls the canvas so row is visible.
func (a *Controller) seeRow(row int, rowHeight float64) {
	total := a.state.canvas.height
	if a.ui.canvas == nil || total <= 0 || row < 0 {
		return
	}
	fields := strings.Fields(tkEvalOrEmpty("%s yview", a.ui.canvas))
	if len(fields) < 2 {
		return
	}
	start, end := tkFloat(fields[0]), tkFloat(fields[1])
	top := float64(row) * rowHeight / total
	bottom := float64(row+1) * rowHeight / total
	if top >= start && bottom <= end {
		return
	}
	target := top
	if bottom > end {
		target = bottom - (end - start)
	}
	if _, err := tkEval("%s yview moveto %s", a.ui.canvas, graph.FormatNum(max(0, target))); err != nil {
		slog.Error("canvas see", slog.Any("error", err))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
