package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

const (
	charWidth   = 7.0
	labelPadX   = 4.0
	labelGap    = 6.0
	strokeWidth = 2
	fontFamily  = "monospace"
	fontSize    = 12
)

// SVGOptions configures the SVG document.
type SVGOptions struct {
	// Background fills the canvas when set.
	Background string
	// Text is the colour of commit summaries.
	Text string
}

// SVG writes the laid out graph, the label connectors and the labels as a
// standalone SVG document.
func SVG(w io.Writer, store *graph.Store, reg *refs.Registry, opts SVGOptions) error {
	if opts.Text == "" {
		opts.Text = "#333"
	}
	geom := store.Geometry()
	nodes := store.Commits()
	labelX := max(store.Width(), reg.Width()) + geom.LabelGap

	var body bytes.Buffer
	width := labelX
	body.WriteString(`  <g class="edges" fill="none">` + "\n")
	for _, n := range nodes {
		if !n.IsPlaced() {
			continue
		}
		if d := n.Path().EdgeData(); d != "" {
			fmt.Fprintf(&body, `    <path d="%s" stroke="%s" stroke-width="%d"/>`+"\n", d, n.Color(), strokeWidth)
		}
	}
	body.WriteString("  </g>\n")

	body.WriteString(`  <g class="links" fill="none">` + "\n")
	for _, l := range reg.Links() {
		fmt.Fprintf(&body, `    <path d="%s" stroke="%s" stroke-width="1"/>`+"\n", l.Data(), l.Color)
	}
	body.WriteString("  </g>\n")

	body.WriteString(`  <g class="glyphs">` + "\n")
	for _, n := range nodes {
		if !n.IsPlaced() {
			continue
		}
		fmt.Fprintf(&body, `    <path id="c-%s" d="%s" fill="%s"/>`+"\n", n.ID, n.Path().GlyphData(), n.Color())
	}
	body.WriteString("  </g>\n")

	fmt.Fprintf(&body, `  <g class="labels" font-family="%s" font-size="%d">`+"\n", fontFamily, fontSize)
	for _, n := range nodes {
		if !n.IsPlaced() {
			continue
		}
		labels, caption := layoutRow(reg, n, labelX, geom.RowHeight)
		for _, box := range labels {
			writeLabel(&body, box)
		}
		fmt.Fprintf(&body, `    <text x="%s" y="%s" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
			num(caption.X), num(caption.Y), opts.Text, escapeXML(caption.Text))
		width = max(width, caption.X+textWidth(caption.Text))
	}
	body.WriteString("  </g>\n")

	height := store.Height()
	if _, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(width), num(height), num(width), num(height)); err != nil {
		return err
	}
	if opts.Background != "" {
		if _, err := fmt.Fprintf(w, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", opts.Background); err != nil {
			return err
		}
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</svg>\n")
	return err
}

func writeLabel(buf *bytes.Buffer, box LabelBox) {
	weight := "normal"
	if box.Checkedout {
		weight = "bold"
	}
	fmt.Fprintf(buf, `    <g class="ref" data-ref="%s">`+"\n", escapeXML(box.Ref))
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="3" fill="none" stroke="%s"/>`+"\n",
		num(box.X), num(box.Y), num(box.W), num(box.H), box.Color)
	fmt.Fprintf(buf, `      <text x="%s" y="%s" dominant-baseline="middle" font-weight="%s" fill="%s">%s</text>`+"\n",
		num(box.X+labelPadX), num(box.Y+box.H/2), weight, box.Color, escapeXML(box.Text))
	buf.WriteString("    </g>\n")
}

func textWidth(s string) float64 {
	return float64(len([]rune(s))) * charWidth
}

func num(v float64) string {
	return graph.FormatNum(v)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
