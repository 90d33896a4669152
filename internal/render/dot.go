package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

// DOT converts the commit graph to Graphviz DOT. Commits sharing a lane are
// put in the same group so dot keeps them aligned, and references become
// plain boxes pointing at their commit.
func DOT(store *graph.Store, reg *refs.Registry) string {
	var buf bytes.Buffer
	buf.WriteString("digraph commits {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, label=\"\", width=0.2, fixedsize=true];\n")
	buf.WriteString("  edge [arrowhead=none, penwidth=2];\n")
	buf.WriteString("\n")

	nodes := store.Commits()
	for _, n := range nodes {
		attrs := []string{
			fmt.Sprintf("tooltip=%q", n.ShortID()+" "+n.DisplaySummary()),
			fmt.Sprintf("xlabel=%q", n.ShortID()),
		}
		if n.IsPlaced() {
			attrs = append(attrs,
				fmt.Sprintf("group=\"lane%d\"", n.Lane()),
				fmt.Sprintf("fillcolor=%q", n.Color()),
				fmt.Sprintf("color=%q", n.Color()),
			)
		}
		if n.IsStash {
			attrs = append(attrs, "shape=diamond")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, p := range n.ParentNodes() {
			color := p.Color()
			if p.Lane() != n.Lane() && n.IsPlaced() {
				color = n.Color()
			}
			fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", n.ID, p.ID, color)
		}
	}

	refList := reg.Refs()
	if len(refList) > 0 {
		buf.WriteString("\n")
	}
	for _, ref := range refList {
		id := "ref:" + ref.Name
		style := "rounded"
		if ref.Tag.Checkedout {
			style = "rounded,bold"
		}
		fmt.Fprintf(&buf, "  %q [shape=box, style=%q, fixedsize=false, width=0, label=%q, color=%q, fontcolor=%q];\n",
			id, style, ref.Tag.Text, ref.Tag.Color, ref.Tag.Color)
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, penwidth=1, color=%q];\n", id, ref.Commit.ID, ref.Tag.Color)
		fmt.Fprintf(&buf, "  {rank=same; %q; %q}\n", id, ref.Commit.ID)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT lays out a DOT graph with Graphviz and returns it as SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
