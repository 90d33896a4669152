package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

const (
	dateLayout    = "2006-01-02 15:04"
	summaryLength = 60
	checkoutMark  = "*"
)

// LogOptions configures the commit table.
type LogOptions struct {
	// Limit caps the number of rows; zero prints every commit.
	Limit int
}

// Log writes one table row per commit with its lane glyphs and labels.
// Colours are only emitted when w is a terminal.
func Log(w io.Writer, store *graph.Store, reg *refs.Registry, opts LogOptions) error {
	nodes := store.Commits()
	if opts.Limit > 0 && len(nodes) > opts.Limit {
		nodes = nodes[:opts.Limit]
	}
	grid := NewGrid(nodes, store.Geometry())
	lip := lipgloss.NewRenderer(w)

	table := tablewriter.NewWriter(w)
	table.Header("Graph", "Commit", "Summary", "Author", "Date", "Refs")
	for i, n := range nodes {
		err := table.Append(
			styledRow(lip, grid.Rows[i]),
			n.ShortID(),
			truncate(n.DisplaySummary(), summaryLength),
			n.AuthorName,
			n.Date.Format(dateLayout),
			labelList(lip, reg.ForCommit(n.ID)),
		)
		if err != nil {
			return fmt.Errorf("append %s: %w", n.ShortID(), err)
		}
	}
	return table.Render()
}

// Refs writes the references grouped by type, the checked out one marked.
func Refs(w io.Writer, reg *refs.Registry) error {
	lip := lipgloss.NewRenderer(w)
	groups := reg.ByType()

	table := tablewriter.NewWriter(w)
	table.Header("Type", "Name", "Commit", "Summary")
	for _, typ := range refs.Types() {
		for _, ref := range groups[typ] {
			name := ref.Side.Text
			if ref.Side.Checkedout {
				name = checkoutMark + name
			}
			err := table.Append(
				typ.String(),
				lip.NewStyle().Foreground(lipgloss.Color(ref.Tag.Color)).Render(name),
				ref.Commit.ShortID(),
				truncate(ref.Commit.DisplaySummary(), summaryLength),
			)
			if err != nil {
				return fmt.Errorf("append %s: %w", ref.Name, err)
			}
		}
	}
	return table.Render()
}

func styledRow(lip *lipgloss.Renderer, cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if c.Color == "" || c.Rune == ' ' {
			b.WriteRune(c.Rune)
			continue
		}
		b.WriteString(lip.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(string(c.Rune)))
	}
	return strings.TrimRight(b.String(), " ")
}

func labelList(lip *lipgloss.Renderer, list []refs.Ref) string {
	names := make([]string, 0, len(list))
	for _, ref := range list {
		text := ref.Tag.Text
		style := lip.NewStyle().Foreground(lipgloss.Color(ref.Tag.Color))
		if ref.Tag.Checkedout {
			text = checkoutMark + text
			style = style.Bold(true)
		}
		names = append(names, style.Render(text))
	}
	return strings.Join(names, " ")
}

func truncate(s string, n int) string {
	if line, _, ok := strings.Cut(s, "\n"); ok {
		s = line
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
