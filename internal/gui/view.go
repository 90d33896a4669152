package gui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

const (
	detailDateLayout = "2006-01-02 15:04:05 -0700"
	groupTag         = "group"
	checkoutTag      = "checkout"
)

// sideRow is one line of the reference list: a type heading or a reference.
type sideRow struct {
	ID     string
	Ref    string
	Text   string
	Commit string
	Group  bool
	Tags   []string
}

func groupTitle(t refs.Type) string {
	switch t {
	case refs.LocalBranch:
		return "Branches"
	case refs.Remote:
		return "Remotes"
	case refs.Tag:
		return "Tags"
	case refs.Stash:
		return "Stashes"
	}
	return "Other"
}

// buildSideRows lists the references grouped by type. Empty groups are left
// out.
func buildSideRows(reg *refs.Registry) []sideRow {
	if reg == nil {
		return nil
	}
	groups := reg.ByType()
	var rows []sideRow
	for _, t := range refs.Types() {
		list := groups[t]
		if len(list) == 0 {
			continue
		}
		rows = append(rows, sideRow{
			ID:    "group:" + t.SimpleName(),
			Text:  fmt.Sprintf("%s (%d)", groupTitle(t), len(list)),
			Group: true,
			Tags:  []string{groupTag},
		})
		for _, ref := range list {
			row := sideRow{
				ID:     "ref:" + strconv.Itoa(len(rows)),
				Ref:    ref.Name,
				Text:   "  " + ref.Side.Text,
				Commit: ref.Commit.ShortID(),
			}
			if ref.Side.Checkedout {
				row.Tags = []string{checkoutTag}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// commitDetails is the text of the details pane for n.
func commitDetails(n *graph.Node, labels []refs.Ref) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	kind := "Commit"
	if n.IsStash {
		kind = "Stash"
	}
	fmt.Fprintf(&b, "%s: %s\n", kind, n.ID)
	fmt.Fprintf(&b, "Author: %s <%s>\n", n.AuthorName, n.AuthorMail)
	if n.CommitterName != "" {
		fmt.Fprintf(&b, "Committer: %s <%s>\n", n.CommitterName, n.CommitterMail)
	}
	fmt.Fprintf(&b, "Date: %s\n", n.Date.Format(detailDateLayout))
	if len(n.Parents) > 0 {
		short := make([]string, len(n.Parents))
		for i, p := range n.Parents {
			short[i] = shortID(p)
		}
		fmt.Fprintf(&b, "Parents: %s\n", strings.Join(short, " "))
	}
	if len(labels) > 0 {
		names := make([]string, len(labels))
		for i, ref := range labels {
			names[i] = ref.Tag.Text
			if ref.Tag.Checkedout {
				names[i] = "*" + names[i]
			}
		}
		fmt.Fprintf(&b, "Refs: %s\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")
	b.WriteString(n.DisplaySummary())
	if desc := strings.TrimSpace(n.Description()); desc != "" {
		b.WriteString("\n\n")
		b.WriteString(desc)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

// dropTargets lists the references source can be dropped on, in side list
// order.
func dropTargets(reg *refs.Registry, source string) []refs.Ref {
	src, ok := reg.Lookup(source)
	if !ok {
		return nil
	}
	groups := reg.ByType()
	var out []refs.Ref
	for _, t := range src.Type.ApplicableTypes() {
		for _, ref := range groups[t] {
			if refs.Accepts(ref, src) {
				out = append(out, ref)
			}
		}
	}
	return out
}

func dropLabel(source, target refs.Ref) string {
	kind, _ := refs.Operation(source.Type, target.Type)
	word := strings.ToUpper(kind.String()[:1]) + kind.String()[1:]
	return fmt.Sprintf("%s %s into %s", word, source.DisplayName, target.DisplayName)
}

func statusSummary(repo string, commits, placed, labels, unplaced int) string {
	msg := fmt.Sprintf("%s: %d/%d commits laid out, %d references", repo, placed, commits, labels)
	if unplaced > 0 {
		msg += fmt.Sprintf(" (%d unattached)", unplaced)
	}
	return msg
}
