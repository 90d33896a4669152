package graph

import (
	"slices"
	"strings"
	"time"
)

// Node is one commit or stash entry of a Store.
//
// Identity and commit metadata are immutable. Lane and path are owned by the
// store and are only reachable through the locking accessors below.
type Node struct {
	ID            string
	Summary       string
	Message       string
	AuthorName    string
	AuthorMail    string
	CommitterName string
	CommitterMail string
	Date          time.Time
	Parents       []string
	IsStash       bool
	StashID       int

	store *Store
	index int

	lane  int
	path  *Path
	color string
}

func newNode(raw RawCommit, s *Store) *Node {
	return &Node{
		ID:            raw.ID,
		Summary:       raw.Summary,
		Message:       raw.Message,
		AuthorName:    raw.AuthorName,
		AuthorMail:    raw.AuthorMail,
		CommitterName: raw.CommitterName,
		CommitterMail: raw.CommitterMail,
		Date:          raw.Date,
		Parents:       append([]string(nil), raw.Parents...),
		IsStash:       raw.IsStash,
		StashID:       raw.StashID,
		store:         s,
		index:         -1,
		lane:          -1,
	}
}

func (n *Node) ShortID() string {
	if len(n.ID) > 7 {
		return n.ID[:7]
	}
	return n.ID
}

// Description returns the commit message without its subject and the blank
// line that follows it.
func (n *Node) Description() string {
	lines := strings.Split(n.Message, "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.Join(lines[2:], "\n")
}

// DisplaySummary is the summary shown next to the node. Stash summaries look
// like "WIP on main: 1234567 subject" and only keep the part after the colon.
func (n *Node) DisplaySummary() string {
	if !n.IsStash {
		return n.Summary
	}
	_, rest, ok := strings.Cut(n.Summary, ":")
	if !ok {
		return ""
	}
	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// Index is the row of the node in store order.
func (n *Node) Index() int {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.index
}

// Lane returns the assigned lane or -1.
func (n *Node) Lane() int {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.lane
}

// Path returns the edge geometry, nil until the node has been placed.
func (n *Node) Path() *Path {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.path
}

func (n *Node) IsPlaced() bool {
	return n.Path() != nil
}

// Color is the stroke colour picked for the node's lane.
func (n *Node) Color() string {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.color
}

// Position is the centre of the node glyph.
func (n *Node) Position() Point {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.store.geometry.position(n.index, n.lane)
}

func (n *Node) IsBranchMerge() bool {
	return !n.IsStash && len(n.Parents) > 1
}

// IsBranchUpdate reports whether this merge brought a branch up to date: its
// second parent already has newer descendants, so the merge must not change
// existing lanes.
func (n *Node) IsBranchUpdate() bool {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.store.isBranchUpdateLocked(n)
}

// IsBranchHeadMerge reports whether a side branch ends in this merge.
func (n *Node) IsBranchHeadMerge() bool {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.store.isBranchHeadMergeLocked(n)
}

// IsBranchSplit reports whether history diverges at this node.
func (n *Node) IsBranchSplit() bool {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return len(n.store.children[n.ID]) > 1
}

// Children returns the nodes listing n as a parent, newest first.
func (n *Node) Children() []*Node {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.store.childrenLocked(n)
}

// ParentNodes resolves the parent ids, dropping unknown ids and stash entries.
func (n *Node) ParentNodes() []*Node {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.store.parentsLocked(n)
}

// Siblings returns the other children of n's parents.
func (n *Node) Siblings() []*Node {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	seen := map[*Node]struct{}{n: {}}
	var out []*Node
	for _, p := range n.store.parentsLocked(n) {
		for _, c := range n.store.childrenLocked(p) {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Newer returns the node right before n in store order.
func (n *Node) Newer() *Node {
	return n.neighbor(-1)
}

// Older returns the node right after n in store order.
func (n *Node) Older() *Node {
	return n.neighbor(+1)
}

func (n *Node) neighbor(rel int) *Node {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	return n.store.neighborLocked(n, rel)
}

// newerFirst orders nodes by date descending, then id ascending.
func newerFirst(a, b *Node) int {
	switch {
	case a.Date.After(b.Date):
		return -1
	case a.Date.Before(b.Date):
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// childrenFirst reorders every run of equal dates in a newerFirst-sorted
// batch so that a commit comes before its parents. Ids break the remaining
// ties.
func childrenFirst(batch []*Node) {
	for start := 0; start < len(batch); {
		end := start + 1
		for end < len(batch) && batch[end].Date.Equal(batch[start].Date) {
			end++
		}
		if end-start > 1 {
			topoSort(batch[start:end])
		}
		start = end
	}
}

func topoSort(run []*Node) {
	inRun := make(map[string]bool, len(run))
	for _, n := range run {
		inRun[n.ID] = true
	}
	// waiting counts the children of a node that are still to be emitted.
	waiting := make(map[string]int, len(run))
	for _, n := range run {
		for _, pid := range n.Parents {
			if inRun[pid] && pid != n.ID {
				waiting[pid]++
			}
		}
	}
	left := slices.Clone(run)
	out := make([]*Node, 0, len(run))
	for len(left) > 0 {
		i := slices.IndexFunc(left, func(n *Node) bool { return waiting[n.ID] <= 0 })
		if i < 0 {
			// Cycles cannot happen in git history; keep id order.
			i = 0
		}
		n := left[i]
		left = slices.Delete(left, i, i+1)
		out = append(out, n)
		for _, pid := range n.Parents {
			if inRun[pid] && pid != n.ID {
				waiting[pid]--
			}
		}
	}
	copy(run, out)
}
