package refs

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

// Label is one rendering of a reference: the inline tag next to the commit or
// the entry of the side list.
type Label struct {
	Text       string
	Color      string
	Order      int
	Checkedout bool
}

// Ref is a reference attached to a placed commit. Values returned by the
// Registry are snapshots.
type Ref struct {
	Name        string
	Type        Type
	DisplayName string
	Commit      *graph.Node
	Tag         Label
	Side        Label
}

// Link is the connector from a commit glyph to its first label.
type Link struct {
	CommitID string
	From     graph.Point
	ToX      float64
	Color    string
}

// Data renders the link as SVG path data.
func (l Link) Data() string {
	p := graph.Path{}
	p.Segments = []graph.Segment{
		{Kind: graph.SegMove, To: l.From},
		{Kind: graph.SegHorizontal, To: graph.Point{X: l.ToX, Y: l.From.Y}},
	}
	return p.EdgeData() + " Z"
}

// Registry holds the references of one store generation.
type Registry struct {
	mu sync.Mutex

	labelGap float64
	radius   float64
	checkout string
	width    float64

	refs   []*Ref
	byName map[string]*Ref
	links  map[string]*Link
}

// NewRegistry creates an empty registry. checkout is the fully qualified name
// of the checked out reference, if any.
func NewRegistry(geom graph.Geometry, checkout string) *Registry {
	return &Registry{
		labelGap: geom.LabelGap,
		radius:   geom.Radius,
		checkout: checkout,
		byName:   make(map[string]*Ref),
		links:    make(map[string]*Link),
	}
}

// add records ref unless a reference with the same name exists. It returns
// the stored value and whether it was added.
func (r *Registry) add(ref *Ref, width float64) (Ref, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byName[ref.Name]; ok {
		return *prev, false
	}
	checked := ref.Name == r.checkout
	for _, l := range []*Label{&ref.Tag, &ref.Side} {
		l.Checkedout = checked
		l.Order = ref.Type.Order()
		if checked {
			l.Order = 0
		}
	}
	r.refs = append(r.refs, ref)
	r.byName[ref.Name] = ref

	if width > r.width {
		r.width = width
	}
	id := ref.Commit.ID
	if _, ok := r.links[id]; !ok {
		pos := ref.Commit.Position()
		r.links[id] = &Link{
			CommitID: id,
			From:     graph.Point{X: pos.X + r.radius, Y: pos.Y},
			ToX:      r.width + r.labelGap,
			Color:    ref.Tag.Color,
		}
	}
	return *ref, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}

// Refs returns every reference in registration order.
func (r *Registry) Refs() []Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Ref, len(r.refs))
	for i, ref := range r.refs {
		out[i] = *ref
	}
	return out
}

func (r *Registry) Lookup(name string) (Ref, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.byName[name]
	if !ok {
		return Ref{}, false
	}
	return *ref, true
}

// ForCommit returns the labels of a commit sorted by their order.
func (r *Registry) ForCommit(id string) []Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Ref
	for _, ref := range r.refs {
		if ref.Commit.ID == id {
			out = append(out, *ref)
		}
	}
	slices.SortStableFunc(out, func(a, b Ref) int { return a.Tag.Order - b.Tag.Order })
	return out
}

// ByType groups references for the side list, each group sorted by name.
func (r *Registry) ByType() map[Type][]Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Type][]Ref)
	for _, ref := range r.refs {
		out[ref.Type] = append(out[ref.Type], *ref)
	}
	for _, list := range out {
		slices.SortFunc(list, func(a, b Ref) int { return strings.Compare(a.Side.Text, b.Side.Text) })
	}
	return out
}

// Checkout is the name of the checked out reference.
func (r *Registry) Checkout() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkout
}

// Checkedout returns the registered reference that is checked out.
func (r *Registry) Checkedout() (Ref, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.byName[r.checkout]
	if !ok {
		return Ref{}, false
	}
	return *ref, true
}

// SetCheckout moves the checkout indicator to name. Only the previous and the
// new reference change; both are returned when registered.
func (r *Registry) SetCheckout(name string) []Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == r.checkout {
		return nil
	}
	var changed []Ref
	if prev, ok := r.byName[r.checkout]; ok {
		setChecked(prev, false)
		changed = append(changed, *prev)
	}
	r.checkout = name
	if next, ok := r.byName[name]; ok {
		setChecked(next, true)
		changed = append(changed, *next)
	}
	return changed
}

func setChecked(ref *Ref, checked bool) {
	order := ref.Type.Order()
	if checked {
		order = 0
	}
	for _, l := range []*Label{&ref.Tag, &ref.Side} {
		l.Checkedout = checked
		l.Order = order
	}
}

// Link returns the connector of a commit with at least one label.
func (r *Registry) Link(commitID string) (Link, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[commitID]
	if !ok {
		return Link{}, false
	}
	return *l, true
}

// Links returns every connector, ordered by row.
func (r *Registry) Links() []Link {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Link, 0, len(r.links))
	for _, l := range r.links {
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b Link) int { return cmp.Compare(a.From.Y, b.From.Y) })
	return out
}

// Reflow moves every connector end to the new graph width. Narrower widths
// are ignored.
func (r *Registry) Reflow(width float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= r.width {
		return
	}
	r.width = width
	for _, l := range r.links {
		l.ToX = width + r.labelGap
	}
}

// Width is the graph width the links currently end at.
func (r *Registry) Width() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}
