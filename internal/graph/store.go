package graph

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thiagokokada/gitlanes/internal/lane"
)

var (
	// ErrStoreClosed is returned by Placed once the store generation has been
	// discarded.
	ErrStoreClosed = errors.New("graph: store closed")
	// ErrNotInStore is returned by Placed on a sealed store for ids it does
	// not hold.
	ErrNotInStore = errors.New("graph: commit not in store")
)

// DefaultTick is the delay between two layout steps of the scheduler.
const DefaultTick = time.Millisecond

type Option func(*Store)

// WithTick sets the scheduler delay. A zero or negative tick places queued
// nodes back to back.
func WithTick(d time.Duration) Option {
	return func(s *Store) { s.tick = d }
}

func WithGeometry(g Geometry) Option {
	return func(s *Store) { s.geometry = g.withDefaults() }
}

func WithPalette(p Palette) Option {
	return func(s *Store) { s.palette = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store is one generation of the commit graph. Clearing the view discards the
// whole store; nodes are never removed one by one.
type Store struct {
	mu sync.Mutex

	generation string
	tick       time.Duration
	geometry   Geometry
	palette    Palette
	log        *slog.Logger

	nodes    []*Node
	byID     map[string]*Node
	children map[string][]*Node
	lanes    *lane.Allocator
	width    float64

	queue   []*Node
	running bool
	futures map[string]chan struct{}

	onPlaced []func(*Node)
	onWiden  []func(old, new float64)

	err    error
	sealed bool
	closed bool
	done   chan struct{}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		generation: uuid.NewString(),
		tick:       DefaultTick,
		geometry:   DefaultGeometry(),
		palette:    DefaultPalette(false),
		log:        slog.Default(),
		byID:       make(map[string]*Node),
		children:   make(map[string][]*Node),
		lanes:      lane.New(),
		futures:    make(map[string]chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("generation", s.generation))
	return s
}

// Generation identifies this store instance.
func (s *Store) Generation() string {
	return s.generation
}

func (s *Store) Geometry() Geometry {
	return s.geometry
}

func (s *Store) Palette() Palette {
	return s.palette
}

// Width is the horizontal extent of the lanes placed so far.
func (s *Store) Width() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Height is the vertical extent of all rows in the store.
func (s *Store) Height() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(len(s.nodes)) * s.geometry.RowHeight
}

// OnPlaced registers fn to run after each node is laid out.
func (s *Store) OnPlaced(fn func(*Node)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPlaced = append(s.onPlaced, fn)
}

// OnWiden registers fn to run when a new lane grows the graph width.
func (s *Store) OnWiden(fn func(old, new float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWiden = append(s.onWiden, fn)
}

// AddAll appends the commits that are not in the store yet and queues them
// for layout. The new nodes are sorted newest first and returned in that
// order; commits sharing a date keep their children ahead of them.
func (s *Store) AddAll(raws ...RawCommit) []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	batch := make([]*Node, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		if raw.ID == "" {
			continue
		}
		if _, ok := s.byID[raw.ID]; ok {
			continue
		}
		if _, ok := seen[raw.ID]; ok {
			continue
		}
		seen[raw.ID] = struct{}{}
		batch = append(batch, newNode(raw, s))
	}
	if len(batch) == 0 {
		return nil
	}
	slices.SortStableFunc(batch, newerFirst)
	childrenFirst(batch)

	for _, n := range batch {
		n.index = len(s.nodes)
		s.nodes = append(s.nodes, n)
		s.byID[n.ID] = n
		for _, pid := range n.Parents {
			s.children[pid] = append(s.children[pid], n)
		}
	}
	s.queue = append(s.queue, batch...)
	s.log.Debug("queued commits for layout",
		slog.Int("added", len(batch)),
		slog.Int("total", len(s.nodes)),
	)

	if !s.running && s.err == nil {
		s.running = true
		go s.run()
	}
	return batch
}

// Commit looks a node up by id.
func (s *Store) Commit(id string) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

// Commits returns a snapshot of all nodes in store order.
func (s *Store) Commits() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.nodes)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Lanes returns the lanes currently in use.
func (s *Store) Lanes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lanes.Allocated()
}

// Err returns the layout fault, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Pending is the number of nodes waiting for layout.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Placed waits until the node with the given id has been laid out. The id
// does not need to be in the store yet.
func (s *Store) Placed(ctx context.Context, id string) (*Node, error) {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return nil, err
	}
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	n := s.byID[id]
	if n != nil && n.path != nil {
		s.mu.Unlock()
		return n, nil
	}
	if n == nil && s.sealed {
		s.mu.Unlock()
		return nil, ErrNotInStore
	}
	ch := s.futureLocked(id)
	s.mu.Unlock()

	select {
	case <-ch:
		s.mu.Lock()
		defer s.mu.Unlock()
		if n := s.byID[id]; n != nil {
			return n, nil
		}
		return nil, ErrNotInStore
	case <-s.done:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.err != nil {
			return nil, s.err
		}
		return nil, ErrStoreClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) futureLocked(id string) chan struct{} {
	ch, ok := s.futures[id]
	if !ok {
		ch = make(chan struct{})
		s.futures[id] = ch
	}
	return ch
}

// Seal marks the store as holding every commit of its generation. Waiters on
// ids that are not in the store fail with ErrNotInStore instead of waiting
// for a commit that will never be added.
func (s *Store) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	s.sealed = true
	for id, ch := range s.futures {
		if s.byID[id] == nil {
			close(ch)
			delete(s.futures, id)
		}
	}
}

// Flush places every queued node on the calling goroutine.
func (s *Store) Flush() error {
	for {
		more, err := s.step(false)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Close discards the generation. Pending placements fail with ErrStoreClosed
// and the scheduler stops.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
	s.log.Debug("store closed", slog.Int("nodes", len(s.nodes)))
}

func (s *Store) run() {
	var tick <-chan time.Time
	if s.tick > 0 {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		if tick != nil {
			select {
			case <-tick:
			case <-s.done:
				return
			}
		} else {
			select {
			case <-s.done:
				return
			default:
			}
		}
		more, err := s.step(true)
		if err != nil {
			s.log.Error("layout stopped", slog.Any("error", err))
			return
		}
		if !more {
			return
		}
	}
}

type widenEvent struct {
	old, new float64
}

// step places the next queued node and reports whether more are waiting.
// The scheduler passes owner so that it can hand the running flag back.
func (s *Store) step(owner bool) (bool, error) {
	s.mu.Lock()
	if s.err != nil {
		if owner {
			s.running = false
		}
		err := s.err
		s.mu.Unlock()
		return false, err
	}
	if len(s.queue) == 0 || s.closed {
		if owner {
			s.running = false
		}
		s.mu.Unlock()
		return false, nil
	}
	n := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]

	widen, err := s.placeLocked(n)
	if err != nil {
		s.faultLocked(err)
		if owner {
			s.running = false
		}
		s.mu.Unlock()
		return false, err
	}
	if ch, ok := s.futures[n.ID]; ok {
		close(ch)
		delete(s.futures, n.ID)
	}
	more := len(s.queue) > 0
	if !more && owner {
		s.running = false
	}
	placed := slices.Clone(s.onPlaced)
	widened := slices.Clone(s.onWiden)
	s.mu.Unlock()

	if widen != nil {
		for _, fn := range widened {
			fn(widen.old, widen.new)
		}
	}
	for _, fn := range placed {
		fn(n)
	}
	return more, nil
}

func (s *Store) faultLocked(err error) {
	s.err = err
	s.queue = nil
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

func (s *Store) childrenLocked(n *Node) []*Node {
	out := slices.Clone(s.children[n.ID])
	slices.SortStableFunc(out, newerFirst)
	return out
}

func (s *Store) parentsLocked(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Parents))
	for _, id := range n.Parents {
		p := s.byID[id]
		if p == nil || p.IsStash {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Store) neighborLocked(n *Node, rel int) *Node {
	i := n.index + rel
	if n.index < 0 || i < 0 || i >= len(s.nodes) {
		return nil
	}
	return s.nodes[i]
}

func (s *Store) isBranchUpdateLocked(n *Node) bool {
	if !n.IsBranchMerge() {
		return false
	}
	parents := s.parentsLocked(n)
	if len(parents) < 2 {
		return false
	}
	for _, c := range s.children[parents[1].ID] {
		if c.Date.After(n.Date) {
			return true
		}
	}
	return false
}

func (s *Store) isBranchHeadMergeLocked(n *Node) bool {
	return n.IsBranchMerge() && !s.isBranchUpdateLocked(n)
}
