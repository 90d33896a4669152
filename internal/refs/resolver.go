package refs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

var (
	// ErrUnplaced means the target commit was not laid out in time.
	ErrUnplaced = errors.New("reference target not placed")
	// ErrSkipped is returned for names that are not attachable references,
	// such as bare type roots and unknown namespaces.
	ErrSkipped = errors.New("reference skipped")
)

const (
	DefaultPlacementTimeout = 30 * time.Second
	DefaultStashName        = "Stash"
)

// Store is the part of the commit store the resolver depends on.
type Store interface {
	Placed(ctx context.Context, id string) (*graph.Node, error)
	Width() float64
	Palette() graph.Palette
}

// Target names the commit a reference points at.
type Target struct {
	Name   string
	Commit string
}

// Unplaced reports a reference that could not be attached.
type Unplaced struct {
	Name   string
	Target string
	Err    error
}

type ResolverOption func(*Resolver)

func WithPlacementTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithStashName sets the label prefix of stash entries, e.g. "Stash 0".
func WithStashName(name string) ResolverOption {
	return func(r *Resolver) {
		if name != "" {
			r.stashName = name
		}
	}
}

func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// OnUnplaced is called for every reference whose target never got placed.
func OnUnplaced(fn func(Unplaced)) ResolverOption {
	return func(r *Resolver) { r.onUnplaced = fn }
}

// Resolver turns reference names into Refs once their commits are placed.
type Resolver struct {
	store      Store
	registry   *Registry
	timeout    time.Duration
	stashName  string
	log        *slog.Logger
	onUnplaced func(Unplaced)
}

func NewResolver(store Store, registry *Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:     store,
		registry:  registry,
		timeout:   DefaultPlacementTimeout,
		stashName: DefaultStashName,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Register waits until target is placed and attaches name to it. Registering
// a name twice returns the first Ref.
func (r *Resolver) Register(ctx context.Context, name, target string) (Ref, error) {
	typ, ok := Classify(name)
	if !ok || name == typ.Root() {
		return Ref{}, fmt.Errorf("%w: %s", ErrSkipped, name)
	}
	if ref, ok := r.registry.Lookup(name); ok {
		return ref, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	node, err := r.store.Placed(waitCtx, target)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, graph.ErrNotInStore) {
			level = slog.LevelDebug
		}
		err = fmt.Errorf("%w: %s at %s: %w", ErrUnplaced, name, target, err)
		r.log.Log(ctx, level, "reference not attached",
			slog.String("ref", name),
			slog.String("target", target),
			slog.Any("error", err),
		)
		if r.onUnplaced != nil {
			r.onUnplaced(Unplaced{Name: name, Target: target, Err: err})
		}
		return Ref{}, err
	}

	ref := r.newRef(name, typ, node)
	stored, added := r.registry.add(ref, r.store.Width())
	if added {
		r.log.Debug("reference attached",
			slog.String("ref", name),
			slog.String("commit", node.ShortID()),
			slog.Int("order", stored.Tag.Order),
		)
	}
	return stored, nil
}

func (r *Resolver) newRef(name string, typ Type, node *graph.Node) *Ref {
	display := name[strings.LastIndexByte(name, '/')+1:]
	side := strings.TrimPrefix(name, typ.Prefix())
	if node.IsStash {
		display = fmt.Sprintf("%s %d", r.stashName, node.StashID)
		side = node.DisplaySummary()
	}
	color := node.Color()
	if !typ.IsBranch() {
		color = r.store.Palette().TagColor()
	}
	return &Ref{
		Name:        name,
		Type:        typ,
		DisplayName: display,
		Commit:      node,
		Tag:         Label{Text: display, Color: color},
		Side:        Label{Text: side},
	}
}

// RegisterAll registers every target concurrently. Skipped and unplaced
// references do not fail the batch; only cancellation of ctx does.
func (r *Resolver) RegisterAll(ctx context.Context, targets []Target) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			if _, err := r.Register(gctx, t.Name, t.Commit); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	return g.Wait()
}

// StashName is the synthetic reference attached to stash entries.
func StashName(commitID string) string {
	return Stash.Prefix() + commitID
}
