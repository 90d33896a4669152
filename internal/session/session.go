// Package session ties a repository to the generation of graph state that is
// currently displayed. Loading creates a new Store, Registry and Resolver;
// clearing discards them as a whole.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

// ErrNotLoaded is returned by operations that need a loaded repository.
var ErrNotLoaded = errors.New("no repository loaded")

// Repository is the collaborator that reads and changes the repository.
type Repository interface {
	ListCommitsAndStashes(ctx context.Context, glob string) ([]graph.RawCommit, error)
	ListReferences(ctx context.Context) ([]git.RefTarget, error)
	HeadName(ctx context.Context) (string, error)
	Checkout(ctx context.Context, refName string) error
	PerformRefOperation(ctx context.Context, kind refs.OpKind, from, to string) error
}

type Options struct {
	Glob             string
	Tick             time.Duration
	PlacementTimeout time.Duration
	Geometry         graph.Geometry
	Palette          graph.Palette
	StashName        string
	Logger           *slog.Logger
}

type Session struct {
	repo Repository
	opts Options
	log  *slog.Logger

	mu     sync.Mutex
	gen    *Generation
	onLoad []func(*Generation)
}

func New(repo Repository, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Geometry == (graph.Geometry{}) {
		opts.Geometry = graph.DefaultGeometry()
	}
	if opts.Palette.Lanes == nil {
		opts.Palette = graph.DefaultPalette(false)
	}
	return &Session{repo: repo, opts: opts, log: log}
}

// OnLoad registers fn to run with every new generation, before its
// references are resolved.
func (s *Session) OnLoad(fn func(*Generation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLoad = append(s.onLoad, fn)
}

// Current returns the loaded generation or nil.
func (s *Session) Current() *Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Load reads the repository and starts laying it out. Any previous
// generation is cleared first. Commits, references and the checkout are read
// concurrently.
func (s *Session) Load(ctx context.Context) (*Generation, error) {
	s.Clear()

	var (
		commits []graph.RawCommit
		targets []git.RefTarget
		head    string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		commits, err = s.repo.ListCommitsAndStashes(gctx, s.opts.Glob)
		return err
	})
	g.Go(func() (err error) {
		targets, err = s.repo.ListReferences(gctx)
		return err
	})
	g.Go(func() (err error) {
		head, err = s.repo.HeadName(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load repository: %w", err)
	}

	gen := s.newGeneration(head)
	s.mu.Lock()
	s.gen = gen
	hooks := append([]func(*Generation){}, s.onLoad...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(gen)
	}

	nodes := gen.Store.AddAll(commits...)
	// A load adds the whole history at once; references outside it, such as
	// those excluded by the glob, fail right away instead of timing out.
	gen.Store.Seal()
	resolve := make([]refs.Target, 0, len(targets)+len(nodes))
	for _, t := range targets {
		resolve = append(resolve, refs.Target{Name: t.Name, Commit: t.Hash})
	}
	for _, n := range nodes {
		if n.IsStash {
			resolve = append(resolve, refs.Target{Name: refs.StashName(n.ID), Commit: n.ID})
		}
	}
	go gen.resolve(resolve)

	s.log.Info("repository loaded",
		slog.String("generation", gen.Store.Generation()),
		slog.Int("commits", len(nodes)),
		slog.Int("refs", len(resolve)),
		slog.String("head", head),
	)
	return gen, nil
}

// Reload clears the session and loads it again.
func (s *Session) Reload(ctx context.Context) (*Generation, error) {
	return s.Load(ctx)
}

// Clear discards the current generation. Pending placements and reference
// registrations are cancelled.
func (s *Session) Clear() {
	s.mu.Lock()
	gen := s.gen
	s.gen = nil
	s.mu.Unlock()
	if gen != nil {
		gen.close()
		s.log.Debug("generation cleared", slog.String("generation", gen.Store.Generation()))
	}
}

// Checkout checks out refName and moves the checkout indicator. It returns the
// references whose labels changed.
func (s *Session) Checkout(ctx context.Context, refName string) ([]refs.Ref, error) {
	if err := s.repo.Checkout(ctx, refName); err != nil {
		return nil, err
	}
	gen := s.Current()
	if gen == nil {
		return nil, nil
	}
	return gen.Registry.SetCheckout(refName), nil
}

// Drop performs the operation of dropping source on target.
func (s *Session) Drop(ctx context.Context, source, target string) error {
	return refs.Drop(ctx, s.repo, source, target)
}

func (s *Session) newGeneration(head string) *Generation {
	store := graph.NewStore(
		graph.WithTick(s.opts.Tick),
		graph.WithGeometry(s.opts.Geometry),
		graph.WithPalette(s.opts.Palette),
		graph.WithLogger(s.log),
	)
	gen := &Generation{
		Store:    store,
		Registry: refs.NewRegistry(store.Geometry(), head),
		resolved: make(chan struct{}),
	}
	gen.ctx, gen.cancel = context.WithCancel(context.Background())
	gen.Resolver = refs.NewResolver(store, gen.Registry,
		refs.WithPlacementTimeout(s.opts.PlacementTimeout),
		refs.WithStashName(s.opts.StashName),
		refs.WithLogger(s.log),
		refs.OnUnplaced(gen.addUnplaced),
	)
	store.OnWiden(func(_, width float64) {
		gen.Registry.Reflow(width)
	})
	return gen
}

// Generation is one load of the repository.
type Generation struct {
	Store    *graph.Store
	Registry *refs.Registry
	Resolver *refs.Resolver

	ctx      context.Context
	cancel   context.CancelFunc
	resolved chan struct{}

	mu       sync.Mutex
	unplaced []refs.Unplaced
}

func (g *Generation) resolve(targets []refs.Target) {
	defer close(g.resolved)
	if err := g.Resolver.RegisterAll(g.ctx, targets); err != nil {
		slog.Debug("reference resolution stopped", slog.Any("error", err))
	}
}

func (g *Generation) addUnplaced(u refs.Unplaced) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unplaced = append(g.unplaced, u)
}

// Unplaced lists the references that could not be attached.
func (g *Generation) Unplaced() []refs.Unplaced {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]refs.Unplaced(nil), g.unplaced...)
}

// Resolved is closed once every reference was attached or given up on.
func (g *Generation) Resolved() <-chan struct{} {
	return g.resolved
}

// Settle lays out every queued commit on the calling goroutine and waits
// for the references. Batch renderers call it before drawing.
func (g *Generation) Settle(ctx context.Context) error {
	if err := g.Store.Flush(); err != nil {
		return err
	}
	select {
	case <-g.resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Generation) close() {
	g.cancel()
	g.Store.Close()
}
